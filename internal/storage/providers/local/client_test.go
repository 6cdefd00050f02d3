package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booksharing/internal/storage"
)

func setupClient(t *testing.T) (*Client, string) {
	dir := t.TempDir()
	client, err := NewClient(dir)
	require.NoError(t, err)
	return client, dir
}

func TestClient_UploadAndDownload(t *testing.T) {
	client, dir := setupClient(t)
	ctx := context.Background()

	err := client.Upload(ctx, "books/pdfs/dune.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "books", "pdfs", "dune.pdf"))
	require.NoError(t, err)

	r, err := client.Download(ctx, "books/pdfs/dune.pdf")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestClient_UploadReplacesExisting(t *testing.T) {
	client, _ := setupClient(t)
	ctx := context.Background()

	require.NoError(t, client.Upload(ctx, "videos/a.mp4", strings.NewReader("first")))
	require.NoError(t, client.Upload(ctx, "videos/a.mp4", strings.NewReader("second")))

	info, err := client.GetMetadata(ctx, "videos/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(len("second")), info.Size)
}

func TestClient_DownloadMissing(t *testing.T) {
	client, _ := setupClient(t)

	_, err := client.Download(context.Background(), "books/pdfs/missing.pdf")

	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestClient_DownloadDirectory(t *testing.T) {
	client, _ := setupClient(t)
	ctx := context.Background()
	require.NoError(t, client.Upload(ctx, "books/pdfs/dune.pdf", strings.NewReader("x")))

	_, err := client.Download(ctx, "books/pdfs")

	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestClient_Delete(t *testing.T) {
	client, dir := setupClient(t)
	ctx := context.Background()
	require.NoError(t, client.Upload(ctx, "books/pdfs/dune.pdf", strings.NewReader("x")))

	require.NoError(t, client.Delete(ctx, "books/pdfs/dune.pdf"))

	exists, err := client.Exists(ctx, "books/pdfs/dune.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	// Empty parent directories are pruned, the root is kept.
	_, err = os.Stat(filepath.Join(dir, "books"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dir)
	assert.NoError(t, err)

	assert.ErrorIs(t, client.Delete(ctx, "books/pdfs/dune.pdf"), storage.ErrNotExist)
}

func TestClient_RejectsEscapingKeys(t *testing.T) {
	client, _ := setupClient(t)
	ctx := context.Background()

	assert.Error(t, client.Upload(ctx, "../outside.pdf", strings.NewReader("x")))
	_, err := client.Download(ctx, "/etc/passwd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotExist)
}

func TestClient_List(t *testing.T) {
	client, _ := setupClient(t)
	ctx := context.Background()
	require.NoError(t, client.Upload(ctx, "books/pdfs/a.pdf", strings.NewReader("a")))
	require.NoError(t, client.Upload(ctx, "books/pdfs/b.pdf", strings.NewReader("bb")))
	require.NoError(t, client.Upload(ctx, "videos/c.mp4", strings.NewReader("ccc")))

	all, err := client.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pdfs, err := client.List(ctx, "books/pdfs/")
	require.NoError(t, err)
	require.Len(t, pdfs, 2)
	keys := []string{pdfs[0].Key, pdfs[1].Key}
	assert.ElementsMatch(t, []string{"books/pdfs/a.pdf", "books/pdfs/b.pdf"}, keys)
}

func TestClient_ExistsIgnoresDirectories(t *testing.T) {
	client, _ := setupClient(t)
	ctx := context.Background()
	require.NoError(t, client.Upload(ctx, "books/pdfs/a.pdf", strings.NewReader("a")))

	exists, err := client.Exists(ctx, "books/pdfs")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClient_Ping(t *testing.T) {
	client, dir := setupClient(t)
	assert.NoError(t, client.Ping(context.Background()))

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewClient_RequiresBaseDir(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}
