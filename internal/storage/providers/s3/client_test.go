package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booksharing/internal/storage"
)

// mockAPI serves objects from an in-memory map.
type mockAPI struct {
	objects map[string][]byte
	deleted []string
	headErr error
}

func newMockAPI() *mockAPI {
	return &mockAPI{objects: make(map[string][]byte)}
}

func (m *mockAPI) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockAPI) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if m.headErr != nil {
		return nil, m.headErr
	}
	data, ok := m.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	}
	now := time.Now()
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data))), LastModified: &now}, nil
}

func (m *mockAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	key := aws.ToString(in.Key)
	m.deleted = append(m.deleted, key)
	delete(m.objects, key)
	return &s3.DeleteObjectOutput{}, nil
}

func (m *mockAPI) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func (m *mockAPI) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	for key, data := range m.objects {
		if len(key) >= len(aws.ToString(in.Prefix)) && key[:len(aws.ToString(in.Prefix))] == aws.ToString(in.Prefix) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key), Size: aws.Int64(int64(len(data)))})
		}
	}
	return out, nil
}

func newTestClient(api *mockAPI, prefix string) *Client {
	return &Client{api: api, bucket: "media", prefix: prefix}
}

func TestNewClient_RequiresBucket(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.Error(t, err)
}

func TestClient_DownloadMissingMapsToErrNotExist(t *testing.T) {
	client := newTestClient(newMockAPI(), "")

	_, err := client.Download(context.Background(), "books/pdfs/missing.pdf")

	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestClient_DownloadWithPrefix(t *testing.T) {
	api := newMockAPI()
	api.objects["catalog/books/pdfs/a.pdf"] = []byte("pdf")
	client := newTestClient(api, "catalog")

	r, err := client.Download(context.Background(), "books/pdfs/a.pdf")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(data))
}

func TestClient_DeleteMissing(t *testing.T) {
	api := newMockAPI()
	client := newTestClient(api, "")

	err := client.Delete(context.Background(), "books/pdfs/missing.pdf")

	assert.ErrorIs(t, err, storage.ErrNotExist)
	assert.Empty(t, api.deleted)
}

func TestClient_DeleteExisting(t *testing.T) {
	api := newMockAPI()
	api.objects["books/pdfs/a.pdf"] = []byte("pdf")
	client := newTestClient(api, "")

	require.NoError(t, client.Delete(context.Background(), "books/pdfs/a.pdf"))
	assert.Equal(t, []string{"books/pdfs/a.pdf"}, api.deleted)
}

func TestClient_ExistsPropagatesOtherErrors(t *testing.T) {
	api := newMockAPI()
	api.headErr = errors.New("connection reset")
	client := newTestClient(api, "")

	_, err := client.Exists(context.Background(), "books/pdfs/a.pdf")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotExist)
}

func TestClient_ListStripsPrefix(t *testing.T) {
	api := newMockAPI()
	api.objects["catalog/books/pdfs/a.pdf"] = []byte("a")
	api.objects["catalog/videos/b.mp4"] = []byte("bb")
	api.objects["other/c.pdf"] = []byte("c")
	client := newTestClient(api, "catalog")

	files, err := client.List(context.Background(), "books/")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "books/pdfs/a.pdf", files[0].Key)
	assert.Equal(t, int64(1), files[0].Size)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&types.NoSuchKey{}))
	assert.True(t, isNotFound(&types.NotFound{}))
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("boom")))
}
