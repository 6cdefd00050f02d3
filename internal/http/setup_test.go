package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booksharing/internal/attachments"
	"github.com/mrlokans/booksharing/internal/audit"
	"github.com/mrlokans/booksharing/internal/database"
	auditrepo "github.com/mrlokans/booksharing/internal/database/audit"
	"github.com/mrlokans/booksharing/internal/database/authors"
	"github.com/mrlokans/booksharing/internal/database/books"
	"github.com/mrlokans/booksharing/internal/database/tags"
	"github.com/mrlokans/booksharing/internal/database/videos"
	"github.com/mrlokans/booksharing/internal/services"
	"github.com/mrlokans/booksharing/internal/storage/providers/local"
)

type testServer struct {
	router *gin.Engine
	db     *database.Database
	store  *local.Client
	audit  *audit.Service
	videos *videos.Repository
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	db, err := database.NewDatabase(filepath.Join(dir, "catalog.db"), database.WithLogLevel(logger.Silent))
	require.NoError(t, err)

	store, err := local.NewClient(filepath.Join(dir, "media"))
	require.NoError(t, err)

	auditService := audit.NewService(auditrepo.NewRepository(db.DB), true)
	t.Cleanup(func() {
		auditService.Wait()
		db.Close()
	})

	files := attachments.NewManager(store, auditService)
	authorRepo := authors.NewRepository(db.DB)
	tagRepo := tags.NewRepository(db.DB)
	videoRepo := videos.NewRepository(db.DB)

	router := NewRouter(RouterConfig{
		Books:    services.NewBookService(books.NewRepository(db.DB), authorRepo, tagRepo, files, auditService),
		Authors:  services.NewAuthorService(authorRepo, files, auditService),
		Tags:     services.NewTagService(tagRepo, auditService),
		Videos:   services.NewVideoService(videoRepo, files),
		Media:    files,
		Audit:    auditService,
		Database: db,
		Storage:  files,
		Version:  "test",
	})

	return &testServer{router: router, db: db, store: store, audit: auditService, videos: videoRepo}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

// upload describes a multipart file part.
type upload struct {
	field    string
	filename string
	content  []byte
}

func (s *testServer) doMultipart(t *testing.T, method, path string, fields map[string][]string, file *upload) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	if file != nil {
		part, err := mw.CreateFormFile(file.field, file.filename)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req)
}

func (s *testServer) createAuthor(t *testing.T, name string) uint {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, "/api/authors", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[authorView](t, w).ID
}

func (s *testServer) createTag(t *testing.T, name string) uint {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, "/api/tags", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[tagView](t, w).ID
}

func (s *testServer) createBook(t *testing.T, body map[string]any) bookWriteView {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, "/api/books", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[bookWriteView](t, w)
}

func (s *testServer) createBookWithPDF(t *testing.T, title string, authorID uint, content []byte) bookWriteView {
	t.Helper()
	w := s.doMultipart(t, http.MethodPost, "/api/books", map[string][]string{
		"title":  {title},
		"author": {strconv.FormatUint(uint64(authorID), 10)},
	}, &upload{field: "pdf_file", filename: "book.pdf", content: content})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[bookWriteView](t, w)
}

func (s *testServer) exists(t *testing.T, key string) bool {
	t.Helper()
	ok, err := s.store.Exists(context.Background(), key)
	require.NoError(t, err)
	return ok
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func idPath(prefix string, id uint, suffix string) string {
	return prefix + "/" + strconv.FormatUint(uint64(id), 10) + suffix
}
