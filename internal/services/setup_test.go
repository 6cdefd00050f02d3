package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booksharing/internal/apperrors"
	"github.com/mrlokans/booksharing/internal/attachments"
	"github.com/mrlokans/booksharing/internal/database"
	"github.com/mrlokans/booksharing/internal/database/authors"
	"github.com/mrlokans/booksharing/internal/database/books"
	"github.com/mrlokans/booksharing/internal/database/tags"
	"github.com/mrlokans/booksharing/internal/database/videos"
	"github.com/mrlokans/booksharing/internal/storage/providers/local"
)

type deletion struct {
	entityType string
	entityID   uint
	name       string
}

type mockAuditor struct {
	mu        sync.Mutex
	deletions []deletion
}

func (m *mockAuditor) LogDelete(entityType string, entityID uint, entityName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletions = append(m.deletions, deletion{entityType, entityID, entityName})
}

type testEnv struct {
	db      *gorm.DB
	store   *local.Client
	files   *attachments.Manager
	auditor *mockAuditor
	books   *BookService
	authors *AuthorService
	tags    *TagService
	videos  *VideoService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	db, err := database.NewDatabase(filepath.Join(dir, "catalog.db"), database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := local.NewClient(filepath.Join(dir, "media"))
	require.NoError(t, err)

	files := attachments.NewManager(store, nil)
	auditor := &mockAuditor{}
	authorRepo := authors.NewRepository(db.DB)
	tagRepo := tags.NewRepository(db.DB)

	return &testEnv{
		db:      db.DB,
		store:   store,
		files:   files,
		auditor: auditor,
		books:   NewBookService(books.NewRepository(db.DB), authorRepo, tagRepo, files, auditor),
		authors: NewAuthorService(authorRepo, files, auditor),
		tags:    NewTagService(tagRepo, auditor),
		videos:  NewVideoService(videos.NewRepository(db.DB), files),
	}
}

func (e *testEnv) exists(t *testing.T, key string) bool {
	t.Helper()
	ok, err := e.store.Exists(context.Background(), key)
	require.NoError(t, err)
	return ok
}

func validationDetails(t *testing.T, err error) any {
	t.Helper()
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr), "expected *apperrors.Error, got %T: %v", err, err)
	require.Equal(t, apperrors.CodeValidation, appErr.Code)
	return appErr.Details
}
