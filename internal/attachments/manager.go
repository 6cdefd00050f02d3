// Package attachments ties stored files to the records that reference them.
//
// Callers store an upload before writing the record, then remove or replace
// the previous file only after the database write has committed:
//
//	key, err := mgr.Store(ctx, attachments.KindBookPDF, header.Filename, file)
//	previous, err := repo.UpdateBook(...)
//	if err != nil {
//	    mgr.Remove(ctx, key)
//	    return err
//	}
//	mgr.Replace(ctx, previous, key)
//
// Removal is best effort: failures are logged and audited, never returned.
package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/mrlokans/booksharing/internal/storage"
	"github.com/mrlokans/booksharing/internal/utils"
)

// Kind selects the storage prefix for an attachment.
type Kind string

const (
	KindBookPDF Kind = "books/pdfs"
	KindVideo   Kind = "videos"
)

// Kinds lists every prefix the manager writes under.
var Kinds = []Kind{KindBookPDF, KindVideo}

// MediaPath is the URL path prefix media files are served under.
const MediaPath = "/media/"

// ErrFileMissing is returned by Open when nothing is stored under the key.
var ErrFileMissing = errors.New("attachment file is missing")

// FailureRecorder receives cleanup failures.
type FailureRecorder interface {
	LogAttachmentFailure(action, key string, err error)
}

type Manager struct {
	store    storage.Client
	recorder FailureRecorder
}

func NewManager(store storage.Client, recorder FailureRecorder) *Manager {
	return &Manager{store: store, recorder: recorder}
}

// Store writes an upload under kind's prefix and returns its key.
func (m *Manager) Store(ctx context.Context, kind Kind, filename string, content io.Reader) (string, error) {
	key := fmt.Sprintf("%s/%s-%s", kind, uuid.NewString(), utils.StorageName(filename))
	if err := m.store.Upload(ctx, key, content); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", filename, err)
	}
	log.Printf("[ATTACHMENT] Stored %s", key)
	return key, nil
}

// Remove deletes the file under key. An empty key or an already missing file
// is a no-op.
func (m *Manager) Remove(ctx context.Context, key string) {
	if key == "" {
		return
	}

	// Cleanup runs after commit and must not be cut short by a client disconnect.
	ctx = context.WithoutCancel(ctx)

	err := m.store.Delete(ctx, key)
	switch {
	case err == nil:
		log.Printf("[ATTACHMENT] Removed %s", key)
	case errors.Is(err, storage.ErrNotExist):
		log.Printf("[ATTACHMENT] %s already removed", key)
	default:
		log.Printf("[ATTACHMENT] Failed to remove %s: %v", key, err)
		if m.recorder != nil {
			m.recorder.LogAttachmentFailure("attachment_remove", key, err)
		}
	}
}

// Replace removes previous when it is set and differs from current.
func (m *Manager) Replace(ctx context.Context, previous, current string) {
	if previous == "" || previous == current {
		return
	}
	m.Remove(ctx, previous)
}

// Open returns a reader for the file under key.
func (m *Manager) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, ErrFileMissing
	}
	r, err := m.store.Download(ctx, key)
	if errors.Is(err, storage.ErrNotExist) {
		return nil, ErrFileMissing
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Orphans lists stored files under the manager's prefixes that no record
// references.
func (m *Manager) Orphans(ctx context.Context, referenced []string) ([]storage.FileInfo, error) {
	known := make(map[string]struct{}, len(referenced))
	for _, key := range referenced {
		known[key] = struct{}{}
	}

	var orphans []storage.FileInfo
	for _, kind := range Kinds {
		files, err := m.store.List(ctx, string(kind)+"/")
		if err != nil {
			return nil, err
		}
		orphans = append(orphans, storage.FilterFiles(files, func(f storage.FileInfo) bool {
			_, ok := known[f.Key]
			return !ok
		})...)
	}
	return orphans, nil
}

// Ping checks that the storage backend is reachable.
func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

// URL returns the absolute media URL for key, or "" when either part is missing.
func URL(base, key string) string {
	if base == "" || key == "" {
		return ""
	}
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + MediaPath + strings.Join(segments, "/")
}
