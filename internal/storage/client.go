package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotExist is returned when a key is not present in storage.
var ErrNotExist = errors.New("storage: file does not exist")

// FileInfo contains metadata about a stored file.
type FileInfo struct {
	Key        string
	Size       int64
	ModifiedAt time.Time
}

// Client defines the interface for attachment storage backends.
// Keys are slash-separated relative paths such as "books/pdfs/<name>.pdf".
type Client interface {
	// List returns every file whose key starts with prefix
	List(ctx context.Context, prefix string) ([]FileInfo, error)

	// Download retrieves the contents of a file
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Upload writes content to a key, replacing any existing file
	Upload(ctx context.Context, key string, content io.Reader) error

	// Delete removes a file; ErrNotExist when it is already gone
	Delete(ctx context.Context, key string) error

	// Exists checks if a file exists
	Exists(ctx context.Context, key string) (bool, error)

	// GetMetadata retrieves file info without downloading content
	GetMetadata(ctx context.Context, key string) (*FileInfo, error)

	// Ping verifies the backend is reachable
	Ping(ctx context.Context) error
}

// CleanKey normalizes a storage key and rejects keys that escape the storage
// root.
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	if key == "" || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}

// FilterFiles filters file list by a predicate function
func FilterFiles(files []FileInfo, predicate func(FileInfo) bool) []FileInfo {
	var filtered []FileInfo
	for _, f := range files {
		if predicate(f) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
