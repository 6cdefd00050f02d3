// Package local implements storage.Client on the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/booksharing/internal/storage"
)

// Client stores files under a base directory.
type Client struct {
	baseDir string
}

// NewClient creates the base directory if needed and returns a client rooted there.
func NewClient(baseDir string) (*Client, error) {
	if baseDir == "" {
		return nil, errors.New("media root is required")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return &Client{baseDir: baseDir}, nil
}

func (c *Client) resolve(key string) (string, error) {
	cleaned, err := storage.CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.baseDir, filepath.FromSlash(cleaned)), nil
}

func (c *Client) List(ctx context.Context, prefix string) ([]storage.FileInfo, error) {
	var files []storage.FileInfo

	err := filepath.WalkDir(c.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		// Skip partial writes
		if strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}

		rel, err := filepath.Rel(c.baseDir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, storage.FileInfo{
			Key:        key,
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", prefix, err)
	}

	return files, nil
}

func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := c.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if os.IsNotExist(err) {
		return nil, storage.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", key, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", key, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, storage.ErrNotExist
	}
	return f, nil
}

// Upload writes to a temporary file next to the target and renames it into
// place, so readers never observe a partial file.
func (c *Client) Upload(ctx context.Context, key string, content io.Reader) error {
	p, err := c.resolve(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, p); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move %q into place: %w", key, err)
	}

	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	p, err := c.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotExist
		}
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}

	c.cleanupEmptyDirectories(filepath.Dir(p))
	return nil
}

// cleanupEmptyDirectories removes empty parents up to, but not including, baseDir.
func (c *Client) cleanupEmptyDirectories(dir string) {
	base := filepath.Clean(c.baseDir)
	for dir != base && strings.HasPrefix(dir, base) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if os.Remove(dir) != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.GetMetadata(ctx, key)
	if errors.Is(err, storage.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) GetMetadata(ctx context.Context, key string) (*storage.FileInfo, error) {
	p, err := c.resolve(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return nil, storage.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", key, err)
	}
	if info.IsDir() {
		return nil, storage.ErrNotExist
	}

	cleaned, _ := storage.CleanKey(key)
	return &storage.FileInfo{
		Key:        cleaned,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	info, err := os.Stat(c.baseDir)
	if err != nil {
		return fmt.Errorf("media root unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("media root %q is not a directory", c.baseDir)
	}
	return nil
}
