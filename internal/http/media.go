package http

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booksharing/internal/attachments"
	"github.com/mrlokans/booksharing/internal/storage"
)

// MediaStore opens stored attachment files.
type MediaStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type MediaController struct {
	store MediaStore
}

func NewMediaController(store MediaStore) *MediaController {
	return &MediaController{store: store}
}

// Serve streams a stored attachment
// GET /media/*key
func (mc *MediaController) Serve(c *gin.Context) {
	key, err := storage.CleanKey(strings.TrimPrefix(c.Param("key"), "/"))
	if err != nil {
		respondNotFound(c, "file")
		return
	}

	r, err := mc.store.Open(c.Request.Context(), key)
	if errors.Is(err, attachments.ErrFileMissing) {
		respondNotFound(c, "file")
		return
	}
	if err != nil {
		respondInternalError(c, err, "serve media")
		return
	}
	defer r.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, r, nil)
}
