package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsController(t *testing.T) {
	t.Run("returns empty list when no tags exist", func(t *testing.T) {
		s := setupServer(t)

		w := s.doJSON(t, http.MethodGet, "/api/tags", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})

	t.Run("lists tags ordered by name", func(t *testing.T) {
		s := setupServer(t)
		s.createTag(t, "science")
		s.createTag(t, "fiction")

		list := decode[[]tagView](t, s.doJSON(t, http.MethodGet, "/api/tags", nil))

		require.Len(t, list, 2)
		assert.Equal(t, "fiction", list[0].Name)
		assert.Equal(t, "science", list[1].Name)

		list = decode[[]tagView](t, s.doJSON(t, http.MethodGet, "/api/tags?search=SCI", nil))
		require.Len(t, list, 1)
		assert.Equal(t, "science", list[0].Name)
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		s := setupServer(t)
		s.createTag(t, "fiction")

		w := s.doJSON(t, http.MethodPost, "/api/tags", map[string]any{"name": "fiction"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, "VALIDATION", resp.Code)
		assert.Contains(t, resp.Details, "name")
	})

	t.Run("rejects names over 50 characters", func(t *testing.T) {
		s := setupServer(t)

		w := s.doJSON(t, http.MethodPost, "/api/tags", map[string]any{"name": strings.Repeat("x", 51)})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("renames a tag", func(t *testing.T) {
		s := setupServer(t)
		id := s.createTag(t, "scifi")

		w := s.doJSON(t, http.MethodPut, idPath("/api/tags", id, ""), map[string]any{"name": "science fiction"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "science fiction", decode[tagView](t, w).Name)
	})

	t.Run("PATCH with an empty body keeps the name", func(t *testing.T) {
		s := setupServer(t)
		id := s.createTag(t, "scifi")

		w := s.doJSON(t, http.MethodPatch, idPath("/api/tags", id, ""), nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "scifi", decode[tagView](t, w).Name)
	})

	t.Run("deleting a tag keeps its books", func(t *testing.T) {
		s := setupServer(t)
		tagID := s.createTag(t, "scifi")
		authorID := s.createAuthor(t, "Frank Herbert")
		book := s.createBook(t, map[string]any{"title": "Dune", "author": authorID, "tags": []uint{tagID}})

		w := s.doJSON(t, http.MethodDelete, idPath("/api/tags", tagID, ""), nil)

		require.Equal(t, http.StatusNoContent, w.Code)
		detail := decode[bookDetailView](t, s.doJSON(t, http.MethodGet, idPath("/api/books", book.ID, ""), nil))
		assert.Empty(t, detail.Tags)
	})

	t.Run("returns 404 for an unknown tag", func(t *testing.T) {
		s := setupServer(t)

		assert.Equal(t, http.StatusNotFound, s.doJSON(t, http.MethodGet, "/api/tags/7", nil).Code)
		assert.Equal(t, http.StatusNotFound, s.doJSON(t, http.MethodDelete, "/api/tags/7", nil).Code)
	})
}
