package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booksharing/internal/services"
)

type TagsController struct {
	service *services.TagService
}

func NewTagsController(service *services.TagService) *TagsController {
	return &TagsController{service: service}
}

type tagRequest struct {
	Name *string `json:"name"`
}

func (r tagRequest) input() services.TagInput {
	var in services.TagInput
	if r.Name != nil {
		in.Name = services.Some(*r.Name)
	}
	return in
}

// ListTags returns all tags ordered by name
// GET /api/tags
func (tc *TagsController) ListTags(c *gin.Context) {
	tags, err := tc.service.ListTags(c.Query("search"))
	if err != nil {
		respondError(c, err, "list tags")
		return
	}
	c.JSON(http.StatusOK, newTagViews(tags))
}

// GetTag returns a single tag
// GET /api/tags/:id
func (tc *TagsController) GetTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tag, err := tc.service.GetTag(id)
	if err != nil {
		respondError(c, err, "get tag")
		return
	}
	c.JSON(http.StatusOK, newTagView(*tag))
}

// CreateTag creates a new tag
// POST /api/tags
func (tc *TagsController) CreateTag(c *gin.Context) {
	var req tagRequest
	if err := bindJSONBody(c, &req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	tag, err := tc.service.CreateTag(req.input())
	if err != nil {
		respondError(c, err, "create tag")
		return
	}
	respondCreated(c, newTagView(*tag))
}

// UpdateTag renames a tag
// PUT /api/tags/:id
func (tc *TagsController) UpdateTag(c *gin.Context) {
	tc.update(c, false)
}

// PartialUpdateTag renames a tag when a name is sent
// PATCH /api/tags/:id
func (tc *TagsController) PartialUpdateTag(c *gin.Context) {
	tc.update(c, true)
}

func (tc *TagsController) update(c *gin.Context, partial bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req tagRequest
	if err := bindJSONBody(c, &req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	tag, err := tc.service.UpdateTag(id, req.input(), partial)
	if err != nil {
		respondError(c, err, "update tag")
		return
	}
	c.JSON(http.StatusOK, newTagView(*tag))
}

// DeleteTag removes a tag and unlinks it from books
// DELETE /api/tags/:id
func (tc *TagsController) DeleteTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := tc.service.DeleteTag(id); err != nil {
		respondError(c, err, "delete tag")
		return
	}
	respondNoContent(c)
}
