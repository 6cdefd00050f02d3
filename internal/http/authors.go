package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booksharing/internal/database"
	"github.com/mrlokans/booksharing/internal/services"
)

type AuthorsController struct {
	service *services.AuthorService
}

func NewAuthorsController(service *services.AuthorService) *AuthorsController {
	return &AuthorsController{service: service}
}

type authorRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

func (r authorRequest) input() services.AuthorInput {
	var in services.AuthorInput
	if r.Name != nil {
		in.Name = services.Some(*r.Name)
	}
	if r.Bio != nil {
		in.Bio = services.Some(*r.Bio)
	}
	return in
}

// ListAuthors returns authors with their book counts
// GET /api/authors
func (ac *AuthorsController) ListAuthors(c *gin.Context) {
	list, err := ac.service.ListAuthors(database.ListOptions{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	})
	if err != nil {
		respondError(c, err, "list authors")
		return
	}

	views := make([]authorView, len(list))
	for i, a := range list {
		views[i] = newAuthorView(a)
	}
	c.JSON(http.StatusOK, views)
}

// GetAuthor returns a single author
// GET /api/authors/:id
func (ac *AuthorsController) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.service.GetAuthor(id)
	if err != nil {
		respondError(c, err, "get author")
		return
	}
	c.JSON(http.StatusOK, newAuthorView(*author))
}

// CreateAuthor creates an author
// POST /api/authors
func (ac *AuthorsController) CreateAuthor(c *gin.Context) {
	var req authorRequest
	if err := bindJSONBody(c, &req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	author, err := ac.service.CreateAuthor(req.input())
	if err != nil {
		respondError(c, err, "create author")
		return
	}
	respondCreated(c, newAuthorView(*author))
}

// UpdateAuthor replaces name and bio
// PUT /api/authors/:id
func (ac *AuthorsController) UpdateAuthor(c *gin.Context) {
	ac.update(c, false)
}

// PartialUpdateAuthor changes only the fields sent
// PATCH /api/authors/:id
func (ac *AuthorsController) PartialUpdateAuthor(c *gin.Context) {
	ac.update(c, true)
}

func (ac *AuthorsController) update(c *gin.Context, partial bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req authorRequest
	if err := bindJSONBody(c, &req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	author, err := ac.service.UpdateAuthor(id, req.input(), partial)
	if err != nil {
		respondError(c, err, "update author")
		return
	}
	c.JSON(http.StatusOK, newAuthorView(*author))
}

// DeleteAuthor removes an author, its books and their PDFs
// DELETE /api/authors/:id
func (ac *AuthorsController) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.service.DeleteAuthor(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete author")
		return
	}
	respondNoContent(c)
}
