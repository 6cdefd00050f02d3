package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booksharing/internal/database"
	"github.com/mrlokans/booksharing/internal/database/books"
	"github.com/mrlokans/booksharing/internal/services"
)

type BooksController struct {
	service      *services.BookService
	mediaBaseURL string
}

func NewBooksController(service *services.BookService, mediaBaseURL string) *BooksController {
	return &BooksController{service: service, mediaBaseURL: mediaBaseURL}
}

// ListBooks returns books filtered by search, tag and ordering
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	list, err := bc.service.ListBooks(books.ListOptions{
		ListOptions: database.ListOptions{
			Search:   c.Query("search"),
			Ordering: c.Query("ordering"),
		},
		Tag: c.Query("tag"),
	})
	if err != nil {
		respondError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, newBookListViews(list))
}

// BooksByTag returns books having a tag whose name contains ?tag=
// GET /api/books/by_tag
func (bc *BooksController) BooksByTag(c *gin.Context) {
	list, err := bc.service.BooksByTag(c.Query("tag"))
	if err != nil {
		respondError(c, err, "list books by tag")
		return
	}
	c.JSON(http.StatusOK, newBookListViews(list))
}

// GetBook returns the detail view of a book
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := bc.service.GetBookDetail(id)
	if err != nil {
		respondError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, newBookDetailView(detail, mediaBaseURL(c, bc.mediaBaseURL)))
}

// CreateBook creates a book, optionally with a PDF upload
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	in, release, err := parseBookRequest(c)
	defer release()
	if err != nil {
		respondBindError(c, err)
		return
	}

	book, err := bc.service.CreateBook(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "create book")
		return
	}
	respondCreated(c, newBookWriteView(book))
}

// UpdateBook requires title and author
// PUT /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	bc.update(c, false)
}

// PartialUpdateBook changes only the fields sent
// PATCH /api/books/:id
func (bc *BooksController) PartialUpdateBook(c *gin.Context) {
	bc.update(c, true)
}

func (bc *BooksController) update(c *gin.Context, partial bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	in, release, err := parseBookRequest(c)
	defer release()
	if err != nil {
		respondBindError(c, err)
		return
	}

	book, err := bc.service.UpdateBook(c.Request.Context(), id, in, partial)
	if err != nil {
		respondError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, newBookWriteView(book))
}

// DeleteBook removes a book and its PDF
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.service.DeleteBook(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete book")
		return
	}
	respondNoContent(c)
}

// DownloadPDF streams the attached PDF
// GET /api/books/:id/download_pdf
func (bc *BooksController) DownloadPDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	r, filename, err := bc.service.OpenPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "download pdf")
		return
	}
	defer r.Close()

	c.DataFromReader(http.StatusOK, -1, "application/pdf", r, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, filename),
	})
}

// DeletePDF detaches the PDF and removes the file
// DELETE /api/books/:id/delete_pdf
func (bc *BooksController) DeletePDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.service.DeletePDF(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete pdf")
		return
	}
	respondSuccess(c, "PDF deleted")
}
