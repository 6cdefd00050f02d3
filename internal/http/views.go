package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booksharing/internal/attachments"
	"github.com/mrlokans/booksharing/internal/entities"
	"github.com/mrlokans/booksharing/internal/services"
)

const dateLayout = "2006-01-02"

type tagView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type authorView struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Bio        string    `json:"bio"`
	BooksCount int64     `json:"books_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// bookListView is the compact representation used by list endpoints.
type bookListView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	AuthorName  string    `json:"author_name"`
	Tags        []tagView `json:"tags"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	HasPDF      bool      `json:"has_pdf"`
}

type bookDetailView struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Author        authorView `json:"author"`
	Description   string     `json:"description"`
	Tags          []tagView  `json:"tags"`
	ISBN          string     `json:"isbn"`
	PublishedDate *string    `json:"published_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	PDFFile       *string    `json:"pdf_file"`
	PDFURL        string     `json:"pdf_url"`
	HasPDF        bool       `json:"has_pdf"`
}

// bookWriteView echoes the writable fields after a create or update.
type bookWriteView struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Author        uint    `json:"author"`
	Description   string  `json:"description"`
	Tags          []uint  `json:"tags"`
	ISBN          string  `json:"isbn"`
	PublishedDate *string `json:"published_date"`
	PDFFile       *string `json:"pdf_file"`
}

type videoView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   *string   `json:"video_file"`
	VideoURL    string    `json:"video_url"`
	IsActive    bool      `json:"is_active"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func newTagView(t entities.Tag) tagView {
	return tagView{ID: t.ID, Name: t.Name}
}

func newTagViews(tags []entities.Tag) []tagView {
	views := make([]tagView, len(tags))
	for i, t := range tags {
		views[i] = newTagView(t)
	}
	return views
}

func newAuthorView(a services.AuthorWithCount) authorView {
	return authorView{
		ID:         a.Author.ID,
		Name:       a.Author.Name,
		Bio:        a.Author.Bio,
		BooksCount: a.BooksCount,
		CreatedAt:  a.Author.CreatedAt,
	}
}

func newBookListView(b entities.Book) bookListView {
	return bookListView{
		ID:          b.ID,
		Title:       b.Title,
		AuthorName:  b.Author.Name,
		Tags:        newTagViews(b.Tags),
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		HasPDF:      b.HasPDF(),
	}
}

func newBookListViews(books []entities.Book) []bookListView {
	views := make([]bookListView, len(books))
	for i, b := range books {
		views[i] = newBookListView(b)
	}
	return views
}

func newBookDetailView(d *services.BookDetail, mediaBase string) bookDetailView {
	b := d.Book
	return bookDetailView{
		ID:    b.ID,
		Title: b.Title,
		Author: newAuthorView(services.AuthorWithCount{
			Author:     b.Author,
			BooksCount: d.AuthorBooksCount,
		}),
		Description:   b.Description,
		Tags:          newTagViews(b.Tags),
		ISBN:          b.ISBN,
		PublishedDate: formatDate(b.PublishedDate),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		PDFFile:       optionalKey(b.PDFFile),
		PDFURL:        attachments.URL(mediaBase, b.PDFFile),
		HasPDF:        b.HasPDF(),
	}
}

func newBookWriteView(b *entities.Book) bookWriteView {
	tagIDs := make([]uint, len(b.Tags))
	for i, t := range b.Tags {
		tagIDs[i] = t.ID
	}
	return bookWriteView{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.AuthorID,
		Description:   b.Description,
		Tags:          tagIDs,
		ISBN:          b.ISBN,
		PublishedDate: formatDate(b.PublishedDate),
		PDFFile:       optionalKey(b.PDFFile),
	}
}

func newVideoView(v entities.PromotionalVideo, mediaBase string) videoView {
	return videoView{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   optionalKey(v.VideoFile),
		VideoURL:    attachments.URL(mediaBase, v.VideoFile),
		IsActive:    v.IsActive,
		UploadedAt:  v.UploadedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func optionalKey(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}

// mediaBaseURL returns the configured media base, or one built from the
// request's scheme and host.
func mediaBaseURL(c *gin.Context, configured string) string {
	if configured != "" {
		return configured
	}
	host := c.Request.Host
	if host == "" {
		return ""
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + host
}
