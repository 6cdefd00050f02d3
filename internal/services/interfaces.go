package services

import (
	"context"
	"io"

	"github.com/mrlokans/booksharing/internal/attachments"
	"github.com/mrlokans/booksharing/internal/database"
	"github.com/mrlokans/booksharing/internal/database/books"
	"github.com/mrlokans/booksharing/internal/entities"
)

// BookStore persists books. Writes touching the PDF return the key that was
// stored before the write.
type BookStore interface {
	GetBookByID(id uint) (*entities.Book, error)
	ListBooks(opts books.ListOptions) ([]entities.Book, error)
	GetBooksByTagName(tag string) ([]entities.Book, error)
	TitleTaken(title string, authorID, excludeID uint) (bool, error)
	CreateBook(book *entities.Book) error
	UpdateBook(u books.Update) (string, error)
	DeleteBook(id uint) (*entities.Book, error)
	ClearPDF(id uint) (string, error)
}

// AuthorStore persists authors.
type AuthorStore interface {
	ListAuthors(opts database.ListOptions) ([]entities.Author, error)
	GetAuthorByID(id uint) (*entities.Author, error)
	AuthorExists(id uint) (bool, error)
	CreateAuthor(author *entities.Author) error
	UpdateAuthor(author *entities.Author) error
	CountBooks(authorID uint) (int64, error)
	CountBooksByAuthor(authorIDs []uint) (map[uint]int64, error)
	DeleteAuthor(id uint) (*entities.Author, []string, error)
}

// TagStore persists tags.
type TagStore interface {
	ListTags(search string) ([]entities.Tag, error)
	GetTagByID(id uint) (*entities.Tag, error)
	GetTagsByIDs(ids []uint) ([]entities.Tag, error)
	CreateTag(name string) (*entities.Tag, error)
	RenameTag(id uint, name string) (*entities.Tag, error)
	DeleteTag(id uint) (*entities.Tag, error)
}

// AttachmentManager stores and cleans up attachment files.
type AttachmentManager interface {
	Store(ctx context.Context, kind attachments.Kind, filename string, content io.Reader) (string, error)
	Remove(ctx context.Context, key string)
	Replace(ctx context.Context, previous, current string)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// DeleteAuditor records deletions.
type DeleteAuditor interface {
	LogDelete(entityType string, entityID uint, entityName string)
}

// VideoStore persists promotional videos.
type VideoStore interface {
	ListActiveVideos() ([]entities.PromotionalVideo, error)
	GetActiveVideo(id uint) (*entities.PromotionalVideo, error)
	CreateVideo(video *entities.PromotionalVideo) error
}
