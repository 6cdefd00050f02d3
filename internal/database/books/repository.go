// Package books provides database operations for the book catalog.
//
// Writes that touch the PDF attachment return the storage key that was
// replaced so the caller can remove the file once the transaction commits.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBookByID(123)
//	previous, err := repo.UpdateBook(books.Update{Book: book, Fields: []string{"pdf_file"}})
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/booksharing/internal/database"
	"github.com/mrlokans/booksharing/internal/entities"
)

// ErrNoAttachment is returned by ClearPDF when the book has no PDF.
var ErrNoAttachment = errors.New("book has no attached PDF")

var orderings = map[string]string{
	"title":          "books.title",
	"created_at":     "books.created_at",
	"published_date": "books.published_date",
}

const defaultOrder = "books.created_at DESC"

// ListOptions filters ListBooks. Tag matches any tag name containing the
// value, case-insensitively.
type ListOptions struct {
	database.ListOptions
	Tag string
}

// Update describes a write to an existing book.
type Update struct {
	Book *entities.Book
	// Fields lists the columns to write; updated_at is always refreshed.
	Fields      []string
	ReplaceTags bool
	Tags        []entities.Tag
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func tagsByName(db *gorm.DB) *gorm.DB {
	return db.Order("tags.name ASC")
}

// GetBookByID retrieves a book with its author and tags.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Author").Preload("Tags", tagsByName).First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListBooks returns books with author and tags, filtered and ordered.
func (r *Repository) ListBooks(opts ListOptions) ([]entities.Book, error) {
	var books []entities.Book

	query := r.db.Model(&entities.Book{}).Preload("Author").Preload("Tags", tagsByName)

	if opts.Search != "" {
		pattern := database.LikePattern(opts.Search)
		query = query.Where(
			`books.title LIKE @p ESCAPE '\' OR books.description LIKE @p ESCAPE '\' OR books.author_id IN (SELECT id FROM authors WHERE authors.name LIKE @p ESCAPE '\')`,
			map[string]any{"p": pattern},
		)
	}

	if opts.Tag != "" {
		query = query.Where(
			`books.id IN (SELECT book_tags.book_id FROM book_tags JOIN tags ON tags.id = book_tags.tag_id WHERE tags.name LIKE ? ESCAPE '\')`,
			database.LikePattern(opts.Tag),
		)
	}

	err := query.Order(database.OrderClause(opts.Ordering, orderings, defaultOrder)).
		Order("books.id DESC").
		Find(&books).Error
	return books, err
}

// GetBooksByTagName returns each book having at least one tag whose name
// contains tag. An empty tag matches nothing.
func (r *Repository) GetBooksByTagName(tag string) ([]entities.Book, error) {
	if tag == "" {
		return []entities.Book{}, nil
	}
	return r.ListBooks(ListOptions{Tag: tag})
}

// TitleTaken reports whether another book by authorID already uses title.
// excludeID is skipped so a book does not conflict with itself on update.
func (r *Repository) TitleTaken(title string, authorID, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&entities.Book{}).Where("title = ? AND author_id = ?", title, authorID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// CreateBook inserts a book and links its tags. The tags must already exist.
func (r *Repository) CreateBook(book *entities.Book) error {
	return r.db.Omit("Author", "Tags.*").Create(book).Error
}

// UpdateBook writes the requested fields and returns the PDF key stored
// before the write. The read and the write share one transaction.
func (r *Repository) UpdateBook(u Update) (string, error) {
	var previous string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current entities.Book
		if err := tx.Select("id", "pdf_file").First(&current, u.Book.ID).Error; err != nil {
			return err
		}
		previous = current.PDFFile

		fields := append([]string{"updated_at"}, u.Fields...)
		if err := tx.Model(&entities.Book{ID: u.Book.ID}).Select(fields).Updates(u.Book).Error; err != nil {
			return err
		}

		if u.ReplaceTags {
			if err := tx.Model(&entities.Book{ID: u.Book.ID}).Omit("Tags.*").Association("Tags").Replace(u.Tags); err != nil {
				return fmt.Errorf("failed to replace tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return previous, nil
}

// DeleteBook removes a book and its tag links, returning the deleted record.
func (r *Repository) DeleteBook(id uint) (*entities.Book, error) {
	var book entities.Book

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM book_tags WHERE book_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink tags: %w", err)
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// ClearPDF detaches the book's PDF and returns the key that was attached.
func (r *Repository) ClearPDF(id uint) (string, error) {
	var previous string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.Select("id", "pdf_file").First(&book, id).Error; err != nil {
			return err
		}
		if !book.HasPDF() {
			return ErrNoAttachment
		}
		previous = book.PDFFile

		return tx.Model(&entities.Book{ID: id}).Select("pdf_file", "updated_at").
			Updates(&entities.Book{PDFFile: ""}).Error
	})
	if err != nil {
		return "", err
	}

	return previous, nil
}

// AttachedPDFKeys returns every storage key referenced by a book.
func (r *Repository) AttachedPDFKeys() ([]string, error) {
	var keys []string
	err := r.db.Model(&entities.Book{}).Where("pdf_file <> ''").Pluck("pdf_file", &keys).Error
	return keys, err
}
