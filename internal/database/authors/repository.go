// Package authors provides database operations for author management.
//
// # Usage
//
//	repo := authors.NewRepository(db)
//	list, err := repo.ListAuthors(database.ListOptions{Search: "herb", Ordering: "-created_at"})
package authors

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/booksharing/internal/database"
	"github.com/mrlokans/booksharing/internal/entities"
)

var orderings = map[string]string{
	"name":       "authors.name",
	"created_at": "authors.created_at",
}

const defaultOrder = "authors.name ASC"

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAuthors returns authors filtered by a case-insensitive name substring.
func (r *Repository) ListAuthors(opts database.ListOptions) ([]entities.Author, error) {
	var authors []entities.Author

	query := r.db.Model(&entities.Author{})
	if opts.Search != "" {
		query = query.Where(`authors.name LIKE ? ESCAPE '\'`, database.LikePattern(opts.Search))
	}

	err := query.Order(database.OrderClause(opts.Ordering, orderings, defaultOrder)).
		Order("authors.id ASC").
		Find(&authors).Error
	return authors, err
}

// GetAuthorByID retrieves an author by ID.
func (r *Repository) GetAuthorByID(id uint) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// AuthorExists reports whether an author with the given ID exists.
func (r *Repository) AuthorExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Author{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CreateAuthor inserts a new author.
func (r *Repository) CreateAuthor(author *entities.Author) error {
	return r.db.Create(author).Error
}

// UpdateAuthor writes the editable fields of an author.
func (r *Repository) UpdateAuthor(author *entities.Author) error {
	return r.db.Model(author).Select("name", "bio").Updates(author).Error
}

// CountBooks returns the number of books currently referencing the author.
func (r *Repository) CountBooks(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// CountBooksByAuthor returns book counts for several authors in one query.
// Authors without books are absent from the map.
func (r *Repository) CountBooksByAuthor(authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.Model(&entities.Book{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// DeleteAuthor removes an author together with its books and their tag links.
// It returns the deleted author and the PDF keys of the cascaded books so the
// caller can clean up storage after commit.
func (r *Repository) DeleteAuthor(id uint) (*entities.Author, []string, error) {
	var author entities.Author
	var pdfKeys []string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&author, id).Error; err != nil {
			return err
		}

		var bookIDs []uint
		if err := tx.Model(&entities.Book{}).Where("author_id = ?", id).Pluck("id", &bookIDs).Error; err != nil {
			return fmt.Errorf("failed to load books: %w", err)
		}

		if len(bookIDs) > 0 {
			if err := tx.Model(&entities.Book{}).
				Where("id IN ? AND pdf_file <> ''", bookIDs).
				Pluck("pdf_file", &pdfKeys).Error; err != nil {
				return fmt.Errorf("failed to load attachments: %w", err)
			}
			if err := tx.Exec("DELETE FROM book_tags WHERE book_id IN ?", bookIDs).Error; err != nil {
				return fmt.Errorf("failed to unlink tags: %w", err)
			}
			if err := tx.Where("id IN ?", bookIDs).Delete(&entities.Book{}).Error; err != nil {
				return fmt.Errorf("failed to delete books: %w", err)
			}
		}

		return tx.Delete(&entities.Author{}, id).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &author, pdfKeys, nil
}
