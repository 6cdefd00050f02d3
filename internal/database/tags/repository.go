// Package tags provides database operations for tag management.
//
// # Usage
//
//	repo := tags.NewRepository(db)
//	tag, err := repo.CreateTag("fiction")
package tags

import (
	"gorm.io/gorm"

	"github.com/mrlokans/booksharing/internal/database"
	"github.com/mrlokans/booksharing/internal/entities"
)

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTag creates a new tag. Duplicate names fail with a unique violation.
func (r *Repository) CreateTag(name string) (*entities.Tag, error) {
	tag := &entities.Tag{Name: name}
	if err := r.db.Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// ListTags returns tags ordered by name, optionally filtered by a
// case-insensitive name substring.
func (r *Repository) ListTags(search string) ([]entities.Tag, error) {
	var tags []entities.Tag
	query := r.db.Model(&entities.Tag{})
	if search != "" {
		query = query.Where(`name LIKE ? ESCAPE '\'`, database.LikePattern(search))
	}
	err := query.Order("name ASC").Find(&tags).Error
	return tags, err
}

// GetTagByID retrieves a tag by ID.
func (r *Repository) GetTagByID(id uint) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetTagsByIDs loads the tags with the given IDs. Missing IDs are simply
// absent from the result.
func (r *Repository) GetTagsByIDs(ids []uint) ([]entities.Tag, error) {
	var tags []entities.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.Where("id IN ?", ids).Order("name ASC").Find(&tags).Error
	return tags, err
}

// RenameTag changes a tag's name.
func (r *Repository) RenameTag(id uint, name string) (*entities.Tag, error) {
	tag, err := r.GetTagByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(tag).Update("name", name).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag unlinks the tag from every book and deletes it.
func (r *Repository) DeleteTag(id uint) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM book_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Tag{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}
