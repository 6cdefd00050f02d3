// Package videos provides database operations for promotional videos.
package videos

import (
	"gorm.io/gorm"

	"github.com/mrlokans/booksharing/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActiveVideos returns active videos, newest first.
func (r *Repository) ListActiveVideos() ([]entities.PromotionalVideo, error) {
	var videos []entities.PromotionalVideo
	err := r.db.Where("is_active = ?", true).
		Order("uploaded_at DESC").Order("id DESC").
		Find(&videos).Error
	return videos, err
}

// GetActiveVideo retrieves an active video; inactive ones are reported as not found.
func (r *Repository) GetActiveVideo(id uint) (*entities.PromotionalVideo, error) {
	var video entities.PromotionalVideo
	err := r.db.Where("is_active = ?", true).First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// CreateVideo inserts a video.
func (r *Repository) CreateVideo(video *entities.PromotionalVideo) error {
	return r.db.Create(video).Error
}

// AttachedVideoKeys returns every storage key referenced by a video,
// active or not.
func (r *Repository) AttachedVideoKeys() ([]string, error) {
	var keys []string
	err := r.db.Model(&entities.PromotionalVideo{}).Where("video_file <> ''").Pluck("video_file", &keys).Error
	return keys, err
}
