package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mrlokans/booksharing/internal/apperrors"
	"github.com/mrlokans/booksharing/internal/attachments"
	"github.com/mrlokans/booksharing/internal/entities"
	"github.com/mrlokans/booksharing/internal/validation"
)

type VideoService struct {
	videos    VideoStore
	files     AttachmentManager
	validator *validation.Validator
}

func NewVideoService(videoStore VideoStore, files AttachmentManager) *VideoService {
	return &VideoService{videos: videoStore, files: files, validator: validation.New()}
}

func (s *VideoService) ListActive() ([]entities.PromotionalVideo, error) {
	return s.videos.ListActiveVideos()
}

// GetActive returns an active video; inactive videos are reported as missing.
func (s *VideoService) GetActive(id uint) (*entities.PromotionalVideo, error) {
	video, err := s.videos.GetActiveVideo(id)
	if err != nil {
		return nil, notFound(err, "promotional video not found")
	}
	return video, nil
}

// VideoInput describes a promotional video to register. Content may be nil
// for a record without a file.
type VideoInput struct {
	Title       string
	Description string
	Filename    string
	Content     io.Reader
	Active      bool
}

// Register stores the video file and creates its record.
func (s *VideoService) Register(ctx context.Context, in VideoInput) (*entities.PromotionalVideo, error) {
	video := &entities.PromotionalVideo{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		IsActive:    in.Active,
	}
	if err := s.validator.Validate(validation.VideoFields{Title: video.Title}); err != nil {
		return nil, err
	}

	if in.Content != nil {
		key, err := s.files.Store(ctx, attachments.KindVideo, in.Filename, in.Content)
		if err != nil {
			return nil, apperrors.Internal("failed to store video", err)
		}
		video.VideoFile = key
	}

	if err := s.videos.CreateVideo(video); err != nil {
		s.files.Remove(ctx, video.VideoFile)
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	return video, nil
}
