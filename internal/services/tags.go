package services

import (
	"fmt"
	"strings"

	"github.com/mrlokans/booksharing/internal/database"
	"github.com/mrlokans/booksharing/internal/entities"
	"github.com/mrlokans/booksharing/internal/validation"
)

type TagService struct {
	tags      TagStore
	auditor   DeleteAuditor
	validator *validation.Validator
}

func NewTagService(tagStore TagStore, auditor DeleteAuditor) *TagService {
	return &TagService{tags: tagStore, auditor: auditor, validator: validation.New()}
}

func (s *TagService) ListTags(search string) ([]entities.Tag, error) {
	return s.tags.ListTags(search)
}

func (s *TagService) GetTag(id uint) (*entities.Tag, error) {
	tag, err := s.tags.GetTagByID(id)
	if err != nil {
		return nil, notFound(err, "tag not found")
	}
	return tag, nil
}

func (s *TagService) CreateTag(in TagInput) (*entities.Tag, error) {
	name := strings.TrimSpace(in.Name.Value)
	if err := s.validator.Validate(validation.TagFields{Name: name}); err != nil {
		return nil, err
	}

	tag, err := s.tags.CreateTag(name)
	if database.IsUniqueViolation(err) {
		return nil, duplicateTagError()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// UpdateTag renames a tag. A partial update without a name is a no-op.
func (s *TagService) UpdateTag(id uint, in TagInput, partial bool) (*entities.Tag, error) {
	existing, err := s.GetTag(id)
	if err != nil {
		return nil, err
	}
	if partial && !in.Name.Set {
		return existing, nil
	}

	name := strings.TrimSpace(in.Name.Value)
	if err := s.validator.Validate(validation.TagFields{Name: name}); err != nil {
		return nil, err
	}

	tag, err := s.tags.RenameTag(id, name)
	if database.IsUniqueViolation(err) {
		return nil, duplicateTagError()
	}
	if err != nil {
		return nil, notFound(err, "tag not found")
	}
	return tag, nil
}

func (s *TagService) DeleteTag(id uint) error {
	tag, err := s.tags.DeleteTag(id)
	if err != nil {
		return notFound(err, "tag not found")
	}
	s.auditor.LogDelete("tag", tag.ID, tag.Name)
	return nil
}

func duplicateTagError() error {
	return fieldError("name", "tag with this name already exists")
}
