package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/booksharing/internal/database"
	"github.com/mrlokans/booksharing/internal/entities"
	"github.com/mrlokans/booksharing/internal/validation"
)

// AuthorWithCount pairs an author with the number of books referencing it.
type AuthorWithCount struct {
	Author     entities.Author
	BooksCount int64
}

type AuthorService struct {
	authors   AuthorStore
	files     AttachmentManager
	auditor   DeleteAuditor
	validator *validation.Validator
}

func NewAuthorService(authorStore AuthorStore, files AttachmentManager, auditor DeleteAuditor) *AuthorService {
	return &AuthorService{
		authors:   authorStore,
		files:     files,
		auditor:   auditor,
		validator: validation.New(),
	}
}

// ListAuthors returns authors with live book counts.
func (s *AuthorService) ListAuthors(opts database.ListOptions) ([]AuthorWithCount, error) {
	list, err := s.authors.ListAuthors(opts)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(list))
	for i, a := range list {
		ids[i] = a.ID
	}
	counts, err := s.authors.CountBooksByAuthor(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	result := make([]AuthorWithCount, len(list))
	for i, a := range list {
		result[i] = AuthorWithCount{Author: a, BooksCount: counts[a.ID]}
	}
	return result, nil
}

func (s *AuthorService) GetAuthor(id uint) (*AuthorWithCount, error) {
	author, err := s.authors.GetAuthorByID(id)
	if err != nil {
		return nil, notFound(err, "author not found")
	}
	return s.withCount(author)
}

func (s *AuthorService) withCount(author *entities.Author) (*AuthorWithCount, error) {
	count, err := s.authors.CountBooks(author.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}
	return &AuthorWithCount{Author: *author, BooksCount: count}, nil
}

func (s *AuthorService) CreateAuthor(in AuthorInput) (*AuthorWithCount, error) {
	author := &entities.Author{
		Name: strings.TrimSpace(in.Name.Value),
		Bio:  in.Bio.Value,
	}
	if err := s.validator.Validate(validation.AuthorFields{Name: author.Name}); err != nil {
		return nil, err
	}
	if err := s.authors.CreateAuthor(author); err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return s.withCount(author)
}

// UpdateAuthor applies in to the stored author. A full update requires a name.
func (s *AuthorService) UpdateAuthor(id uint, in AuthorInput, partial bool) (*AuthorWithCount, error) {
	author, err := s.authors.GetAuthorByID(id)
	if err != nil {
		return nil, notFound(err, "author not found")
	}

	fallbackName := ""
	if partial {
		fallbackName = author.Name
	}
	author.Name = strings.TrimSpace(in.Name.Or(fallbackName))
	author.Bio = in.Bio.Or(author.Bio)

	if err := s.validator.Validate(validation.AuthorFields{Name: author.Name}); err != nil {
		return nil, err
	}
	if err := s.authors.UpdateAuthor(author); err != nil {
		return nil, fmt.Errorf("failed to update author: %w", err)
	}
	return s.withCount(author)
}

// DeleteAuthor removes the author with its books, then the books' PDFs.
func (s *AuthorService) DeleteAuthor(ctx context.Context, id uint) error {
	author, keys, err := s.authors.DeleteAuthor(id)
	if err != nil {
		return notFound(err, "author not found")
	}

	for _, key := range keys {
		s.files.Remove(ctx, key)
	}
	s.auditor.LogDelete("author", author.ID, author.Name)
	return nil
}
