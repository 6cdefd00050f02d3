package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mrlokans/booksharing/internal/apperrors"
	"github.com/mrlokans/booksharing/internal/attachments"
	"github.com/mrlokans/booksharing/internal/database"
	"github.com/mrlokans/booksharing/internal/database/books"
	"github.com/mrlokans/booksharing/internal/entities"
	"github.com/mrlokans/booksharing/internal/utils"
	"github.com/mrlokans/booksharing/internal/validation"
)

// BookDetail is a book together with its author's live book count.
type BookDetail struct {
	Book             *entities.Book
	AuthorBooksCount int64
}

// BookService validates book writes and keeps attachments in step with the
// records that reference them.
type BookService struct {
	books     BookStore
	authors   AuthorStore
	tags      TagStore
	files     AttachmentManager
	auditor   DeleteAuditor
	validator *validation.Validator
}

func NewBookService(bookStore BookStore, authorStore AuthorStore, tagStore TagStore, files AttachmentManager, auditor DeleteAuditor) *BookService {
	return &BookService{
		books:     bookStore,
		authors:   authorStore,
		tags:      tagStore,
		files:     files,
		auditor:   auditor,
		validator: validation.New(),
	}
}

func (s *BookService) ListBooks(opts books.ListOptions) ([]entities.Book, error) {
	return s.books.ListBooks(opts)
}

// BooksByTag returns books having a tag whose name contains tag.
func (s *BookService) BooksByTag(tag string) ([]entities.Book, error) {
	return s.books.GetBooksByTagName(strings.TrimSpace(tag))
}

func (s *BookService) GetBook(id uint) (*entities.Book, error) {
	book, err := s.books.GetBookByID(id)
	if err != nil {
		return nil, notFound(err, "book not found")
	}
	return book, nil
}

// GetBookDetail loads a book and counts its author's books.
func (s *BookService) GetBookDetail(id uint) (*BookDetail, error) {
	book, err := s.GetBook(id)
	if err != nil {
		return nil, err
	}
	count, err := s.authors.CountBooks(book.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}
	return &BookDetail{Book: book, AuthorBooksCount: count}, nil
}

// CreateBook validates the input, stores the PDF if one was uploaded and
// inserts the book.
func (s *BookService) CreateBook(ctx context.Context, in BookInput) (*entities.Book, error) {
	book := &entities.Book{
		Title:         strings.TrimSpace(in.Title.Value),
		AuthorID:      in.AuthorID.Value,
		Description:   in.Description.Value,
		ISBN:          strings.TrimSpace(in.ISBN.Value),
		PublishedDate: in.PublishedDate.Value,
	}

	if err := s.validate(book, in.PDF); err != nil {
		return nil, err
	}
	if err := s.checkAuthor(book.AuthorID); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(in.TagIDs.Value)
	if err != nil {
		return nil, err
	}
	book.Tags = tags
	if err := s.checkUnique(book.Title, book.AuthorID, 0); err != nil {
		return nil, err
	}

	if in.PDF != nil {
		key, err := s.files.Store(ctx, attachments.KindBookPDF, in.PDF.Filename, in.PDF.Content)
		if err != nil {
			return nil, apperrors.Internal("failed to store PDF", err)
		}
		book.PDFFile = key
	}

	if err := s.books.CreateBook(book); err != nil {
		s.files.Remove(ctx, book.PDFFile)
		if database.IsUniqueViolation(err) {
			return nil, uniquenessError(book.Title, book.AuthorID)
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	log.Printf("Created book %d %q", book.ID, book.Title)
	return s.GetBook(book.ID)
}

// UpdateBook applies in to the stored book. A full update requires title and
// author; a partial one changes only the fields that were sent. Fields left
// out of a full update keep their stored values.
func (s *BookService) UpdateBook(ctx context.Context, id uint, in BookInput, partial bool) (*entities.Book, error) {
	existing, err := s.GetBook(id)
	if err != nil {
		return nil, err
	}

	var fallbackTitle string
	var fallbackAuthor uint
	if partial {
		fallbackTitle, fallbackAuthor = existing.Title, existing.AuthorID
	}

	book := &entities.Book{
		ID:            id,
		Title:         strings.TrimSpace(in.Title.Or(fallbackTitle)),
		AuthorID:      in.AuthorID.Or(fallbackAuthor),
		Description:   in.Description.Or(existing.Description),
		ISBN:          strings.TrimSpace(in.ISBN.Or(existing.ISBN)),
		PublishedDate: in.PublishedDate.Or(existing.PublishedDate),
		PDFFile:       existing.PDFFile,
	}

	if err := s.validate(book, in.PDF); err != nil {
		return nil, err
	}
	if in.AuthorID.Set && in.AuthorID.Value != existing.AuthorID {
		if err := s.checkAuthor(book.AuthorID); err != nil {
			return nil, err
		}
	}
	var tags []entities.Tag
	if in.TagIDs.Set {
		if tags, err = s.resolveTags(in.TagIDs.Value); err != nil {
			return nil, err
		}
	}
	if err := s.checkUnique(book.Title, book.AuthorID, id); err != nil {
		return nil, err
	}

	fields := changedFields(in)
	writesPDF := in.PDF != nil || in.ClearPDF
	if writesPDF {
		fields = append(fields, "pdf_file")
		book.PDFFile = ""
	}

	var stored string
	if in.PDF != nil {
		stored, err = s.files.Store(ctx, attachments.KindBookPDF, in.PDF.Filename, in.PDF.Content)
		if err != nil {
			return nil, apperrors.Internal("failed to store PDF", err)
		}
		book.PDFFile = stored
	}

	previous, err := s.books.UpdateBook(books.Update{
		Book:        book,
		Fields:      fields,
		ReplaceTags: in.TagIDs.Set,
		Tags:        tags,
	})
	if err != nil {
		s.files.Remove(ctx, stored)
		if database.IsUniqueViolation(err) {
			return nil, uniquenessError(book.Title, book.AuthorID)
		}
		return nil, notFound(err, "book not found")
	}

	if writesPDF {
		s.files.Replace(ctx, previous, book.PDFFile)
	}

	return s.GetBook(id)
}

func changedFields(in BookInput) []string {
	var fields []string
	if in.Title.Set {
		fields = append(fields, "title")
	}
	if in.AuthorID.Set {
		fields = append(fields, "author_id")
	}
	if in.Description.Set {
		fields = append(fields, "description")
	}
	if in.ISBN.Set {
		fields = append(fields, "isbn")
	}
	if in.PublishedDate.Set {
		fields = append(fields, "published_date")
	}
	return fields
}

// DeleteBook removes the book and then its PDF.
func (s *BookService) DeleteBook(ctx context.Context, id uint) error {
	book, err := s.books.DeleteBook(id)
	if err != nil {
		return notFound(err, "book not found")
	}

	s.files.Remove(ctx, book.PDFFile)
	s.auditor.LogDelete("book", book.ID, book.Title)
	return nil
}

// DeletePDF detaches and removes the book's PDF.
func (s *BookService) DeletePDF(ctx context.Context, id uint) error {
	previous, err := s.books.ClearPDF(id)
	if errors.Is(err, books.ErrNoAttachment) {
		return apperrors.NotFound("no PDF attached to this book")
	}
	if err != nil {
		return notFound(err, "book not found")
	}

	s.files.Remove(ctx, previous)
	return nil
}

// OpenPDF returns the book's PDF content and the filename to download it as.
func (s *BookService) OpenPDF(ctx context.Context, id uint) (io.ReadCloser, string, error) {
	book, err := s.GetBook(id)
	if err != nil {
		return nil, "", err
	}
	if !book.HasPDF() {
		return nil, "", apperrors.NotFound("no PDF attached to this book")
	}

	r, err := s.files.Open(ctx, book.PDFFile)
	if errors.Is(err, attachments.ErrFileMissing) {
		return nil, "", apperrors.NotFound("PDF file not found")
	}
	if err != nil {
		return nil, "", apperrors.Internal("failed to read PDF", err)
	}

	return r, utils.DownloadFilename(book.Title), nil
}

func (s *BookService) validate(book *entities.Book, upload *PDFUpload) error {
	fieldsErr := s.validator.Validate(validation.BookFields{
		Title:    book.Title,
		AuthorID: book.AuthorID,
		ISBN:     book.ISBN,
	})

	var uploadErr error
	if upload != nil {
		uploadErr = s.validator.Validate(validation.Upload{Filename: upload.Filename, Size: upload.Size})
		uploadErr = renameField(uploadErr, "pdf_file")
	}

	return mergeValidation(fieldsErr, uploadErr)
}

// renameField reports every upload failure under a single request field.
func renameField(err error, field string) error {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return err
	}
	fields, ok := appErr.Details.(map[string]string)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(fields))
	for _, key := range []string{"filename", "size"} {
		if msg, ok := fields[key]; ok {
			msgs = append(msgs, msg)
		}
	}
	return fieldError(field, strings.Join(msgs, "; "))
}

func (s *BookService) checkAuthor(authorID uint) error {
	exists, err := s.authors.AuthorExists(authorID)
	if err != nil {
		return fmt.Errorf("failed to look up author: %w", err)
	}
	if !exists {
		return fieldError("author", fmt.Sprintf("author %d does not exist", authorID))
	}
	return nil
}

func (s *BookService) resolveTags(ids []uint) ([]entities.Tag, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	tags, err := s.tags.GetTagsByIDs(unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	if len(tags) == len(unique) {
		return tags, nil
	}

	found := make(map[uint]bool, len(tags))
	for _, t := range tags {
		found[t.ID] = true
	}
	for _, id := range unique {
		if !found[id] {
			return nil, fieldError("tags", fmt.Sprintf("tag %d does not exist", id))
		}
	}
	return tags, nil
}

func (s *BookService) checkUnique(title string, authorID, excludeID uint) error {
	taken, err := s.books.TitleTaken(title, authorID, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check title: %w", err)
	}
	if taken {
		return uniquenessError(title, authorID)
	}
	return nil
}

func uniquenessError(title string, authorID uint) error {
	return apperrors.ValidationWithDetails(
		fmt.Sprintf("a book titled %q by this author already exists", title),
		map[string]any{"title": title, "author": authorID},
	)
}
