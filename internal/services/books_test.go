package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booksharing/internal/apperrors"
	"github.com/mrlokans/booksharing/internal/database/books"
	"github.com/mrlokans/booksharing/internal/entities"
)

func pdf(name string, size int64) *PDFUpload {
	return &PDFUpload{Filename: name, Size: size, Content: strings.NewReader("%PDF-1.4")}
}

func (e *testEnv) author(t *testing.T, name string) *entities.Author {
	t.Helper()
	a, err := e.authors.CreateAuthor(AuthorInput{Name: Some(name)})
	require.NoError(t, err)
	return &a.Author
}

func (e *testEnv) tag(t *testing.T, name string) *entities.Tag {
	t.Helper()
	tag, err := e.tags.CreateTag(TagInput{Name: Some(name)})
	require.NoError(t, err)
	return tag
}

func TestBookService_CreateBook(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Frank Herbert")
	scifi := env.tag(t, "sci-fi")

	book, err := env.books.CreateBook(ctx, BookInput{
		Title:    Some("  Dune "),
		AuthorID: Some(herbert.ID),
		TagIDs:   Some([]uint{scifi.ID, scifi.ID}),
		ISBN:     Some("9780441013593"),
		PDF:      pdf("dune.pdf", 1024),
	})
	require.NoError(t, err)

	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author.Name)
	require.Len(t, book.Tags, 1)
	require.True(t, book.HasPDF())
	assert.True(t, strings.HasPrefix(book.PDFFile, "books/pdfs/"))
	assert.True(t, env.exists(t, book.PDFFile))
}

func TestBookService_CreateBookValidation(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Frank Herbert")

	tests := []struct {
		name  string
		input BookInput
		field string
	}{
		{name: "missing title", input: BookInput{AuthorID: Some(herbert.ID)}, field: "title"},
		{name: "missing author", input: BookInput{Title: Some("Dune")}, field: "author"},
		{name: "unknown author", input: BookInput{Title: Some("Dune"), AuthorID: Some(uint(999))}, field: "author"},
		{name: "unknown tag", input: BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), TagIDs: Some([]uint{42})}, field: "tags"},
		{name: "isbn too long", input: BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), ISBN: Some("97804410135931")}, field: "isbn"},
		{name: "not a pdf", input: BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), PDF: pdf("notes.txt", 100)}, field: "pdf_file"},
		{name: "pdf too large", input: BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), PDF: pdf("dune.pdf", 11<<20)}, field: "pdf_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.books.CreateBook(ctx, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			details, ok := validationDetails(t, err).(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.field)
		})
	}

	// Nothing was written for the rejected uploads.
	files, err := env.store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestBookService_PDFSizeBoundary(t *testing.T) {
	env := setupEnv(t)
	herbert := env.author(t, "Frank Herbert")

	_, err := env.books.CreateBook(context.Background(), BookInput{
		Title: Some("Dune"), AuthorID: Some(herbert.ID), PDF: pdf("DUNE.PDF", 10<<20),
	})
	assert.NoError(t, err)
}

func TestBookService_Uniqueness(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Frank Herbert")
	leGuin := env.author(t, "Ursula K. Le Guin")

	dune, err := env.books.CreateBook(ctx, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID)})
	require.NoError(t, err)

	_, err = env.books.CreateBook(ctx, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), PDF: pdf("dune.pdf", 10)})
	require.Error(t, err)
	assert.EqualError(t, err, `a book titled "Dune" by this author already exists`)
	details := validationDetails(t, err).(map[string]any)
	assert.Equal(t, "Dune", details["title"])
	assert.Equal(t, herbert.ID, details["author"])

	// Same title, different author.
	_, err = env.books.CreateBook(ctx, BookInput{Title: Some("Dune"), AuthorID: Some(leGuin.ID)})
	require.NoError(t, err)

	// Updating a book without changing title or author does not conflict with itself.
	_, err = env.books.UpdateBook(ctx, dune.ID, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), Description: Some("Spice.")}, false)
	require.NoError(t, err)

	// Moving the second Dune onto Herbert conflicts.
	other, err := env.books.CreateBook(ctx, BookInput{Title: Some("Dune Messiah"), AuthorID: Some(herbert.ID)})
	require.NoError(t, err)
	_, err = env.books.UpdateBook(ctx, other.ID, BookInput{Title: Some("Dune")}, true)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	files, err := env.store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestBookService_UpdateReplacesPDF(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Frank Herbert")

	book, err := env.books.CreateBook(ctx, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), PDF: pdf("a.pdf", 10)})
	require.NoError(t, err)
	oldKey := book.PDFFile

	updated, err := env.books.UpdateBook(ctx, book.ID, BookInput{PDF: pdf("b.pdf", 10)}, true)
	require.NoError(t, err)

	assert.NotEqual(t, oldKey, updated.PDFFile)
	assert.False(t, env.exists(t, oldKey))
	assert.True(t, env.exists(t, updated.PDFFile))
	assert.Equal(t, "Dune", updated.Title)
}

func TestBookService_UpdateWithoutPDFKeepsFile(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Frank Herbert")

	book, err := env.books.CreateBook(ctx, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), PDF: pdf("a.pdf", 10)})
	require.NoError(t, err)

	updated, err := env.books.UpdateBook(ctx, book.ID, BookInput{Description: Some("Spice.")}, true)
	require.NoError(t, err)

	assert.Equal(t, book.PDFFile, updated.PDFFile)
	assert.True(t, env.exists(t, book.PDFFile))
	assert.True(t, updated.UpdatedAt.After(book.UpdatedAt) || updated.UpdatedAt.Equal(book.UpdatedAt))
}

func TestBookService_UpdateClearsPDF(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Frank Herbert")

	book, err := env.books.CreateBook(ctx, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), PDF: pdf("a.pdf", 10)})
	require.NoError(t, err)

	updated, err := env.books.UpdateBook(ctx, book.ID, BookInput{ClearPDF: true}, true)
	require.NoError(t, err)

	assert.False(t, updated.HasPDF())
	assert.False(t, env.exists(t, book.PDFFile))
}

func TestBookService_FullUpdateRequiresTitleAndAuthor(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Frank Herbert")
	book, err := env.books.CreateBook(ctx, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), Description: Some("Spice.")})
	require.NoError(t, err)

	_, err = env.books.UpdateBook(ctx, book.ID, BookInput{Description: Some("x")}, false)
	require.Error(t, err)
	details := validationDetails(t, err).(map[string]string)
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "author")

	updated, err := env.books.UpdateBook(ctx, book.ID, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), ISBN: Some("0441013597")}, false)
	require.NoError(t, err)
	assert.Equal(t, "0441013597", updated.ISBN)
	assert.Equal(t, "Spice.", updated.Description)
}

func TestBookService_UpdateTagsAndDate(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Frank Herbert")
	scifi := env.tag(t, "sci-fi")
	classic := env.tag(t, "classic")
	published := time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC)

	book, err := env.books.CreateBook(ctx, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), TagIDs: Some([]uint{scifi.ID})})
	require.NoError(t, err)

	updated, err := env.books.UpdateBook(ctx, book.ID, BookInput{
		TagIDs:        Some([]uint{classic.ID, scifi.ID}),
		PublishedDate: Some(&published),
	}, true)
	require.NoError(t, err)
	assert.Len(t, updated.Tags, 2)
	require.NotNil(t, updated.PublishedDate)
	assert.Equal(t, "1965-08-01", updated.PublishedDate.Format("2006-01-02"))

	cleared, err := env.books.UpdateBook(ctx, book.ID, BookInput{TagIDs: Some([]uint{}), PublishedDate: Some[*time.Time](nil)}, true)
	require.NoError(t, err)
	assert.Empty(t, cleared.Tags)
	assert.Nil(t, cleared.PublishedDate)
}

func TestBookService_UpdateNotFound(t *testing.T) {
	env := setupEnv(t)

	_, err := env.books.UpdateBook(context.Background(), 999, BookInput{Title: Some("x")}, true)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBookService_DeleteBookRemovesPDF(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Frank Herbert")
	book, err := env.books.CreateBook(ctx, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), PDF: pdf("a.pdf", 10)})
	require.NoError(t, err)

	require.NoError(t, env.books.DeleteBook(ctx, book.ID))

	assert.False(t, env.exists(t, book.PDFFile))
	_, err = env.books.GetBook(book.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.Len(t, env.auditor.deletions, 1)
	assert.Equal(t, deletion{"book", book.ID, "Dune"}, env.auditor.deletions[0])

	assert.ErrorIs(t, env.books.DeleteBook(ctx, book.ID), apperrors.ErrNotFound)
}

func TestBookService_DeleteBookWithMissingFile(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Frank Herbert")
	book, err := env.books.CreateBook(ctx, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), PDF: pdf("a.pdf", 10)})
	require.NoError(t, err)
	require.NoError(t, env.store.Delete(ctx, book.PDFFile))

	assert.NoError(t, env.books.DeleteBook(ctx, book.ID))
}

func TestBookService_DeletePDF(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Frank Herbert")
	book, err := env.books.CreateBook(ctx, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), PDF: pdf("a.pdf", 10)})
	require.NoError(t, err)

	require.NoError(t, env.books.DeletePDF(ctx, book.ID))
	assert.False(t, env.exists(t, book.PDFFile))

	err = env.books.DeletePDF(ctx, book.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.EqualError(t, err, "no PDF attached to this book")
}

func TestBookService_OpenPDF(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Ursula K. Le Guin")
	book, err := env.books.CreateBook(ctx, BookInput{Title: Some("The Left Hand of Darkness"), AuthorID: Some(herbert.ID), PDF: pdf("lhod.pdf", 10)})
	require.NoError(t, err)

	r, name, err := env.books.OpenPDF(ctx, book.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	r.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Equal(t, "The-Left-Hand-of-Darkness.pdf", name)

	require.NoError(t, env.store.Delete(ctx, book.PDFFile))
	_, _, err = env.books.OpenPDF(ctx, book.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	plain, err := env.books.CreateBook(ctx, BookInput{Title: Some("Lavinia"), AuthorID: Some(herbert.ID)})
	require.NoError(t, err)
	_, _, err = env.books.OpenPDF(ctx, plain.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBookService_GetBookDetailCountsLive(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Frank Herbert")
	dune, err := env.books.CreateBook(ctx, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID)})
	require.NoError(t, err)

	detail, err := env.books.GetBookDetail(dune.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.AuthorBooksCount)

	_, err = env.books.CreateBook(ctx, BookInput{Title: Some("Dune Messiah"), AuthorID: Some(herbert.ID)})
	require.NoError(t, err)

	detail, err = env.books.GetBookDetail(dune.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.AuthorBooksCount)
}

func TestBookService_BooksByTag(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	herbert := env.author(t, "Frank Herbert")
	scifi := env.tag(t, "Science Fiction")
	_, err := env.books.CreateBook(ctx, BookInput{Title: Some("Dune"), AuthorID: Some(herbert.ID), TagIDs: Some([]uint{scifi.ID})})
	require.NoError(t, err)

	list, err := env.books.BooksByTag("fiction")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = env.books.BooksByTag("")
	require.NoError(t, err)
	assert.Empty(t, list)

	all, err := env.books.ListBooks(books.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
