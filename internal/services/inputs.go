package services

import (
	"errors"
	"io"
	"time"

	"github.com/mrlokans/booksharing/internal/apperrors"
	"github.com/mrlokans/booksharing/internal/database"
)

// Optional is a request field that may have been left out.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Or returns the value when set and fallback otherwise.
func (o Optional[T]) Or(fallback T) T {
	if o.Set {
		return o.Value
	}
	return fallback
}

// PDFUpload is a file received with a book write.
type PDFUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// BookInput carries the writable fields of a book request.
type BookInput struct {
	Title         Optional[string]
	AuthorID      Optional[uint]
	Description   Optional[string]
	TagIDs        Optional[[]uint]
	ISBN          Optional[string]
	PublishedDate Optional[*time.Time]
	PDF           *PDFUpload
	// ClearPDF detaches the current PDF; ignored when PDF is set.
	ClearPDF bool
}

type AuthorInput struct {
	Name Optional[string]
	Bio  Optional[string]
}

type TagInput struct {
	Name Optional[string]
}

// mergeValidation folds several validation errors into one whose details
// hold every failing field. Non-validation errors are returned as is.
func mergeValidation(errs ...error) error {
	details := map[string]string{}
	var first *apperrors.Error

	for _, err := range errs {
		if err == nil {
			continue
		}
		var appErr *apperrors.Error
		if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
			return err
		}
		if first == nil {
			first = appErr
		}
		if fields, ok := appErr.Details.(map[string]string); ok {
			for k, v := range fields {
				details[k] = v
			}
		}
	}

	if first == nil {
		return nil
	}
	if len(details) <= 1 {
		return first
	}
	return apperrors.ValidationWithDetails("validation failed", details)
}

func fieldError(field, msg string) error {
	return apperrors.ValidationWithDetails(field+" "+msg, map[string]string{field: msg})
}

func notFound(err error, msg string) error {
	if database.IsNotFound(err) {
		return apperrors.NotFound(msg)
	}
	return err
}
