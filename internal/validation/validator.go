// Package validation wraps go-playground/validator with catalog-specific rules
// and converts failures into apperrors validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/booksharing/internal/apperrors"
)

// MaxPDFSize is the largest accepted PDF upload (10 MiB).
const MaxPDFSize int64 = 10 << 20

// Validator wraps validator.Validate with JSON field names and friendly messages.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the "pdfname" rule registered.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" || name == "-" {
			return fld.Name
		}
		if idx := strings.IndexByte(name, ','); idx >= 0 {
			return name[:idx]
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("pdfname", func(fl validator.FieldLevel) bool {
		return HasPDFExtension(fl.Field().String())
	})

	return &Validator{v: v}
}

// HasPDFExtension reports whether name ends in ".pdf", ignoring case.
func HasPDFExtension(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// Validate checks s and returns an apperrors validation error listing every
// failing field.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
	}

	return apperrors.ValidationWithDetails(summary(fieldErrors), fieldErrors)
}

// summary picks a stable, human-readable message for the first failing field.
func summary(fieldErrors map[string]string) string {
	if len(fieldErrors) == 1 {
		for field, msg := range fieldErrors {
			return field + " " + msg
		}
	}
	return "validation failed"
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "lte":
		if e.Field() == "size" {
			return fmt.Sprintf("must not exceed %d MiB", MaxPDFSize>>20)
		}
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "pdfname":
		return "must be a file with a .pdf extension"
	default:
		return "is invalid"
	}
}
