package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booksharing/internal/apperrors"
	"github.com/mrlokans/booksharing/internal/services"
)

// errBodyTooLarge reports a request body over the configured cap.
var errBodyTooLarge = errors.New("request body too large")

// limitBody caps request bodies at max bytes.
func limitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}

func asBodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errBodyTooLarge
	}
	return err
}

// respondBindError answers a request whose body could not be parsed.
func respondBindError(c *gin.Context, err error) {
	if errors.Is(err, errBodyTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
		return
	}
	respondError(c, err, "parse request")
}

// respondInvalidBody answers a JSON body that gin could not bind.
func respondInvalidBody(c *gin.Context, err error) {
	if errors.Is(asBodyError(err), errBodyTooLarge) {
		respondBindError(c, errBodyTooLarge)
		return
	}
	respondBadRequest(c, "invalid request body")
}

// bindJSONBody binds a JSON body, treating an empty body as an empty object.
func bindJSONBody(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// parseBookRequest reads a book write from a JSON, urlencoded or multipart
// body. The returned release func closes any uploaded file and must be
// called once the request has been handled.
func parseBookRequest(c *gin.Context) (services.BookInput, func(), error) {
	noop := func() {}

	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			if err = asBodyError(err); errors.Is(err, errBodyTooLarge) {
				return services.BookInput{}, noop, err
			}
			return services.BookInput{}, noop, apperrors.Validation("invalid multipart body")
		}
		in, release, err := bookInputFromForm(form.Value, form.File)
		return in, func() {
			release()
			form.RemoveAll()
		}, err

	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			if err = asBodyError(err); errors.Is(err, errBodyTooLarge) {
				return services.BookInput{}, noop, err
			}
			return services.BookInput{}, noop, apperrors.Validation("invalid form body")
		}
		return bookInputFromForm(c.Request.PostForm, nil)

	default:
		in, err := bookInputFromJSON(c.Request.Body)
		return in, noop, err
	}
}

func bookInputFromJSON(body io.Reader) (services.BookInput, error) {
	raw := map[string]json.RawMessage{}
	// An empty body is an empty object.
	if err := json.NewDecoder(body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		if err = asBodyError(err); errors.Is(err, errBodyTooLarge) {
			return services.BookInput{}, err
		}
		return services.BookInput{}, apperrors.Validation("invalid JSON body")
	}

	var in services.BookInput
	errs := map[string]string{}

	in.Title = jsonField[string](raw, "title", errs, "must be a string")
	in.Description = jsonField[string](raw, "description", errs, "must be a string")
	in.ISBN = jsonField[string](raw, "isbn", errs, "must be a string")
	in.TagIDs = jsonField[[]uint](raw, "tags", errs, "must be a list of tag ids")

	if v, ok := raw["author"]; ok {
		id, err := parseJSONID(v)
		if err != nil {
			errs["author"] = "must be a valid author id"
		} else {
			in.AuthorID = services.Some(id)
		}
	}

	if v, ok := raw["published_date"]; ok {
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			errs["published_date"] = "must be a date in YYYY-MM-DD format"
		} else if date, err := parseDate(s); err != nil {
			errs["published_date"] = err.Error()
		} else {
			in.PublishedDate = services.Some(date)
		}
	}

	if v, ok := raw["pdf_file"]; ok {
		var s *string
		if err := json.Unmarshal(v, &s); err != nil || (s != nil && *s != "") {
			errs["pdf_file"] = "must be uploaded as multipart/form-data"
		} else {
			in.ClearPDF = true
		}
	}

	return in, detailsError(errs)
}

func jsonField[T any](raw map[string]json.RawMessage, name string, errs map[string]string, msg string) services.Optional[T] {
	v, ok := raw[name]
	if !ok {
		return services.Optional[T]{}
	}
	var value T
	if err := json.Unmarshal(v, &value); err != nil {
		errs[name] = msg
		return services.Optional[T]{}
	}
	return services.Some(value)
}

// parseJSONID accepts an id sent either as a number or a numeric string.
func parseJSONID(v json.RawMessage) (uint, error) {
	var id uint
	if err := json.Unmarshal(v, &id); err == nil {
		return id, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, err
	}
	return parseID(s)
}

func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, errors.New("must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

func bookInputFromForm(values map[string][]string, files map[string][]*multipart.FileHeader) (services.BookInput, func(), error) {
	var in services.BookInput
	errs := map[string]string{}
	release := func() {}

	if v, ok := formValue(values, "title"); ok {
		in.Title = services.Some(v)
	}
	if v, ok := formValue(values, "description"); ok {
		in.Description = services.Some(v)
	}
	if v, ok := formValue(values, "isbn"); ok {
		in.ISBN = services.Some(v)
	}

	if v, ok := formValue(values, "author"); ok {
		if strings.TrimSpace(v) == "" {
			in.AuthorID = services.Some(uint(0))
		} else if id, err := parseID(v); err != nil {
			errs["author"] = "must be a valid author id"
		} else {
			in.AuthorID = services.Some(id)
		}
	}

	if raw, ok := values["tags"]; ok {
		ids := make([]uint, 0, len(raw))
		for _, v := range raw {
			if strings.TrimSpace(v) == "" {
				continue
			}
			id, err := parseID(v)
			if err != nil {
				errs["tags"] = fmt.Sprintf("%q is not a valid tag id", v)
				break
			}
			ids = append(ids, id)
		}
		in.TagIDs = services.Some(ids)
	}

	if v, ok := formValue(values, "published_date"); ok {
		if date, err := parseDate(&v); err != nil {
			errs["published_date"] = err.Error()
		} else {
			in.PublishedDate = services.Some(date)
		}
	}

	if headers := files["pdf_file"]; len(headers) > 0 {
		header := headers[0]
		f, err := header.Open()
		if err != nil {
			return in, release, apperrors.Internal("failed to read upload", err)
		}
		release = func() { f.Close() }
		in.PDF = &services.PDFUpload{Filename: header.Filename, Size: header.Size, Content: f}
	} else if v, ok := formValue(values, "pdf_file"); ok {
		if v == "" {
			in.ClearPDF = true
		} else {
			errs["pdf_file"] = "must be a file upload"
		}
	}

	return in, release, detailsError(errs)
}

func formValue(values map[string][]string, key string) (string, bool) {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func detailsError(errs map[string]string) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		for field, msg := range errs {
			return apperrors.ValidationWithDetails(field+" "+msg, errs)
		}
	}
	return apperrors.ValidationWithDetails("validation failed", errs)
}
