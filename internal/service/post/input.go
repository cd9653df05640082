package post

import (
	"strings"

	"github.com/heartmarshall/inkwell-backend/internal/domain"
)

const (
	maxTitleLen = 256
	maxBodyLen  = 200_000
)

// ---------------------------------------------------------------------------
// CreatePostInput
// ---------------------------------------------------------------------------

// CreatePostInput holds the parameters for a create mutation command.
type CreatePostInput struct {
	Title string
	Body  string
}

// Validate checks field shape only. Business rules are deliberately not
// evaluated here; the producer trades consistency checks for throughput.
func (i CreatePostInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(i.Title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long (max 256)"})
	}
	if strings.TrimSpace(i.Body) == "" {
		errs = append(errs, domain.FieldError{Field: "body", Message: "required"})
	}
	if len(i.Body) > maxBodyLen {
		errs = append(errs, domain.FieldError{Field: "body", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ---------------------------------------------------------------------------
// UpdatePostInput
// ---------------------------------------------------------------------------

// UpdatePostInput holds the parameters for an update mutation command.
// Nil fields are left unchanged by the worker.
type UpdatePostInput struct {
	Title *string
	Body  *string
}

// Validate requires at least one field and checks shape.
func (i UpdatePostInput) Validate() error {
	var errs []domain.FieldError

	if i.Title == nil && i.Body == nil {
		errs = append(errs, domain.FieldError{Field: "title", Message: "at least one of title, body is required"})
	}
	if i.Title != nil {
		if strings.TrimSpace(*i.Title) == "" {
			errs = append(errs, domain.FieldError{Field: "title", Message: "must not be blank"})
		}
		if len(*i.Title) > maxTitleLen {
			errs = append(errs, domain.FieldError{Field: "title", Message: "too long (max 256)"})
		}
	}
	if i.Body != nil {
		if strings.TrimSpace(*i.Body) == "" {
			errs = append(errs, domain.FieldError{Field: "body", Message: "must not be blank"})
		}
		if len(*i.Body) > maxBodyLen {
			errs = append(errs, domain.FieldError{Field: "body", Message: "too long"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
