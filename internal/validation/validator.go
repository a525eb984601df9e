// Package validation provides HTTP request validation utilities using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/inkwellapp/inkwell/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell/internal/errors"
)

// MaxIDLength bounds post ids accepted from requests.
const MaxIDLength = 256

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Imported ids are arbitrary strings; they only need to fit in a URL path segment.
	_ = v.RegisterValidation("post_id", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		return id != "" && len(id) <= MaxIDLength && !strings.ContainsAny(id, "/?# \t\n")
	})

	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || s == domain.StatusPublished || s == domain.StatusDraft
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// Var validates a single value against tag.
func (v *Validator) Var(name string, value any, tag string) error {
	if err := v.v.Var(value, tag); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			msg := name + " " + v.friendlyMessage(validationErrs[0])
			return domainerrors.ValidationWithDetails(msg, map[string]string{name: v.friendlyMessage(validationErrs[0])})
		}
		return err
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string)
	names := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = v.friendlyMessage(e)
		names = append(names, e.Field())
	}

	return domainerrors.ValidationWithDetails("validation failed: "+strings.Join(names, ", "), fieldErrors)
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "post_id":
		return "must be a valid post id"
	case "status":
		return "must be Published or Draft"
	default:
		return "is invalid"
	}
}
