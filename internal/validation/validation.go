// Package validation wraps go-playground/validator with field errors keyed by
// JSON names.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is matched by every *Error.
var ErrInvalid = errors.New("validation failed")

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries every field failure of one struct.
type Error struct {
	Errors []ValidationError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error {
	return ErrInvalid
}

// Fields extracts the field errors from err, if it carries any.
func Fields(err error) []ValidationError {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Errors
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct validates v against its `validate` tags. It returns nil or an *Error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &Error{Errors: make([]ValidationError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

// New builds an *Error from explicit field failures.
func New(errs ...ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return &Error{Errors: errs}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a UUID"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
