package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error aggregates every field that failed validation.
type Error struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *Error) Error() string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use config key names for field names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"mapstructure", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return toSnakeCase(fld.Name)
		})
	})
	return validate
}

// Validate validates a struct using struct tags.
// Uses tags like `validate:"required,url,oneof=json xml"`.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldPath(e),
			Message: formatValidationError(e),
		})
	}
	return &Error{Fields: fieldErrors}
}

// fieldPath drops the root struct name from the namespace ("Config.auth.api_key" -> "auth.api_key").
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "required_with":
		return "is required when " + e.Param() + " is set"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32) // lowercase
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
