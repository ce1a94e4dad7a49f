// Package validation registers the custom binding tags used by the request
// models and turns binding failures into field-level API errors.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"notes-be/internal/apperror"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var (
	registerOnce sync.Once
	registerErr  error
)

// Register installs the custom tags on gin's default validator. Safe to call
// more than once.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		registerErr = RegisterOn(v)
	})
	return registerErr
}

// RegisterOn installs the custom tags on v and reports fields by their JSON name.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return fmt.Errorf("failed to register notblank: %w", err)
	}
	if err := v.RegisterValidation("notecolor", isNoteColor); err != nil {
		return fmt.Errorf("failed to register notecolor: %w", err)
	}
	return nil
}

// IsNoteColor reports whether s is a #rrggbb hex color.
func IsNoteColor(s string) bool {
	return colorPattern.MatchString(s)
}

func isNoteColor(fl validator.FieldLevel) bool {
	return IsNoteColor(fl.Field().String())
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// FieldErrors converts an error returned by ShouldBindJSON into field errors.
// Malformed bodies produce a single "body" entry.
func FieldErrors(err error) []apperror.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, apperror.FieldError{Field: fe.Field(), Message: message(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []apperror.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type.String()),
		}}
	}

	if errors.Is(err, io.EOF) {
		return []apperror.FieldError{{Field: "body", Message: "Request body is required"}}
	}
	return []apperror.FieldError{{Field: "body", Message: "Request body must be valid JSON"}}
}

// Error wraps a binding error as a validation *apperror.Error.
func Error(err error) *apperror.Error {
	return apperror.Validation("Validation failed", FieldErrors(err)...)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	isList := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s cannot be empty", field)
	case "email":
		return "Please enter a valid email"
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "notecolor":
		return "Color must be a valid hex color"
	case "min":
		if isList {
			return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if isList {
			return fmt.Sprintf("%s cannot have more than %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
