package dto

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationFieldError is one failing field of a request
type ValidationFieldError struct {
	Field   string `json:"field" example:"email"`
	Message string `json:"message" example:"email is required"`
}

// HandleValidationError turns a binding error into a VAL_001 error detail.
// The first failing field becomes the detail's message and field; every
// failure is listed in Details.
func HandleValidationError(err error) *ErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]ValidationFieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, ValidationFieldError{
				Field:   jsonFieldName(fe),
				Message: formatValidationError(fe),
			})
		}
		return NewErrorDetail(ErrorCodeValidationFailed, fields[0].Message).
			WithField(fields[0].Field).
			WithDetails(fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return NewErrorDetail(ErrorCodeValidationFailed, typeErr.Field+" has the wrong type").
			WithField(typeErr.Field)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return NewErrorDetail(ErrorCodeValidationFailed, "Malformed JSON body")
	}

	// encoding/json reports unknown fields only as text
	if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field ") {
		field := strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`)
		return NewErrorDetail(ErrorCodeValidationFailed, "Unknown field "+field).WithField(field)
	}

	return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
}

// jsonFieldName strips the top-level struct name from the validator namespace.
// Field names are JSON names once middleware.SetupValidator has run.
func jsonFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := jsonFieldName(e)
	switch e.Tag() {
	case "required", "required_if", "notblank":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}
