package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/SapirCardona/linkedinsights/internal/errors"
)

// ReportRequest holds the query parameters of a report request
type ReportRequest struct {
	Format string `validate:"omitempty,oneof=html json csv xlsx pdf"`
	Table  string `validate:"required_if=Format csv,max=64"`
}

// RequestValidator validates request structs with validator/v10
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate returns nil or field errors suitable for a problem response
func (v *RequestValidator) Validate(req any) []apierrors.ValidationError {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []apierrors.ValidationError{{Field: "request", Message: err.Error()}}
	}

	out := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apierrors.ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "required_if":
		return "is required for this format"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
