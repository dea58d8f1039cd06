package services

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/SapirCardona/linkedinsights/internal/errors"
	"github.com/SapirCardona/linkedinsights/internal/validation"
	"github.com/SapirCardona/linkedinsights/internal/workbook"
)

// Service errors
var (
	ErrUnknownTable   = errors.New("unknown table")
	ErrPDFUnavailable = errors.New("pdf export is not configured")
)

// Failure reasons recorded on report_failures_total
const (
	reasonValidation      = "validation"
	reasonTooLarge        = "too_large"
	reasonInvalidWorkbook = "invalid_workbook"
	reasonSchemaMismatch  = "schema_mismatch"
	reasonInvalidValue    = "invalid_value"
	reasonCanceled        = "canceled"
	reasonInternal        = "internal"
)

// classify maps pipeline errors onto application errors the HTTP layer
// understands, and names the failure for metrics
func classify(err error) (error, string) {
	var (
		schemaErr   *workbook.SchemaError
		valueErr    *workbook.ValueError
		maxBytesErr *http.MaxBytesError
	)

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err, reasonCanceled

	case errors.Is(err, validation.ErrFileTooLarge), errors.As(err, &maxBytesErr):
		return apierrors.NewAppError(apierrors.ErrTypeTooLarge,
			"The workbook exceeds the upload size limit", err), reasonTooLarge

	case errors.Is(err, validation.ErrEmptyFile),
		errors.Is(err, validation.ErrUnsupportedExtension),
		errors.Is(err, validation.ErrTemporaryFile):
		return apierrors.NewAppError(apierrors.ErrTypeValidation,
			"The uploaded file was rejected", err), reasonValidation

	case errors.Is(err, workbook.ErrInvalidWorkbook):
		return apierrors.NewAppError(apierrors.ErrTypeInvalidWorkbook,
			"The file could not be read as an Excel workbook", err), reasonInvalidWorkbook

	case errors.As(err, &schemaErr):
		appErr := apierrors.NewAppError(apierrors.ErrTypeSchemaMismatch,
			"The workbook does not match the LinkedIn export layout", err).
			WithContext("sheet", schemaErr.Sheet)
		if schemaErr.Column != "" {
			appErr.WithContext("column", schemaErr.Column)
		}
		return appErr, reasonSchemaMismatch

	case errors.As(err, &valueErr):
		return apierrors.NewAppError(apierrors.ErrTypeInvalidValue,
			"A cell in the workbook could not be read", err).
			WithContext("sheet", valueErr.Sheet).
			WithContext("column", valueErr.Column).
			WithContext("row", valueErr.Row).
			WithContext("value", valueErr.Value), reasonInvalidValue
	}
	return err, reasonInternal
}
