// Package service holds the identity and inventory business rules.
package service

import (
	"unicode"
	"unicode/utf8"

	"implantstock/internal/models"
	"implantstock/internal/observability"
)

// validationError turns a validation package error into a user-facing AppError.
func validationError(err error) error {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	return models.NewValidationError(string(unicode.ToUpper(r)) + msg[size:])
}

// outcomeOf classifies err for the operation counters.
func outcomeOf(err error) string {
	if err == nil {
		return observability.OutcomeSuccess
	}
	if appErr, ok := models.AsAppError(err); ok && appErr.Code != models.CodeInternal {
		return observability.OutcomeRejected
	}
	return observability.OutcomeError
}
