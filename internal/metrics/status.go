package metrics

import (
	apperrors "github.com/allisson/storefront/internal/errors"
)

// Operation status label values.
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
	StatusError    = "error"
)

// OperationStatus classifies the outcome of an operation for the status label.
// Errors caused by the caller (bad input, wrong credentials, conflicts) are "rejected"
// so they do not inflate the server error rate.
func OperationStatus(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case apperrors.Is(err, apperrors.ErrInvalidInput),
		apperrors.Is(err, apperrors.ErrConflict),
		apperrors.Is(err, apperrors.ErrUnauthorized),
		apperrors.Is(err, apperrors.ErrForbidden),
		apperrors.Is(err, apperrors.ErrNotFound):
		return StatusRejected
	default:
		return StatusError
	}
}
