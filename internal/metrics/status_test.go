package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/storefront/internal/errors"
)

func TestOperationStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, StatusSuccess},
		{"invalid input", apperrors.Wrap(apperrors.ErrInvalidInput, "bad"), StatusRejected},
		{"conflict", apperrors.ErrConflict, StatusRejected},
		{"unauthorized", apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credentials"), StatusRejected},
		{"forbidden", apperrors.ErrForbidden, StatusRejected},
		{"not found", apperrors.ErrNotFound, StatusRejected},
		{"unavailable", apperrors.ErrUnavailable, StatusError},
		{"unknown", errors.New("boom"), StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OperationStatus(tt.err))
		})
	}
}
