package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_MatchesInvalidInput(t *testing.T) {
	err := NewValidationError(3, "no valid rows (%d skipped)", 3)

	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "validation failed: no valid rows (3 skipped)", err.Error())
	assert.Equal(t, 3, err.Skipped)

	var vErr *ValidationError
	assert.True(t, errors.As(fmt.Errorf("save: %w", err), &vErr))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", NewValidationError(0, "empty"), http.StatusUnprocessableEntity},
		{"not found", fmt.Errorf("lookup: %w", ErrEmojiNotFound), http.StatusNotFound},
		{"no dataset", ErrNoDataset, http.StatusNotFound},
		{"renderer missing", ErrRendererUnavailable, http.StatusServiceUnavailable},
		{"render failed", fmt.Errorf("%w: blank", ErrRenderFailed), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}
