package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrInvalidMode", ErrInvalidMode},
		{"ErrInvalidContext", ErrInvalidContext},
		{"ErrNotFound", ErrNotFound},
		{"ErrClosed", ErrClosed},
		{"ErrIndexBuild", ErrIndexBuild},
		{"ErrNotImplemented", ErrNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	all := []error{ErrInvalidInput, ErrInvalidMode, ErrInvalidContext, ErrNotFound, ErrClosed, ErrIndexBuild, ErrNotImplemented}
	for i, a := range all {
		for j, b := range all {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}

func TestErrors_Wrapped(t *testing.T) {
	err := fmt.Errorf("building idx_attr_key: %w", ErrIndexBuild)
	assert.ErrorIs(t, err, ErrIndexBuild)
	assert.Contains(t, err.Error(), "index build failed")
}
