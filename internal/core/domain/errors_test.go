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
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrNoSupportedEntry", ErrNoSupportedEntry},
		{"ErrEmbeddingDimensionMismatch", ErrEmbeddingDimensionMismatch},
		{"ErrDocumentNotCompleted", ErrDocumentNotCompleted},
		{"ErrCacheMiss", ErrCacheMiss},
		{"ErrConflictingKey", ErrConflictingKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrAlreadyExists))
}

func TestErrors_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("parse resume.xyz: %w", ErrUnsupportedFormat)
	assert.ErrorIs(t, wrapped, ErrUnsupportedFormat)
	assert.NotErrorIs(t, wrapped, ErrNoSupportedEntry)
}

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrAlreadyExists, ErrInvalidInput, ErrUnsupportedFormat,
		ErrNoSupportedEntry, ErrEmbeddingDimensionMismatch, ErrDocumentNotCompleted,
		ErrCacheMiss, ErrConflictingKey,
	}
	for i := range all {
		for j := range all {
			if i != j {
				assert.False(t, errors.Is(all[i], all[j]), "%v should not match %v", all[i], all[j])
			}
		}
	}
}
