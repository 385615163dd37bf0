package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileNotFoundError(t *testing.T) {
	err := NewFileNotFoundError("geometry", "data/poi.geojson")

	assert.Equal(t, "geometry file not found: data/poi.geojson", err.Error())
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrMissingColumn))

	wrapped := fmt.Errorf("fix: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))

	var target *FileNotFoundError
	assert.True(t, As(wrapped, &target))
	assert.Equal(t, "geometry", target.Role)
}

func TestColumnError(t *testing.T) {
	err := NewColumnError("latitude", []string{"ID", "title"})

	assert.Equal(t, "could not find latitude column in header [ID;title]", err.Error())
	assert.True(t, Is(err, ErrMissingColumn))
}

func TestConfigError(t *testing.T) {
	cause := New("boom")
	err := NewConfigError("fix.match", "unknown strategy", cause)

	assert.Equal(t, "configuration error in fix.match: unknown strategy", err.Error())
	assert.True(t, Is(err, ErrInvalidInput))
	assert.Equal(t, cause, Unwrap(err))
}
