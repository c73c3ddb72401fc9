package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	base := fmt.Errorf("row missing")
	err := NotFound("service", base)

	assert.Equal(t, "service not found: row missing", err.Error())
	assert.Equal(t, base, err.Unwrap())

	bare := Conflict("slot already taken", nil)
	assert.Equal(t, "slot already taken", bare.Error())
}

func TestIsCode(t *testing.T) {
	err := Conflict("slot already taken", nil)
	assert.True(t, IsCode(err, ErrConflict))
	assert.False(t, IsCode(err, ErrNotFound))

	// Works through wrapping.
	wrapped := fmt.Errorf("create booking: %w", err)
	assert.True(t, IsCode(wrapped, ErrConflict))

	assert.False(t, IsCode(fmt.Errorf("plain"), ErrConflict))
	assert.False(t, IsCode(nil, ErrConflict))
}
