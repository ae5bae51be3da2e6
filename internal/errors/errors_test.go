package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	plain := New(CodeNotFound, "recording not found")
	assert.Equal(t, "NOT_FOUND: recording not found", plain.Error())

	wrapped := Wrap(stderrors.New("no rows"), CodeNotFound, "recording not found")
	assert.Equal(t, "NOT_FOUND: recording not found (caused by: no rows)", wrapped.Error())
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := Wrap(cause, CodeInternal, "database error")
	assert.ErrorIs(t, wrapped, cause)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "", CodeOf(nil))
	assert.Equal(t, CodeConflict, CodeOf(New(CodeConflict, "exists")))
	assert.Equal(t, CodeInternal, CodeOf(stderrors.New("plain error")))

	// Nested AppErrors resolve to the outermost code
	inner := New(CodeNotFound, "missing")
	outer := Wrap(inner, CodeInternal, "lookup failed")
	assert.Equal(t, CodeInternal, CodeOf(outer))
}

func TestIsCode(t *testing.T) {
	err := New(CodeUnavailable, "network is unavailable")
	assert.True(t, IsCode(err, CodeUnavailable))
	assert.False(t, IsCode(err, CodeTimeout))
	assert.False(t, IsCode(nil, CodeUnavailable))
}
