package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("db down")
	wrapped := fmt.Errorf("outer: %w", internalError("failed loading folder", cause))

	assert.Equal(t, KindInternal, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "failed loading folder", MessageOf(wrapped))

	assert.Equal(t, KindNotFound, KindOf(notFoundError("folder not found")))
	assert.Equal(t, KindForbidden, KindOf(forbiddenError("nope")))
	assert.Equal(t, KindValidation, KindOf(validationError("bad")))
	assert.Equal(t, KindUnauthorized, KindOf(unauthorizedError("who")))

	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, "internal server error", MessageOf(errors.New("plain")))
	assert.Equal(t, "not_found", KindNotFound.String())
}
