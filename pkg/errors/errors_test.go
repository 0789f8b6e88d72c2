package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(Validation("bad input"), ErrValidation))
	assert.True(t, IsCode(NotFound("user"), ErrNotFound))
	assert.False(t, IsCode(NotFound("user"), ErrValidation))
	assert.False(t, IsCode(nil, ErrValidation))
	assert.False(t, IsCode(errors.New("plain"), ErrStorage))
}

func TestIsCodeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NotAvailable("request is not available"))
	assert.True(t, IsCode(wrapped, ErrNotAvailable))
}

func TestStorageWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage(cause)

	assert.True(t, IsCode(err, ErrStorage))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAuthenticationIsOpaque(t *testing.T) {
	err := Authentication()
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestMessages(t *testing.T) {
	assert.Equal(t, `username "mario" already in use`, DuplicateUsername("mario").Error())
	assert.Equal(t, "user not found", NotFound("user").Error())
	assert.Equal(t, "category suggestion is not available", Unavailable("category suggestion").Error())
}
