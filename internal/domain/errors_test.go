package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil, "fallback"))
	assert.Equal(t, "bad", UserMessage(NewValidationError("x", "bad"), "fallback"))

	wrapped := fmt.Errorf("login: %w", &APIError{Status: 401, Message: "Invalid credentials"})
	assert.Equal(t, "Invalid credentials", UserMessage(wrapped, "Login failed"))

	netErr := &NetworkError{Op: "login", Err: errors.New("connection refused")}
	assert.Equal(t, "Network error: connection refused", UserMessage(netErr, "Login failed"))

	assert.Equal(t, "Login failed", UserMessage(errors.New("boom"), "Login failed"))
}

func TestNetworkError_Unwrap(t *testing.T) {
	inner := errors.New("dial tcp")
	err := &NetworkError{Op: "portfolios", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "portfolios")
}
