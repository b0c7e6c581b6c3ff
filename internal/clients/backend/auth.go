package backend

import (
	"context"
	"net/http"

	"github.com/aristath/stockcircle/internal/domain"
)

// Credentials is the login/register payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult is the identity confirmed by the backend.
type AuthResult struct {
	UserID   domain.UserID `json:"user_id"`
	Username string        `json:"username"`
}

// Login verifies credentials.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	return c.authenticate(ctx, "login", "/login", creds, "Login failed")
}

// Register creates an account and returns its identity.
func (c *Client) Register(ctx context.Context, creds Credentials) (AuthResult, error) {
	return c.authenticate(ctx, "register", "/register", creds, "Registration failed")
}

func (c *Client) authenticate(ctx context.Context, op, path string, creds Credentials, fallback string) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, request{
		op:       op,
		method:   http.MethodPost,
		path:     path,
		body:     creds,
		fallback: fallback,
	}, &out)
	if err != nil {
		return AuthResult{}, err
	}
	// the backend echoes only the id
	if out.Username == "" {
		out.Username = creds.Username
	}
	if out.UserID == "" {
		return AuthResult{}, &domain.APIError{Status: http.StatusBadGateway, Message: fallback}
	}
	return out, nil
}
