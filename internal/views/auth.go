package views

import (
	"context"
	"fmt"

	"github.com/aristath/stockcircle/internal/clients/backend"
	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/session"
	"github.com/rs/zerolog"
)

// Auth drives the login, register and logout intents.
type Auth struct {
	backend AuthBackend
	session *session.Store
	log     zerolog.Logger
}

// NewAuth creates the auth controller.
func NewAuth(b AuthBackend, store *session.Store, log zerolog.Logger) *Auth {
	return &Auth{
		backend: b,
		session: store,
		log:     log.With().Str("component", "view").Str("view", "auth").Logger(),
	}
}

// Login verifies credentials with the backend and, on success, records the session.
func (a *Auth) Login(ctx context.Context, username, password string) (session.Session, error) {
	return a.authenticate(ctx, "login", username, password, a.backend.Login)
}

// Register creates the account and logs it in.
func (a *Auth) Register(ctx context.Context, username, password string) (session.Session, error) {
	return a.authenticate(ctx, "register", username, password, a.backend.Register)
}

func (a *Auth) authenticate(
	ctx context.Context,
	action, username, password string,
	call func(context.Context, backend.Credentials) (backend.AuthResult, error),
) (session.Session, error) {
	username, err := domain.ValidateCredentials(username, password)
	if err != nil {
		return session.Session{}, err
	}

	res, err := call(ctx, backend.Credentials{Username: username, Password: password})
	if err != nil {
		a.log.Warn().Err(err).Str("action", action).Str("username", username).Msg("Authentication failed")
		return session.Session{}, fmt.Errorf("%s: %w", action, err)
	}

	if err := a.session.Login(res.UserID, res.Username); err != nil {
		return session.Session{}, fmt.Errorf("%s: failed to store session: %w", action, err)
	}
	return a.session.Current(), nil
}

// Logout clears the session.
func (a *Auth) Logout() error {
	return a.session.Logout()
}

// Current returns the session.
func (a *Auth) Current() session.Session {
	return a.session.Current()
}
