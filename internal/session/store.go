// Package session holds the authenticated identity of the single operator of this process.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/events"
	"github.com/rs/zerolog"
)

// ErrIncomplete is returned by Login when either identity field is empty.
var ErrIncomplete = errors.New("session requires both user id and username")

// Session is the authenticated identity. The zero value is the logged-out state.
type Session struct {
	UserID   domain.UserID
	Username string
}

// LoggedIn reports whether the session carries an identity.
func (s Session) LoggedIn() bool {
	return s.UserID != "" && s.Username != ""
}

// Store is the process-wide session holder, persisted to Storage.
type Store struct {
	mu      sync.RWMutex
	current Session
	storage Storage
	bus     *events.Bus
	log     zerolog.Logger
}

// NewStore creates a store and rehydrates it from storage.
// A half-present identity (only one key stored) is treated as logged out and the stray key
// is removed. bus may be nil.
func NewStore(storage Storage, bus *events.Bus, log zerolog.Logger) (*Store, error) {
	s := &Store{
		storage: storage,
		bus:     bus,
		log:     log.With().Str("component", "session").Logger(),
	}
	if err := s.rehydrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) rehydrate() error {
	userID, hasID, err := s.storage.Get(KeyUserID)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	username, hasName, err := s.storage.Get(KeyUsername)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	hasID = hasID && userID != ""
	hasName = hasName && username != ""

	switch {
	case hasID && hasName:
		s.current = Session{UserID: domain.UserID(userID), Username: username}
		s.log.Info().Str("user_id", userID).Msg("Session restored")
	case hasID || hasName:
		s.log.Warn().
			Bool("has_user_id", hasID).
			Bool("has_username", hasName).
			Msg("Discarding incomplete stored session")
		if err := s.clearStorage(); err != nil {
			return err
		}
	}
	return nil
}

// Login records a backend-confirmed identity.
func (s *Store) Login(userID domain.UserID, username string) error {
	if userID == "" || username == "" {
		return ErrIncomplete
	}

	s.mu.Lock()
	if err := s.storage.Set(KeyUserID, string(userID)); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.storage.Set(KeyUsername, username); err != nil {
		// never leave a half session behind
		_ = s.storage.Delete(KeyUserID)
		s.mu.Unlock()
		return err
	}
	s.current = Session{UserID: userID, Username: username}
	s.mu.Unlock()

	s.log.Info().Str("user_id", string(userID)).Str("username", username).Msg("Logged in")
	s.emit(&events.SessionChangedData{LoggedIn: true, UserID: string(userID)})
	return nil
}

// Logout clears the identity in memory and in storage. Calling it while logged out is a no-op
// apart from re-clearing storage.
func (s *Store) Logout() error {
	s.mu.Lock()
	was := s.current
	s.current = Session{}
	err := s.clearStorage()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if was.LoggedIn() {
		s.log.Info().Str("user_id", string(was.UserID)).Msg("Logged out")
	}
	s.emit(&events.SessionChangedData{LoggedIn: false})
	return nil
}

// Current returns the current session, or the zero Session when logged out.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) clearStorage() error {
	var errs []error
	for _, key := range []string{KeyUserID, KeyUsername} {
		if err := s.storage.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to clear session: %w", errors.Join(errs...))
	}
	return nil
}

func (s *Store) emit(data events.EventData) {
	if s.bus != nil {
		s.bus.Emit("session", data)
	}
}
