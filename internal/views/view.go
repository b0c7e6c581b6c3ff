// Package views holds the page controllers. Each controller reads the identity from the
// session store, sequences its backend fetches, commits the result only while it is still the
// latest load, and turns user intents into validated backend mutations.
package views

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/events"
	"github.com/aristath/stockcircle/internal/fetch"
	"github.com/aristath/stockcircle/internal/session"
	"github.com/rs/zerolog"
)

var (
	// ErrNotLoggedIn is returned by loads and mutations when the session is absent.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrStale is returned by a load whose result was superseded by a load of another key or
	// by a session change before it could be committed.
	ErrStale = errors.New("result superseded")
)

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Options carries the settings shared by every controller.
type Options struct {
	Bus      *events.Bus
	FlashTTL time.Duration
	Log      zerolog.Logger
}

// page is the plumbing shared by every controller: session access, the load tracker, the
// last committed state and the flash message.
type page[S any] struct {
	name    string
	session *session.Store
	tracker *fetch.Tracker
	flash   *fetch.Flash
	log     zerolog.Logger

	mu       sync.RWMutex
	stateKey string
	state    S
	hasState bool
}

func newPage[S any](name string, store *session.Store, opts Options) *page[S] {
	log := opts.Log.With().Str("component", "view").Str("view", name).Logger()
	p := &page[S]{
		name:    name,
		session: store,
		tracker: fetch.NewTracker(name, opts.Bus, log),
		flash:   fetch.NewFlash(opts.FlashTTL),
		log:     log,
	}
	if opts.Bus != nil {
		opts.Bus.Subscribe(events.SessionChanged, func(events.Event) {
			p.forget()
			p.flash.Clear()
		})
	}
	return p
}

// identity returns the current session or ErrNotLoggedIn.
func (p *page[S]) identity() (session.Session, error) {
	s := p.session.Current()
	if !s.LoggedIn() {
		return session.Session{}, ErrNotLoggedIn
	}
	return s, nil
}

// stateKeyFor scopes committed state to the user so one user never sees another's data.
func stateKeyFor(s session.Session, key string) string {
	return fmt.Sprintf("%s/%s", s.UserID, key)
}

// commit stores state if h is still the latest load.
func (p *page[S]) commit(h fetch.Handle, state S) error {
	ok := p.tracker.Commit(h, func() {
		p.mu.Lock()
		p.stateKey = h.Key
		p.state = state
		p.hasState = true
		p.mu.Unlock()
	})
	if !ok {
		return ErrStale
	}
	return nil
}

// snapshot returns the last committed state for key.
func (p *page[S]) snapshot(key string) (S, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.hasState || p.stateKey != key {
		var zero S
		return zero, false
	}
	return p.state, true
}

func (p *page[S]) forget() {
	p.mu.Lock()
	var zero S
	p.state = zero
	p.stateKey = ""
	p.hasState = false
	p.mu.Unlock()
}

// succeeded records a successful mutation.
func (p *page[S]) succeeded(action, msg string) {
	p.log.Info().Str("action", action).Msg("Mutation succeeded")
	p.flash.Set(msg)
}

// failed logs a failed mutation and passes err through.
func (p *page[S]) failed(action string, err error) error {
	ev := p.log.Warn()
	if domain.IsValidation(err) {
		ev = p.log.Debug()
	}
	ev.Err(err).Str("action", action).Msg("Mutation failed")
	return err
}
