// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/inklinehq/inkline/internal/client/rest"
)

// ReconcileTimeout bounds one background verification round trip.
//
// A check that cannot finish inside this window is dropped, not retried:
// better a briefly stale session than a client that hangs on a dead link.
const ReconcileTimeout = 5 * time.Second

// API is the slice of the REST client the manager needs.
type API interface {
	Login(ctx context.Context, email, password string) (*rest.Session, error)
	Register(ctx context.Context, name, email, password string) (*rest.Session, error)
	Verify(ctx context.Context) (*rest.UserProfile, error)
}

// Outcome classifies one reconciliation round.
type Outcome int

const (
	// OutcomeSkipped: there was no session to check.
	OutcomeSkipped Outcome = iota

	// OutcomeConfirmed: the server confirmed the session; the cached
	// profile was refreshed from the live record.
	OutcomeConfirmed

	// OutcomeRejected: the server answered 401; the session was purged.
	OutcomeRejected

	// OutcomeInconclusive: the server could not be reached (or answered too
	// slowly). The cached session stands; an outage never signs anyone out.
	OutcomeInconclusive
)

// Manager owns the in-memory session and keeps it in sync with the store.
//
// # Concurrency
//
// All state transitions go through one mutex. Reconciliation performs its
// network round trip outside the lock and re-checks the token before
// applying the result, so a login or logout that happened mid-flight wins
// over a stale verification.
type Manager struct {
	store *FileStore
	api   API

	mu    sync.Mutex
	state *State
}

// NewManager creates a manager over the given store.
//
// The API is attached separately because the REST client needs the manager
// as its token source: construct the manager, build the client on top of
// it, then call [Manager.AttachAPI].
func NewManager(store *FileStore) *Manager {
	return &Manager{store: store}
}

// AttachAPI wires in the REST client. Must be called before Login,
// Register, or Reconcile.
func (manager *Manager) AttachAPI(api API) {
	manager.api = api
}

// # State Access

// Token implements [rest.TokenSource]. Empty when signed out.
func (manager *Manager) Token() string {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.state == nil {
		return ""
	}
	return manager.state.Token
}

// Current returns a copy of the session state, or nil when signed out.
func (manager *Manager) Current() *State {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.state == nil {
		return nil
	}
	clone := *manager.state
	if manager.state.Profile != nil {
		profile := *manager.state.Profile
		clone.Profile = &profile
	}
	return &clone
}

// Authenticated reports whether a session is currently held.
func (manager *Manager) Authenticated() bool {
	return manager.Token() != ""
}

// Role returns the cached profile's role, empty when signed out.
//
// This is the cached snapshot, refreshed by Reconcile; route guards read
// it for navigation only, the server decides what actually runs.
func (manager *Manager) Role() string {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.state == nil || manager.state.Profile == nil {
		return ""
	}
	return manager.state.Profile.Role
}

// Load hydrates the in-memory state from disk.
//
// Called once on startup and again whenever the watcher sees the file
// change. A cached session makes the client authenticated immediately,
// before any network traffic.
func (manager *Manager) Load() error {
	state, err := manager.store.Load()
	if err != nil {
		return err
	}

	manager.mu.Lock()
	manager.state = state
	manager.mu.Unlock()
	return nil
}

// # Session Lifecycle

// Login exchanges credentials for a session and persists it.
func (manager *Manager) Login(ctx context.Context, email, password string) (*State, error) {
	session, err := manager.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return manager.establish(session)
}

// Register creates an account and persists its first session.
func (manager *Manager) Register(ctx context.Context, name, email, password string) (*State, error) {
	session, err := manager.api.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return manager.establish(session)
}

func (manager *Manager) establish(session *rest.Session) (*State, error) {
	profile := session.User
	state := &State{Token: session.Token, Profile: &profile}

	if err := manager.store.Save(state); err != nil {
		return nil, err
	}

	manager.mu.Lock()
	manager.state = state
	manager.mu.Unlock()
	return state, nil
}

// Logout discards the session locally: memory and file.
//
// The token itself is not revoked server-side and remains valid until it
// expires; discarding it here is the whole logout.
func (manager *Manager) Logout() error {
	if err := manager.store.Clear(); err != nil {
		return err
	}

	manager.mu.Lock()
	manager.state = nil
	manager.mu.Unlock()
	return nil
}

// # Reconciliation

// Reconcile checks the cached session against the server, once.
//
// The round trip is bounded by [ReconcileTimeout] joined with the caller's
// context, so an already-cancelled caller never starts a doomed check.
//
// Outcomes:
//   - server confirms: cached profile refreshed from the live record
//     (role changes land here).
//   - server answers 401: session purged; the server's word is final.
//   - anything else (timeout, DNS, refused): session kept untouched.
//
// Concurrent calls are safe; a result is applied only if the session it
// checked is still the current one.
func (manager *Manager) Reconcile(ctx context.Context) (Outcome, error) {
	manager.mu.Lock()
	if manager.state == nil {
		manager.mu.Unlock()
		return OutcomeSkipped, nil
	}
	checkedToken := manager.state.Token
	manager.mu.Unlock()

	checkCtx, cancel := context.WithTimeout(ctx, ReconcileTimeout)
	defer cancel()

	profile, err := manager.api.Verify(checkCtx)

	manager.mu.Lock()
	defer manager.mu.Unlock()

	// The session changed underneath the check (login/logout raced it).
	// Whatever the verdict was, it no longer applies.
	if manager.state == nil || manager.state.Token != checkedToken {
		return OutcomeSkipped, nil
	}

	switch {
	case err == nil:
		manager.state.Profile = profile
		if saveErr := manager.store.Save(manager.state); saveErr != nil {
			return OutcomeConfirmed, saveErr
		}
		return OutcomeConfirmed, nil

	case errors.Is(err, rest.ErrUnauthorized):
		// Explicit rejection: the session is dead, locally too.
		manager.state = nil
		if clearErr := manager.store.Clear(); clearErr != nil {
			return OutcomeRejected, clearErr
		}
		return OutcomeRejected, nil

	default:
		// Could-not-reach, including the timeout. Keep the cached session.
		return OutcomeInconclusive, fmt.Errorf("session: reconcile inconclusive: %w", err)
	}
}
