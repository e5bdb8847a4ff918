// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inklinehq/inkline/internal/client/rest"
	"github.com/inklinehq/inkline/internal/client/session"
)

// fakeAPI scripts the server's answers, one scenario per field.
type fakeAPI struct {
	loginSession *rest.Session
	loginErr     error

	verifyProfile *rest.UserProfile
	verifyErr     error
}

func (f *fakeAPI) Login(context.Context, string, string) (*rest.Session, error) {
	return f.loginSession, f.loginErr
}

func (f *fakeAPI) Register(context.Context, string, string, string) (*rest.Session, error) {
	return f.loginSession, f.loginErr
}

func (f *fakeAPI) Verify(context.Context) (*rest.UserProfile, error) {
	return f.verifyProfile, f.verifyErr
}

func newManager(t *testing.T, api *fakeAPI) (*session.Manager, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "session.json")
	manager := session.NewManager(session.NewFileStore(path))
	manager.AttachAPI(api)
	return manager, path
}

var testSession = &rest.Session{
	Token: "signed-token",
	User:  rest.UserProfile{ID: "user-1", Name: "Alice", Email: "alice@example.com", Role: "reader"},
}

// # Lifecycle

/*
TestManager_LoginLogout verifies the all-or-nothing steady state: login
persists token and profile together, logout removes the file entirely.
*/
func TestManager_LoginLogout(t *testing.T) {
	manager, path := newManager(t, &fakeAPI{loginSession: testSession})
	ctx := context.Background()

	state, err := manager.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "signed-token", state.Token)
	require.NotNil(t, state.Profile)
	assert.Equal(t, "Alice", state.Profile.Name)

	assert.True(t, manager.Authenticated())
	assert.Equal(t, "signed-token", manager.Token())
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, manager.Logout())
	assert.False(t, manager.Authenticated())
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

/*
TestManager_LoadFromDisk verifies that a second manager over the same file
starts authenticated from the cache, before any network traffic.
*/
func TestManager_LoadFromDisk(t *testing.T) {
	manager, path := newManager(t, &fakeAPI{loginSession: testSession})

	_, err := manager.Login(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)

	// A sibling process opens the same session file.
	sibling := session.NewManager(session.NewFileStore(path))
	require.NoError(t, sibling.Load())

	assert.True(t, sibling.Authenticated())
	state := sibling.Current()
	require.NotNil(t, state)
	assert.Equal(t, "Alice", state.Profile.Name)
}

/*
TestManager_LoadMissingFile verifies that no file simply means signed out.
*/
func TestManager_LoadMissingFile(t *testing.T) {
	manager, _ := newManager(t, &fakeAPI{})

	require.NoError(t, manager.Load())
	assert.False(t, manager.Authenticated())
	assert.Nil(t, manager.Current())
}

// # Reconciliation

/*
TestManager_Reconcile covers the three verdicts: confirmation refreshes the
profile, explicit rejection purges the session, and an unreachable server
leaves the cached session untouched.
*/
func TestManager_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed_refreshes_profile", func(t *testing.T) {
		api := &fakeAPI{
			loginSession: testSession,
			// The server knows something the cache doesn't: a promotion.
			verifyProfile: &rest.UserProfile{ID: "user-1", Name: "Alice", Email: "alice@example.com", Role: "author"},
		}
		manager, _ := newManager(t, api)
		_, err := manager.Login(ctx, "alice@example.com", "pw")
		require.NoError(t, err)

		outcome, err := manager.Reconcile(ctx)
		require.NoError(t, err)
		assert.Equal(t, session.OutcomeConfirmed, outcome)

		state := manager.Current()
		require.NotNil(t, state)
		assert.Equal(t, "author", state.Profile.Role)
	})

	t.Run("rejected_purges_session", func(t *testing.T) {
		api := &fakeAPI{loginSession: testSession, verifyErr: rest.ErrUnauthorized}
		manager, path := newManager(t, api)
		_, err := manager.Login(ctx, "alice@example.com", "pw")
		require.NoError(t, err)

		outcome, err := manager.Reconcile(ctx)
		require.NoError(t, err)
		assert.Equal(t, session.OutcomeRejected, outcome)

		assert.False(t, manager.Authenticated())
		_, statErr := os.Stat(path)
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
	})

	t.Run("unreachable_fails_open", func(t *testing.T) {
		api := &fakeAPI{loginSession: testSession, verifyErr: errors.New("dial tcp: connection refused")}
		manager, _ := newManager(t, api)
		_, err := manager.Login(ctx, "alice@example.com", "pw")
		require.NoError(t, err)

		outcome, err := manager.Reconcile(ctx)
		require.Error(t, err)
		assert.Equal(t, session.OutcomeInconclusive, outcome)

		// The cached session survives the outage.
		assert.True(t, manager.Authenticated())
	})

	t.Run("no_session_is_skipped", func(t *testing.T) {
		manager, _ := newManager(t, &fakeAPI{})
		require.NoError(t, manager.Load())

		outcome, err := manager.Reconcile(ctx)
		require.NoError(t, err)
		assert.Equal(t, session.OutcomeSkipped, outcome)
	})

	t.Run("stale_result_is_dropped", func(t *testing.T) {
		api := &fakeAPI{loginSession: testSession, verifyErr: rest.ErrUnauthorized}
		manager, _ := newManager(t, api)
		_, err := manager.Login(ctx, "alice@example.com", "pw")
		require.NoError(t, err)

		// The session the check would condemn is already gone.
		require.NoError(t, manager.Logout())

		outcome, err := manager.Reconcile(ctx)
		require.NoError(t, err)
		assert.Equal(t, session.OutcomeSkipped, outcome)
	})
}

// # Persistence Details

/*
TestFileStore_CorruptFile verifies that a mangled session file is reported
as an error rather than silently treated as signed out.
*/
func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := session.NewFileStore(path)
	_, err := store.Load()
	require.Error(t, err)
}
