// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package session_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inklinehq/inkline/internal/client/rest"
	"github.com/inklinehq/inkline/internal/client/session"
)

// One process watches the session file while a sibling store, standing in
// for a second terminal, logs in and out. The watcher's in-memory state
// must follow.
func TestWatch_CrossProcessPropagation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	watching := session.NewManager(session.NewFileStore(path))
	require.NoError(t, watching.Load())
	require.False(t, watching.Authenticated())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	done := make(chan error, 1)
	go func() { done <- watching.Watch(ctx, quiet) }()

	sibling := session.NewFileStore(path)
	signedIn := &session.State{
		Token: "session-token",
		Profile: &rest.UserProfile{
			ID:    "3b241101-e2bb-4255-8caf-4136c566a962",
			Name:  "Reader One",
			Email: "reader@example.com",
			Role:  "reader",
		},
	}

	// The save is retried until the watcher reports it: the watcher
	// goroutine registers its directory watch asynchronously and an event
	// raised before that registration is never delivered.
	require.Eventually(t, func() bool {
		if err := sibling.Save(signedIn); err != nil {
			return false
		}
		return watching.Authenticated()
	}, 5*time.Second, 50*time.Millisecond, "sibling login never reached the watcher")

	require.Eventually(t, func() bool {
		if err := sibling.Clear(); err != nil {
			return false
		}
		return !watching.Authenticated()
	}, 5*time.Second, 50*time.Millisecond, "sibling logout never reached the watcher")

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop on cancellation")
	}
}
