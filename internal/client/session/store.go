// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

/*
Package session manages the client-side authenticated session.

A session is a pair: the access token and a cached snapshot of the account
profile. Both live together in one JSON file on disk, shared by every
process of the same user, so the steady state is all-or-nothing: either
both are present or the file does not exist.

# Trust Model

The cache is an optimistic connectivity buffer, not a security boundary.
A cached session renders the client signed-in immediately on startup; the
server re-checks authorization on every API call regardless of what the
file claims.
*/
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/inklinehq/inkline/internal/client/rest"
)

// State is the persisted session: token and profile travel together.
type State struct {
	Token   string            `json:"token"`
	Profile *rest.UserProfile `json:"profile"`
}

// FileStore persists the session state to a single JSON file.
//
// Writes are atomic (temp file + rename), so a concurrent reader never
// observes a half-written session.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file's location, used by the fsnotify watcher.
func (store *FileStore) Path() string { return store.path }

// Load reads the persisted state. A missing file means signed out and
// returns (nil, nil); a corrupt file is an error, not an empty session.
func (store *FileStore) Load() (*State, error) {
	raw, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("session: read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("session: decode state file: %w", err)
	}

	// A file without a token is no session at all.
	if state.Token == "" {
		return nil, nil
	}

	return &state, nil
}

// Save atomically replaces the persisted state.
func (store *FileStore) Save(state *State) error {
	encoded, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode state: %w", err)
	}

	directory := filepath.Dir(store.path)
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return fmt.Errorf("session: create state directory: %w", err)
	}

	// Write to a temp file in the same directory, then rename over the
	// target. Rename is atomic on the same filesystem.
	temp, err := os.CreateTemp(directory, ".session-*")
	if err != nil {
		return fmt.Errorf("session: create temp file: %w", err)
	}
	tempName := temp.Name()

	if _, err := temp.Write(encoded); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempName)
		return fmt.Errorf("session: write temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("session: close temp file: %w", err)
	}
	if err := os.Chmod(tempName, 0o600); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("session: chmod temp file: %w", err)
	}

	if err := os.Rename(tempName, store.path); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("session: replace state file: %w", err)
	}

	return nil
}

// Clear removes the persisted state. Clearing an absent file is a no-op.
func (store *FileStore) Clear() error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: remove state file: %w", err)
	}
	return nil
}
