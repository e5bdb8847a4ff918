// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/inklinehq/inkline/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for the credential store.
//
// The core does not own the store's schema; it only requires these lookups
// and updates, performed as atomic per-row operations.
type UserRepository interface {

	// FindByID returns the account with the given ID, or apperr.NotFound.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email, or apperr.NotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new user account. Email uniqueness is enforced
	// by the store; a duplicate surfaces as apperr.Conflict.
	Create(ctx context.Context, user *User) error

	// Count returns the total number of registered accounts.
	//
	// Used only by the role-assignment bootstrap (first account → admin).
	Count(ctx context.Context) (int, error)

	// List returns every account ordered by creation time.
	List(ctx context.Context) ([]*User, error)

	// UpdateRole replaces only the user's role.
	UpdateRole(ctx context.Context, userID string, role sec.Role) error

	// UpdatePassword replaces only the user's password hash.
	UpdatePassword(ctx context.Context, userID, newHash string) error

	// Delete permanently removes the account.
	//
	// Any outstanding token for the account dies with the row, because the
	// authorization gate re-resolves the role on every request.
	Delete(ctx context.Context, id string) error
}

// # Volatile Data Access

// ResetTokenRepository defines the contract for storing volatile password
// reset tokens.
type ResetTokenRepository interface {

	// Set stores a reset token associated with a userID for a limited duration.
	Set(ctx context.Context, token string, userID string, ttl time.Duration) error

	// Get retrieves the userID associated with a given reset token.
	Get(ctx context.Context, token string) (string, error)

	// Delete removes a reset token after successful use.
	Delete(ctx context.Context, token string) error
}

// LoginLimiter throttles repeated failed login attempts per subject.
type LoginLimiter interface {

	// Hit records a failed attempt and reports whether the subject is now
	// over the limit, along with the seconds until the window resets.
	Hit(ctx context.Context, subject string) (blocked bool, retryAfter int, err error)

	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, subject string) error
}
