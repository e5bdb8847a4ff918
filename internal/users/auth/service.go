// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/inklinehq/inkline/internal/platform/apperr"
	"github.com/inklinehq/inkline/internal/platform/sec"
	"github.com/inklinehq/inkline/pkg/uuidv7"
)

// # Contracts & Types

// TokenIssuer defines the contract for minting signed access tokens.
type TokenIssuer interface {
	// IssueToken creates a signed JWT string carrying the user's identity.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - role: The role captured at issue time.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	IssueToken(userID string, role sec.Role, timeToLive time.Duration) (string, error)
}

// Service implements identity and access-control use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, role
// assignment, or login logic must be reviewed before merging.
type Service struct {
	users       UserRepository
	resetTokens ResetTokenRepository
	limiter     LoginLimiter
	tokens      TokenIssuer
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	users UserRepository,
	resetTokens ResetTokenRepository,
	limiter LoginLimiter,
	tokens TokenIssuer,
) *Service {
	return &Service{
		users:       users,
		resetTokens: resetTokens,
		limiter:     limiter,
		tokens:      tokens,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthSession represents a successfully established authenticated session.
type AuthSession struct {
	Token string
	User  *User
}

/*
Register validates, hashes, and persists a brand new user account, then signs
the account in immediately.

Description: The very first account on a fresh deployment is promoted to admin
so the system is never born ownerless; every later account starts as a reader
and must be promoted explicitly by an admin.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *AuthSession: Signed token plus the created entity
  - err: Conflict (if email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*AuthSession, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.users.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// First account becomes admin, everyone after starts as reader.
	//
	// Two truly concurrent first registrations could both observe a count of
	// zero and both become admin. The window is a single request on a fresh
	// deployment; serializing it is not worth a table lock on every signup.
	role := sec.RoleReader
	total, err := service.users.Count(context)
	if err != nil {
		return nil, fmt.Errorf("auth_service_count_failed: %w", err)
	}
	if total == 0 {
		role = sec.RoleAdmin
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	// Persist the user to the database
	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	// Sign the new account in immediately
	token, err := service.tokens.IssueToken(user.ID, user.Role, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &AuthSession{Token: token, User: user}, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials and issues a signed access token.

Description: Verifies identity with constant-time password comparison, while a
per-email fixed-window counter throttles repeated failures. The token captures
the role at issue time, but the gate treats it as a hint only and re-reads the
live role on every request.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *AuthSession: Transport-ready session token plus the account
  - err: Unauthorized, RateLimited, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*AuthSession, error) {

	// Look up the account by email
	user, err := service.users.FindByEmail(context, input.Email)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, service.recordFailure(context, input.Email)
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, service.recordFailure(context, input.Email)
	}

	// Clear the failure counter on success
	if err := service.limiter.Reset(context, input.Email); err != nil {
		return nil, fmt.Errorf("auth_service_limiter_reset_failed: %w", err)
	}

	// Generate the access token
	token, err := service.tokens.IssueToken(user.ID, user.Role, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &AuthSession{Token: token, User: user}, nil
}

// recordFailure counts one failed attempt and picks the client-facing error.
//
// The same generic Unauthorized is returned whether the email or the password
// was wrong; only the throttle distinguishes itself, and only by status code.
func (service *Service) recordFailure(context context.Context, email string) error {
	blocked, retryAfter, err := service.limiter.Hit(context, email)
	if err != nil {
		return fmt.Errorf("auth_service_limiter_hit_failed: %w", err)
	}
	if blocked {
		return apperr.RateLimited(retryAfter)
	}
	return apperr.Unauthorized("Invalid login credentials")
}

// # Identity Resolution

/*
Profile returns the live account record for an authenticated user.

Description: Backs both the profile endpoint and the session verification
endpoint; clients reconcile their cached identity snapshot against this.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Current account state
  - err: NotFound (account deleted) or storage errors
*/
func (service *Service) Profile(context context.Context, userID string) (*User, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ResolveRole reports the account's current role from the credential store.
//
// This is the gate's source of truth: a role change or account deletion takes
// effect on the very next request, regardless of what any outstanding token
// claims. A missing account surfaces as NotFound and the gate turns that into
// a 401; any other failure stays a 500 so an infrastructure outage is never
// mistaken for a revoked session.
func (service *Service) ResolveRole(context context.Context, userID string) (sec.Role, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// # Account Administration

// ListUsers returns every registered account, oldest first.
func (service *Service) ListUsers(context context.Context) ([]*User, error) {
	users, err := service.users.List(context)
	if err != nil {
		return nil, fmt.Errorf("auth_service_list_users_failed: %w", err)
	}
	return users, nil
}

// GetUser returns a single account by ID.
func (service *Service) GetUser(context context.Context, userID string) (*User, error) {
	return service.users.FindByID(context, userID)
}

/*
UpdateRole replaces an account's role.

Description: Admin-only operation. The change propagates to every live session
on its next request because the gate re-reads the role from the store.

Parameters:
  - context: context.Context
  - userID: string
  - role: sec.Role

Returns:
  - *User: Account after the change
  - err: ValidationError (unknown role), NotFound, or storage errors
*/
func (service *Service) UpdateRole(context context.Context, userID string, role sec.Role) (*User, error) {

	// Reject unknown role values before touching the store
	if !role.Valid() {
		return nil, apperr.ValidationError("Invalid role",
			apperr.FieldError{Field: FieldRole, Message: "must be one of: admin, author, reader"},
		)
	}

	if err := service.users.UpdateRole(context, userID, role); err != nil {
		return nil, err
	}

	return service.users.FindByID(context, userID)
}

// DeleteUser permanently removes an account.
//
// Every outstanding token for the account is logically dead from this point:
// the gate's role re-resolution fails with NotFound and rejects the request.
func (service *Service) DeleteUser(context context.Context, userID string) error {
	return service.users.Delete(context, userID)
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token and saves it to Redis.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Reset token (handed to the delivery channel)
  - err: Generation or storage errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	// Look up user.
	// NOTE: We don't return NOT_FOUND if the email doesn't exist to prevent user enumeration.
	user, err := service.users.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	// Generate reset token
	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	// Save to Redis
	if err := service.resetTokens.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Exchanges a valid reset token for a new password hash, then burns
the token so it cannot be replayed.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: NotFound (token invalid or expired) or storage errors
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	// Resolve the token back to an account
	userID, err := service.resetTokens.Get(context, token)
	if err != nil {
		return err
	}

	// Hash the replacement password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Persist the new hash
	if err := service.users.UpdatePassword(context, userID, hashedPassword); err != nil {
		return err
	}

	// Burn the token so it is single-shot
	if err := service.resetTokens.Delete(context, token); err != nil {
		return fmt.Errorf("auth_service_burn_reset_token_failed: %w", err)
	}

	return nil
}
