// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/inklinehq/inkline/internal/platform/apperr"
	"github.com/inklinehq/inkline/internal/platform/constants"
	"github.com/inklinehq/inkline/internal/platform/ctxutil"
	"github.com/inklinehq/inkline/internal/platform/respond"
	"github.com/inklinehq/inkline/internal/platform/sec"
)

// # Authorization Gate
//
// The gate is two composable checks applied per protected route, in order:
// Authenticate (token → identity) then RequireAuth / RequireRole (identity →
// allow-list decision). Ownership refinements live in the domain services,
// layered on top of the role check, never instead of it.

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the [sec]
// implementation, allowing us to easily inject fakes during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// RoleResolver resolves the CURRENT role of an identity from the credential
// store.
//
// # Trust Model
//
// The verified token proves who the caller is; it does not prove what they
// may do. Re-resolving the role per request means a server-side role change
// (or account deletion) takes effect immediately rather than when the token
// expires. The small lookup cost buys correctness.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) (sec.Role, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Re-resolve the role via [RoleResolver].
//  5. Inject an immutable [*sec.Identity] into the request context.
//
// A deleted account yields 401 here even while its token is cryptographically
// valid: that is how outstanding sessions are logically invalidated.
// A store outage yields 500, never 401: infrastructure failure must not be
// conflated with an authentication decision.
func Authenticate(verifier TokenVerifier, resolver RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], constants.AuthScheme) {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			tokenStr := parts[1]
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Role Re-Resolution ─────────────────────────────────────────
			role, err := resolver.ResolveRole(request.Context(), claims.UserID)
			if err != nil {
				if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusNotFound {
					// Account no longer exists: the session dies with it.
					respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
					return
				}
				respond.Error(writer, request, apperr.Internal(err))
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			identity := &sec.Identity{UserID: claims.UserID, Role: role}
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithIdentity(request.Context(), identity)))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetIdentity(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose authenticated role is not in the given
// allow-list.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
//
// # Semantics
//
// The allow-list is explicit set membership, not a hierarchy: a route that
// admits admins and authors names both. The 403 outcome never clears the
// caller's session; they are known, just not permitted.
func RequireRole(allowed ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !identity.Role.In(allowed...) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
