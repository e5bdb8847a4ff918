// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inklinehq/inkline/internal/platform/apperr"
	"github.com/inklinehq/inkline/internal/platform/ctxutil"
	"github.com/inklinehq/inkline/internal/platform/middleware"
	"github.com/inklinehq/inkline/internal/platform/sec"
)

// # Fakes

// fakeVerifier accepts exactly one token string and returns fixed claims.
type fakeVerifier struct {
	validToken string
	claims     *sec.AuthClaims
}

func (f *fakeVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	if tokenStr == f.validToken {
		return f.claims, nil
	}
	return nil, errors.New("bad signature")
}

// fakeResolver maps user IDs onto roles, or fails with the configured error.
type fakeResolver struct {
	roles map[string]sec.Role
	err   error
}

func (f *fakeResolver) ResolveRole(_ context.Context, userID string) (sec.Role, error) {
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[userID]
	if !ok {
		return "", apperr.NotFound("User")
	}
	return role, nil
}

// echoIdentity is a terminal handler recording the identity it saw.
func echoIdentity(seen **sec.Identity) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*seen = ctxutil.GetIdentity(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func get(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

// # Authenticate

/*
TestAuthenticate covers the gate's token handling: anonymous pass-through,
format rejection, signature rejection, and identity injection with the role
re-read from the resolver rather than the token.
*/
func TestAuthenticate(t *testing.T) {
	verifier := &fakeVerifier{
		validToken: "good-token",
		claims:     &sec.AuthClaims{UserID: "user-1", Role: "reader"},
	}
	resolver := &fakeResolver{roles: map[string]sec.Role{"user-1": sec.RoleAuthor}}

	t.Run("no_header_passes_as_anonymous", func(t *testing.T) {
		var seen *sec.Identity
		handler := middleware.Authenticate(verifier, resolver)(echoIdentity(&seen))

		recorder := get(handler, "")
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Nil(t, seen)
	})

	t.Run("malformed_header_is_rejected", func(t *testing.T) {
		var seen *sec.Identity
		handler := middleware.Authenticate(verifier, resolver)(echoIdentity(&seen))

		for _, header := range []string{"good-token", "Basic abc", "Bearer a b"} {
			recorder := get(handler, header)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code, header)
		}
		assert.Nil(t, seen)
	})

	t.Run("invalid_token_is_rejected", func(t *testing.T) {
		var seen *sec.Identity
		handler := middleware.Authenticate(verifier, resolver)(echoIdentity(&seen))

		recorder := get(handler, "Bearer forged-token")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Nil(t, seen)
	})

	t.Run("valid_token_injects_live_role", func(t *testing.T) {
		var seen *sec.Identity
		handler := middleware.Authenticate(verifier, resolver)(echoIdentity(&seen))

		recorder := get(handler, "Bearer good-token")
		assert.Equal(t, http.StatusOK, recorder.Code)

		require.NotNil(t, seen)
		assert.Equal(t, "user-1", seen.UserID)
		// The token said reader; the store says author. The store wins.
		assert.Equal(t, sec.RoleAuthor, seen.Role)
	})

	t.Run("deleted_account_is_unauthorized", func(t *testing.T) {
		gone := &fakeResolver{roles: map[string]sec.Role{}}
		var seen *sec.Identity
		handler := middleware.Authenticate(verifier, gone)(echoIdentity(&seen))

		recorder := get(handler, "Bearer good-token")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Nil(t, seen)
	})

	t.Run("store_outage_is_a_server_error", func(t *testing.T) {
		down := &fakeResolver{err: errors.New("connection refused")}
		var seen *sec.Identity
		handler := middleware.Authenticate(verifier, down)(echoIdentity(&seen))

		// Infrastructure failure must never masquerade as a revoked session.
		recorder := get(handler, "Bearer good-token")
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Nil(t, seen)
	})
}

// # RequireAuth / RequireRole

// withIdentity simulates a request that already passed Authenticate.
func withIdentity(handler http.Handler, identity *sec.Identity) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	if identity != nil {
		request = request.WithContext(ctxutil.WithIdentity(request.Context(), identity))
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestRequireAuth verifies the authenticated-only gate.
*/
func TestRequireAuth(t *testing.T) {
	terminal := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireAuth(terminal)

	assert.Equal(t, http.StatusUnauthorized, withIdentity(handler, nil).Code)

	reader := &sec.Identity{UserID: "user-1", Role: sec.RoleReader}
	assert.Equal(t, http.StatusOK, withIdentity(handler, reader).Code)
}

/*
TestRequireRole runs the 401/403/200 matrix over the allow-list gate.
*/
func TestRequireRole(t *testing.T) {
	terminal := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		allowed  []sec.Role
		identity *sec.Identity
		want     int
	}{
		{"anonymous_is_401", []sec.Role{sec.RoleAdmin}, nil, http.StatusUnauthorized},
		{"reader_on_admin_route_is_403", []sec.Role{sec.RoleAdmin}, &sec.Identity{UserID: "u", Role: sec.RoleReader}, http.StatusForbidden},
		{"author_on_writer_route_is_200", []sec.Role{sec.RoleAdmin, sec.RoleAuthor}, &sec.Identity{UserID: "u", Role: sec.RoleAuthor}, http.StatusOK},
		{"admin_on_admin_route_is_200", []sec.Role{sec.RoleAdmin}, &sec.Identity{UserID: "u", Role: sec.RoleAdmin}, http.StatusOK},
		{"admin_not_admitted_unless_listed", []sec.Role{sec.RoleAuthor}, &sec.Identity{UserID: "u", Role: sec.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.RequireRole(tt.allowed...)(terminal)
			assert.Equal(t, tt.want, withIdentity(handler, tt.identity).Code)
		})
	}
}
