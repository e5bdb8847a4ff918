// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inklinehq/inkline/internal/platform/sec"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()

	service, err := sec.NewTokenService("a-test-secret-of-sufficient-length", "inkline.test")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies that a freshly issued token verifies and
carries the identity it was minted with.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.IssueToken("user-1", sec.RoleAuthor, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "author", claims.Role)
	assert.Equal(t, "inkline.test", claims.Issuer)
}

/*
TestTokenService_Expiry verifies the lifetime window: a token is valid inside
it and rejected after it closes.
*/
func TestTokenService_Expiry(t *testing.T) {
	service := newTokenService(t)

	expired, err := service.IssueToken("user-1", sec.RoleReader, -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(expired)
	require.Error(t, err)

	live, err := service.IssueToken("user-1", sec.RoleReader, time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(live)
	require.NoError(t, err)
}

/*
TestTokenService_TamperRejection verifies that any payload mutation breaks
the signature, and a token signed with a different secret never verifies.
*/
func TestTokenService_TamperRejection(t *testing.T) {
	service := newTokenService(t)

	token, err := service.IssueToken("user-1", sec.RoleReader, time.Hour)
	require.NoError(t, err)

	t.Run("mutated_payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)

		// Flip one character of the payload segment.
		payload := []byte(parts[1])
		if payload[0] == 'A' {
			payload[0] = 'B'
		} else {
			payload[0] = 'A'
		}
		tampered := parts[0] + "." + string(payload) + "." + parts[2]

		_, err := service.VerifyToken(tampered)
		require.Error(t, err)
	})

	t.Run("foreign_secret", func(t *testing.T) {
		foreign, err := sec.NewTokenService("a-completely-different-secret!!", "inkline.test")
		require.NoError(t, err)

		stolen, err := foreign.IssueToken("user-1", sec.RoleAdmin, time.Hour)
		require.NoError(t, err)

		_, err = service.VerifyToken(stolen)
		require.Error(t, err)
	})

	t.Run("garbage_input", func(t *testing.T) {
		_, err := service.VerifyToken("not-a-jwt")
		require.Error(t, err)
	})
}

/*
TestNewTokenService_EmptySecret verifies the constructor refuses to run
without a signing secret.
*/
func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", "inkline.test")
	require.Error(t, err)
}

/*
TestSameID covers the canonical ID comparison used by ownership checks.
*/
func TestSameID(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"identical", "0191a000-0000-7000-8000-0000000000aa", "0191a000-0000-7000-8000-0000000000aa", true},
		{"case_insensitive", "0191a000-0000-7000-8000-0000000000aa", "0191A000-0000-7000-8000-0000000000AA", true},
		{"different", "0191a000-0000-7000-8000-0000000000aa", "0191a000-0000-7000-8000-0000000000bb", false},
		{"empty_never_matches", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, sec.SameID(tt.a, tt.b))
		})
	}
}
