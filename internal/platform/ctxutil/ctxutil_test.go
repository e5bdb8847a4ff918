// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inklinehq/inkline/internal/platform/ctxutil"
	"github.com/inklinehq/inkline/internal/platform/sec"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

func TestLogger_DefaultFallback(t *testing.T) {
	// Without an injected logger the default logger is returned, never nil.
	logger := ctxutil.GetLogger(context.Background())
	require.NotNil(t, logger)

	custom := slog.Default().With(slog.String("component", "test"))
	ctx := ctxutil.WithLogger(context.Background(), custom)
	assert.Same(t, custom, ctxutil.GetLogger(ctx))
}

func TestIdentity_RoundTrip(t *testing.T) {
	// Anonymous context yields nil.
	assert.Nil(t, ctxutil.GetIdentity(context.Background()))

	identity := &sec.Identity{UserID: "user-1", Role: sec.RoleAuthor}
	ctx := ctxutil.WithIdentity(context.Background(), identity)

	resolved := ctxutil.GetIdentity(ctx)
	require.NotNil(t, resolved)
	assert.Equal(t, "user-1", resolved.UserID)
	assert.Equal(t, sec.RoleAuthor, resolved.Role)
}
