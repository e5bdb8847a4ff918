// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inklinehq/inkline/internal/platform/apperr"
	"github.com/inklinehq/inkline/internal/users/auth"
)

/*
TestResetTokenRepository exercises the token round trip against a real Redis
protocol implementation, including expiry.
*/
func TestResetTokenRepository(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repository := auth.NewResetTokenRepository(client)
	ctx := context.Background()

	t.Run("set_get_delete", func(t *testing.T) {
		require.NoError(t, repository.Set(ctx, "tok-1", "user-1", time.Hour))

		userID, err := repository.Get(ctx, "tok-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)

		require.NoError(t, repository.Delete(ctx, "tok-1"))

		_, err = repository.Get(ctx, "tok-1")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("expired_token_is_gone", func(t *testing.T) {
		require.NoError(t, repository.Set(ctx, "tok-2", "user-2", time.Minute))

		server.FastForward(2 * time.Minute)

		_, err := repository.Get(ctx, "tok-2")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestLoginLimiter verifies the fixed-window throttle: blocked past the limit,
reset on success, and self-expiring when the window rolls over.
*/
func TestLoginLimiter(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := auth.NewLoginLimiter(client, time.Minute, 3)
	ctx := context.Background()

	t.Run("blocks_after_limit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			blocked, _, err := limiter.Hit(ctx, "alice@example.com")
			require.NoError(t, err)
			assert.False(t, blocked)
		}

		blocked, retryAfter, err := limiter.Hit(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.True(t, blocked)
		assert.Greater(t, retryAfter, 0)
	})

	t.Run("reset_clears_the_counter", func(t *testing.T) {
		require.NoError(t, limiter.Reset(ctx, "alice@example.com"))

		blocked, _, err := limiter.Hit(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.False(t, blocked)
	})

	t.Run("window_self_expires", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			_, _, err := limiter.Hit(ctx, "bob@example.com")
			require.NoError(t, err)
		}

		server.FastForward(2 * time.Minute)

		blocked, _, err := limiter.Hit(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.False(t, blocked)
	})
}
