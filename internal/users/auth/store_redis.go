// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inklinehq/inkline/internal/platform/apperr"
	"github.com/inklinehq/inkline/internal/platform/constants"
)

// # Reset Token Repository

// RedisResetTokenRepository implements ResetTokenRepository using Redis.
//
// Tokens are volatile: expiry is delegated to the key TTL, so an
// expired token is indistinguishable from one that never existed.
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewResetTokenRepository creates a new Redis-backed ResetTokenRepository.
func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

// Set stores a reset token with its associated userID and TTL.
func (repository *RedisResetTokenRepository) Set(ctx context.Context, token string, userID string, ttl time.Duration) error {

	key := constants.RedisPrefixResetToken + token

	if err := repository.client.Set(ctx, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}

	return nil
}

// Get retrieves the userID for a given token.
//
// Returns apperr.NotFound if the token is absent or expired.
func (repository *RedisResetTokenRepository) Get(ctx context.Context, token string) (string, error) {

	key := constants.RedisPrefixResetToken + token

	userID, err := repository.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Reset token is invalid or expired")
		}
		return "", fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}

	return userID, nil
}

// Delete removes the token after successful use so it is single-shot.
func (repository *RedisResetTokenRepository) Delete(ctx context.Context, token string) error {

	key := constants.RedisPrefixResetToken + token

	if err := repository.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}

	return nil
}

// # Login Attempt Limiter

// RedisLoginLimiter implements LoginLimiter with a fixed window counter.
//
// Each failed attempt INCRs a per-subject key; the first attempt in a window
// also sets the key TTL, so the counter self-destructs when the window ends.
type RedisLoginLimiter struct {
	client *redis.Client
	window time.Duration
	limit  int
}

// NewLoginLimiter creates a Redis-backed login throttle.
func NewLoginLimiter(client *redis.Client, window time.Duration, limit int) *RedisLoginLimiter {
	return &RedisLoginLimiter{client: client, window: window, limit: limit}
}

// Hit records one failed attempt for the subject.
//
// Returns blocked=true once the subject exceeds the limit within the current
// window, along with the seconds remaining until the window resets.
func (limiter *RedisLoginLimiter) Hit(ctx context.Context, subject string) (bool, int, error) {

	key := constants.RedisPrefixLoginAttempt + subject

	// ── 1. Count the attempt ─────────────────────────────────────────────
	attempts, err := limiter.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis_login_attempt_incr_failed: %w", err)
	}

	// ── 2. Arm the window on the first attempt ───────────────────────────
	if attempts == 1 {
		if err := limiter.client.Expire(ctx, key, limiter.window).Err(); err != nil {
			return false, 0, fmt.Errorf("redis_login_attempt_expire_failed: %w", err)
		}
	}

	// ── 3. Enforce the limit ─────────────────────────────────────────────
	if attempts > int64(limiter.limit) {
		ttl, err := limiter.client.TTL(ctx, key).Result()
		if err != nil {
			return true, int(limiter.window.Seconds()), nil
		}
		return true, int(ttl.Seconds()), nil
	}

	return false, 0, nil
}

// Reset clears the subject's counter after a successful login.
func (limiter *RedisLoginLimiter) Reset(ctx context.Context, subject string) error {

	key := constants.RedisPrefixLoginAttempt + subject

	if err := limiter.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_login_attempt_reset_failed: %w", err)
	}

	return nil
}
