// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a session JWT remains valid.
	//
	// There is no server-side revocation list: logout is a client-local
	// discard and a leaked token stays valid until this window closes.
	// Thirty days is the deliberate trade between UX and exposure.
	AccessTokenTTL = 30 * 24 * time.Hour

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32

	// LoginAttemptWindow is the fixed window over which failed logins are counted.
	LoginAttemptWindow = 5 * time.Minute

	// LoginAttemptLimit is the number of failed logins tolerated per window
	// before the account/IP pair is throttled.
	LoginAttemptLimit = 10
)
