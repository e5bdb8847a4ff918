// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

/*
Package auth implements the user identity and session-authentication layer.

It defines the core domain entity (User) and the logic for registration,
login, token issuance, and role management.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
transport dependencies and encapsulate all business rules related to
user identity.
*/
package auth

import (
	"time"

	"github.com/inklinehq/inkline/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Inkline platform.
//
// The password hash never leaves the server: it is explicitly omitted from
// every JSON representation.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         sec.Role  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRole     = "role"
	FieldToken    = "token"
	FieldMessage  = "message"
)
