// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package sec

// # User Roles

// Role represents the authorization level granted to an identity.
type Role string

const (
	// Unrestricted system access. Granted automatically to the first
	// identity ever registered (operator bootstrap).
	RoleAdmin Role = "admin"

	// Can publish and manage their own posts
	RoleAuthor Role = "author"

	// Default least-privilege role for new registrations
	RoleReader Role = "reader"
)

// # Allow-List Semantics

// Routes are gated by an explicit allow-list of roles rather than a numeric
// hierarchy. An admin is not implicitly "more than" an author: if a route
// admits admins, the list says so.

// In reports whether the role is a member of the given allow-list.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// Valid reports whether the role is one of the three known values.
//
// Used by the role-update operation to reject unknown role names as
// validation errors before they reach storage.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAuthor, RoleReader:
		return true
	default:
		return false
	}
}

// String implements [fmt.Stringer].
func (r Role) String() string { return string(r) }
