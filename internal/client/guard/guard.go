// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

/*
Package guard decides what a client should do with a route before showing it.

It is a navigation convenience, not a security boundary: the server gate
re-checks every API call. The guard only spares the user a view that would
immediately fail.

# Requirements

A route declares exactly one requirement:

  - [RequiresAuth]: the user must hold a session.
  - [RequiresAnonymity]: the user must NOT hold one (login, register).
  - [RequiresRole]: the user must hold a session with one of the named roles.

Routes without a requirement are not evaluated at all; absence of a guard
means public, there is no implicit default.
*/
package guard

// SessionInfo is the guard's view of the current session.
//
// Implemented by the session manager; nil-safe accessors keep the evaluator
// free of signed-out special cases.
type SessionInfo interface {
	// Authenticated reports whether a session is held.
	Authenticated() bool

	// Role returns the cached role, empty when signed out.
	Role() string
}

// # Requirements

// Requirement is one of the tagged guard variants.
//
// The concrete types are the whole contract: a new navigation policy means
// a new type here and a new case in Evaluate, nowhere else.
type Requirement interface {
	requirement()
}

// RequiresAuth admits only authenticated users.
type RequiresAuth struct{}

func (RequiresAuth) requirement() {}

// RequiresAnonymity admits only signed-out users.
//
// Used by the login and register views: showing them to an authenticated
// user is pointless, so they bounce home instead.
type RequiresAnonymity struct{}

func (RequiresAnonymity) requirement() {}

// RequiresRole admits authenticated users whose role is in the allow-list.
type RequiresRole struct {
	Allowed []string
}

func (RequiresRole) requirement() {}

// # Decisions

// Decision is the evaluator's verdict for one route.
type Decision interface {
	decision()
}

// Render: show the route.
type Render struct{}

func (Render) decision() {}

// RedirectToLogin: the user must sign in first. From carries the route they
// were headed to, so a successful login can resume the journey.
type RedirectToLogin struct {
	From string
}

func (RedirectToLogin) decision() {}

// RedirectHome: the route is not for this user in their current state.
// Covers both the signed-in user visiting /login and the role mismatch;
// neither is an error worth showing.
type RedirectHome struct{}

func (RedirectHome) decision() {}

// # Evaluator

// Evaluate produces the [Decision] for a route guarded by requirement.
//
// target is the route being navigated to; it only surfaces in
// [RedirectToLogin.From].
func Evaluate(requirement Requirement, sessionInfo SessionInfo, target string) Decision {
	switch req := requirement.(type) {

	case RequiresAuth:
		if !sessionInfo.Authenticated() {
			return RedirectToLogin{From: target}
		}
		return Render{}

	case RequiresAnonymity:
		if sessionInfo.Authenticated() {
			return RedirectHome{}
		}
		return Render{}

	case RequiresRole:
		if !sessionInfo.Authenticated() {
			return RedirectToLogin{From: target}
		}
		for _, allowed := range req.Allowed {
			if sessionInfo.Role() == allowed {
				return Render{}
			}
		}
		// The user is known, just not permitted here. Home, not login:
		// re-authenticating would change nothing.
		return RedirectHome{}

	default:
		// Unknown requirement types fail closed.
		return RedirectHome{}
	}
}
