// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inklinehq/inkline/internal/client/guard"
)

// fakeSession is a static SessionInfo.
type fakeSession struct {
	authenticated bool
	role          string
}

func (f fakeSession) Authenticated() bool { return f.authenticated }
func (f fakeSession) Role() string        { return f.role }

var (
	anonymous = fakeSession{}
	reader    = fakeSession{authenticated: true, role: "reader"}
	author    = fakeSession{authenticated: true, role: "author"}
	admin     = fakeSession{authenticated: true, role: "admin"}
)

/*
TestEvaluate runs the full decision table across the three requirement
variants and the four session states.
*/
func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		requirement guard.Requirement
		session     fakeSession
		want        guard.Decision
	}{
		// RequiresAuth
		{"auth_anonymous_redirects_to_login", guard.RequiresAuth{}, anonymous, guard.RedirectToLogin{From: "/settings"}},
		{"auth_reader_renders", guard.RequiresAuth{}, reader, guard.Render{}},
		{"auth_admin_renders", guard.RequiresAuth{}, admin, guard.Render{}},

		// RequiresAnonymity
		{"anonymity_anonymous_renders", guard.RequiresAnonymity{}, anonymous, guard.Render{}},
		{"anonymity_reader_redirects_home", guard.RequiresAnonymity{}, reader, guard.RedirectHome{}},
		{"anonymity_admin_redirects_home", guard.RequiresAnonymity{}, admin, guard.RedirectHome{}},

		// RequiresRole
		{"role_anonymous_redirects_to_login", guard.RequiresRole{Allowed: []string{"admin"}}, anonymous, guard.RedirectToLogin{From: "/settings"}},
		{"role_mismatch_redirects_home", guard.RequiresRole{Allowed: []string{"admin"}}, reader, guard.RedirectHome{}},
		{"role_match_renders", guard.RequiresRole{Allowed: []string{"admin"}}, admin, guard.Render{}},
		{"role_list_membership", guard.RequiresRole{Allowed: []string{"admin", "author"}}, author, guard.Render{}},
		{"role_empty_list_admits_nobody", guard.RequiresRole{}, admin, guard.RedirectHome{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := guard.Evaluate(tt.requirement, tt.session, "/settings")
			assert.Equal(t, tt.want, decision)
		})
	}
}

/*
TestEvaluate_PreservesTarget verifies that the login redirect remembers
where the user was headed.
*/
func TestEvaluate_PreservesTarget(t *testing.T) {
	decision := guard.Evaluate(guard.RequiresAuth{}, anonymous, "/posts/new")

	redirect, ok := decision.(guard.RedirectToLogin)
	assert.True(t, ok)
	assert.Equal(t, "/posts/new", redirect.From)
}
