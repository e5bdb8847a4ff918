// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inklinehq/inkline/internal/platform/sec"
)

/*
TestRole_In verifies the allow-list membership semantics: no hierarchy, an
admin passes only where the list names admin.
*/
func TestRole_In(t *testing.T) {
	tests := []struct {
		name    string
		role    sec.Role
		allowed []sec.Role
		want    bool
	}{
		{"admin_in_admin_list", sec.RoleAdmin, []sec.Role{sec.RoleAdmin}, true},
		{"author_in_writer_list", sec.RoleAuthor, []sec.Role{sec.RoleAdmin, sec.RoleAuthor}, true},
		{"reader_not_in_writer_list", sec.RoleReader, []sec.Role{sec.RoleAdmin, sec.RoleAuthor}, false},
		{"admin_not_in_author_only_list", sec.RoleAdmin, []sec.Role{sec.RoleAuthor}, false},
		{"empty_list_admits_nobody", sec.RoleAdmin, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.In(tt.allowed...))
		})
	}
}

/*
TestRole_Valid verifies that only the three known role names validate.
*/
func TestRole_Valid(t *testing.T) {
	assert.True(t, sec.RoleAdmin.Valid())
	assert.True(t, sec.RoleAuthor.Valid())
	assert.True(t, sec.RoleReader.Valid())

	assert.False(t, sec.Role("superuser").Valid())
	assert.False(t, sec.Role("Admin").Valid())
	assert.False(t, sec.Role("").Valid())
}
