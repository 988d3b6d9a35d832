package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseUserRole("admin"))
	assert.Equal(t, RoleDoctor, ParseUserRole(" Doctor "))
	assert.Equal(t, RolePatient, ParseUserRole("PATIENT"))
	assert.Equal(t, RoleUnknown, ParseUserRole("NURSE"))
	assert.Equal(t, RoleUnknown, ParseUserRole(""))
	assert.Equal(t, "DOCTOR", RoleDoctor.String())
}

func TestUserProfile_Accessors(t *testing.T) {
	var nilUser *UserProfile
	assert.Equal(t, 0, nilUser.Identifier())
	assert.Equal(t, "", nilUser.RoleName())

	u := &UserProfile{UserID: 7}
	assert.Equal(t, 7, u.Identifier())
	assert.Equal(t, "", u.RoleName())

	u = &UserProfile{ID: 3, UserID: 7, Role: &Role{RoleName: "ADMIN"}}
	assert.Equal(t, 3, u.Identifier())
	assert.Equal(t, "ADMIN", u.RoleName())
}
