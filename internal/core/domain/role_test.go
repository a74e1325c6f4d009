package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	for _, r := range AllRoles() {
		assert.True(t, r.IsValid(), r.String())
	}
	assert.False(t, Role("guest").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestRole_SeesPII(t *testing.T) {
	assert.True(t, RoleRecruiter.SeesPII())
	assert.False(t, RoleUser.SeesPII())
	assert.False(t, RoleAdmin.SeesPII())
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
	}{
		{"", RoleUser},
		{"user", RoleUser},
		{"Recruiter", RoleRecruiter},
		{"  ADMIN ", RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseRole("ceo")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
