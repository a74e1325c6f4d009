package domain

import (
	"fmt"
	"strings"
)

// Role is the caller role used to decide PII redaction.
type Role string

// Available roles.
const (
	RoleUser      Role = "user"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleRecruiter, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole maps a caller-supplied role name, ignoring case and surrounding
// space. Empty means RoleUser.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleUser, nil
	}
	r := Role(strings.ToLower(s))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: unknown role %q (want user, recruiter or admin)", ErrInvalidInput, s)
	}
	return r, nil
}

// SeesPII returns true if the role receives unredacted text.
func (r Role) SeesPII() bool {
	return r == RoleRecruiter
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// AllRoles returns every role.
func AllRoles() []Role {
	return []Role{RoleUser, RoleRecruiter, RoleAdmin}
}
