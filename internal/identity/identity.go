// Package identity defines the signed in person and the closed set of role tags.
package identity

import (
	"errors"
	"fmt"
	"strings"
)

// RoleTag is the portal role an identity signs in with.
type RoleTag string

const (
	// RoleEmployee is the self service role.
	RoleEmployee RoleTag = "employee"
	// RoleHR is the HR manager role.
	RoleHR RoleTag = "hr"
)

// ErrUnknownRole is returned when parsing a tag outside the closed set.
var ErrUnknownRole = errors.New("unknown role tag")

// Roles lists every tag in display order.
func Roles() []RoleTag {
	return []RoleTag{RoleEmployee, RoleHR}
}

// ParseRole parses a tag case-insensitively.
func ParseRole(s string) (RoleTag, error) {
	tag := RoleTag(strings.ToLower(strings.TrimSpace(s)))
	if !tag.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}

	return tag, nil
}

// Valid reports whether r belongs to the closed set.
func (r RoleTag) Valid() bool {
	switch r {
	case RoleEmployee, RoleHR:
		return true
	}

	return false
}

// Label is the human readable name of the role.
func (r RoleTag) Label() string {
	switch r {
	case RoleEmployee:
		return "Employee"
	case RoleHR:
		return "HR Manager"
	}

	return string(r)
}

func (r RoleTag) String() string {
	return string(r)
}

// Identity is the person bound to a session. It never changes while the session lives.
type Identity struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       RoleTag `json:"role"`
	Department string  `json:"department,omitempty"`
	Avatar     string  `json:"avatar,omitempty"`
}

// HasRole reports whether the identity's role is one of roles.
func (i Identity) HasRole(roles ...RoleTag) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}

	return false
}

// NormalizeEmail is the canonical form used for credential lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
