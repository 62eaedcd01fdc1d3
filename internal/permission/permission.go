// Package permission holds the permission catalog types and the per-module
// selection logic used by the role editor.
package permission

import (
	"context"
	"strings"
)

// Permission is a single catalog entry. Code has the form "<module>.<action>".
type Permission struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// Module returns the part of the code before the first '.'.
func (p Permission) Module() string {
	module, _ := ParseCode(p.Code)
	return module
}

// Action returns the part of the code after the first '.'.
func (p Permission) Action() string {
	_, action := ParseCode(p.Code)
	return action
}

// ParseCode splits a permission code at its first '.'. A code without a dot
// is a module with an empty action.
func ParseCode(code string) (module, action string) {
	module, action, _ = strings.Cut(code, ".")
	return module, action
}

// Catalog lists the permissions a role may be granted.
type Catalog interface {
	List(ctx context.Context) ([]Permission, error)
}

// Codes maps permission ids to codes. Ids not present in perms are skipped.
func Codes(perms []Permission, ids []string) []string {
	byID := make(map[string]string, len(perms))
	for _, p := range perms {
		byID[p.ID] = p.Code
	}

	codes := make([]string, 0, len(ids))

	for _, id := range ids {
		if code, ok := byID[id]; ok {
			codes = append(codes, code)
		}
	}

	return codes
}

// Set is a set of permission codes.
type Set map[string]struct{}

// NewSet returns a set holding codes.
func NewSet(codes ...string) Set {
	s := make(Set, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}

	return s
}

// Has reports whether code is in the set.
func (s Set) Has(code string) bool {
	_, ok := s[code]
	return ok
}
