// Package credential implements the credential lookup the session manager
// authenticates against: email in, identity plus password out.
package credential

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/alexedwards/argon2id"

	"github.com/inheritx/hr-portal/internal/identity"
)

// ErrEmailExists is returned when adding a credential for an email that is already present.
var ErrEmailExists = errors.New("credential for email already exists")

// Store resolves a credential record by email. Lookups are case-insensitive.
// A missing email is reported as ok == false, not as an error.
type Store interface {
	Lookup(ctx context.Context, email string) (rec Record, ok bool, err error)
}

// Record is the identity stored for an email together with its password.
type Record struct {
	Identity identity.Identity
	Password string
	// Hashed marks Password as an argon2id hash rather than plaintext.
	Hashed bool
}

// Matches reports whether password is the record's password.
func (r Record) Matches(password string) bool {
	if !r.Hashed {
		return subtle.ConstantTimeCompare([]byte(r.Password), []byte(password)) == 1
	}

	ok, err := argon2id.ComparePasswordAndHash(password, r.Password)

	return err == nil && ok
}

// Entry is a plaintext credential used to build memory tables and seed data.
type Entry struct {
	Email      string
	Password   string
	Name       string
	Role       identity.RoleTag
	Department string
	Avatar     string
}

// DemoEntries are the credentials shipped for local use.
func DemoEntries() []Entry {
	return []Entry{
		{
			Email:      "hr@inheritx.com",
			Password:   "hr123",
			Name:       "Hannah Reyes",
			Role:       identity.RoleHR,
			Department: "Human Resources",
		},
		{
			Email:      "employee@inheritx.com",
			Password:   "emp123",
			Name:       "Evan Patel",
			Role:       identity.RoleEmployee,
			Department: "Engineering",
		},
	}
}
