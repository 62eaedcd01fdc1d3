package session

import "github.com/inheritx/hr-portal/internal/identity"

// State is the resolution state of a session.
type State int

const (
	// StateUnresolved is the initial state before the stored session has been read.
	StateUnresolved State = iota
	// StateAnonymous means no identity is bound.
	StateAnonymous
	// StateAuthenticated means an identity is bound.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}

	return "unknown"
}

// Snapshot is an immutable view of a session at one generation.
type Snapshot struct {
	State      State
	Identity   identity.Identity // zero unless State is StateAuthenticated
	Generation uint64
}

// Authenticated reports whether an identity is bound.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated
}
