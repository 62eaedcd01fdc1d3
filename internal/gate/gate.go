// Package gate decides whether a session may see a protected view.
package gate

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/inheritx/hr-portal/internal/identity"
	"github.com/inheritx/hr-portal/internal/permission"
	"github.com/inheritx/hr-portal/internal/session"
)

// Redirect targets of deny decisions.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Decision is the outcome of an evaluation.
type Decision int

const (
	// Pending means the inputs are not known yet. Render a neutral placeholder
	// and do not navigate.
	Pending Decision = iota
	Allow
	DenyUnauthenticated
	DenyRole
	DenyPermission
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyRole:
		return "deny_role"
	case DenyPermission:
		return "deny_permission"
	}

	return "unknown"
}

// Redirect returns where a deny decision navigates to.
func (d Decision) Redirect() (string, bool) {
	switch d {
	case DenyUnauthenticated:
		return LoginPath, true
	case DenyRole, DenyPermission:
		return HomePath, true
	case Pending, Allow:
		return "", false
	}

	return "", false
}

// Requirement describes what a view needs. The zero value requires an
// authenticated session and nothing else.
type Requirement struct {
	// Roles, when non-empty, is the set of role tags allowed in.
	Roles []identity.RoleTag
	// Permission, when set, is a permission code the role must hold.
	Permission string
	// AllowAnonymous lets sessions without an identity through.
	AllowAnonymous bool
}

// Equal reports whether two requirements ask for the same thing.
func (r Requirement) Equal(o Requirement) bool {
	if r.Permission != o.Permission || r.AllowAnonymous != o.AllowAnonymous || len(r.Roles) != len(o.Roles) {
		return false
	}

	for i := range r.Roles {
		if r.Roles[i] != o.Roles[i] {
			return false
		}
	}

	return true
}

// Grants is the permission set of a session's role, resolved at Generation.
type Grants struct {
	Generation uint64
	Set        permission.Set
}

// Evaluate runs the checks in order: resolution, authentication, role,
// permission. grants is only consulted for permission requirements; nil or
// grants from another generation yield Pending.
func Evaluate(snap session.Snapshot, req Requirement, grants *Grants) Decision {
	d := evaluate(snap, req, grants)
	observe(d)

	return d
}

// Allowed reports whether req evaluates to Allow without counting the
// decision. Used for menu items and other checks that do not guard a request.
func Allowed(snap session.Snapshot, req Requirement, grants *Grants) bool {
	return evaluate(snap, req, grants) == Allow
}

func evaluate(snap session.Snapshot, req Requirement, grants *Grants) Decision {
	switch snap.State {
	case session.StateUnresolved:
		return Pending
	case session.StateAnonymous:
		if req.AllowAnonymous && len(req.Roles) == 0 && req.Permission == "" {
			return Allow
		}

		return DenyUnauthenticated
	case session.StateAuthenticated:
	default:
		return Pending
	}

	if !knownRole(snap.Identity.Role) {
		return DenyRole
	}

	if len(req.Roles) > 0 && !snap.Identity.HasRole(req.Roles...) {
		return DenyRole
	}

	if req.Permission == "" {
		return Allow
	}

	if grants == nil || grants.Generation != snap.Generation {
		return Pending
	}

	if !grants.Set.Has(req.Permission) {
		return DenyPermission
	}

	return Allow
}

func knownRole(r identity.RoleTag) bool {
	switch r {
	case identity.RoleEmployee, identity.RoleHR:
		return true
	}

	return false
}

// NeedsGrants reports whether evaluating req for snap requires the role's
// permission set.
func NeedsGrants(snap session.Snapshot, req Requirement) bool {
	if req.Permission == "" || !snap.Authenticated() || !knownRole(snap.Identity.Role) {
		return false
	}

	return len(req.Roles) == 0 || snap.Identity.HasRole(req.Roles...)
}

// Resolver returns the permission set of a role tag.
type Resolver interface {
	PermissionSet(ctx context.Context, tag identity.RoleTag) (permission.Set, error)
}

// Check evaluates req for snap, resolving the role's permission set when the
// requirement needs it. A failed resolution is Pending.
func Check(ctx context.Context, r Resolver, snap session.Snapshot, req Requirement) Decision {
	d, _ := Resolve(ctx, r, snap, req)
	return d
}

// Resolve is Check that also returns the grants it resolved, nil when the
// requirement did not need them or the lookup failed.
func Resolve(ctx context.Context, r Resolver, snap session.Snapshot, req Requirement) (Decision, *Grants) {
	if !NeedsGrants(snap, req) {
		return Evaluate(snap, req, nil), nil
	}

	grants, err := Lookup(ctx, r, snap)
	if err != nil {
		return Evaluate(snap, req, nil), nil
	}

	return Evaluate(snap, req, grants), grants
}

// Lookup resolves the permission set of the session's role at its current
// generation.
func Lookup(ctx context.Context, r Resolver, snap session.Snapshot) (*Grants, error) {
	set, err := r.PermissionSet(ctx, snap.Identity.Role)
	if err != nil {
		log.Error().Err(err).Str("role", snap.Identity.Role.String()).Msg("failed to resolve permission set")
		return nil, err
	}

	return &Grants{Generation: snap.Generation, Set: set}, nil
}
