package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/inheritx/hr-portal/internal/identity"
	"github.com/inheritx/hr-portal/internal/permission"
	"github.com/inheritx/hr-portal/internal/session"
)

func authenticated(tag identity.RoleTag, gen uint64) session.Snapshot {
	return session.Snapshot{
		State:      session.StateAuthenticated,
		Identity:   identity.Identity{ID: "u1", Email: "u@inheritx.com", Role: tag},
		Generation: gen,
	}
}

func TestEvaluatePendingOnlyWhenUnresolved(t *testing.T) {
	unresolved := session.Snapshot{State: session.StateUnresolved}

	requirements := []Requirement{
		{},
		{AllowAnonymous: true},
		{Roles: []identity.RoleTag{identity.RoleHR}},
		{Permission: "roles.view"},
		{Roles: []identity.RoleTag{identity.RoleEmployee}, Permission: "leave.view"},
	}

	for _, req := range requirements {
		assert.Equal(t, Pending, Evaluate(unresolved, req, &Grants{Set: permission.NewSet("roles.view")}))
	}

	anonymous := session.Snapshot{State: session.StateAnonymous, Generation: 1}
	for _, req := range requirements {
		assert.NotEqual(t, Pending, Evaluate(anonymous, req, nil))
	}
}

func TestEvaluateOrder(t *testing.T) {
	hr := authenticated(identity.RoleHR, 3)
	grants := &Grants{Generation: 3, Set: permission.NewSet("employees.view", "employees.edit")}

	testCases := []struct {
		name   string
		snap   session.Snapshot
		req    Requirement
		grants *Grants
		want   Decision
	}{
		{"anonymous needs login", session.Snapshot{State: session.StateAnonymous}, Requirement{}, nil, DenyUnauthenticated},
		{"anonymous allowed", session.Snapshot{State: session.StateAnonymous}, Requirement{AllowAnonymous: true}, nil, Allow},
		{"anonymous with role requirement", session.Snapshot{State: session.StateAnonymous}, Requirement{AllowAnonymous: true, Roles: []identity.RoleTag{identity.RoleHR}}, nil, DenyUnauthenticated},
		{"any authenticated", hr, Requirement{}, nil, Allow},
		{"role member", hr, Requirement{Roles: []identity.RoleTag{identity.RoleEmployee, identity.RoleHR}}, nil, Allow},
		{"role mismatch", authenticated(identity.RoleEmployee, 3), Requirement{Roles: []identity.RoleTag{identity.RoleHR}}, grants, DenyRole},
		{"role checked before permission", authenticated(identity.RoleEmployee, 3), Requirement{Roles: []identity.RoleTag{identity.RoleHR}, Permission: "payroll.run"}, grants, DenyRole},
		{"unknown role tag", authenticated("admin", 3), Requirement{}, nil, DenyRole},
		{"permission held", hr, Requirement{Permission: "employees.view"}, grants, Allow},
		{"permission held second", hr, Requirement{Permission: "employees.edit"}, grants, Allow},
		{"permission missing", hr, Requirement{Permission: "payroll.run"}, grants, DenyPermission},
		{"grants not resolved", hr, Requirement{Permission: "employees.view"}, nil, Pending},
		{"grants from old generation", hr, Requirement{Permission: "employees.view"}, &Grants{Generation: 2, Set: grants.Set}, Pending},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.snap, tc.req, tc.grants))
		})
	}
}

func TestRedirect(t *testing.T) {
	testCases := []struct {
		d    Decision
		path string
		ok   bool
	}{
		{Pending, "", false},
		{Allow, "", false},
		{DenyUnauthenticated, LoginPath, true},
		{DenyRole, HomePath, true},
		{DenyPermission, HomePath, true},
	}

	for _, tc := range testCases {
		t.Run(tc.d.String(), func(t *testing.T) {
			path, ok := tc.d.Redirect()
			assert.Equal(t, tc.path, path)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

type resolverFunc func(ctx context.Context, tag identity.RoleTag) (permission.Set, error)

func (f resolverFunc) PermissionSet(ctx context.Context, tag identity.RoleTag) (permission.Set, error) {
	return f(ctx, tag)
}

func TestCheck(t *testing.T) {
	calls := 0
	r := resolverFunc(func(_ context.Context, tag identity.RoleTag) (permission.Set, error) {
		calls++

		if tag == identity.RoleHR {
			return permission.NewSet("roles.view"), nil
		}

		return nil, errors.New("backend down")
	})

	ctx := context.Background()

	assert.Equal(t, Allow, Check(ctx, r, authenticated(identity.RoleHR, 1), Requirement{Permission: "roles.view"}))
	assert.Equal(t, DenyPermission, Check(ctx, r, authenticated(identity.RoleHR, 1), Requirement{Permission: "roles.delete"}))
	assert.Equal(t, Pending, Check(ctx, r, authenticated(identity.RoleEmployee, 1), Requirement{Permission: "roles.view"}))
	assert.Equal(t, 3, calls)

	assert.Equal(t, DenyUnauthenticated, Check(ctx, r, session.Snapshot{State: session.StateAnonymous}, Requirement{Permission: "roles.view"}))
	assert.Equal(t, DenyRole, Check(ctx, r, authenticated(identity.RoleEmployee, 1), Requirement{Roles: []identity.RoleTag{identity.RoleHR}, Permission: "roles.view"}))
	assert.Equal(t, 3, calls, "no lookups when the decision does not depend on permissions")
}

func TestResolveReturnsGrants(t *testing.T) {
	r := resolverFunc(func(context.Context, identity.RoleTag) (permission.Set, error) {
		return permission.NewSet("roles.view"), nil
	})

	ctx := context.Background()

	d, grants := Resolve(ctx, r, authenticated(identity.RoleHR, 4), Requirement{Permission: "roles.view"})
	assert.Equal(t, Allow, d)
	if assert.NotNil(t, grants) {
		assert.Equal(t, uint64(4), grants.Generation)
		assert.True(t, grants.Set.Has("roles.view"))
	}

	d, grants = Resolve(ctx, r, authenticated(identity.RoleHR, 4), Requirement{})
	assert.Equal(t, Allow, d)
	assert.Nil(t, grants)
}

func TestAllowedDoesNotCountDecisions(t *testing.T) {
	snap := authenticated(identity.RoleHR, 1)
	grants := &Grants{Generation: 1, Set: permission.NewSet("roles.view")}
	req := Requirement{Permission: "roles.view"}

	assert.Equal(t, Allow, Evaluate(snap, req, grants))

	allowed := decisions.WithLabelValues(Allow.String())
	before := testutil.ToFloat64(allowed)

	for range 5 {
		assert.True(t, Allowed(snap, req, grants))
	}

	assert.False(t, Allowed(snap, Requirement{Permission: "roles.delete"}, grants))
	assert.False(t, Allowed(snap, req, nil))
	assert.InDelta(t, before, testutil.ToFloat64(allowed), 0)

	Evaluate(snap, req, grants)
	assert.InDelta(t, before+1, testutil.ToFloat64(allowed), 0)
}

func TestRequirementEqual(t *testing.T) {
	a := Requirement{Roles: []identity.RoleTag{identity.RoleHR}, Permission: "roles.view"}

	assert.True(t, a.Equal(Requirement{Roles: []identity.RoleTag{identity.RoleHR}, Permission: "roles.view"}))
	assert.False(t, a.Equal(Requirement{Roles: []identity.RoleTag{identity.RoleEmployee}, Permission: "roles.view"}))
	assert.False(t, a.Equal(Requirement{Roles: []identity.RoleTag{identity.RoleHR}}))
	assert.False(t, a.Equal(Requirement{}))
}
