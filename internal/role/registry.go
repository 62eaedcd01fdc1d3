package role

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/inheritx/hr-portal/internal/identity"
	"github.com/inheritx/hr-portal/internal/permission"
	"github.com/inheritx/hr-portal/internal/uniuri"
)

// DefaultConfirmTTL is how long a delete confirmation token stays valid.
const DefaultConfirmTTL = 5 * time.Minute

// ChangeKind names the mutation behind a Change.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
	ChangeStatus  ChangeKind = "status"
)

// Change is published after every successful mutation.
type Change struct {
	Kind   ChangeKind
	RoleID string
}

// Confirmation is the first step of a delete. Pass Token to ConfirmDelete.
type Confirmation struct {
	Token     string
	Role      Role
	ExpiresAt time.Time
}

type pendingDelete struct {
	roleID  string
	expires time.Time
}

// Registry is the single entry point to roles. It never caches backend data.
type Registry struct {
	backend    Backend
	orgID      string
	confirmTTL time.Duration
	now        func() time.Time

	mu      sync.Mutex
	pending map[string]pendingDelete

	subsMu  sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// Option configures a Registry.
type Option func(*Registry)

// WithConfirmTTL overrides DefaultConfirmTTL.
func WithConfirmTTL(d time.Duration) Option {
	return func(r *Registry) {
		r.confirmTTL = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry returns a registry for the roles of orgID.
func NewRegistry(backend Backend, orgID string, opts ...Option) *Registry {
	r := &Registry{
		backend:    backend,
		orgID:      orgID,
		confirmTTL: DefaultConfirmTTL,
		now:        time.Now,
		pending:    make(map[string]pendingDelete),
		subs:       make(map[int]func(Change)),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// OrganizationID returns the organization the registry serves.
func (r *Registry) OrganizationID() string {
	return r.orgID
}

// List returns the roles matching q. Response shapes that carry no list
// yield an empty result, not an error.
func (r *Registry) List(ctx context.Context, q Query) ([]Role, error) {
	if q.OrganizationID == "" {
		q.OrganizationID = r.orgID
	}

	raw, err := r.backend.ListRoles(ctx, q)
	if err != nil {
		return nil, classify(err)
	}

	return decodeList[Role](raw), nil
}

// Get returns one role or an error wrapping ErrNotFound.
func (r *Registry) Get(ctx context.Context, id string) (Role, error) {
	if strings.TrimSpace(id) == "" {
		return Role{}, ErrNotFound
	}

	raw, err := r.backend.GetRole(ctx, id)
	if err != nil {
		return Role{}, classify(err)
	}

	return decodeOne[Role](raw)
}

// Create validates in and creates an active role.
func (r *Registry) Create(ctx context.Context, in Input) (Role, error) {
	in = in.Normalized()
	if err := in.Validate(); err != nil {
		return Role{}, err
	}

	in.OrganizationID = r.orgID

	raw, err := r.backend.CreateRole(ctx, in)
	if err != nil {
		return Role{}, classify(err)
	}

	created, err := decodeOne[Role](raw)
	if err != nil {
		return Role{}, err
	}

	r.publish(Change{Kind: ChangeCreated, RoleID: created.ID})

	return created, nil
}

// Update validates in and replaces name, description and permissions of id.
func (r *Registry) Update(ctx context.Context, id string, in Input) (Role, error) {
	in = in.Normalized()
	if err := in.Validate(); err != nil {
		return Role{}, err
	}

	in.OrganizationID = ""

	raw, err := r.backend.UpdateRole(ctx, id, in)
	if err != nil {
		return Role{}, classify(err)
	}

	updated, err := decodeOne[Role](raw)
	if err != nil {
		return Role{}, err
	}

	r.publish(Change{Kind: ChangeUpdated, RoleID: id})

	return updated, nil
}

// RequestDelete starts a deletion. Nothing is deleted until the returned
// token is passed to ConfirmDelete.
func (r *Registry) RequestDelete(ctx context.Context, id string) (Confirmation, error) {
	role, err := r.Get(ctx, id)
	if err != nil {
		return Confirmation{}, err
	}

	c := Confirmation{
		Token:     uniuri.New(),
		Role:      role,
		ExpiresAt: r.now().Add(r.confirmTTL),
	}

	r.mu.Lock()
	r.sweepLocked()
	r.pending[c.Token] = pendingDelete{roleID: role.ID, expires: c.ExpiresAt}
	r.mu.Unlock()

	return c, nil
}

// Pending returns the role id a live token would delete.
func (r *Registry) Pending(token string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[token]
	if !ok || !r.now().Before(p.expires) {
		return "", false
	}

	return p.roleID, true
}

// ConfirmDelete deletes the role bound to token. Tokens are single use; a
// transport failure keeps the token so the delete can be retried.
func (r *Registry) ConfirmDelete(ctx context.Context, token string) error {
	r.mu.Lock()
	p, ok := r.pending[token]

	if ok && !r.now().Before(p.expires) {
		delete(r.pending, token)

		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return ErrConfirmation
	}

	err := r.backend.DeleteRole(ctx, p.roleID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return classify(err)
	}

	r.mu.Lock()
	delete(r.pending, token)
	r.mu.Unlock()

	if err != nil {
		return err
	}

	log.Info().Str("role_id", p.roleID).Msg("role deleted")
	r.publish(Change{Kind: ChangeDeleted, RoleID: p.roleID})

	return nil
}

func (r *Registry) sweepLocked() {
	now := r.now()

	for token, p := range r.pending {
		if !now.Before(p.expires) {
			delete(r.pending, token)
		}
	}
}

// SetStatus activates or deactivates a role. Sessions see the change on
// their next gate evaluation.
func (r *Registry) SetStatus(ctx context.Context, id string, status Status) (Role, error) {
	status, err := ParseStatus(string(status))
	if err != nil {
		return Role{}, err
	}

	raw, err := r.backend.SetRoleStatus(ctx, id, status)
	if err != nil {
		return Role{}, classify(err)
	}

	updated, err := decodeOne[Role](raw)
	if err != nil {
		return Role{}, err
	}

	r.publish(Change{Kind: ChangeStatus, RoleID: id})

	return updated, nil
}

// Permissions returns the permission catalog.
func (r *Registry) Permissions(ctx context.Context) ([]permission.Permission, error) {
	raw, err := r.backend.ListPermissions(ctx)
	if err != nil {
		return nil, classify(err)
	}

	return decodeList[permission.Permission](raw), nil
}

// PermissionSet returns the codes granted to tag: the union over the active
// roles of the organization whose name equals the tag, ignoring case.
// Permission ids missing from the catalog are dropped.
func (r *Registry) PermissionSet(ctx context.Context, tag identity.RoleTag) (permission.Set, error) {
	roles, err := r.List(ctx, Query{OrganizationID: r.orgID})
	if err != nil {
		return nil, err
	}

	var ids []string

	for _, role := range roles {
		if role.Active() && strings.EqualFold(strings.TrimSpace(role.Name), tag.String()) {
			ids = append(ids, role.PermissionIDs...)
		}
	}

	if len(ids) == 0 {
		return permission.Set{}, nil
	}

	catalog, err := r.Permissions(ctx)
	if err != nil {
		return nil, err
	}

	return permission.NewSet(permission.Codes(catalog, ids)...), nil
}

// Subscribe registers fn for every Change. It returns the unsubscribe func.
func (r *Registry) Subscribe(fn func(Change)) func() {
	r.subsMu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.subsMu.Unlock()

	return func() {
		r.subsMu.Lock()
		delete(r.subs, id)
		r.subsMu.Unlock()
	}
}

func (r *Registry) publish(c Change) {
	r.subsMu.Lock()
	fns := make([]func(Change), 0, len(r.subs))

	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subsMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// classify keeps not-found and validation errors and folds everything else
// into ErrTransport.
func classify(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrTransport) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrTransport, err)
}
