// Package session owns the session lifecycle: login against the credential store,
// persistence of the identity in durable storage, restore on start and logout.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/inheritx/hr-portal/internal/credential"
	"github.com/inheritx/hr-portal/internal/identity"
)

// Manager holds the identity of one client context.
//
// The identity is persisted in storage under a single fixed key; no other
// component writes that key. Every state change increments the generation so
// asynchronous work issued under an older generation can be recognised and dropped.
type Manager struct {
	creds   credential.Store
	storage fiber.Storage
	key     string
	expiry  time.Duration

	mu    sync.RWMutex
	state State
	ident identity.Identity
	gen   uint64

	subsMu  sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// Option configures a Manager.
type Option func(*Manager)

// WithExpiry sets the lifetime of the stored session. Zero keeps it until logout.
func WithExpiry(d time.Duration) Option {
	return func(m *Manager) {
		m.expiry = d
	}
}

// NewManager creates a Manager in StateUnresolved. Call Restore before gating anything.
func NewManager(creds credential.Store, storage fiber.Storage, key string, opts ...Option) *Manager {
	if creds == nil || storage == nil {
		panic("session: credential store and storage are required")
	}

	m := &Manager{
		creds:   creds,
		storage: storage,
		key:     key,
		subs:    make(map[int]func(Snapshot)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Key returns the storage key of this session.
func (m *Manager) Key() string {
	return m.key
}

// Restore reads the stored identity. Missing, unreadable or corrupt data all
// resolve to StateAnonymous; corrupt entries are removed. It never fails.
// Calling it on an already resolved session is a no-op.
func (m *Manager) Restore(_ context.Context) Snapshot {
	m.mu.Lock()

	if m.state != StateUnresolved {
		snap := m.snapshotLocked()
		m.mu.Unlock()

		return snap
	}

	ident, ok := m.load()
	if ok {
		m.ident = ident
		m.state = StateAuthenticated
	} else {
		m.state = StateAnonymous
	}

	m.gen++
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(snap)

	return snap
}

func (m *Manager) load() (identity.Identity, bool) {
	raw, err := m.storage.Get(m.key)
	if err != nil {
		log.Error().Err(err).Str("key", m.key).Msg("failed to read session storage")
		return identity.Identity{}, false
	}

	if len(raw) == 0 {
		return identity.Identity{}, false
	}

	ident, err := decode(raw)
	if err != nil {
		log.Warn().Err(err).Str("key", m.key).Msg("dropping corrupt session")

		if errDel := m.storage.Delete(m.key); errDel != nil {
			log.Error().Err(errDel).Str("key", m.key).Msg("failed to clear corrupt session")
		}

		return identity.Identity{}, false
	}

	return ident, true
}

func decode(raw []byte) (identity.Identity, error) {
	var ident identity.Identity

	if err := json.Unmarshal(raw, &ident); err != nil {
		return identity.Identity{}, fmt.Errorf("%w: %w", ErrCorruptSession, err)
	}

	if ident.ID == "" || ident.Email == "" || !ident.Role.Valid() {
		return identity.Identity{}, fmt.Errorf("%w: incomplete identity", ErrCorruptSession)
	}

	return ident, nil
}

// Credentials are the inputs of Login. An empty ExpectedRole accepts any role.
type Credentials struct {
	Email        string
	Password     string
	ExpectedRole identity.RoleTag
}

// Login authenticates against the credential store and binds the identity.
//
// It returns false without touching the session when the email is unknown, the
// expected role differs from the stored one or the password does not match.
// Errors are reserved for the credential store or storage failing.
func (m *Manager) Login(ctx context.Context, c Credentials) (bool, error) {
	if m.State() == StateUnresolved {
		return false, ErrUnresolved
	}

	rec, ok, err := m.creds.Lookup(ctx, c.Email)
	if err != nil {
		return false, fmt.Errorf("credential lookup: %w", err)
	}

	if !ok {
		return false, nil
	}

	if c.ExpectedRole != "" && c.ExpectedRole != rec.Identity.Role {
		return false, nil
	}

	if !rec.Matches(c.Password) {
		return false, nil
	}

	payload, err := json.Marshal(rec.Identity)
	if err != nil {
		return false, fmt.Errorf("encode identity: %w", err)
	}

	if err = m.storage.Set(m.key, payload, m.expiry); err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	m.mu.Lock()
	m.ident = rec.Identity
	m.state = StateAuthenticated
	m.gen++
	snap := m.snapshotLocked()
	m.mu.Unlock()

	log.Info().Str("identity_id", rec.Identity.ID).Str("role", rec.Identity.Role.String()).Msg("login")

	m.publish(snap)

	return true, nil
}

// Logout unbinds the identity and clears the stored session. It is idempotent.
func (m *Manager) Logout() {
	if err := m.storage.Delete(m.key); err != nil {
		log.Error().Err(err).Str("key", m.key).Msg("failed to delete session")
	}

	m.mu.Lock()

	if m.state == StateAnonymous {
		m.mu.Unlock()
		return
	}

	m.ident = identity.Identity{}
	m.state = StateAnonymous
	m.gen++
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(snap)
}

// State returns the current resolution state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state
}

// Snapshot returns the current state, identity and generation.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{State: m.state, Identity: m.ident, Generation: m.gen}
}

// Current returns the bound identity.
func (m *Manager) Current() (identity.Identity, bool) {
	snap := m.Snapshot()
	return snap.Identity, snap.Authenticated()
}

// IsAuthenticated reports whether an identity is bound.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// HasRole reports whether an identity is bound and its role is one of roles.
func (m *Manager) HasRole(roles ...identity.RoleTag) bool {
	ident, ok := m.Current()
	return ok && ident.HasRole(roles...)
}

// Generation returns the current generation.
func (m *Manager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.gen
}

// IsCurrent reports whether gen is still the current generation.
func (m *Manager) IsCurrent(gen uint64) bool {
	return m.Generation() == gen
}

// Subscribe registers fn for every state change. fn runs on the goroutine that
// caused the change, after the session lock has been released.
func (m *Manager) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	m.subsMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subsMu.Unlock()

	return func() {
		m.subsMu.Lock()
		delete(m.subs, id)
		m.subsMu.Unlock()
	}
}

func (m *Manager) publish(snap Snapshot) {
	m.subsMu.Lock()
	fns := make([]func(Snapshot), 0, len(m.subs))

	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
