package gate

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/inheritx/hr-portal/internal/identity"
	"github.com/inheritx/hr-portal/internal/permission"
	"github.com/inheritx/hr-portal/internal/role"
	"github.com/inheritx/hr-portal/internal/session"
)

const defaultFetchTimeout = 10 * time.Second

// Session is the part of session.Manager the watcher reads.
type Session interface {
	Snapshot() session.Snapshot
	IsCurrent(gen uint64) bool
	Subscribe(fn func(session.Snapshot)) func()
}

// Registry is the part of role.Registry the watcher reads.
type Registry interface {
	Resolver
	Subscribe(fn func(role.Change)) func()
}

// Watcher keeps the decision for one requirement current. It re-evaluates on
// every session transition, every registry change and every requirement
// change. Permission sets are fetched in the background and tagged with the
// session generation they were requested under; results that arrive after
// the generation moved on are dropped.
type Watcher struct {
	sess     Session
	reg      Registry
	onChange func(Decision)
	timeout  time.Duration

	mu       sync.Mutex
	req      Requirement
	grants   *Grants
	fetching bool
	epoch    uint64 // bumped when cached grants become invalid
	decision Decision
	closed   bool

	unsubscribe []func()
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithFetchTimeout bounds each permission set fetch.
func WithFetchTimeout(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.timeout = d
	}
}

// NewWatcher starts watching. onChange, if not nil, runs whenever the decision
// changes; it is called without internal locks held.
func NewWatcher(sess Session, reg Registry, req Requirement, onChange func(Decision), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		sess:     sess,
		reg:      reg,
		onChange: onChange,
		timeout:  defaultFetchTimeout,
		req:      req,
		decision: Pending,
	}

	for _, opt := range opts {
		opt(w)
	}

	w.unsubscribe = append(w.unsubscribe,
		sess.Subscribe(func(session.Snapshot) { w.refresh(false) }),
		reg.Subscribe(func(role.Change) { w.refresh(true) }),
	)

	w.refresh(false)

	return w
}

// Decision returns the current decision.
func (w *Watcher) Decision() Decision {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.decision
}

// SetRequirement replaces the requirement and re-evaluates.
func (w *Watcher) SetRequirement(req Requirement) {
	w.mu.Lock()
	same := w.req.Equal(req)
	w.req = req
	w.mu.Unlock()

	if !same {
		w.refresh(false)
	}
}

// Retry drops cached grants and re-evaluates, fetching them again if needed.
func (w *Watcher) Retry() {
	w.refresh(true)
}

// Close stops watching. Fetches still in flight are discarded.
func (w *Watcher) Close() {
	w.mu.Lock()
	w.closed = true
	w.epoch++
	w.mu.Unlock()

	for _, fn := range w.unsubscribe {
		fn()
	}
}

// refresh re-evaluates; invalidate drops cached grants first.
func (w *Watcher) refresh(invalidate bool) {
	snap := w.sess.Snapshot()

	w.mu.Lock()

	if w.closed {
		w.mu.Unlock()
		return
	}

	if invalidate {
		w.grants = nil
		w.fetching = false
		w.epoch++
	}

	if w.grants != nil && w.grants.Generation != snap.Generation {
		w.grants = nil
	}

	fetch := false

	if NeedsGrants(snap, w.req) && w.grants == nil && !w.fetching {
		w.fetching = true
		fetch = true
	}

	epoch := w.epoch
	changed := w.setLocked(Evaluate(snap, w.req, w.grants))
	w.mu.Unlock()

	w.notify(changed)

	if fetch {
		go w.fetch(snap.Generation, epoch, snap.Identity.Role)
	}
}

func (w *Watcher) fetch(gen, epoch uint64, tag identity.RoleTag) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	set, err := w.reg.PermissionSet(ctx, tag)

	w.mu.Lock()

	if w.closed || w.epoch != epoch {
		w.mu.Unlock()
		return
	}

	w.fetching = false

	if !w.sess.IsCurrent(gen) {
		w.mu.Unlock()
		log.Debug().Uint64("generation", gen).Msg("dropping stale permission set")
		w.refresh(false)

		return
	}

	if err != nil {
		w.mu.Unlock()
		log.Error().Err(err).Str("role", tag.String()).Msg("failed to resolve permission set")

		return
	}

	if set == nil {
		set = permission.Set{}
	}

	w.grants = &Grants{Generation: gen, Set: set}
	w.mu.Unlock()

	w.refresh(false)
}

func (w *Watcher) setLocked(d Decision) (changed *Decision) {
	if d == w.decision {
		return nil
	}

	w.decision = d

	return &d
}

func (w *Watcher) notify(changed *Decision) {
	if changed != nil && w.onChange != nil {
		w.onChange(*changed)
	}
}
