// Package session binds a session.Manager to each request through a client
// context cookie.
package session

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/inheritx/hr-portal/internal/config"
	"github.com/inheritx/hr-portal/internal/credential"
	fiberlogger "github.com/inheritx/hr-portal/internal/logger/adapter/fiber"
	"github.com/inheritx/hr-portal/internal/session"
)

// LocalsKey is the fiber.Locals key holding the request's *session.Manager.
const LocalsKey = "session"

// Factory creates the session manager of a client context. The cookie only
// carries the client id; the identity lives in storage under KeyPrefix + id.
type Factory struct {
	creds   credential.Store
	storage fiber.Storage
	cfg     config.Session
	secure  bool
}

// NewFactory returns a Factory. secure marks the cookie Secure.
func NewFactory(creds credential.Store, storage fiber.Storage, cfg config.Session, secure bool) *Factory {
	if creds == nil || storage == nil {
		panic("credential store and storage are required")
	}

	return &Factory{creds: creds, storage: storage, cfg: cfg, secure: secure}
}

// Middleware restores the session of the request and stores its manager in Locals.
func (f *Factory) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(f.cfg.CookieName)
		if _, err := uuid.Parse(id); err != nil {
			id = f.newClient(c)
		}

		m := f.manager(c.UserContext(), id)
		f.bind(c, m)

		return c.Next()
	}
}

// Login authenticates c on a new client id. A rejected or failed login
// leaves the request's session, cookie and storage untouched. On success the
// previous client's stored identity is removed, the cookie is rotated and
// the new manager is bound to the request.
func (f *Factory) Login(c *fiber.Ctx, creds session.Credentials) (bool, error) {
	id := uuid.NewString()
	m := f.manager(c.UserContext(), id)

	ok, err := m.Login(c.UserContext(), creds)
	if err != nil || !ok {
		return false, err
	}

	FromCtx(c).Logout()

	f.setCookie(c, id)
	f.bind(c, m)

	return true, nil
}

// Forget expires the client cookie.
func (f *Factory) Forget(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     f.cfg.CookieName,
		Value:    "",
		MaxAge:   -1,
		Secure:   f.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (f *Factory) manager(ctx context.Context, id string) *session.Manager {
	m := session.NewManager(f.creds, f.storage, f.cfg.KeyPrefix+id, session.WithExpiry(f.cfg.ExpiryTime))
	m.Restore(ctx)

	return m
}

func (f *Factory) bind(c *fiber.Ctx, m *session.Manager) {
	c.Locals(LocalsKey, m)

	if ident, ok := m.Current(); ok {
		c.Locals(fiberlogger.LocalsIdentityEmail, ident.Email)
	}
}

func (f *Factory) newClient(c *fiber.Ctx) string {
	id := uuid.NewString()
	f.setCookie(c, id)

	return id
}

func (f *Factory) setCookie(c *fiber.Ctx, id string) {
	c.Cookie(&fiber.Cookie{
		Name:     f.cfg.CookieName,
		Value:    id,
		MaxAge:   int(f.cfg.ExpiryTime.Seconds()),
		Secure:   f.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// FromCtx returns the manager bound by Middleware. It panics when the
// middleware is not installed.
func FromCtx(c *fiber.Ctx) *session.Manager {
	m, ok := c.Locals(LocalsKey).(*session.Manager)
	if !ok {
		panic("web session middleware is not installed")
	}

	return m
}
