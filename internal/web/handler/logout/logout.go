// Package logout ends the session of the client context.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/inheritx/hr-portal/internal/gate"
	"github.com/inheritx/hr-portal/internal/web/handler"
	websession "github.com/inheritx/hr-portal/internal/web/session"
)

// Path is the logout route.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	sessions *websession.Factory
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || deps.Sessions == nil {
		return errors.New("app or sessions is nil")
	}

	s.sessions = deps.Sessions

	// logout route (outside gate protection)
	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout clears the session and sends the browser to the login page.
// It is safe to call without a session.
func (s *Service) Logout(c *fiber.Ctx) error {
	websession.FromCtx(c).Logout()
	s.sessions.Forget(c)

	c.Set(fiber.HeaderCacheControl, "no-store")

	return c.Redirect(gate.LoginPath)
}
