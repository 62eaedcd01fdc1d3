package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inheritx/hr-portal/internal/config"
	"github.com/inheritx/hr-portal/internal/role"
	"github.com/inheritx/hr-portal/internal/web/session"
)

// Deps are the collaborators handlers are built from.
type Deps struct {
	Cfg      *config.Config
	Sessions *session.Factory
	Registry *role.Registry
	// Backend is the in-process role store served under /api. Nil when the
	// registry talks to a remote service.
	Backend role.Backend
}

// Valid reports whether every dependency is set.
func (d Deps) Valid() bool {
	return d.Cfg != nil && d.Sessions != nil && d.Registry != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps Deps) error
}
