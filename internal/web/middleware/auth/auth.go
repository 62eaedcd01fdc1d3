package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/inheritx/hr-portal/internal/gate"
	"github.com/inheritx/hr-portal/internal/web/session"
)

const (
	// LocalsDecision is the fiber.Locals key holding the gate.Decision of the request.
	LocalsDecision = "gate_decision"

	// LocalsGrants is the fiber.Locals key holding the *gate.Grants resolved
	// for the request, if any.
	LocalsGrants = "gate_grants"

	// TemplatePending is rendered while the decision is Pending.
	TemplatePending = "pending"

	pendingRetryAfter = "2"
)

// Require guards the following handlers with req. Allow continues the chain,
// deny decisions redirect, Pending renders a placeholder that reloads itself.
// Protected handlers never run for anything but Allow.
func Require(resolver gate.Resolver, req gate.Requirement) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m := session.FromCtx(c)
		snap := m.Snapshot()

		d, grants := gate.Resolve(c.UserContext(), resolver, snap, req)
		c.Locals(LocalsDecision, d)

		if grants != nil {
			c.Locals(LocalsGrants, grants)
		}

		if d == gate.Allow {
			return c.Next()
		}

		if target, ok := d.Redirect(); ok {
			log.Debug().
				Str("path", c.Path()).
				Str("decision", d.String()).
				Str("redirect", target).
				Msg("access denied")

			return c.Redirect(target)
		}

		c.Set(fiber.HeaderRetryAfter, pendingRetryAfter)
		c.Set(fiber.HeaderCacheControl, "no-store")

		return c.Status(fiber.StatusServiceUnavailable).Render(TemplatePending, fiber.Map{
			"Retry": c.OriginalURL(),
		})
	}
}

// Grants returns the grants Require resolved for this request, or nil.
func Grants(c *fiber.Ctx) *gate.Grants {
	g, _ := c.Locals(LocalsGrants).(*gate.Grants)
	return g
}

// GuestOnly sends authenticated sessions home. Used on the login page.
func GuestOnly(c *fiber.Ctx) error {
	if session.FromCtx(c).IsAuthenticated() {
		return c.Redirect(gate.HomePath)
	}

	return c.Next()
}
