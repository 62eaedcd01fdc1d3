// Package dashboard renders the home page: the HR overview for HR managers and
// the self service view for employees.
package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/inheritx/hr-portal/internal/identity"
	"github.com/inheritx/hr-portal/internal/role"
	"github.com/inheritx/hr-portal/internal/web/handler"
	"github.com/inheritx/hr-portal/internal/web/middleware/auth"
	"github.com/inheritx/hr-portal/internal/web/session"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.DashboardPath

	// TemplateHR is the HR manager dashboard.
	TemplateHR = "dashboard/hr"
	// TemplateEmployee is the employee dashboard.
	TemplateEmployee = "dashboard/employee"
)

// Stat is one tile of the dashboard.
type Stat struct {
	Label string
	Value string
	Hint  string
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	registry *role.Registry
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || deps.Registry == nil || deps.Sessions == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.registry = deps.Registry

	app.Get(Path, auth.Require(s.registry, handler.RequireAuthenticated), s.Get)

	return nil
}

// Get renders the dashboard of the signed in role.
func (s *Service) Get(c *fiber.Ctx) error {
	ident, _ := session.FromCtx(c).Current()

	nav := handler.Nav(c, s.registry, "Dashboard", "dashboard", "dashboard").
		AddBreadcrumb("Home", Path, true)

	switch ident.Role {
	case identity.RoleHR:
		return c.Render(TemplateHR, handler.View(c, nav, fiber.Map{"Stats": hrStats()}), handler.BaseLayout)
	case identity.RoleEmployee:
		return c.Render(TemplateEmployee, handler.View(c, nav, fiber.Map{"Stats": employeeStats()}), handler.BaseLayout)
	}

	return c.Redirect(handler.RootPath + "logout")
}

func hrStats() []Stat {
	return []Stat{
		{Label: "Employees", Value: "128", Hint: "4 joined this month"},
		{Label: "On leave today", Value: "6"},
		{Label: "Pending leave requests", Value: "9"},
		{Label: "Open positions", Value: "3"},
	}
}

func employeeStats() []Stat {
	return []Stat{
		{Label: "Leave balance", Value: "14 days"},
		{Label: "Attendance this month", Value: "96%"},
		{Label: "Next payday", Value: "31st"},
	}
}
