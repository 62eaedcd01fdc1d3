// Package employees renders the employee directory for HR.
package employees

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/inheritx/hr-portal/internal/role"
	"github.com/inheritx/hr-portal/internal/web/handler"
	"github.com/inheritx/hr-portal/internal/web/middleware/auth"
)

const (
	// Path is the directory route.
	Path = handler.EmployeesPath

	// TemplateName is the directory template.
	TemplateName = "employees/list"
)

// Employee is one directory row.
type Employee struct {
	Name        string
	Email       string
	Department  string
	Designation string
}

// Service is the employee directory handler.
type Service struct {
	handler.Service
	registry *role.Registry
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers the route.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || deps.Registry == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.registry = deps.Registry

	app.Get(Path, auth.Require(s.registry, handler.RequireEmployees), s.List)

	return nil
}

// List renders the directory filtered by ?search=.
func (s *Service) List(c *fiber.Ctx) error {
	nav := handler.Nav(c, s.registry, "Employees", "employees", "employees").
		AddBreadcrumb("Home", handler.DashboardPath, false).
		AddBreadcrumb("Employees", Path, true)

	search := strings.TrimSpace(c.Query("search"))

	return c.Render(TemplateName, handler.View(c, nav, fiber.Map{
		"Employees": filter(directory(), search),
		"Search":    search,
	}), handler.BaseLayout)
}

func filter(all []Employee, search string) []Employee {
	if search == "" {
		return all
	}

	q := strings.ToLower(search)
	out := make([]Employee, 0, len(all))

	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.Department), q) {
			out = append(out, e)
		}
	}

	return out
}

func directory() []Employee {
	return []Employee{
		{Name: "Evan Patel", Email: "employee@inheritx.com", Department: "Engineering", Designation: "Software Engineer"},
		{Name: "Hannah Reyes", Email: "hr@inheritx.com", Department: "Human Resources", Designation: "HR Manager"},
		{Name: "Priya Shah", Email: "priya.shah@inheritx.com", Department: "Engineering", Designation: "QA Lead"},
		{Name: "Marco Rossi", Email: "marco.rossi@inheritx.com", Department: "Finance", Designation: "Accountant"},
		{Name: "Aisha Khan", Email: "aisha.khan@inheritx.com", Department: "Design", Designation: "Product Designer"},
	}
}
