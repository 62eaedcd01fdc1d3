// Package roles provides the role administration pages: listing, creating,
// editing, status toggling and the two step delete.
package roles

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/inheritx/hr-portal/internal/permission"
	"github.com/inheritx/hr-portal/internal/role"
	"github.com/inheritx/hr-portal/internal/web/handler"
	"github.com/inheritx/hr-portal/internal/web/middleware/auth"
	"github.com/inheritx/hr-portal/internal/web/navigation"
)

const (
	// Path is the base path for role administration.
	Path = handler.RolesPath

	// TemplateList is the template for listing roles.
	TemplateList = "admin/roles/list"
	// TemplateForm is the template for creating/updating a role.
	TemplateForm = "admin/roles/form"
	// TemplateDelete is the delete confirmation page.
	TemplateDelete = "admin/roles/delete"
	// TemplateError is the retry panel.
	TemplateError = "admin/roles/error"
)

// Retry panel messages.
const (
	MsgUnavailable = "The role service is not reachable right now."
	MsgNotFound    = "This role does not exist anymore."
	MsgExpired     = "The delete confirmation expired. Please start again."
)

// Service provides the role administration pages.
type Service struct {
	handler.Service
	registry *role.Registry
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || deps.Registry == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.registry = deps.Registry

	app.Get(Path, auth.Require(s.registry, handler.RequireRolesView), s.List)
	app.Get(Path+"/new", auth.Require(s.registry, handler.RequireRolesCreate), s.New)
	app.Post(Path+"/new", auth.Require(s.registry, handler.RequireRolesCreate), s.Create)
	app.Get(Path+"/:id/edit", auth.Require(s.registry, handler.RequireRolesEdit), s.Edit)
	app.Post(Path+"/:id/edit", auth.Require(s.registry, handler.RequireRolesEdit), s.Update)
	app.Post(Path+"/:id/status", auth.Require(s.registry, handler.RequireRolesEdit), s.Status)
	app.Get(Path+"/:id/delete", auth.Require(s.registry, handler.RequireRolesDelete), s.ConfirmPage)
	app.Post(Path+"/delete", auth.Require(s.registry, handler.RequireRolesDelete), s.Delete)

	return nil
}

// Row is one line of the role list.
type Row struct {
	role.Role
	PermissionCount int
}

// List shows the roles of the organization filtered by search and status.
func (s *Service) List(c *fiber.Ctx) error {
	nav := s.nav(c, "Roles").AddBreadcrumb("Roles", Path, true)

	var q role.Query
	if err := c.QueryParser(&q); err != nil {
		q = role.Query{}
	}

	if q.Status != "" {
		if _, err := role.ParseStatus(string(q.Status)); err != nil {
			q.Status = ""
		}
	}

	q.OrganizationID = ""

	roles, err := s.registry.List(c.UserContext(), q)
	if err != nil {
		return s.fail(c, nav, err)
	}

	perms, err := s.registry.Permissions(c.UserContext())
	if err != nil {
		return s.fail(c, nav, err)
	}

	rows := make([]Row, 0, len(roles))
	for _, r := range roles {
		rows = append(rows, Row{Role: r, PermissionCount: len(permission.Codes(perms, r.PermissionIDs))})
	}

	return c.Render(TemplateList, handler.View(c, nav, fiber.Map{
		"Roles":    rows,
		"Search":   q.Search,
		"Status":   string(q.Status),
		"Statuses": []role.Status{role.StatusActive, role.StatusInactive},
	}), handler.BaseLayout)
}

// Status switches a role between active and inactive.
func (s *Service) Status(c *fiber.Ctx) error {
	nav := s.nav(c, "Roles").AddBreadcrumb("Roles", Path, true)

	status, err := role.ParseStatus(c.FormValue("status"))
	if err != nil {
		return s.fail(c, nav, err)
	}

	if _, err = s.registry.SetStatus(c.UserContext(), c.Params("id"), status); err != nil {
		return s.fail(c, nav, err)
	}

	return c.Redirect(Path)
}

func (s *Service) nav(c *fiber.Ctx, title string) *navigation.Context {
	return handler.Nav(c, s.registry, title, "admin", "roles").
		AddBreadcrumb("Home", handler.DashboardPath, false).
		AddBreadcrumb("Admin", "#", false)
}

// fail renders the retry panel for a registry error. Retry repeats the
// request: a link for reads, a resubmitted form for writes.
func (s *Service) fail(c *fiber.Ctx, nav *navigation.Context, err error) error {
	data := fiber.Map{
		"Retry":       c.OriginalURL(),
		"RetryMethod": c.Method(),
		"RetryFields": postFields(c),
		"Back":        Path,
	}

	status := fiber.StatusBadGateway
	msg := MsgUnavailable

	var verr *role.ValidationError

	switch {
	case errors.As(err, &verr):
		status = fiber.StatusUnprocessableEntity
		msg = verr.Message
		data["Retry"] = ""
	case errors.Is(err, role.ErrNotFound):
		status = fiber.StatusNotFound
		msg = MsgNotFound
		data["Retry"] = ""
	case errors.Is(err, role.ErrConfirmation):
		status = fiber.StatusGone
		msg = MsgExpired
		data["Retry"] = ""
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("role registry request failed")
	}

	data["error"] = msg

	return c.Status(status).Render(TemplateError, handler.View(c, nav, data), handler.BaseLayout)
}

// postFields returns the submitted form values so a failed write can be resent.
func postFields(c *fiber.Ctx) map[string][]string {
	if c.Method() == fiber.MethodGet {
		return nil
	}

	fields := make(map[string][]string)

	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		fields[string(k)] = append(fields[string(k)], string(v))
	})

	return fields
}

func editPath(id string) string {
	return Path + "/" + url.PathEscape(id) + "/edit"
}
