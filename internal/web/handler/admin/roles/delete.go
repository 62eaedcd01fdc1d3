package roles

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inheritx/hr-portal/internal/web/handler"
)

// ConfirmPage asks for confirmation before deleting a role. The page carries
// a single use token; nothing is deleted until it is posted back.
func (s *Service) ConfirmPage(c *fiber.Ctx) error {
	nav := s.nav(c, "Delete Role").
		AddBreadcrumb("Roles", Path, false).
		AddBreadcrumb("Delete", c.OriginalURL(), true)

	conf, err := s.registry.RequestDelete(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, nav, err)
	}

	return c.Render(TemplateDelete, handler.View(c, nav, fiber.Map{
		"Confirmation": conf,
		"Action":       Path + "/delete",
	}), handler.BaseLayout)
}

// Delete consumes the confirmation token and deletes the role.
func (s *Service) Delete(c *fiber.Ctx) error {
	nav := s.nav(c, "Delete Role").AddBreadcrumb("Roles", Path, true)

	if err := s.registry.ConfirmDelete(c.UserContext(), c.FormValue("token")); err != nil {
		return s.fail(c, nav, err)
	}

	return c.Redirect(Path)
}
