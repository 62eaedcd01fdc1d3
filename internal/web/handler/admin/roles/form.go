package roles

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/inheritx/hr-portal/internal/permission"
	"github.com/inheritx/hr-portal/internal/role"
	"github.com/inheritx/hr-portal/internal/web/handler"
	"github.com/inheritx/hr-portal/internal/web/navigation"
)

// MsgSaveFailed is shown above the form when the backend could not be reached.
const MsgSaveFailed = "The role could not be saved. Please try again."

// roleForm is the submitted form. ToggleModule is set by the select-all
// button of a module group and re-renders the form instead of saving.
type roleForm struct {
	Name          string   `form:"roleName"`
	Description   string   `form:"description"`
	PermissionIDs []string `form:"permissionIds"`
	ToggleModule  string   `form:"toggleModule"`
}

func (f roleForm) input() role.Input {
	return role.Input{Name: f.Name, Description: f.Description, PermissionIDs: f.PermissionIDs}.Normalized()
}

// GroupView is a module group of the form with its selection state.
type GroupView struct {
	permission.Group
	Options  []OptionView
	Full     bool
	Partial  bool
	Selected int
}

// OptionView is one permission checkbox.
type OptionView struct {
	permission.Option
	Checked bool
}

func groupViews(groups []permission.Group, sel permission.Selection) []GroupView {
	out := make([]GroupView, 0, len(groups))

	for _, g := range groups {
		gv := GroupView{
			Group:   g,
			Full:    sel.FullySelected(g),
			Partial: sel.PartiallySelected(g),
		}

		for _, o := range g.Options {
			checked := sel.Has(o.ID)
			if checked {
				gv.Selected++
			}

			gv.Options = append(gv.Options, OptionView{Option: o, Checked: checked})
		}

		out = append(out, gv)
	}

	return out
}

// formState is everything the form template needs.
type formState struct {
	nav      *navigation.Context
	action   string
	isCreate bool
	roleID   string
	in       role.Input
	groups   []permission.Group
	sel      permission.Selection
	errMsg   string
	fields   map[string]string
}

func (s *Service) renderForm(c *fiber.Ctx, status int, st formState) error {
	return c.Status(status).Render(TemplateForm, handler.View(c, st.nav, fiber.Map{
		"Action":      st.action,
		"IsCreate":    st.isCreate,
		"RoleID":      st.roleID,
		"Input":       st.in,
		"Groups":      groupViews(st.groups, st.sel),
		"error":       nilIfEmpty(st.errMsg),
		"FieldErrors": st.fields,
	}), handler.BaseLayout)
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}

	return s
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	nav := s.nav(c, "New Role").
		AddBreadcrumb("Roles", Path, false).
		AddBreadcrumb("New", Path+"/new", true)

	groups, err := s.groups(c)
	if err != nil {
		return s.fail(c, nav, err)
	}

	return s.renderForm(c, fiber.StatusOK, formState{
		nav:      nav,
		action:   Path + "/new",
		isCreate: true,
		groups:   groups,
		sel:      permission.NewSelection(),
	})
}

// Create validates the form and creates the role.
func (s *Service) Create(c *fiber.Ctx) error {
	nav := s.nav(c, "New Role").
		AddBreadcrumb("Roles", Path, false).
		AddBreadcrumb("New", Path+"/new", true)

	return s.submit(c, formState{nav: nav, action: Path + "/new", isCreate: true},
		func(in role.Input) error {
			_, err := s.registry.Create(c.UserContext(), in)
			return err
		})
}

// Edit shows the form of an existing role.
func (s *Service) Edit(c *fiber.Ctx) error {
	id := c.Params("id")
	nav := s.nav(c, "Edit Role").
		AddBreadcrumb("Roles", Path, false).
		AddBreadcrumb("Edit", editPath(id), true)

	r, err := s.registry.Get(c.UserContext(), id)
	if err != nil {
		return s.fail(c, nav, err)
	}

	groups, err := s.groups(c)
	if err != nil {
		return s.fail(c, nav, err)
	}

	return s.renderForm(c, fiber.StatusOK, formState{
		nav:    nav,
		action: editPath(r.ID),
		roleID: r.ID,
		in:     role.Input{Name: r.Name, Description: r.Description, PermissionIDs: r.PermissionIDs},
		groups: groups,
		sel:    permission.NewSelection(r.PermissionIDs...),
	})
}

// Update validates the form and saves the role.
func (s *Service) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	nav := s.nav(c, "Edit Role").
		AddBreadcrumb("Roles", Path, false).
		AddBreadcrumb("Edit", editPath(id), true)

	return s.submit(c, formState{nav: nav, action: editPath(id), roleID: id},
		func(in role.Input) error {
			_, err := s.registry.Update(c.UserContext(), id, in)
			return err
		})
}

// submit handles a posted form: module toggles re-render, validation errors
// are shown inline, transport errors keep the entered values for a retry.
func (s *Service) submit(c *fiber.Ctx, st formState, save func(role.Input) error) error {
	var f roleForm
	if err := c.BodyParser(&f); err != nil {
		log.Debug().Err(err).Msg("invalid role form")

		f = roleForm{}
	}

	groups, err := s.groups(c)
	if err != nil {
		return s.fail(c, st.nav, err)
	}

	st.groups = groups
	st.sel = permission.NewSelection(f.PermissionIDs...)

	if f.ToggleModule != "" {
		for _, g := range groups {
			if g.Module == f.ToggleModule {
				st.sel.ToggleModule(g)
			}
		}

		f.PermissionIDs = st.sel.IDs()
		st.in = f.input()

		return s.renderForm(c, fiber.StatusOK, st)
	}

	st.in = f.input()

	err = save(st.in)
	if err == nil {
		return c.Redirect(Path)
	}

	var verr *role.ValidationError

	switch {
	case errors.As(err, &verr):
		st.fields = map[string]string{verr.Field: verr.Message}

		return s.renderForm(c, fiber.StatusUnprocessableEntity, st)
	case errors.Is(err, role.ErrNotFound):
		return s.fail(c, st.nav, err)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("failed to save role")

	st.errMsg = MsgSaveFailed

	return s.renderForm(c, fiber.StatusBadGateway, st)
}

func (s *Service) groups(c *fiber.Ctx) ([]permission.Group, error) {
	perms, err := s.registry.Permissions(c.UserContext())
	if err != nil {
		return nil, err
	}

	return permission.GroupByModule(perms), nil
}
