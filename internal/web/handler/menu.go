package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inheritx/hr-portal/internal/gate"
	"github.com/inheritx/hr-portal/internal/identity"
	"github.com/inheritx/hr-portal/internal/permission"
	"github.com/inheritx/hr-portal/internal/web/middleware/auth"
	"github.com/inheritx/hr-portal/internal/web/navigation"
	"github.com/inheritx/hr-portal/internal/web/session"
)

// Paths shared between handlers.
const (
	DashboardPath = RootPath
	EmployeesPath = RootPath + "employees"
	RolesPath     = RootPath + "admin/roles"
)

// Requirements of the gated views.
var (
	RequireAuthenticated = gate.Requirement{}
	RequireEmployees     = gate.Requirement{Roles: []identity.RoleTag{identity.RoleHR}, Permission: permission.EmployeesView}
	RequireRolesView     = gate.Requirement{Roles: []identity.RoleTag{identity.RoleHR}, Permission: permission.RolesView}
	RequireRolesCreate   = gate.Requirement{Roles: []identity.RoleTag{identity.RoleHR}, Permission: permission.RolesCreate}
	RequireRolesEdit     = gate.Requirement{Roles: []identity.RoleTag{identity.RoleHR}, Permission: permission.RolesEdit}
	RequireRolesDelete   = gate.Requirement{Roles: []identity.RoleTag{identity.RoleHR}, Permission: permission.RolesDelete}
)

// Menu is the full navigation menu before gating.
func Menu() []navigation.Item {
	return []navigation.Item{
		{Title: "Dashboard", URL: DashboardPath, Section: "dashboard", Requirement: RequireAuthenticated},
		{Title: "Employees", URL: EmployeesPath, Section: "employees", Requirement: RequireEmployees},
		{Title: "Roles", URL: RolesPath, Section: "admin", Requirement: RequireRolesView},
	}
}

// Nav returns a navigation context carrying the menu the session may see. The
// grants already resolved by the route's guard are reused.
func Nav(c *fiber.Ctx, r gate.Resolver, title, section, page string) *navigation.Context {
	snap := session.FromCtx(c).Snapshot()
	items := navigation.FilterWith(c.UserContext(), r, snap, auth.Grants(c), Menu())

	return navigation.NewContext(title, section, page).WithMenu(items)
}

// View adds the values every layout needs to data.
func View(c *fiber.Ctx, nav *navigation.Context, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	data["Navigation"] = nav

	if ident, ok := session.FromCtx(c).Current(); ok {
		data["Identity"] = ident
	}

	return data
}
