// Package auth guards routes with the access gate.
//
// Every protected route is registered behind Require with the requirement of
// the view:
//
//	app.Get("/admin/roles", auth.Require(registry, gate.Requirement{
//		Roles:      []identity.RoleTag{identity.RoleHR},
//		Permission: "roles.view",
//	}), handler)
//
// The web session middleware must run first; it binds the request's session
// manager that Require evaluates.
package auth
