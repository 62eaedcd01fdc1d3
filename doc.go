// Package main provides the entry point of the HR Portal. It starts a fiber
// web server for employee self service and HR administration whose views are
// gated by session identity, role and permission. Roles and permissions live
// in a gorm backed store or behind a remote REST API, sessions in the
// configured fiber storage.
package main
