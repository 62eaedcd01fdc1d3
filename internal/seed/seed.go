// Package seed writes the reference data the portal needs to be usable: the
// permission catalog, the employee and hr roles, and optionally the demo
// credentials.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inheritx/hr-portal/internal/credential"
	dbpermission "github.com/inheritx/hr-portal/internal/db/controller/permission"
	dbrole "github.com/inheritx/hr-portal/internal/db/controller/role"
	"github.com/inheritx/hr-portal/internal/db/models"
	"github.com/inheritx/hr-portal/internal/identity"
	"github.com/inheritx/hr-portal/internal/permission"
)

// Result counts the rows a Run created.
type Result struct {
	Permissions int
	Roles       int
	Credentials int
}

// Run seeds db for org. Existing rows are left alone so Run can be repeated.
func Run(ctx context.Context, db *gorm.DB, org string, withCredentials bool) (Result, error) {
	var res Result

	catalog := permission.Default()
	rows := make([]models.Permission, 0, len(catalog))

	for _, p := range catalog {
		rows = append(rows, models.Permission{Code: p.Code, Description: p.Description})
	}

	created, err := dbpermission.Ensure(db, rows)
	if err != nil {
		return res, fmt.Errorf("seed permissions: %w", err)
	}

	res.Permissions = created

	perms, err := dbpermission.List(db)
	if err != nil {
		return res, fmt.Errorf("seed permissions: %w", err)
	}

	byCode := make(map[string]string, len(perms))
	all := make([]string, 0, len(perms))

	for _, p := range perms {
		byCode[p.Code] = p.ID
		all = append(all, p.ID)
	}

	employee := make([]string, 0)

	for _, code := range permission.DefaultEmployeeCodes() {
		if id, ok := byCode[code]; ok {
			employee = append(employee, id)
		}
	}

	defaults := []struct {
		tag         identity.RoleTag
		description string
		ids         []string
	}{
		{identity.RoleEmployee, "Self service access", employee},
		{identity.RoleHR, "Full HR administration", all},
	}

	for _, d := range defaults {
		existing, err := dbrole.FindByName(db, org, string(d.tag))
		if err != nil {
			return res, fmt.Errorf("seed role %s: %w", d.tag, err)
		}

		if len(existing) > 0 {
			continue
		}

		_, err = dbrole.Create(db, models.Role{
			OrganizationID: org,
			Name:           string(d.tag),
			Description:    d.description,
		}, d.ids)
		if err != nil {
			return res, fmt.Errorf("seed role %s: %w", d.tag, err)
		}

		res.Roles++
	}

	if withCredentials {
		store := credential.NewGormStore(db)

		for _, e := range credential.DemoEntries() {
			err = store.Add(ctx, e)
			if errors.Is(err, credential.ErrEmailExists) {
				continue
			}

			if err != nil {
				return res, fmt.Errorf("seed credential %s: %w", e.Email, err)
			}

			res.Credentials++
		}
	}

	log.Info().
		Int("permissions", res.Permissions).
		Int("roles", res.Roles).
		Int("credentials", res.Credentials).
		Str("organization", org).
		Msg("seed finished")

	return res, nil
}
