// Package store is the authoritative role backend on top of the portal database.
// Responses use the {"data": ...} envelope the HTTP API serves.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	dbpermission "github.com/inheritx/hr-portal/internal/db/controller/permission"
	dbrole "github.com/inheritx/hr-portal/internal/db/controller/role"
	"github.com/inheritx/hr-portal/internal/db/models"
	"github.com/inheritx/hr-portal/internal/permission"
	"github.com/inheritx/hr-portal/internal/role"
)

// Backend implements role.Backend with gorm.
type Backend struct {
	db *gorm.DB
}

var _ role.Backend = (*Backend)(nil)

// New returns a Backend on db.
func New(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

// Envelope wraps v as {"data": v}.
func Envelope(v any) ([]byte, error) {
	return json.Marshal(struct {
		Data any `json:"data"`
	}{Data: v})
}

// ListRoles implements role.Backend.
func (b *Backend) ListRoles(ctx context.Context, q role.Query) ([]byte, error) {
	recs, err := dbrole.List(b.db.WithContext(ctx), dbrole.Filter{
		OrganizationID: q.OrganizationID,
		Search:         q.Search,
		Status:         models.RoleStatus(q.Status),
	})
	if err != nil {
		return nil, err
	}

	roles := make([]role.Role, len(recs))
	for i, rec := range recs {
		roles[i] = toRole(rec)
	}

	return Envelope(roles)
}

// GetRole implements role.Backend.
func (b *Backend) GetRole(ctx context.Context, id string) ([]byte, error) {
	rec, err := dbrole.Get(b.db.WithContext(ctx), id)
	if err != nil {
		return nil, translate(err, id)
	}

	return Envelope(toRole(*rec))
}

// CreateRole implements role.Backend.
func (b *Backend) CreateRole(ctx context.Context, in role.Input) ([]byte, error) {
	db := b.db.WithContext(ctx)

	in, ids, err := b.checked(db, in)
	if err != nil {
		return nil, err
	}

	rec, err := dbrole.Create(db, models.Role{
		OrganizationID: in.OrganizationID,
		Name:           in.Name,
		Description:    in.Description,
		Status:         models.RoleStatusActive,
	}, ids)
	if err != nil {
		return nil, translate(err, "")
	}

	return Envelope(toRole(*rec))
}

// UpdateRole implements role.Backend.
func (b *Backend) UpdateRole(ctx context.Context, id string, in role.Input) ([]byte, error) {
	db := b.db.WithContext(ctx)

	in, ids, err := b.checked(db, in)
	if err != nil {
		return nil, err
	}

	rec, err := dbrole.Update(db, id, in.Name, in.Description, ids)
	if err != nil {
		return nil, translate(err, id)
	}

	return Envelope(toRole(*rec))
}

// DeleteRole implements role.Backend.
func (b *Backend) DeleteRole(ctx context.Context, id string) error {
	return translate(dbrole.Delete(b.db.WithContext(ctx), id), id)
}

// SetRoleStatus implements role.Backend.
func (b *Backend) SetRoleStatus(ctx context.Context, id string, status role.Status) ([]byte, error) {
	rec, err := dbrole.SetStatus(b.db.WithContext(ctx), id, models.RoleStatus(status))
	if err != nil {
		return nil, translate(err, id)
	}

	return Envelope(toRole(*rec))
}

// ListPermissions implements role.Backend.
func (b *Backend) ListPermissions(ctx context.Context) ([]byte, error) {
	rows, err := dbpermission.List(b.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	perms := make([]permission.Permission, len(rows))
	for i, p := range rows {
		perms[i] = permission.Permission{ID: p.ID, Code: p.Code, Description: p.Description}
	}

	return Envelope(perms)
}

// checked validates in and keeps only permission ids present in the catalog.
func (b *Backend) checked(db *gorm.DB, in role.Input) (role.Input, []string, error) {
	in = in.Normalized()
	if err := in.Validate(); err != nil {
		return in, nil, err
	}

	ids, err := dbpermission.Existing(db, in.PermissionIDs)
	if err != nil {
		return in, nil, err
	}

	if len(ids) == 0 {
		return in, nil, &role.ValidationError{Field: "permissionIds", Message: "Select at least one permission"}
	}

	return in, ids, nil
}

func translate(err error, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, dbrole.ErrRoleNotFound):
		return fmt.Errorf("%w: %s", role.ErrNotFound, id)
	case errors.Is(err, dbrole.ErrRoleNameEmpty):
		return &role.ValidationError{Field: "roleName", Message: "Role name is required"}
	case errors.Is(err, dbrole.ErrInvalidStatus):
		return &role.ValidationError{Field: "status", Message: err.Error()}
	}

	return err
}

func toRole(rec dbrole.Record) role.Role {
	return role.Role{
		ID:             rec.ID,
		OrganizationID: rec.OrganizationID,
		Name:           rec.Name,
		Description:    rec.Description,
		Status:         role.Status(rec.Status),
		PermissionIDs:  rec.PermissionIDs,
	}
}
