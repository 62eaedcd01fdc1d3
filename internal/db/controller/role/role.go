// Package role provides CRUD operations for roles and their permission edges.
package role

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inheritx/hr-portal/internal/db/models"
)

const idQueryPattern = "id = ?"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleNameEmpty is returned when attempting to create/update a role with an empty name.
	ErrRoleNameEmpty = errors.New("role name cannot be empty")
	// ErrInvalidStatus is returned for a status other than active or inactive.
	ErrInvalidStatus = errors.New("invalid role status")
)

// Filter narrows List. Empty fields match everything.
type Filter struct {
	OrganizationID string
	// Search matches a case-insensitive substring of name or description.
	Search string
	Status models.RoleStatus
}

// Record is a role together with the ids of its permissions.
type Record struct {
	models.Role
	PermissionIDs []string
}

// List returns the roles matching f ordered by name.
func List(db *gorm.DB, f Filter) ([]Record, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Model(&models.Role{})

	if f.OrganizationID != "" {
		q = q.Where("organization_id = ?", f.OrganizationID)
	}

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var roles []models.Role
	if err := q.Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}

	return withPermissions(db, roles)
}

// FindByName returns the roles of org whose name equals name, ignoring case.
func FindByName(db *gorm.DB, org, name string) ([]Record, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role

	err := db.Where("organization_id = ? AND LOWER(name) = ?", org, strings.ToLower(name)).
		Order("name").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}

	return withPermissions(db, roles)
}

// Get retrieves a role by its ID.
func Get(db *gorm.DB, id string) (*Record, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var r models.Role

	result := db.Where(idQueryPattern, id).First(&r)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}

		return nil, result.Error
	}

	recs, err := withPermissions(db, []models.Role{r})
	if err != nil {
		return nil, err
	}

	return &recs[0], nil
}

// Create inserts role with its permission edges in one transaction.
// An empty status defaults to active.
func Create(db *gorm.DB, r models.Role, permissionIDs []string) (*Record, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if strings.TrimSpace(r.Name) == "" {
		return nil, ErrRoleNameEmpty
	}

	if r.Status == "" {
		r.Status = models.RoleStatusActive
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&r).Error; err != nil {
			return err
		}

		return replacePermissions(tx, r.ID, permissionIDs)
	})
	if err != nil {
		return nil, err
	}

	return Get(db, r.ID)
}

// Update changes name, description and permission set of a role.
func Update(db *gorm.DB, id, name, description string, permissionIDs []string) (*Record, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if strings.TrimSpace(name) == "" {
		return nil, ErrRoleNameEmpty
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Role{}).
			Where(idQueryPattern, id).
			Updates(map[string]any{"name": name, "description": description})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrRoleNotFound
		}

		return replacePermissions(tx, id, permissionIDs)
	})
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// SetStatus sets the status of a role.
func SetStatus(db *gorm.DB, id string, status models.RoleStatus) (*Record, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if status != models.RoleStatusActive && status != models.RoleStatusInactive {
		return nil, ErrInvalidStatus
	}

	result := db.Model(&models.Role{}).Where(idQueryPattern, id).Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrRoleNotFound
	}

	return Get(db, id)
}

// Delete deletes a role and its permission edges.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		result := tx.Where(idQueryPattern, id).Delete(&models.Role{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrRoleNotFound
		}

		return nil
	})
}

// replacePermissions makes the edges of roleID exactly ids: edges not in ids
// are removed, missing ones are added.
func replacePermissions(tx *gorm.DB, roleID string, ids []string) error {
	var current []string
	if err := tx.Model(&models.RolePermission{}).Where("role_id = ?", roleID).Pluck("permission_id", &current).Error; err != nil {
		return err
	}

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var stale []string

	for _, id := range current {
		if _, ok := want[id]; ok {
			delete(want, id)
			continue
		}

		stale = append(stale, id)
	}

	if len(stale) > 0 {
		err := tx.Where("role_id = ? AND permission_id IN ?", roleID, stale).Delete(&models.RolePermission{}).Error
		if err != nil {
			return err
		}
	}

	if len(want) == 0 {
		return nil
	}

	edges := make([]models.RolePermission, 0, len(want))

	for _, id := range ids {
		if _, ok := want[id]; ok {
			edges = append(edges, models.RolePermission{RoleID: roleID, PermissionID: id})
			delete(want, id)
		}
	}

	return tx.Omit(clause.Associations).Create(&edges).Error
}

// withPermissions loads the permission ids of roles, skipping edges whose
// permission no longer exists in the catalog.
func withPermissions(db *gorm.DB, roles []models.Role) ([]Record, error) {
	recs := make([]Record, len(roles))
	if len(roles) == 0 {
		return recs, nil
	}

	ids := make([]string, len(roles))
	index := make(map[string]int, len(roles))

	for i, r := range roles {
		ids[i] = r.ID
		index[r.ID] = i
		recs[i] = Record{Role: r, PermissionIDs: []string{}}
	}

	var edges []models.RolePermission

	err := db.Model(&models.RolePermission{}).
		Select("role_permissions.*").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.role_id IN ?", ids).
		Order("permissions.position, permissions.code").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}

	for _, e := range edges {
		i := index[e.RoleID]
		recs[i].PermissionIDs = append(recs[i].PermissionIDs, e.PermissionID)
	}

	return recs, nil
}
