// Package permission provides database access to the permission catalog.
package permission

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/inheritx/hr-portal/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrCodeInvalid is returned for a code without a module.action separator.
	ErrCodeInvalid = errors.New("permission code must have the form module.action")
)

// List returns the whole catalog in display order.
func List(db *gorm.DB) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var perms []models.Permission
	if err := db.Order("position, code").Find(&perms).Error; err != nil {
		return nil, err
	}

	return perms, nil
}

// Existing returns the subset of ids that reference a catalog permission,
// in the order given.
func Existing(db *gorm.DB, ids []string) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if len(ids) == 0 {
		return nil, nil
	}

	var found []string
	if err := db.Model(&models.Permission{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}

	out := make([]string, 0, len(found))

	for _, id := range ids {
		if _, ok := known[id]; ok {
			out = append(out, id)
			delete(known, id)
		}
	}

	return out, nil
}

// Ensure inserts every permission whose code is not yet in the catalog and
// refreshes description and position of the ones that are. Module and action
// are derived from the code. It returns the number of inserted rows.
func Ensure(db *gorm.DB, perms []models.Permission) (int, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	created := 0

	err := db.Transaction(func(tx *gorm.DB) error {
		for i, p := range perms {
			module, action, ok := strings.Cut(p.Code, ".")
			if !ok || module == "" || action == "" {
				return ErrCodeInvalid
			}

			var existing models.Permission

			err := tx.Where("code = ?", p.Code).First(&existing).Error
			if err == nil {
				existing.Description = p.Description
				existing.Position = i

				if err = tx.Save(&existing).Error; err != nil {
					return err
				}

				continue
			}

			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			p.Module = module
			p.Action = action
			p.Position = i

			if err = tx.Create(&p).Error; err != nil {
				return err
			}

			created++
		}

		return nil
	})

	return created, err
}
