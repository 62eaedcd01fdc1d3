package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleStatus is the lifecycle status of a role.
type RoleStatus string

const (
	// RoleStatusActive marks a role whose permissions take part in access decisions.
	RoleStatusActive RoleStatus = "active"
	// RoleStatusInactive marks a disabled role.
	RoleStatusInactive RoleStatus = "inactive"
)

// Role is a named set of permissions inside an organization.
// Its permissions are the RolePermission rows carrying its id.
type Role struct {
	ID             string     `gorm:"primaryKey;size:36"`
	OrganizationID string     `gorm:"index;size:64;not null"`
	Name           string     `gorm:"size:100;not null"`
	Description    string     `gorm:"size:255"`
	Status         RoleStatus `gorm:"type:varchar(16);not null;default:'active'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// BeforeCreate assigns a uuid when the id is empty.
func (r *Role) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	return nil
}
