package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission represents one capability of the catalog.
// Code is unique and has the form module.action (e.g. "employees.create").
type Permission struct {
	// ID is the opaque stable identifier.
	ID string `gorm:"primaryKey;size:36"`
	// Code is the module.action permission code.
	Code string `gorm:"uniqueIndex;size:100;not null"`
	// Module is the segment of Code before the first separator.
	Module string `gorm:"index;size:50;not null"`
	// Action is the segment of Code after the first separator.
	Action string `gorm:"size:50;not null"`
	// Description explains what the permission grants.
	Description string `gorm:"size:255"`
	// Position orders the catalog for display.
	Position  int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}

// BeforeCreate assigns a uuid when the id is empty.
func (p *Permission) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	return nil
}
