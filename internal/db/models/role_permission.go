package models

import "time"

// RolePermission is the edge of the role/permission many-to-many relationship.
// Deleting either side removes the edge (CASCADE).
type RolePermission struct {
	RoleID       string     `gorm:"primaryKey;size:36;column:role_id"`
	PermissionID string     `gorm:"primaryKey;size:36;column:permission_id"`
	Role         Role       `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Permission   Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}
