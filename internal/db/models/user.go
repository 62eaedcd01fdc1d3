// Package models contains database model definitions.
package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// User is a credential record: a login email, its password hash and the profile
// that becomes the session identity.
type User struct {
	ID         string `gorm:"primaryKey;size:36"`
	Email      string `gorm:"uniqueIndex;size:255;not null"` // stored lower case
	Password   string `gorm:"size:255;not null"`             // argon2id hash
	Name       string `gorm:"size:200;not null"`
	Role       string `gorm:"type:varchar(20);not null"`
	Department string `gorm:"size:100"`
	Avatar     string `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a uuid when the id is empty.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	return nil
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword verifies a plaintext password against the stored hash.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Str("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}

// All returns every model for auto migration.
func All() []interface{} {
	return []interface{}{&User{}, &Permission{}, &Role{}, &RolePermission{}}
}
