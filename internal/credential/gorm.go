package credential

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/inheritx/hr-portal/internal/db/models"
	"github.com/inheritx/hr-portal/internal/identity"
)

// GormStore reads credentials from the users table. Passwords are argon2id hashes.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a database backed credential store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Lookup implements Store.
func (s *GormStore) Lookup(ctx context.Context, email string) (Record, bool, error) {
	var user models.User

	err := s.db.WithContext(ctx).Where("email = ?", identity.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, false, nil
	}

	if err != nil {
		return Record{}, false, fmt.Errorf("failed to query credential: %w", err)
	}

	role, err := identity.ParseRole(user.Role)
	if err != nil {
		return Record{}, false, fmt.Errorf("credential %s: %w", user.ID, err)
	}

	return Record{
		Identity: identity.Identity{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Role:       role,
			Department: user.Department,
			Avatar:     user.Avatar,
		},
		Password: user.Password,
		Hashed:   true,
	}, true, nil
}

// Add hashes the entry's password and stores it.
func (s *GormStore) Add(ctx context.Context, e Entry) error {
	email := identity.NormalizeEmail(e.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing credential: %w", err)
	}

	if count > 0 {
		return ErrEmailExists
	}

	hash, err := models.HashPassword(e.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:      email,
		Password:   hash,
		Name:       e.Name,
		Role:       e.Role.String(),
		Department: e.Department,
		Avatar:     e.Avatar,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}

	return nil
}
