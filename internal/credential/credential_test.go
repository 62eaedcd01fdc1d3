package credential

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inheritx/hr-portal/internal/db/models"
	"github.com/inheritx/hr-portal/internal/identity"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")
	require.NoError(t, db.AutoMigrate(&models.User{}))

	return db
}

func TestMemoryStoreLookup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DemoEntries()...)

	rec, ok, err := s.Lookup(ctx, "HR@InheritX.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, identity.RoleHR, rec.Identity.Role)
	assert.Equal(t, "hr@inheritx.com", rec.Identity.Email)
	assert.NotEmpty(t, rec.Identity.ID)
	assert.True(t, rec.Matches("hr123"))
	assert.False(t, rec.Matches("HR123"))

	_, ok, err = s.Lookup(ctx, "nobody@inheritx.com")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.Add(Entry{Email: "hr@INHERITX.com"}), ErrEmailExists)
}

func TestMemoryStoreStableIDs(t *testing.T) {
	ctx := context.Background()

	a, _, _ := NewMemoryStore(DemoEntries()...).Lookup(ctx, "hr@inheritx.com")
	b, _, _ := NewMemoryStore(DemoEntries()...).Lookup(ctx, "hr@inheritx.com")

	assert.Equal(t, a.Identity.ID, b.Identity.ID)
}

func TestGormStore(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newTestDB(t))

	for _, e := range DemoEntries() {
		require.NoError(t, s.Add(ctx, e))
	}

	assert.ErrorIs(t, s.Add(ctx, DemoEntries()[0]), ErrEmailExists)

	rec, ok, err := s.Lookup(ctx, "Employee@InheritX.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rec.Hashed)
	assert.NotEqual(t, "emp123", rec.Password)
	assert.True(t, rec.Matches("emp123"))
	assert.False(t, rec.Matches("wrong"))
	assert.Equal(t, identity.RoleEmployee, rec.Identity.Role)
	assert.Equal(t, "Engineering", rec.Identity.Department)

	_, ok, err = s.Lookup(ctx, "ghost@inheritx.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
