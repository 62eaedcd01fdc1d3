package permission

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inheritx/hr-portal/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	return db
}

func TestNilDB(t *testing.T) {
	_, err := List(nil)
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = Existing(nil, []string{"x"})
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = Ensure(nil, nil)
	assert.ErrorIs(t, err, ErrDBNil)
}

func TestEnsureAndList(t *testing.T) {
	db := setupTestDB(t)

	created, err := Ensure(db, []models.Permission{
		{Code: "leave.view", Description: "View leave"},
		{Code: "employees.view"},
		{Code: "leave.approve"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	perms, err := List(db)
	require.NoError(t, err)
	require.Len(t, perms, 3)

	assert.Equal(t, "leave.view", perms[0].Code)
	assert.Equal(t, "leave", perms[0].Module)
	assert.Equal(t, "view", perms[0].Action)
	assert.NotEmpty(t, perms[0].ID)
	assert.Equal(t, "employees.view", perms[1].Code)
	assert.Equal(t, "leave.approve", perms[2].Code)

	created, err = Ensure(db, []models.Permission{{Code: "leave.view", Description: "Read leave"}})
	require.NoError(t, err)
	assert.Zero(t, created)

	perms, err = List(db)
	require.NoError(t, err)
	require.Len(t, perms, 3)
	assert.Equal(t, "Read leave", perms[0].Description)
}

func TestEnsureRejectsBadCode(t *testing.T) {
	db := setupTestDB(t)

	_, err := Ensure(db, []models.Permission{{Code: "employees.view"}, {Code: "payroll"}})
	assert.ErrorIs(t, err, ErrCodeInvalid)

	perms, err := List(db)
	require.NoError(t, err)
	assert.Empty(t, perms, "the whole batch is rolled back")
}

func TestExisting(t *testing.T) {
	db := setupTestDB(t)

	_, err := Ensure(db, []models.Permission{{Code: "employees.view"}, {Code: "employees.edit"}})
	require.NoError(t, err)

	perms, err := List(db)
	require.NoError(t, err)

	ids, err := Existing(db, []string{perms[1].ID, "dangling", perms[0].ID, perms[1].ID})
	require.NoError(t, err)
	assert.Equal(t, []string{perms[1].ID, perms[0].ID}, ids)

	ids, err = Existing(db, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
