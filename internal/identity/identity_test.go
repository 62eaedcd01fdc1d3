package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tag, err := ParseRole(" HR ")
	require.NoError(t, err)
	assert.Equal(t, RoleHR, tag)

	tag, err = ParseRole("employee")
	require.NoError(t, err)
	assert.Equal(t, RoleEmployee, tag)

	_, err = ParseRole("admin")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRolesAreValid(t *testing.T) {
	for _, r := range Roles() {
		assert.True(t, r.Valid(), r)
		assert.NotEmpty(t, r.Label())
	}

	assert.False(t, RoleTag("").Valid())
}

func TestIdentityHasRole(t *testing.T) {
	id := Identity{Role: RoleHR}

	assert.True(t, id.HasRole(RoleHR))
	assert.True(t, id.HasRole(RoleEmployee, RoleHR))
	assert.False(t, id.HasRole(RoleEmployee))
	assert.False(t, id.HasRole())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "hr@inheritx.com", NormalizeEmail("  HR@InheritX.com "))
}
