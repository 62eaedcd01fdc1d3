package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want []string
	}{
		{"bare array", `[{"id":"a"},{"id":"b"}]`, []string{"a", "b"}},
		{"data envelope", `{"data":[{"id":"a"}]}`, []string{"a"}},
		{"items envelope", `{"items":[{"id":"a"}]}`, []string{"a"}},
		{"roles envelope", `{"roles":[{"id":"a"}]}`, []string{"a"}},
		{"nested data", `{"data":{"data":[{"id":"a"},{"id":"b"}]}}`, []string{"a", "b"}},
		{"mixed nesting", `{"data":{"items":{"roles":[{"id":"a"}]}}}`, []string{"a"}},
		{"unexpected object", `{"unexpected":1}`, nil},
		{"envelope around object", `{"data":{"id":"a"}}`, nil},
		{"envelope around scalar", `{"data":3}`, nil},
		{"null", `null`, nil},
		{"empty body", ``, nil},
		{"garbage", `<html>`, nil},
		{"string", `"roles"`, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			roles := decodeList[Role]([]byte(tc.raw))
			require.NotNil(t, roles)

			ids := make([]string, 0, len(roles))
			for _, r := range roles {
				ids = append(ids, r.ID)
			}

			if tc.want == nil {
				assert.Empty(t, ids)
				return
			}

			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestNormalizeSkipsMalformedItems(t *testing.T) {
	roles := decodeList[Role]([]byte(`[{"id":"a"},42,{"id":"b","permissionIds":"x"},{"id":"c"}]`))

	ids := make([]string, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}

	assert.Equal(t, []string{"a", "c"}, ids)
}

func TestDecodeOne(t *testing.T) {
	r, err := decodeOne[Role]([]byte(`{"data":{"id":"a","roleName":"hr","status":"active","permissionIds":["p1"]}}`))
	require.NoError(t, err)
	assert.Equal(t, Role{ID: "a", Name: "hr", Status: StatusActive, PermissionIDs: []string{"p1"}}, r)

	r, err = decodeOne[Role]([]byte(`{"id":"b"}`))
	require.NoError(t, err)
	assert.Equal(t, "b", r.ID)

	r, err = decodeOne[Role]([]byte(`{"data":{"id":"r1","roleName":"hr","status":"active","permissionIds":["p1"],` +
		`"permissions":[{"id":"p1","code":"roles.view"}]}}`))
	require.NoError(t, err, "a role embedding its permissions is the payload, not an envelope")
	assert.Equal(t, Role{ID: "r1", Name: "hr", Status: StatusActive, PermissionIDs: []string{"p1"}}, r)

	r, err = decodeOne[Role]([]byte(`{"data":{"data":{"id":"c","roles":["x"]}}}`))
	require.NoError(t, err)
	assert.Equal(t, "c", r.ID)

	_, err = decodeOne[Role]([]byte(`[{"id":"a"}]`))
	assert.ErrorIs(t, err, ErrTransport)

	_, err = decodeOne[Role]([]byte(`{"data":`))
	assert.ErrorIs(t, err, ErrTransport)
}
