package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog() []Permission {
	return []Permission{
		{ID: "1", Code: "employees.view"},
		{ID: "2", Code: "leave.approve"},
		{ID: "3", Code: "employees.edit"},
		{ID: "4", Code: "leave.view"},
		{ID: "5", Code: "reports.export.csv"},
	}
}

func TestParseCode(t *testing.T) {
	testCases := []struct {
		code, module, action string
	}{
		{"employees.view", "employees", "view"},
		{"reports.export.csv", "reports", "export.csv"},
		{"payroll", "payroll", ""},
		{"", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			module, action := ParseCode(tc.code)
			assert.Equal(t, tc.module, module)
			assert.Equal(t, tc.action, action)
		})
	}
}

func TestGroupByModuleKeepsFirstSeenOrder(t *testing.T) {
	groups := GroupByModule(catalog())
	require.Len(t, groups, 3)

	assert.Equal(t, "employees", groups[0].Module)
	assert.Equal(t, "Employees", groups[0].Title())
	assert.Equal(t, []string{"1", "3"}, groups[0].IDs())
	assert.Equal(t, "View", groups[0].Options[0].Label)
	assert.Equal(t, "Edit", groups[0].Options[1].Label)

	assert.Equal(t, "leave", groups[1].Module)
	assert.Equal(t, []string{"2", "4"}, groups[1].IDs())

	assert.Equal(t, "reports", groups[2].Module)
	assert.Equal(t, "reports.export.csv", groups[2].Options[0].Code)
}

func TestGroupByModuleEmpty(t *testing.T) {
	assert.Empty(t, GroupByModule(nil))
}

func TestToggleModule(t *testing.T) {
	groups := GroupByModule(catalog())
	employees, leave := groups[0], groups[1]

	sel := NewSelection("2")

	sel.ToggleModule(employees)
	assert.True(t, sel.FullySelected(employees))
	assert.Equal(t, []string{"1", "2", "3"}, sel.IDs())

	sel.ToggleModule(employees)
	assert.False(t, sel.FullySelected(employees))
	assert.False(t, sel.PartiallySelected(employees))
	assert.Equal(t, []string{"2"}, sel.IDs(), "other modules are untouched")

	assert.True(t, sel.PartiallySelected(leave))
	sel.ToggleModule(leave)
	assert.True(t, sel.FullySelected(leave))
	assert.False(t, sel.PartiallySelected(leave))
}

func TestToggleSingle(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("1")
	assert.True(t, sel.Has("1"))

	sel.Toggle("1")
	assert.False(t, sel.Has("1"))
}

func TestFullySelectedEmptyGroup(t *testing.T) {
	assert.False(t, NewSelection("1").FullySelected(Group{Module: "empty"}))
}

func TestCodesSkipsDanglingIDs(t *testing.T) {
	assert.Equal(t, []string{"employees.view", "leave.view"}, Codes(catalog(), []string{"1", "missing", "4"}))
}
