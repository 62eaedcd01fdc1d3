package permission

// Codes the portal itself checks.
const (
	EmployeesView = "employees.view"
	RolesView     = "roles.view"
	RolesCreate   = "roles.create"
	RolesEdit     = "roles.edit"
	RolesDelete   = "roles.delete"
)

// Default is the reference catalog written by the seed command. Ids are
// assigned by the store.
func Default() []Permission {
	return []Permission{
		{Code: EmployeesView, Description: "View the employee directory"},
		{Code: "employees.create", Description: "Add employees"},
		{Code: "employees.edit", Description: "Edit employee records"},
		{Code: "employees.delete", Description: "Remove employees"},
		{Code: "attendance.view", Description: "View attendance"},
		{Code: "attendance.create", Description: "Record attendance"},
		{Code: "attendance.approve", Description: "Approve attendance corrections"},
		{Code: "leave.view", Description: "View leave requests"},
		{Code: "leave.create", Description: "Request leave"},
		{Code: "leave.approve", Description: "Approve leave requests"},
		{Code: "payroll.view", Description: "View payslips"},
		{Code: "payroll.process", Description: "Run payroll"},
		{Code: RolesView, Description: "View roles"},
		{Code: RolesCreate, Description: "Create roles"},
		{Code: RolesEdit, Description: "Edit roles and their permissions"},
		{Code: RolesDelete, Description: "Delete roles"},
		{Code: "reports.view", Description: "View reports"},
		{Code: "reports.export", Description: "Export reports"},
	}
}

// DefaultEmployeeCodes are granted to the seeded employee role.
func DefaultEmployeeCodes() []string {
	return []string{"attendance.view", "attendance.create", "leave.view", "leave.create", "payroll.view"}
}
