// Package role is the role registry: CRUD over roles held by a backend,
// two-step deletion and the permission set a role tag resolves to.
package role

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Status is the lifecycle status of a role.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ParseStatus parses s. An empty string is not a status.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	}

	return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", s)}
}

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusActive {
		return StatusInactive
	}

	return StatusActive
}

// Role is a named permission set inside an organization.
type Role struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organizationId"`
	Name           string   `json:"roleName"`
	Description    string   `json:"description"`
	Status         Status   `json:"status"`
	PermissionIDs  []string `json:"permissionIds"`
}

// Active reports whether the role takes part in access decisions.
func (r Role) Active() bool {
	return r.Status == StatusActive
}

// Input is the editable part of a role.
type Input struct {
	// OrganizationID is set by the registry on create and ignored on update.
	OrganizationID string   `json:"organizationId,omitempty"`
	Name           string   `json:"roleName" validate:"required,max=100"`
	Description    string   `json:"description" validate:"max=255"`
	PermissionIDs  []string `json:"permissionIds" validate:"min=1,dive,required"`
}

// Query filters List.
type Query struct {
	OrganizationID string `query:"organizationId"`
	Search         string `query:"search"`
	Status         Status `query:"status"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Normalized returns in with trimmed text fields.
func (in Input) Normalized() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	return in
}

// Validate reports the first invalid field as a *ValidationError.
// A role needs a name and at least one permission.
func (in Input) Validate() error {
	err := validate.Struct(in.Normalized())
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "input", Message: err.Error()}
	}

	fe := fieldErrs[0]

	field := fe.Field()
	if strings.HasPrefix(field, "permissionIds") {
		field = "permissionIds"
	}

	return &ValidationError{Field: field, Message: message(field, fe.Tag(), fe.Param())}
}

func message(field, tag, param string) string {
	switch {
	case field == "roleName" && tag == "required":
		return "Role name is required"
	case field == "permissionIds" && tag == "min":
		return "Select at least one permission"
	case tag == "max":
		return fmt.Sprintf("Must be at most %s characters", param)
	}

	return "Invalid value"
}
