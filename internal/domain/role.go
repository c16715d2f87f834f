package domain

import "strings"

// Role is the job function picked on the first wizard step.
type Role string

const (
	RoleUnknown  Role = ""
	RoleOps      Role = "ops"
	RoleAdmin    Role = "admin"
	RoleEngineer Role = "engineer"
	RoleFinance  Role = "finance"
)

// Roles lists the selectable roles in display order.
var Roles = []Role{RoleOps, RoleAdmin, RoleEngineer, RoleFinance}

var roleLabels = map[Role]string{
	RoleOps:      "Ops",
	RoleAdmin:    "Admin",
	RoleEngineer: "Engineer",
	RoleFinance:  "Finance",
}

// ParseRole normalises and validates an incoming role string.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if err := role.Validate(); err != nil {
		return RoleUnknown, err
	}
	return role, nil
}

// Validate ensures the role is one of the catalogue entries.
func (r Role) Validate() error {
	if _, ok := roleLabels[r]; !ok {
		if r == RoleUnknown {
			return invalidRoleError("blank")
		}
		return invalidRoleError(string(r))
	}
	return nil
}

// Label returns the display name, or the raw value for unknown roles.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// EmploymentType is the contract kind picked on the second wizard step.
type EmploymentType string

const (
	EmploymentUnknown  EmploymentType = ""
	EmploymentFullTime EmploymentType = "full-time"
	EmploymentPartTime EmploymentType = "part-time"
	EmploymentContract EmploymentType = "contract"
	EmploymentIntern   EmploymentType = "intern"
)

// EmploymentTypes lists the selectable employment types in display order.
var EmploymentTypes = []EmploymentType{EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentIntern}

var employmentLabels = map[EmploymentType]string{
	EmploymentFullTime: "Full Time",
	EmploymentPartTime: "Part Time",
	EmploymentContract: "Contract",
	EmploymentIntern:   "Intern",
}

// ParseEmploymentType normalises and validates an employment type.
func ParseEmploymentType(raw string) (EmploymentType, error) {
	kind := EmploymentType(strings.ToLower(strings.TrimSpace(raw)))
	if err := kind.Validate(); err != nil {
		return EmploymentUnknown, err
	}
	return kind, nil
}

// Validate ensures the employment type is one of the catalogue entries.
func (e EmploymentType) Validate() error {
	if _, ok := employmentLabels[e]; !ok {
		if e == EmploymentUnknown {
			return invalidEmploymentTypeError("blank")
		}
		return invalidEmploymentTypeError(string(e))
	}
	return nil
}

// Label returns the display name, or the raw value for unknown types.
func (e EmploymentType) Label() string {
	if label, ok := employmentLabels[e]; ok {
		return label
	}
	return string(e)
}
