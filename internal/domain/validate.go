package domain

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Form field keys used in FieldErrors.
const (
	FieldName           = "name"
	FieldEmail          = "email"
	FieldDepartment     = "department"
	FieldRole           = "role"
	FieldImage          = "image"
	FieldEmploymentType = "employmentType"
	FieldLocation       = "location"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors maps a field key to its message. An empty map means valid.
type FieldErrors map[string]string

// Valid reports whether no field failed.
func (f FieldErrors) Valid() bool { return len(f) == 0 }

// Fields returns the failing field keys in stable order.
func (f FieldErrors) Fields() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Err converts the result into a validation error, or nil.
func (f FieldErrors) Err() error {
	if f.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(f))
	for _, k := range f.Fields() {
		msgs = append(msgs, f[k])
	}
	return invalidEmployeeError(strings.Join(msgs, "; "), nil)
}

// Step1 is the first wizard form.
type Step1 struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Department *Department `json:"department,omitempty"`
	Role       Role        `json:"role"`
	EmployeeID string      `json:"employeeId"`
}

// Validate checks every field of the first step.
func (s Step1) Validate() FieldErrors {
	errs := FieldErrors{}
	name := strings.TrimSpace(s.Name)
	switch {
	case name == "":
		errs[FieldName] = "Name is required"
	case utf8.RuneCountInString(name) < 2:
		errs[FieldName] = "Name must be at least 2 characters"
	}
	switch {
	case strings.TrimSpace(s.Email) == "":
		errs[FieldEmail] = "Email is required"
	case !ValidEmail(s.Email):
		errs[FieldEmail] = "Invalid email format"
	}
	if s.Department == nil {
		errs[FieldDepartment] = "Department is required"
	}
	if s.Role.Validate() != nil {
		errs[FieldRole] = "Role is required"
	}
	return errs
}

// BasicInfo converts a valid first step into the record to create.
func (s Step1) BasicInfo() BasicInfo {
	info := BasicInfo{
		Name:       strings.TrimSpace(s.Name),
		Email:      strings.TrimSpace(s.Email),
		Role:       s.Role,
		EmployeeID: s.EmployeeID,
	}
	if s.Department != nil {
		info.DepartmentID = s.Department.ID
		info.DepartmentName = s.Department.Name
	}
	return info
}

// Step2 is the second wizard form. ImagePath is the local file the user
// picked; it is encoded at submit time.
type Step2 struct {
	ImagePath      string         `json:"imagePath,omitempty"`
	EmploymentType EmploymentType `json:"employmentType"`
	Location       *Location      `json:"location,omitempty"`
	Notes          string         `json:"notes"`
}

// Validate checks every field of the second step.
func (s Step2) Validate() FieldErrors {
	errs := FieldErrors{}
	if s.EmploymentType.Validate() != nil {
		errs[FieldEmploymentType] = "Employment type is required"
	}
	if s.Location == nil {
		errs[FieldLocation] = "Office location is required"
	}
	return errs
}

// Detail converts a valid second step into the record to create.
func (s Step2) Detail(basicInfoID int, startDate, image string) Detail {
	d := Detail{
		BasicInfoID:    basicInfoID,
		StartDate:      startDate,
		EmploymentType: s.EmploymentType,
		Notes:          strings.TrimSpace(s.Notes),
		Image:          image,
	}
	if s.Location != nil {
		d.LocationID = s.Location.ID
	}
	return d
}

// ValidEmail reports whether email looks like local@domain.tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
