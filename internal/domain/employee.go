package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the wire format of start and end dates.
const DateLayout = "2006-01-02"

// Department is a record from the basic-info service.
type Department struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Code is the department prefix used in employee IDs: the first three
// letters of the name, upper-cased.
func (d Department) Code() string {
	name := strings.TrimSpace(d.Name)
	if utf8.RuneCountInString(name) > 3 {
		name = string([]rune(name)[:3])
	}
	return strings.ToUpper(name)
}

// BasicInfo is the first-step record of an employee.
type BasicInfo struct {
	ID           int    `json:"id,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	DepartmentID int    `json:"departmentId"`
	Role         Role   `json:"role"`
	EmployeeID   string `json:"employeeId"`
	// DepartmentName is filled client-side when joining with departments.
	DepartmentName string `json:"-"`
}

// Location is an office from the details service.
type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Detail is the second-step record of an employee.
type Detail struct {
	ID             int            `json:"id,omitempty"`
	BasicInfoID    int            `json:"basicInfoId"`
	LocationID     int            `json:"locationId"`
	StartDate      string         `json:"startDate"`
	EndDate        string         `json:"endDate,omitempty"`
	Salary         *float64       `json:"salary,omitempty"`
	EmploymentType EmploymentType `json:"employmentType,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	// Image is a data URL (data:image/...;base64,...).
	Image string `json:"image,omitempty"`
}

// Employee is one directory row: basic info joined with its details.
type Employee struct {
	BasicInfoID    int
	Name           string
	Email          string
	EmployeeID     string
	Department     string
	Role           Role
	Location       string
	EmploymentType EmploymentType
	StartDate      string
	Notes          string
	Image          string
}

// HasPhoto reports whether a profile image was uploaded.
func (e Employee) HasPhoto() bool {
	return e.Image != ""
}

// EmployeePage is one page of the directory.
type EmployeePage struct {
	Items      []Employee
	TotalCount int
	Page       int
	Limit      int
}

// TotalPages is ceil(TotalCount / Limit), never less than one.
func (p EmployeePage) TotalPages() int {
	if p.Limit <= 0 || p.TotalCount <= 0 {
		return 1
	}
	return (p.TotalCount + p.Limit - 1) / p.Limit
}

// HasPrev reports whether a previous page exists.
func (p EmployeePage) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p EmployeePage) HasNext() bool { return p.Page < p.TotalPages() }

// JoinEmployees builds directory rows. Details and locations are matched by
// basic-info ID and location ID; rows without details keep empty fields.
// Departments are looked up by ID when DepartmentName is blank.
func JoinEmployees(infos []BasicInfo, departments []Department, details []Detail, locations []Location) []Employee {
	deptNames := make(map[int]string, len(departments))
	for _, d := range departments {
		deptNames[d.ID] = d.Name
	}
	locNames := make(map[int]string, len(locations))
	for _, l := range locations {
		locNames[l.ID] = l.Name
	}
	byInfo := make(map[int]Detail, len(details))
	for _, d := range details {
		if _, seen := byInfo[d.BasicInfoID]; !seen {
			byInfo[d.BasicInfoID] = d
		}
	}

	rows := make([]Employee, 0, len(infos))
	for _, info := range infos {
		dept := info.DepartmentName
		if dept == "" {
			dept = deptNames[info.DepartmentID]
		}
		row := Employee{
			BasicInfoID: info.ID,
			Name:        info.Name,
			Email:       info.Email,
			EmployeeID:  info.EmployeeID,
			Department:  dept,
			Role:        info.Role,
		}
		if detail, ok := byInfo[info.ID]; ok {
			row.Location = locNames[detail.LocationID]
			row.EmploymentType = detail.EmploymentType
			row.StartDate = detail.StartDate
			row.Notes = detail.Notes
			row.Image = detail.Image
		}
		rows = append(rows, row)
	}
	return rows
}

// Today formats now as a start date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}
