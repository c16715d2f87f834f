package domain

import (
	"fmt"
	"strings"
)

// NextEmployeeID returns "<CODE>-<NNN>" for a new hire in dept, where NNN is
// one more than the highest sequence among existing employees of the same
// department. IDs that do not split into exactly two parts, or whose second
// part does not start with a digit, are ignored.
func NextEmployeeID(dept Department, existing []BasicInfo) string {
	maxSeq := 0
	for _, info := range existing {
		if info.DepartmentID != dept.ID {
			continue
		}
		parts := strings.Split(info.EmployeeID, "-")
		if len(parts) != 2 {
			continue
		}
		if seq, ok := leadingInt(parts[1]); ok && seq > maxSeq {
			maxSeq = seq
		}
	}
	return fmt.Sprintf("%s-%03d", dept.Code(), maxSeq+1)
}

// leadingInt parses the decimal prefix of s after optional spaces.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
		if digits > 9 {
			break
		}
	}
	return n, digits > 0
}
