package models

import (
	"fmt"
	"strings"
)

// Semester identifies an academic term.
type Semester string

const (
	SemesterSpring Semester = "SPRING"
	SemesterFall   Semester = "FALL"
	SemesterSummer Semester = "SUMMER"
)

// Semesters returns all terms in their fixed enumeration order, which
// also drives transcript grouping.
func Semesters() []Semester {
	return []Semester{SemesterSpring, SemesterFall, SemesterSummer}
}

// ParseSemester normalises and validates a semester name.
func ParseSemester(raw string) (Semester, error) {
	s := Semester(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case SemesterSpring, SemesterFall, SemesterSummer:
		return s, nil
	}
	return "", fmt.Errorf("invalid semester %q", raw)
}

func (s Semester) String() string {
	return string(s)
}
