package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var courseCodePattern = regexp.MustCompile(`^[A-Z]{2,4}\d{3,4}$`)

// Course is the read-only catalog projection the record engine works
// with. The engine never mutates course identity.
type Course struct {
	Code       string    `json:"code"`
	Title      string    `json:"title"`
	Credits    int       `json:"credits"`
	Department string    `json:"department"`
	Semester   Semester  `json:"semester"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ValidCourseCode reports whether the code matches the catalog format
// (2-4 letters followed by 3-4 digits).
func ValidCourseCode(code string) bool {
	return courseCodePattern.MatchString(code)
}

// Level extracts the numeric course level from the trailing digits of
// the code. Zero means the level could not be parsed.
func (c Course) Level() int {
	digits := strings.TrimLeft(c.Code, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	if digits == "" {
		return 0
	}
	level, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return level
}

// CourseFilter provides filters for catalog search.
type CourseFilter struct {
	Keyword    string
	Department string
	Semester   Semester
	ActiveOnly bool
	MinCredits int
	MaxCredits int
}

// Matches reports whether the course satisfies every set filter field.
func (c Course) Matches(f CourseFilter) bool {
	if f.Keyword != "" {
		kw := strings.ToLower(f.Keyword)
		if !strings.Contains(strings.ToLower(c.Title), kw) &&
			!strings.EqualFold(c.Code, f.Keyword) {
			return false
		}
	}
	if f.Department != "" && !strings.EqualFold(c.Department, f.Department) {
		return false
	}
	if f.Semester != "" && c.Semester != f.Semester {
		return false
	}
	if f.ActiveOnly && !c.Active {
		return false
	}
	if f.MinCredits > 0 && c.Credits < f.MinCredits {
		return false
	}
	if f.MaxCredits > 0 && c.Credits > f.MaxCredits {
		return false
	}
	return true
}
