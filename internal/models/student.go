package models

import (
	"strings"
	"time"
)

// StudentStatus represents the lifecycle of a student record.
type StudentStatus string

// Possible student statuses. Only active students may gain enrollments.
const (
	StudentStatusActive    StudentStatus = "ACTIVE"
	StudentStatusInactive  StudentStatus = "INACTIVE"
	StudentStatusGraduated StudentStatus = "GRADUATED"
)

// Searchable is implemented by records that support free-text search.
type Searchable interface {
	MatchesSearch(term string) bool
}

// StatusFilterable is implemented by records filterable by student
// status. Kept separate from Searchable with a distinct method name so
// both capabilities compose without ambiguity.
type StatusFilterable interface {
	MatchesStatus(status StudentStatus) bool
}

// Student represents a learner registered in the institution.
type Student struct {
	ID              string        `json:"id"`
	RegNo           string        `json:"reg_no"`
	FullName        string        `json:"full_name"`
	Email           string        `json:"email"`
	Status          StudentStatus `json:"status"`
	RegisteredAt    time.Time     `json:"registered_at"`
	GraduatedAt     *time.Time    `json:"graduated_at,omitempty"`
	StatusChangedAt time.Time     `json:"status_changed_at"`
}

// MatchesSearch implements Searchable over name, email, registration
// number and status.
func (s Student) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s.FullName), term) ||
		strings.Contains(strings.ToLower(s.Email), term) ||
		strings.Contains(strings.ToLower(s.RegNo), term) ||
		strings.Contains(strings.ToLower(string(s.Status)), term)
}

// MatchesStatus implements StatusFilterable.
func (s Student) MatchesStatus(status StudentStatus) bool {
	return s.Status == status
}

// StudentFilter encapsulates search parameters for listing students.
type StudentFilter struct {
	Search string
	Status StudentStatus
}

// StudentProfile is the student view enriched with academic summary.
type StudentProfile struct {
	Student
	CumulativeGPA    float64 `json:"cumulative_gpa"`
	CreditsAttempted int     `json:"credits_attempted"`
	CreditsEarned    int     `json:"credits_earned"`
	ActiveCourses    int     `json:"active_courses"`
}
