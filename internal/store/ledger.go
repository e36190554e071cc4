package store

import (
	"strings"

	"github.com/campusops/ccrm-api/internal/models"
)

// Ledger is a locked view over one student's enrollment set. It is only
// valid inside the WithLedger callback that produced it.
type Ledger struct {
	rec *studentRecord
}

// Student returns the owning student record.
func (l *Ledger) Student() models.Student {
	return l.rec.student
}

// Append adds a new enrollment to the ledger. Insertion order is
// preserved for display.
func (l *Ledger) Append(e *models.Enrollment) {
	l.rec.enrollments = append(l.rec.enrollments, e)
}

// FindActive returns the first non-dropped enrollment for the course
// code, or nil. Dropped records are invisible here, so re-dropping an
// already-dropped enrollment surfaces as not found.
func (l *Ledger) FindActive(courseCode string) *models.Enrollment {
	for _, e := range l.rec.enrollments {
		if !e.Dropped && strings.EqualFold(e.Course.Code, courseCode) {
			return e
		}
	}
	return nil
}

// HasActive reports whether a non-dropped enrollment exists for the
// course in the given semester.
func (l *Ledger) HasActive(courseCode string, semester models.Semester) bool {
	for _, e := range l.rec.enrollments {
		if !e.Dropped && strings.EqualFold(e.Course.Code, courseCode) && e.Semester == semester {
			return true
		}
	}
	return false
}

// SemesterCredits sums course credits over the student's non-dropped
// enrollments in the semester.
func (l *Ledger) SemesterCredits(semester models.Semester) int {
	total := 0
	for _, e := range l.rec.enrollments {
		if !e.Dropped && e.Semester == semester {
			total += e.Course.Credits
		}
	}
	return total
}

// HasPassedInDepartment reports whether the student holds a passing,
// non-dropped enrollment in the department.
func (l *Ledger) HasPassedInDepartment(department string) bool {
	for _, e := range l.rec.enrollments {
		if !e.Dropped && e.Grade.IsPassing() && strings.EqualFold(e.Course.Department, department) {
			return true
		}
	}
	return false
}
