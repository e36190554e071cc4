package models

import (
	"time"

	appErrors "github.com/campusops/ccrm-api/pkg/errors"
)

// MarksNotAssigned is the sentinel meaning no numeric marks were
// entered for the enrollment yet.
const MarksNotAssigned = -1.0

// Enrollment captures one student-course-semester relationship. The
// course snapshot, semester and enrollment date are immutable after
// creation; drops are soft so the record stays auditable.
type Enrollment struct {
	ID         string    `json:"id"`
	Course     Course    `json:"course"`
	Semester   Semester  `json:"semester"`
	Marks      float64   `json:"marks"`
	Grade      Grade     `json:"grade"`
	EnrolledAt time.Time `json:"enrolled_at"`
	Dropped    bool      `json:"dropped"`
}

// NewEnrollment creates a fresh record with no grade and no marks.
func NewEnrollment(id string, course Course, semester Semester) *Enrollment {
	return &Enrollment{
		ID:         id,
		Course:     course,
		Semester:   semester,
		Marks:      MarksNotAssigned,
		Grade:      GradeNA,
		EnrolledAt: time.Now().UTC(),
	}
}

// SetMarks records numeric marks and recomputes the grade from the
// scale. The sentinel -1 clears both back to "not assigned".
func (e *Enrollment) SetMarks(marks float64) error {
	if marks != MarksNotAssigned && (marks < 0 || marks > 100) {
		return appErrors.ErrInvalidMarks
	}
	e.Marks = marks
	e.Grade = GradeFromMarks(marks)
	return nil
}

// SetGrade overrides the grade directly, independent of marks. Used for
// manual grade entry when no numeric marks exist.
func (e *Enrollment) SetGrade(grade Grade) {
	e.Grade = grade
}

// Drop soft-deletes the enrollment. Grade and marks remain visible.
func (e *Enrollment) Drop() {
	e.Dropped = true
}

// Undrop reinstates a dropped enrollment.
func (e *Enrollment) Undrop() {
	e.Dropped = false
}

// HasMarks reports whether numeric marks were assigned.
func (e *Enrollment) HasMarks() bool {
	return e.Marks >= 0
}

// QualityPoints is the GPA numerator contribution: grade point times
// course credits, zero for dropped or ungraded records.
func (e *Enrollment) QualityPoints() float64 {
	if e.Dropped || !e.Grade.CountsTowardGPA() {
		return 0.0
	}
	return e.Grade.GradePoint() * float64(e.Course.Credits)
}

// GPACredits is the GPA denominator contribution under the same
// exclusion as QualityPoints.
func (e *Enrollment) GPACredits() int {
	if e.Dropped || !e.Grade.CountsTowardGPA() {
		return 0
	}
	return e.Course.Credits
}
