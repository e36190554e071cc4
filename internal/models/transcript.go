package models

import "time"

// TranscriptVariant tags the framing of a rendered transcript. A single
// renderer handles all variants; only the surrounding text differs.
type TranscriptVariant string

const (
	TranscriptOfficial   TranscriptVariant = "OFFICIAL"
	TranscriptUnofficial TranscriptVariant = "UNOFFICIAL"
	TranscriptSemester   TranscriptVariant = "SEMESTER"
)

// TranscriptRow is one non-dropped enrollment line in a transcript.
type TranscriptRow struct {
	CourseCode string  `json:"course_code"`
	Title      string  `json:"title"`
	Credits    int     `json:"credits"`
	Marks      float64 `json:"marks"`
	HasMarks   bool    `json:"has_marks"`
	Grade      Grade   `json:"grade"`
}

// TranscriptSemesterGroup aggregates one semester's rows.
type TranscriptSemesterGroup struct {
	Semester Semester        `json:"semester"`
	Rows     []TranscriptRow `json:"rows"`
	Credits  int             `json:"credits"`
	GPA      float64         `json:"gpa"`
}

// TranscriptSummary is the closing section of a transcript.
type TranscriptSummary struct {
	CreditsAttempted int     `json:"credits_attempted"`
	CreditsEarned    int     `json:"credits_earned"`
	CumulativeGPA    float64 `json:"cumulative_gpa"`
	Standing         string  `json:"standing"`
}

// Transcript is the structured academic history of one student, ready
// for text or PDF rendering.
type Transcript struct {
	Variant     TranscriptVariant         `json:"variant"`
	Institution string                    `json:"institution"`
	Student     Student                   `json:"student"`
	Semester    Semester                  `json:"semester,omitempty"`
	Groups      []TranscriptSemesterGroup `json:"groups"`
	Summary     TranscriptSummary         `json:"summary"`
	IssuedAt    time.Time                 `json:"issued_at"`
}

// GradeDistributionRow buckets graded enrollments by grade-point range.
type GradeDistributionRow struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// StudentRanking is one row of the top-students report.
type StudentRanking struct {
	Student       Student `json:"student"`
	CumulativeGPA float64 `json:"cumulative_gpa"`
	CreditsEarned int     `json:"credits_earned"`
}
