package models

import "fmt"

// Grade is a letter grade on the institutional 10-point scale.
type Grade string

// Letter grades in descending order of grade points. GradeNA marks an
// enrollment whose grade has not been awarded yet.
const (
	GradeS  Grade = "S"
	GradeA  Grade = "A"
	GradeB  Grade = "B"
	GradeC  Grade = "C"
	GradeD  Grade = "D"
	GradeF  Grade = "F"
	GradeNA Grade = "NA"
)

// gradeScale fixes the grade point and marks range per letter. The
// ranges are used only for the marks-to-grade conversion.
var gradeScale = map[Grade]struct {
	point       float64
	description string
	minMarks    float64
	maxMarks    float64
}{
	GradeS:  {10.0, "Excellent", 90.0, 100.0},
	GradeA:  {9.0, "Very Good", 80.0, 89.9},
	GradeB:  {8.0, "Good", 70.0, 79.9},
	GradeC:  {7.0, "Satisfactory", 60.0, 69.9},
	GradeD:  {6.0, "Pass", 50.0, 59.9},
	GradeF:  {0.0, "Fail", 0.0, 49.9},
	GradeNA: {-1.0, "Not Awarded", -1.0, -1.0},
}

// GradeFromMarks converts numerical marks to a letter grade. Every real
// input maps to exactly one grade; negative marks mean "not assigned".
func GradeFromMarks(marks float64) Grade {
	switch {
	case marks >= 90.0:
		return GradeS
	case marks >= 80.0:
		return GradeA
	case marks >= 70.0:
		return GradeB
	case marks >= 60.0:
		return GradeC
	case marks >= 50.0:
		return GradeD
	case marks >= 0.0:
		return GradeF
	default:
		return GradeNA
	}
}

// ParseGrade validates a letter grade supplied by manual entry.
func ParseGrade(raw string) (Grade, error) {
	g := Grade(raw)
	if _, ok := gradeScale[g]; !ok {
		return GradeNA, fmt.Errorf("invalid grade %q", raw)
	}
	return g, nil
}

// GradePoint returns the fixed grade point for the letter.
func (g Grade) GradePoint() float64 {
	return gradeScale[g].point
}

// Description returns the qualitative label for the letter.
func (g Grade) Description() string {
	return gradeScale[g].description
}

// MarksRange returns the inclusive marks band the letter covers.
func (g Grade) MarksRange() (min, max float64) {
	s := gradeScale[g]
	return s.minMarks, s.maxMarks
}

// IsPassing reports whether the grade earns credits.
func (g Grade) IsPassing() bool {
	return g != GradeF && g != GradeNA
}

// CountsTowardGPA reports whether the grade enters GPA aggregation.
func (g Grade) CountsTowardGPA() bool {
	return g != GradeNA
}

func (g Grade) String() string {
	return string(g)
}
