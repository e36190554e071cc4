package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStudentMatchesSearch(t *testing.T) {
	student := Student{
		RegNo:    "R2025001",
		FullName: "Ada Lovelace",
		Email:    "ada@example.edu",
		Status:   StudentStatusActive,
	}

	assert.True(t, student.MatchesSearch("ada"))
	assert.True(t, student.MatchesSearch("LOVELACE"))
	assert.True(t, student.MatchesSearch("r2025001"))
	assert.True(t, student.MatchesSearch("active"))
	assert.False(t, student.MatchesSearch("grace"))
	assert.False(t, student.MatchesSearch("  "))
}

func TestStudentMatchesStatus(t *testing.T) {
	student := Student{Status: StudentStatusGraduated}
	assert.True(t, student.MatchesStatus(StudentStatusGraduated))
	assert.False(t, student.MatchesStatus(StudentStatusActive))
}

func TestSemesterParsingAndOrder(t *testing.T) {
	s, err := ParseSemester(" fall ")
	assert.NoError(t, err)
	assert.Equal(t, SemesterFall, s)

	_, err = ParseSemester("WINTER")
	assert.Error(t, err)

	assert.Equal(t, []Semester{SemesterSpring, SemesterFall, SemesterSummer}, Semesters())
}
