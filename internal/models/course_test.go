package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCourseCode(t *testing.T) {
	assert.True(t, ValidCourseCode("CS101"))
	assert.True(t, ValidCourseCode("MATH2001"))
	assert.False(t, ValidCourseCode("cs101"))
	assert.False(t, ValidCourseCode("C101"))
	assert.False(t, ValidCourseCode("CS1"))
	assert.False(t, ValidCourseCode("CS101X"))
}

func TestCourseLevel(t *testing.T) {
	assert.Equal(t, 101, Course{Code: "CS101"}.Level())
	assert.Equal(t, 301, Course{Code: "CS301"}.Level())
	assert.Equal(t, 2001, Course{Code: "MATH2001"}.Level())
	assert.Equal(t, 0, Course{Code: "NOCODE"}.Level())
}

func TestCourseMatches(t *testing.T) {
	course := Course{
		Code:       "CS301",
		Title:      "Operating Systems",
		Credits:    4,
		Department: "CS",
		Semester:   SemesterFall,
		Active:     true,
	}

	assert.True(t, course.Matches(CourseFilter{}))
	assert.True(t, course.Matches(CourseFilter{Keyword: "operating"}))
	assert.True(t, course.Matches(CourseFilter{Keyword: "cs301"}))
	assert.False(t, course.Matches(CourseFilter{Keyword: "databases"}))
	assert.True(t, course.Matches(CourseFilter{Department: "cs"}))
	assert.False(t, course.Matches(CourseFilter{Department: "MATH"}))
	assert.True(t, course.Matches(CourseFilter{Semester: SemesterFall}))
	assert.False(t, course.Matches(CourseFilter{Semester: SemesterSpring}))
	assert.True(t, course.Matches(CourseFilter{MinCredits: 4, MaxCredits: 4}))
	assert.False(t, course.Matches(CourseFilter{MinCredits: 5}))

	course.Active = false
	assert.False(t, course.Matches(CourseFilter{ActiveOnly: true}))
}
