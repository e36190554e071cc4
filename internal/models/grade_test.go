package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeFromMarks(t *testing.T) {
	cases := []struct {
		marks float64
		want  Grade
	}{
		{100, GradeS},
		{90, GradeS},
		{89.9, GradeA},
		{80, GradeA},
		{75, GradeB},
		{70, GradeB},
		{69.9, GradeC},
		{60, GradeC},
		{59.9, GradeD},
		{50, GradeD},
		{49.9, GradeF},
		{0, GradeF},
		{MarksNotAssigned, GradeNA},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GradeFromMarks(tc.marks), "marks %.1f", tc.marks)
	}
}

func TestParseGrade(t *testing.T) {
	g, err := ParseGrade("S")
	require.NoError(t, err)
	assert.Equal(t, GradeS, g)

	_, err = ParseGrade("X")
	assert.Error(t, err)

	_, err = ParseGrade("s")
	assert.Error(t, err, "grades are case sensitive")
}

func TestGradePoints(t *testing.T) {
	assert.Equal(t, 10.0, GradeS.GradePoint())
	assert.Equal(t, 9.0, GradeA.GradePoint())
	assert.Equal(t, 8.0, GradeB.GradePoint())
	assert.Equal(t, 7.0, GradeC.GradePoint())
	assert.Equal(t, 6.0, GradeD.GradePoint())
	assert.Equal(t, 0.0, GradeF.GradePoint())
	assert.Equal(t, -1.0, GradeNA.GradePoint())
}

func TestGradeFlags(t *testing.T) {
	assert.True(t, GradeD.IsPassing())
	assert.False(t, GradeF.IsPassing())
	assert.False(t, GradeNA.IsPassing())

	assert.True(t, GradeF.CountsTowardGPA(), "a fail still weighs down the GPA")
	assert.False(t, GradeNA.CountsTowardGPA())
}

func TestMarksRange(t *testing.T) {
	min, max := GradeB.MarksRange()
	assert.Equal(t, 70.0, min)
	assert.Equal(t, 79.9, max)
}
