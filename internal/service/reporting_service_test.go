package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/ccrm-api/internal/models"
	"github.com/campusops/ccrm-api/internal/store"
)

func seedGradedStudent(t *testing.T, st *store.Store, name string, marks float64) models.Student {
	t.Helper()
	student := st.CreateStudent(name, name+"@example.edu")
	course := models.Course{Code: "CS101", Title: "Intro", Credits: 4, Department: "CS", Semester: models.SemesterFall}
	require.NoError(t, st.WithLedger(student.ID, func(l *store.Ledger) error {
		e := models.NewEnrollment(student.ID+"-e1", course, models.SemesterFall)
		require.NoError(t, e.SetMarks(marks))
		l.Append(e)
		return nil
	}))
	return student
}

func TestTopStudentsRanksByGPA(t *testing.T) {
	st := store.New()
	seedGradedStudent(t, st, "middling", 72) // B, 8.0
	top := seedGradedStudent(t, st, "top", 95)
	seedGradedStudent(t, st, "failing", 20) // F, 0.0
	st.CreateStudent("No Enrollments", "none@example.edu")

	svc := NewReportingService(st, zap.NewNop())
	rankings := svc.TopStudents(context.Background(), 2)

	require.Len(t, rankings, 2)
	assert.Equal(t, top.ID, rankings[0].Student.ID)
	assert.Equal(t, 10.0, rankings[0].CumulativeGPA)
	assert.Equal(t, 4, rankings[0].CreditsEarned)
	assert.Equal(t, 8.0, rankings[1].CumulativeGPA)
}

func TestTopStudentsDefaultLimit(t *testing.T) {
	st := store.New()
	seedGradedStudent(t, st, "only", 60)

	svc := NewReportingService(st, zap.NewNop())
	rankings := svc.TopStudents(context.Background(), 0)
	assert.Len(t, rankings, 1)
}

func TestGradeDistribution(t *testing.T) {
	st := store.New()
	seedGradedStudent(t, st, "s-grade", 95) // 10.0
	seedGradedStudent(t, st, "a-grade", 85) // 9.0
	seedGradedStudent(t, st, "b-grade", 75) // 8.0
	seedGradedStudent(t, st, "d-grade", 55) // 6.0
	seedGradedStudent(t, st, "f-grade", 10) // 0.0
	st.CreateStudent("Ungraded", "u@example.edu")

	svc := NewReportingService(st, zap.NewNop())
	rows := svc.GradeDistribution(context.Background())

	require.Len(t, rows, 5)
	byRange := map[string]int{}
	for _, row := range rows {
		byRange[row.Range] = row.Count
	}
	assert.Equal(t, 2, byRange["9.0 - 10.0 (S/A)"])
	assert.Equal(t, 1, byRange["8.0 - 8.9 (B)"])
	assert.Equal(t, 0, byRange["7.0 - 7.9 (C)"])
	assert.Equal(t, 1, byRange["6.0 - 6.9 (D)"])
	assert.Equal(t, 1, byRange["Below 6.0 (F)"])
}
