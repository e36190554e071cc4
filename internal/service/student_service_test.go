package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/ccrm-api/internal/models"
	"github.com/campusops/ccrm-api/internal/store"
	appErrors "github.com/campusops/ccrm-api/pkg/errors"
)

func newStudentService(st *store.Store) *StudentService {
	return NewStudentService(st, nil, zap.NewNop())
}

func TestStudentCreateAndGet(t *testing.T) {
	st := store.New()
	svc := newStudentService(st)

	student, err := svc.Create(context.Background(), CreateStudentRequest{FullName: "Ada Lovelace", Email: "ada@example.edu"})
	require.NoError(t, err)
	assert.Equal(t, "R2025001", student.RegNo)
	assert.Equal(t, models.StudentStatusActive, student.Status)

	got, err := svc.Get(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, student.ID, got.ID)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrStudentNotFound)
}

func TestStudentCreateValidation(t *testing.T) {
	svc := newStudentService(store.New())

	_, err := svc.Create(context.Background(), CreateStudentRequest{FullName: "Ada Lovelace", Email: "not-an-email"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), CreateStudentRequest{Email: "ada@example.edu"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestStudentLifecycle(t *testing.T) {
	st := store.New()
	svc := newStudentService(st)
	student, err := svc.Create(context.Background(), CreateStudentRequest{FullName: "Ada Lovelace", Email: "ada@example.edu"})
	require.NoError(t, err)

	deactivated, err := svc.Deactivate(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusInactive, deactivated.Status)

	reactivated, err := svc.Reactivate(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusActive, reactivated.Status)

	when := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	graduated, err := svc.Graduate(context.Background(), student.ID, GraduateStudentRequest{GraduationDate: when})
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusGraduated, graduated.Status)
	require.NotNil(t, graduated.GraduatedAt)
	assert.Equal(t, when, *graduated.GraduatedAt)
}

func TestStudentProfileAggregates(t *testing.T) {
	st := store.New()
	svc := newStudentService(st)
	student := st.CreateStudent("Ada Lovelace", "ada@example.edu")

	course := models.Course{Code: "CS101", Title: "Intro", Credits: 4, Department: "CS", Semester: models.SemesterFall}
	require.NoError(t, st.WithLedger(student.ID, func(l *store.Ledger) error {
		graded := models.NewEnrollment("e1", course, models.SemesterFall)
		require.NoError(t, graded.SetMarks(85))
		l.Append(graded)
		l.Append(models.NewEnrollment("e2", models.Course{Code: "CS102", Credits: 3, Semester: models.SemesterFall}, models.SemesterFall))
		return nil
	}))

	profile, err := svc.Profile(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, profile.CumulativeGPA)
	assert.Equal(t, 4, profile.CreditsAttempted)
	assert.Equal(t, 4, profile.CreditsEarned)
	assert.Equal(t, 2, profile.ActiveCourses)
}

func TestStudentListFilters(t *testing.T) {
	st := store.New()
	svc := newStudentService(st)
	ada := st.CreateStudent("Ada Lovelace", "ada@example.edu")
	st.CreateStudent("Grace Hopper", "grace@example.edu")
	_, err := st.UpdateStudent(ada.ID, func(s *models.Student) { s.Status = models.StudentStatusGraduated })
	require.NoError(t, err)

	all := svc.List(context.Background(), models.StudentFilter{})
	assert.Len(t, all, 2)

	bySearch := svc.List(context.Background(), models.StudentFilter{Search: "grace"})
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Grace Hopper", bySearch[0].FullName)

	byStatus := svc.List(context.Background(), models.StudentFilter{Status: models.StudentStatusGraduated})
	require.Len(t, byStatus, 1)
	assert.Equal(t, ada.ID, byStatus[0].ID)

	both := svc.List(context.Background(), models.StudentFilter{Search: "grace", Status: models.StudentStatusGraduated})
	assert.Empty(t, both)
}
