package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/ccrm-api/internal/models"
	"github.com/campusops/ccrm-api/internal/store"
	appErrors "github.com/campusops/ccrm-api/pkg/errors"
)

func newCourseService(st *store.Store) *CourseService {
	return NewCourseService(st, nil, zap.NewNop())
}

func validCourseRequest() CreateCourseRequest {
	return CreateCourseRequest{
		Code:       "cs101",
		Title:      "Intro to Computer Science",
		Credits:    4,
		Department: "CS",
		Semester:   "fall",
	}
}

func TestCourseCreateNormalises(t *testing.T) {
	svc := newCourseService(store.New())

	course, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)
	assert.Equal(t, "CS101", course.Code)
	assert.Equal(t, models.SemesterFall, course.Semester)
	assert.True(t, course.Active)
}

func TestCourseCreateRejectsBadInput(t *testing.T) {
	svc := newCourseService(store.New())

	req := validCourseRequest()
	req.Code = "101CS"
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	req = validCourseRequest()
	req.Credits = 10
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	req = validCourseRequest()
	req.Semester = "WINTER"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestCourseCreateDuplicateConflicts(t *testing.T) {
	svc := newCourseService(store.New())
	_, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validCourseRequest())
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestCourseUpdateAndActivation(t *testing.T) {
	st := store.New()
	svc := newCourseService(st)
	_, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "cs101", UpdateCourseRequest{
		Title:      "Foundations of Computing",
		Credits:    3,
		Department: "CS",
		Semester:   "spring",
	})
	require.NoError(t, err)
	assert.Equal(t, "Foundations of Computing", updated.Title)
	assert.Equal(t, models.SemesterSpring, updated.Semester)

	deactivated, err := svc.Deactivate(context.Background(), "CS101")
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	reactivated, err := svc.Reactivate(context.Background(), "CS101")
	require.NoError(t, err)
	assert.True(t, reactivated.Active)

	_, err = svc.Get(context.Background(), "CS999")
	assert.ErrorIs(t, err, appErrors.ErrCourseNotFound)
}

func TestCourseSearchAndDepartments(t *testing.T) {
	svc := newCourseService(store.New())
	_, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)

	req := validCourseRequest()
	req.Code = "MA201"
	req.Title = "Linear Algebra"
	req.Department = "MATH"
	_, err = svc.Create(context.Background(), req)
	require.NoError(t, err)

	results := svc.Search(context.Background(), models.CourseFilter{Department: "math"})
	require.Len(t, results, 1)
	assert.Equal(t, "MA201", results[0].Code)

	assert.Equal(t, []string{"CS", "MATH"}, svc.Departments(context.Background()))
}
