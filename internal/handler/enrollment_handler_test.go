package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/ccrm-api/internal/models"
	"github.com/campusops/ccrm-api/internal/service"
	"github.com/campusops/ccrm-api/internal/store"
)

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newEnrollmentRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	policy := service.EnrollmentPolicy{
		MaxCreditsPerSemester: 18,
		MinCreditsPerSemester: 12,
		DropDeadline:          168 * time.Hour,
	}
	svc := service.NewEnrollmentService(st, policy, nil, nil, nil, zap.NewNop())
	h := NewEnrollmentHandler(svc)

	router := gin.New()
	router.POST("/enrollments", h.Enroll)
	router.DELETE("/enrollments", h.Drop)
	router.PUT("/enrollments/marks", h.AssignMarks)
	router.GET("/students/:id/enrollments", h.List)
	return router, st
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestEnrollEndpoint(t *testing.T) {
	router, st := newEnrollmentRouter(t)
	student := st.CreateStudent("Ada Lovelace", "ada@example.edu")
	st.PutCourse(models.Course{Code: "CS101", Title: "Intro", Credits: 4, Department: "CS", Semester: models.SemesterFall, Active: true})

	rec := doJSON(t, router, http.MethodPost, "/enrollments", gin.H{
		"student_id":  student.ID,
		"course_code": "cs101",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var envelope struct {
		Data models.Enrollment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "CS101", envelope.Data.Course.Code)
	assert.Equal(t, models.SemesterFall, envelope.Data.Semester)
	assert.Equal(t, models.GradeNA, envelope.Data.Grade)
}

func TestEnrollEndpointErrorMapping(t *testing.T) {
	router, st := newEnrollmentRouter(t)
	student := st.CreateStudent("Ada Lovelace", "ada@example.edu")
	st.PutCourse(models.Course{Code: "CS101", Title: "Intro", Credits: 4, Department: "CS", Semester: models.SemesterFall, Active: true})

	rec := doJSON(t, router, http.MethodPost, "/enrollments", gin.H{
		"student_id":  student.ID,
		"course_code": "CS999",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "COURSE_NOT_FOUND", envelope.Error.Code)

	payload := gin.H{"student_id": student.ID, "course_code": "CS101"}
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/enrollments", payload).Code)

	rec = doJSON(t, router, http.MethodPost, "/enrollments", payload)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "DUPLICATE_ENROLLMENT", envelope.Error.Code)
}

func TestEnrollEndpointRejectsMalformedBody(t *testing.T) {
	router, _ := newEnrollmentRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/enrollments", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarksAndListEndpoints(t *testing.T) {
	router, st := newEnrollmentRouter(t)
	student := st.CreateStudent("Ada Lovelace", "ada@example.edu")
	st.PutCourse(models.Course{Code: "CS101", Title: "Intro", Credits: 4, Department: "CS", Semester: models.SemesterFall, Active: true})
	st.PutCourse(models.Course{Code: "MA201", Title: "Linear Algebra", Credits: 3, Department: "MATH", Semester: models.SemesterSpring, Active: true})

	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/enrollments", gin.H{"student_id": student.ID, "course_code": "CS101"}).Code)
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/enrollments", gin.H{"student_id": student.ID, "course_code": "MA201"}).Code)

	rec := doJSON(t, router, http.MethodPut, "/enrollments/marks", gin.H{
		"student_id":  student.ID,
		"course_code": "CS101",
		"marks":       88.0,
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/students/"+student.ID+"/enrollments?semester=fall", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.Enrollment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, models.GradeA, envelope.Data[0].Grade)

	rec = doJSON(t, router, http.MethodGet, "/students/"+student.ID+"/enrollments?semester=winter", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDropEndpoint(t *testing.T) {
	router, st := newEnrollmentRouter(t)
	student := st.CreateStudent("Ada Lovelace", "ada@example.edu")
	for _, c := range []models.Course{
		{Code: "CS101", Title: "Intro", Credits: 4, Department: "CS", Semester: models.SemesterFall, Active: true},
		{Code: "CS102", Title: "Data Structures", Credits: 4, Department: "CS", Semester: models.SemesterFall, Active: true},
		{Code: "CS103", Title: "Algorithms", Credits: 4, Department: "CS", Semester: models.SemesterFall, Active: true},
		{Code: "CS104", Title: "Databases", Credits: 4, Department: "CS", Semester: models.SemesterFall, Active: true},
	} {
		st.PutCourse(c)
		require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/enrollments", gin.H{"student_id": student.ID, "course_code": c.Code}).Code)
	}

	rec := doJSON(t, router, http.MethodDelete, "/enrollments", gin.H{"student_id": student.ID, "course_code": "CS104"})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodDelete, "/enrollments", gin.H{"student_id": student.ID, "course_code": "CS104"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "ENROLLMENT_NOT_FOUND", envelope.Error.Code)
}
