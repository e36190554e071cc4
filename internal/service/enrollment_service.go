package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusops/ccrm-api/internal/models"
	"github.com/campusops/ccrm-api/internal/store"
	appErrors "github.com/campusops/ccrm-api/pkg/errors"
)

type recordStore interface {
	FindStudent(id string) (models.Student, error)
	FindCourse(code string) (models.Course, error)
	WithLedger(studentID string, fn func(*store.Ledger) error) error
	Enrollments(studentID string) ([]models.Enrollment, error)
}

type cacheInvalidator interface {
	InvalidateStudent(ctx context.Context, studentID string)
}

type opRecorder interface {
	RecordEnrollmentOp(op string, err error)
}

// EnrollmentPolicy carries the institutional business rules. The values
// come from configuration and are fixed for the service's lifetime.
type EnrollmentPolicy struct {
	MaxCreditsPerSemester int
	MinCreditsPerSemester int
	DropDeadline          time.Duration
}

// EnrollRequest registers a student into a course. Semester is optional
// and defaults to the course's scheduled semester.
type EnrollRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	CourseCode string `json:"course_code" validate:"required"`
	Semester   string `json:"semester"`
}

// DropRequest unenrolls a student from a course.
type DropRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	CourseCode string `json:"course_code" validate:"required"`
}

// AssignGradeRequest records a letter grade without numeric marks.
type AssignGradeRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	CourseCode string `json:"course_code" validate:"required"`
	Grade      string `json:"grade" validate:"required"`
}

// AssignMarksRequest records numeric marks; the grade is derived.
type AssignMarksRequest struct {
	StudentID  string  `json:"student_id" validate:"required"`
	CourseCode string  `json:"course_code" validate:"required"`
	Marks      float64 `json:"marks"`
}

// EnrollmentService is the rule engine for the enrollment state
// machine: NotEnrolled -> Enrolled -> {Dropped | Graded}. Every
// operation checks all rules before mutating, so a failed call leaves
// the ledger untouched.
type EnrollmentService struct {
	store     recordStore
	policy    EnrollmentPolicy
	cache     cacheInvalidator
	metrics   opRecorder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs the rule engine with an explicit
// policy; there is no global configuration singleton.
func NewEnrollmentService(st recordStore, policy EnrollmentPolicy, cache cacheInvalidator, metrics opRecorder, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		store:     st,
		policy:    policy,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Enroll validates every business rule and appends a new enrollment to
// the student's ledger.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (enrollment *models.Enrollment, err error) {
	defer func() { s.record("enroll", err) }()

	if verr := s.validator.Struct(req); verr != nil {
		return nil, appErrors.Wrap(verr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	course, err := s.store.FindCourse(strings.ToUpper(strings.TrimSpace(req.CourseCode)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.ErrCourseNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	semester := course.Semester
	if req.Semester != "" {
		semester, err = models.ParseSemester(req.Semester)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester")
		}
	}

	err = s.store.WithLedger(req.StudentID, func(ledger *store.Ledger) error {
		student := ledger.Student()
		if student.Status != models.StudentStatusActive {
			return appErrors.ErrStudentInactive
		}
		if !course.Active {
			return appErrors.ErrCourseInactive
		}
		if ledger.HasActive(course.Code, semester) {
			return appErrors.ErrDuplicateEnrollment
		}

		current := ledger.SemesterCredits(semester)
		if current+course.Credits > s.policy.MaxCreditsPerSemester {
			return appErrors.Clone(appErrors.ErrCreditLimitExceeded,
				creditLimitMessage(current, course.Credits, s.policy.MaxCreditsPerSemester))
		}

		if !s.prerequisitesMet(ledger, course) {
			return appErrors.Clone(appErrors.ErrPrerequisiteNotMet, "prerequisites not met for course: "+course.Code)
		}

		enrollment = models.NewEnrollment(uuid.NewString(), course, semester)
		ledger.Append(enrollment)
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.ErrStudentNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, req.StudentID)
	s.logger.Info("student enrolled",
		zap.String("student_id", req.StudentID),
		zap.String("course_code", course.Code),
		zap.String("semester", string(semester)))
	return enrollment, nil
}

// Drop soft-deletes an active enrollment, subject to the deadline,
// minimum-credit and grade-finality rules. An already-dropped record is
// invisible to the lookup and therefore reported as not found.
func (s *EnrollmentService) Drop(ctx context.Context, req DropRequest) (err error) {
	defer func() { s.record("drop", err) }()

	if verr := s.validator.Struct(req); verr != nil {
		return appErrors.Wrap(verr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid drop payload")
	}

	err = s.store.WithLedger(req.StudentID, func(ledger *store.Ledger) error {
		enrollment := ledger.FindActive(req.CourseCode)
		if enrollment == nil {
			return appErrors.ErrEnrollmentNotFound
		}

		if s.now().Sub(enrollment.EnrolledAt) > s.policy.DropDeadline {
			return appErrors.ErrDropDeadlineExceeded
		}

		remaining := ledger.SemesterCredits(enrollment.Semester) - enrollment.Course.Credits
		if remaining < s.policy.MinCreditsPerSemester {
			return appErrors.Clone(appErrors.ErrMinimumCredit,
				minimumCreditMessage(remaining, s.policy.MinCreditsPerSemester))
		}

		if enrollment.Grade != models.GradeNA {
			return appErrors.ErrGradeAlreadyAssigned
		}

		enrollment.Drop()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return appErrors.ErrStudentNotFound
		}
		return err
	}

	s.invalidate(ctx, req.StudentID)
	s.logger.Info("enrollment dropped",
		zap.String("student_id", req.StudentID),
		zap.String("course_code", req.CourseCode))
	return nil
}

// AssignGrade sets the letter grade on the first active enrollment for
// the course, independent of marks.
func (s *EnrollmentService) AssignGrade(ctx context.Context, req AssignGradeRequest) (err error) {
	defer func() { s.record("assign_grade", err) }()

	if verr := s.validator.Struct(req); verr != nil {
		return appErrors.Wrap(verr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	grade, perr := models.ParseGrade(req.Grade)
	if perr != nil {
		return appErrors.Wrap(perr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade value")
	}

	err = s.withActiveEnrollment(req.StudentID, req.CourseCode, func(e *models.Enrollment) error {
		e.SetGrade(grade)
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, req.StudentID)
	return nil
}

// AssignMarks sets numeric marks on the first active enrollment for the
// course; the grade is recomputed from the scale.
func (s *EnrollmentService) AssignMarks(ctx context.Context, req AssignMarksRequest) (err error) {
	defer func() { s.record("assign_marks", err) }()

	if verr := s.validator.Struct(req); verr != nil {
		return appErrors.Wrap(verr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid marks payload")
	}

	err = s.withActiveEnrollment(req.StudentID, req.CourseCode, func(e *models.Enrollment) error {
		return e.SetMarks(req.Marks)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, req.StudentID)
	return nil
}

// Enrollments returns a snapshot of the student's ledger, optionally
// scoped to one semester.
func (s *EnrollmentService) Enrollments(ctx context.Context, studentID string, semester models.Semester) ([]models.Enrollment, error) {
	all, err := s.store.Enrollments(studentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.ErrStudentNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	if semester == "" {
		return all, nil
	}
	scoped := make([]models.Enrollment, 0, len(all))
	for _, e := range all {
		if e.Semester == semester {
			scoped = append(scoped, e)
		}
	}
	return scoped, nil
}

func (s *EnrollmentService) withActiveEnrollment(studentID, courseCode string, fn func(*models.Enrollment) error) error {
	err := s.store.WithLedger(studentID, func(ledger *store.Ledger) error {
		enrollment := ledger.FindActive(courseCode)
		if enrollment == nil {
			return appErrors.ErrEnrollmentNotFound
		}
		return fn(enrollment)
	})
	if errors.Is(err, store.ErrNotFound) {
		return appErrors.ErrStudentNotFound
	}
	return err
}

// prerequisitesMet applies the placeholder heuristic: courses at level
// 300 and above require a passing enrollment in the same department.
// Courses whose level cannot be parsed are always allowed.
func (s *EnrollmentService) prerequisitesMet(ledger *store.Ledger, course models.Course) bool {
	if course.Level() < 300 {
		return true
	}
	return ledger.HasPassedInDepartment(course.Department)
}

func (s *EnrollmentService) invalidate(ctx context.Context, studentID string) {
	if s.cache != nil {
		s.cache.InvalidateStudent(ctx, studentID)
	}
}

func (s *EnrollmentService) record(op string, err error) {
	if s.metrics != nil {
		s.metrics.RecordEnrollmentOp(op, err)
	}
}
