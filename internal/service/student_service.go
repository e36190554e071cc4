package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusops/ccrm-api/internal/models"
	"github.com/campusops/ccrm-api/internal/store"
	appErrors "github.com/campusops/ccrm-api/pkg/errors"
)

type studentStore interface {
	CreateStudent(fullName, email string) models.Student
	FindStudent(id string) (models.Student, error)
	UpdateStudent(id string, mutate func(*models.Student)) (models.Student, error)
	ListStudents() []models.Student
	Enrollments(studentID string) ([]models.Enrollment, error)
}

// CreateStudentRequest registers a new student.
type CreateStudentRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateStudentRequest changes a student's mutable profile fields.
type UpdateStudentRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// GraduateStudentRequest marks a student as graduated.
type GraduateStudentRequest struct {
	GraduationDate time.Time `json:"graduation_date" validate:"required"`
}

// StudentService manages student records and their academic profiles.
type StudentService struct {
	store     studentStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(st studentStore, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: st, validator: validate, logger: logger}
}

// Create registers a student. The registration number is generated.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := s.store.CreateStudent(req.FullName, req.Email)
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("reg_no", student.RegNo))
	return student, nil
}

// Update changes name and email.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.store.UpdateStudent(id, func(st *models.Student) {
		st.FullName = req.FullName
		st.Email = req.Email
	})
	if err != nil {
		return models.Student{}, s.mapNotFound(err)
	}
	return student, nil
}

// Deactivate sets the student inactive, blocking new enrollments.
func (s *StudentService) Deactivate(ctx context.Context, id string) (models.Student, error) {
	return s.setStatus(id, models.StudentStatusInactive, nil)
}

// Reactivate sets the student active again.
func (s *StudentService) Reactivate(ctx context.Context, id string) (models.Student, error) {
	return s.setStatus(id, models.StudentStatusActive, nil)
}

// Graduate marks the student graduated with the given date. Graduated
// students cannot gain new enrollments.
func (s *StudentService) Graduate(ctx context.Context, id string, req GraduateStudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid graduation payload")
	}
	date := req.GraduationDate
	return s.setStatus(id, models.StudentStatusGraduated, &date)
}

// Get returns the bare student record.
func (s *StudentService) Get(ctx context.Context, id string) (models.Student, error) {
	student, err := s.store.FindStudent(id)
	if err != nil {
		return models.Student{}, s.mapNotFound(err)
	}
	return student, nil
}

// Profile returns the student enriched with GPA and credit totals.
func (s *StudentService) Profile(ctx context.Context, id string) (models.StudentProfile, error) {
	student, err := s.store.FindStudent(id)
	if err != nil {
		return models.StudentProfile{}, s.mapNotFound(err)
	}
	enrollments, err := s.store.Enrollments(id)
	if err != nil {
		return models.StudentProfile{}, s.mapNotFound(err)
	}

	active := 0
	for i := range enrollments {
		if !enrollments[i].Dropped {
			active++
		}
	}
	return models.StudentProfile{
		Student:          student,
		CumulativeGPA:    Round2(ComputeGPA(enrollments)),
		CreditsAttempted: CreditsAttempted(enrollments),
		CreditsEarned:    CreditsEarned(enrollments),
		ActiveCourses:    active,
	}, nil
}

// List returns students matching the free-text search and status
// filters, combined through the Searchable and StatusFilterable
// capabilities.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) []models.Student {
	all := s.store.ListStudents()
	if filter.Search == "" && filter.Status == "" {
		return all
	}
	matched := make([]models.Student, 0, len(all))
	for _, student := range all {
		if filter.Search != "" && !student.MatchesSearch(filter.Search) {
			continue
		}
		if filter.Status != "" && !student.MatchesStatus(filter.Status) {
			continue
		}
		matched = append(matched, student)
	}
	return matched
}

func (s *StudentService) setStatus(id string, status models.StudentStatus, graduatedAt *time.Time) (models.Student, error) {
	student, err := s.store.UpdateStudent(id, func(st *models.Student) {
		st.Status = status
		st.StatusChangedAt = time.Now().UTC()
		if graduatedAt != nil {
			st.GraduatedAt = graduatedAt
		}
	})
	if err != nil {
		return models.Student{}, s.mapNotFound(err)
	}
	s.logger.Info("student status changed", zap.String("student_id", id), zap.String("status", string(status)))
	return student, nil
}

func (s *StudentService) mapNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return appErrors.ErrStudentNotFound
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
}
