package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusops/ccrm-api/internal/models"
	"github.com/campusops/ccrm-api/internal/store"
	appErrors "github.com/campusops/ccrm-api/pkg/errors"
)

type courseStore interface {
	PutCourse(course models.Course)
	FindCourse(code string) (models.Course, error)
	UpdateCourse(code string, mutate func(*models.Course)) (models.Course, error)
	ListCourses() []models.Course
}

// CreateCourseRequest adds a catalog entry.
type CreateCourseRequest struct {
	Code       string `json:"code" validate:"required"`
	Title      string `json:"title" validate:"required,min=3,max=100"`
	Credits    int    `json:"credits" validate:"required,gt=0,lte=9"`
	Department string `json:"department" validate:"required"`
	Semester   string `json:"semester" validate:"required"`
}

// UpdateCourseRequest replaces the mutable catalog fields of a course.
type UpdateCourseRequest struct {
	Title      string `json:"title" validate:"required,min=3,max=100"`
	Credits    int    `json:"credits" validate:"required,gt=0,lte=9"`
	Department string `json:"department" validate:"required"`
	Semester   string `json:"semester" validate:"required"`
}

// CourseService manages the course catalog consumed by the rule engine.
type CourseService struct {
	store     courseStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(st courseStore, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{store: st, validator: validate, logger: logger}
}

// Create validates and inserts a catalog entry. New courses are active.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Course{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !models.ValidCourseCode(code) {
		return models.Course{}, appErrors.Clone(appErrors.ErrValidation, "course code must be 2-4 letters followed by 3-4 digits")
	}
	semester, err := models.ParseSemester(req.Semester)
	if err != nil {
		return models.Course{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester")
	}
	if _, err := s.store.FindCourse(code); err == nil {
		return models.Course{}, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}

	now := time.Now().UTC()
	course := models.Course{
		Code:       code,
		Title:      req.Title,
		Credits:    req.Credits,
		Department: req.Department,
		Semester:   semester,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.store.PutCourse(course)
	s.logger.Info("course created", zap.String("course_code", code))
	return course, nil
}

// Update replaces title, credits, department and semester.
func (s *CourseService) Update(ctx context.Context, code string, req UpdateCourseRequest) (models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Course{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	semester, err := models.ParseSemester(req.Semester)
	if err != nil {
		return models.Course{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester")
	}
	course, err := s.store.UpdateCourse(strings.ToUpper(code), func(c *models.Course) {
		c.Title = req.Title
		c.Credits = req.Credits
		c.Department = req.Department
		c.Semester = semester
		c.UpdatedAt = time.Now().UTC()
	})
	if err != nil {
		return models.Course{}, s.mapNotFound(err)
	}
	return course, nil
}

// Deactivate blocks new enrollments into the course. Existing
// enrollments are untouched.
func (s *CourseService) Deactivate(ctx context.Context, code string) (models.Course, error) {
	return s.setActive(code, false)
}

// Reactivate re-opens the course for enrollment.
func (s *CourseService) Reactivate(ctx context.Context, code string) (models.Course, error) {
	return s.setActive(code, true)
}

// Get returns one catalog entry.
func (s *CourseService) Get(ctx context.Context, code string) (models.Course, error) {
	course, err := s.store.FindCourse(strings.ToUpper(code))
	if err != nil {
		return models.Course{}, s.mapNotFound(err)
	}
	return course, nil
}

// Search returns catalog entries matching every set filter field.
func (s *CourseService) Search(ctx context.Context, filter models.CourseFilter) []models.Course {
	all := s.store.ListCourses()
	matched := make([]models.Course, 0, len(all))
	for _, course := range all {
		if course.Matches(filter) {
			matched = append(matched, course)
		}
	}
	return matched
}

// Departments lists the distinct departments present in the catalog.
func (s *CourseService) Departments(ctx context.Context) []string {
	seen := make(map[string]struct{})
	var departments []string
	for _, course := range s.store.ListCourses() {
		if _, ok := seen[course.Department]; ok {
			continue
		}
		seen[course.Department] = struct{}{}
		departments = append(departments, course.Department)
	}
	sort.Strings(departments)
	return departments
}

func (s *CourseService) setActive(code string, active bool) (models.Course, error) {
	course, err := s.store.UpdateCourse(strings.ToUpper(code), func(c *models.Course) {
		c.Active = active
		c.UpdatedAt = time.Now().UTC()
	})
	if err != nil {
		return models.Course{}, s.mapNotFound(err)
	}
	s.logger.Info("course activation changed", zap.String("course_code", course.Code), zap.Bool("active", active))
	return course, nil
}

func (s *CourseService) mapNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return appErrors.ErrCourseNotFound
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
}
