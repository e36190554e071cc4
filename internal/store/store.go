package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campusops/ccrm-api/internal/models"
)

// ErrNotFound is returned when a record does not exist. Services map it
// to the typed domain errors.
var ErrNotFound = errors.New("record not found")

// Store is the in-memory source of truth for students, their ledgers
// and the course catalog. Mutations to a single student's ledger are
// serialised by a per-student mutex; reads hand out copy-on-read
// snapshots so aggregates never observe a half-mutated record.
type Store struct {
	mu       sync.RWMutex
	students map[string]*studentRecord
	courses  map[string]models.Course
	regSeq   int
}

type studentRecord struct {
	mu          sync.Mutex
	student     models.Student
	enrollments []*models.Enrollment
}

// New constructs an empty store.
func New() *Store {
	return &Store{
		students: make(map[string]*studentRecord),
		courses:  make(map[string]models.Course),
	}
}

// CreateStudent registers a new student with a generated ID and
// registration number. New students start out active.
func (s *Store) CreateStudent(fullName, email string) models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.regSeq++
	now := time.Now().UTC()
	student := models.Student{
		ID:              uuid.NewString(),
		RegNo:           fmt.Sprintf("R%07d", 2025000+s.regSeq),
		FullName:        fullName,
		Email:           email,
		Status:          models.StudentStatusActive,
		RegisteredAt:    now,
		StatusChangedAt: now,
	}
	s.students[student.ID] = &studentRecord{student: student}
	return student
}

// FindStudent returns a copy of the student record.
func (s *Store) FindStudent(id string) (models.Student, error) {
	s.mu.RLock()
	rec, ok := s.students[id]
	s.mu.RUnlock()
	if !ok {
		return models.Student{}, ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.student, nil
}

// UpdateStudent applies mutate to the student under its ledger lock.
func (s *Store) UpdateStudent(id string, mutate func(*models.Student)) (models.Student, error) {
	s.mu.RLock()
	rec, ok := s.students[id]
	s.mu.RUnlock()
	if !ok {
		return models.Student{}, ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	mutate(&rec.student)
	return rec.student, nil
}

// ListStudents returns a snapshot of all students ordered by
// registration number.
func (s *Store) ListStudents() []models.Student {
	s.mu.RLock()
	records := make([]*studentRecord, 0, len(s.students))
	for _, rec := range s.students {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	students := make([]models.Student, 0, len(records))
	for _, rec := range records {
		rec.mu.Lock()
		students = append(students, rec.student)
		rec.mu.Unlock()
	}
	sort.Slice(students, func(i, j int) bool { return students[i].RegNo < students[j].RegNo })
	return students
}

// PutCourse inserts or replaces a catalog entry keyed by course code.
func (s *Store) PutCourse(course models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[course.Code] = course
}

// FindCourse returns the catalog entry for the code.
func (s *Store) FindCourse(code string) (models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[code]
	if !ok {
		return models.Course{}, ErrNotFound
	}
	return course, nil
}

// UpdateCourse applies mutate to the catalog entry.
func (s *Store) UpdateCourse(code string, mutate func(*models.Course)) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[code]
	if !ok {
		return models.Course{}, ErrNotFound
	}
	mutate(&course)
	s.courses[code] = course
	return course, nil
}

// ListCourses returns a snapshot of the catalog ordered by code.
func (s *Store) ListCourses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	courses := make([]models.Course, 0, len(s.courses))
	for _, course := range s.courses {
		courses = append(courses, course)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses
}

// WithLedger runs fn while holding the student's ledger lock. The rule
// engine uses this to make each enroll/drop/grade operation atomic with
// respect to that student.
func (s *Store) WithLedger(studentID string, fn func(*Ledger) error) error {
	s.mu.RLock()
	rec, ok := s.students[studentID]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	return fn(&Ledger{rec: rec})
}

// Enrollments returns a copy-on-read snapshot of the student's full
// enrollment history in insertion order.
func (s *Store) Enrollments(studentID string) ([]models.Enrollment, error) {
	s.mu.RLock()
	rec, ok := s.students[studentID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	snapshot := make([]models.Enrollment, 0, len(rec.enrollments))
	for _, e := range rec.enrollments {
		snapshot = append(snapshot, *e)
	}
	return snapshot, nil
}
