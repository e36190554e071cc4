package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by code so sentinel comparisons survive Clone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e != nil && e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Lookup failures.
var (
	ErrStudentNotFound    = New("STUDENT_NOT_FOUND", http.StatusNotFound, "student not found")
	ErrCourseNotFound     = New("COURSE_NOT_FOUND", http.StatusNotFound, "course not found")
	ErrEnrollmentNotFound = New("ENROLLMENT_NOT_FOUND", http.StatusNotFound, "student is not enrolled in this course")
)

// Business-rule violations. The operation either fully succeeds or
// makes no mutation; none of these are retried.
var (
	ErrDuplicateEnrollment  = New("DUPLICATE_ENROLLMENT", http.StatusConflict, "student is already enrolled in this course for this semester")
	ErrCreditLimitExceeded  = New("CREDIT_LIMIT_EXCEEDED", http.StatusUnprocessableEntity, "enrollment exceeds max credit limit")
	ErrPrerequisiteNotMet   = New("PREREQUISITE_NOT_MET", http.StatusUnprocessableEntity, "prerequisites not met for course")
	ErrDropDeadlineExceeded = New("DROP_DEADLINE_EXCEEDED", http.StatusUnprocessableEntity, "cannot drop course after enrollment deadline")
	ErrMinimumCredit        = New("MINIMUM_CREDIT", http.StatusUnprocessableEntity, "drop would fall below minimum semester credits")
	ErrGradeAlreadyAssigned = New("GRADE_ALREADY_ASSIGNED", http.StatusConflict, "cannot drop course after grade has been assigned")
	ErrStudentInactive      = New("STUDENT_INACTIVE", http.StatusUnprocessableEntity, "cannot enroll inactive or graduated student")
	ErrCourseInactive       = New("COURSE_INACTIVE", http.StatusUnprocessableEntity, "cannot enroll in inactive course")
)

// Input validation and transport-level errors.
var (
	ErrInvalidMarks       = New("INVALID_MARKS", http.StatusBadRequest, "marks must be between 0 and 100, or -1 for not assigned")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
