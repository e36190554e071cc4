package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/campusops/ccrm-api/internal/models"
)

type reportingStore interface {
	ListStudents() []models.Student
	Enrollments(studentID string) ([]models.Enrollment, error)
}

// ReportingService produces institution-wide academic reports.
type ReportingService struct {
	store  reportingStore
	logger *zap.Logger
}

// NewReportingService constructs ReportingService.
func NewReportingService(st reportingStore, logger *zap.Logger) *ReportingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportingService{store: st, logger: logger}
}

// TopStudents ranks students by cumulative GPA, descending. Ties keep
// registration-number order from the store listing.
func (s *ReportingService) TopStudents(ctx context.Context, limit int) []models.StudentRanking {
	if limit <= 0 {
		limit = 10
	}

	students := s.store.ListStudents()
	rankings := make([]models.StudentRanking, 0, len(students))
	for _, student := range students {
		enrollments, err := s.store.Enrollments(student.ID)
		if err != nil {
			continue
		}
		rankings = append(rankings, models.StudentRanking{
			Student:       student,
			CumulativeGPA: Round2(ComputeGPA(enrollments)),
			CreditsEarned: CreditsEarned(enrollments),
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].CumulativeGPA > rankings[j].CumulativeGPA
	})
	if len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings
}

// GradeDistribution buckets all awarded grades by grade-point range.
func (s *ReportingService) GradeDistribution(ctx context.Context) []models.GradeDistributionRow {
	ranges := []string{
		"9.0 - 10.0 (S/A)",
		"8.0 - 8.9 (B)",
		"7.0 - 7.9 (C)",
		"6.0 - 6.9 (D)",
		"Below 6.0 (F)",
	}
	counts := make(map[string]int, len(ranges))

	for _, student := range s.store.ListStudents() {
		enrollments, err := s.store.Enrollments(student.ID)
		if err != nil {
			continue
		}
		for i := range enrollments {
			grade := enrollments[i].Grade
			if grade == models.GradeNA {
				continue
			}
			counts[gradePointRange(grade)]++
		}
	}

	rows := make([]models.GradeDistributionRow, 0, len(ranges))
	for _, r := range ranges {
		rows = append(rows, models.GradeDistributionRow{Range: r, Count: counts[r]})
	}
	return rows
}

func gradePointRange(grade models.Grade) string {
	gp := grade.GradePoint()
	switch {
	case gp >= 9.0:
		return "9.0 - 10.0 (S/A)"
	case gp >= 8.0:
		return "8.0 - 8.9 (B)"
	case gp >= 7.0:
		return "7.0 - 7.9 (C)"
	case gp >= 6.0:
		return "6.0 - 6.9 (D)"
	default:
		return "Below 6.0 (F)"
	}
}
