package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campusops/ccrm-api/internal/models"
	"github.com/campusops/ccrm-api/internal/store"
	appErrors "github.com/campusops/ccrm-api/pkg/errors"
)

type transcriptCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type cacheMetrics interface {
	RecordCacheOperation(hit bool, duration time.Duration)
}

// TranscriptService builds academic transcripts and GPA figures from
// ledger snapshots. One renderer serves all three variants; only the
// framing text differs.
type TranscriptService struct {
	store       recordStore
	cache       transcriptCache
	metrics     cacheMetrics
	institution string
	cacheTTL    time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewTranscriptService constructs a TranscriptService.
func NewTranscriptService(st recordStore, cache transcriptCache, metrics cacheMetrics, institution string, cacheTTL time.Duration, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptService{
		store:       st,
		cache:       cache,
		metrics:     metrics,
		institution: institution,
		cacheTTL:    cacheTTL,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CumulativeGPA returns the student's overall GPA rounded to two
// decimals.
func (s *TranscriptService) CumulativeGPA(ctx context.Context, studentID string) (float64, error) {
	enrollments, err := s.snapshot(studentID)
	if err != nil {
		return 0, err
	}
	return Round2(ComputeGPA(enrollments)), nil
}

// SemesterGPA returns the student's GPA for one semester rounded to two
// decimals.
func (s *TranscriptService) SemesterGPA(ctx context.Context, studentID string, semester models.Semester) (float64, error) {
	enrollments, err := s.snapshot(studentID)
	if err != nil {
		return 0, err
	}
	scoped := filterSemester(enrollments, semester)
	return Round2(ComputeGPA(scoped)), nil
}

// Generate builds the structured transcript for the requested variant.
// Semester is only consulted for the semester-scoped variant.
func (s *TranscriptService) Generate(ctx context.Context, studentID string, variant models.TranscriptVariant, semester models.Semester) (*models.Transcript, error) {
	key := fmt.Sprintf("transcript:%s:%s:%s", studentID, variant, semester)
	if s.cache != nil {
		start := time.Now()
		var cached models.Transcript
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.recordCache(true, time.Since(start))
			return &cached, nil
		}
		s.recordCache(false, time.Since(start))
	}

	student, err := s.store.FindStudent(studentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.ErrStudentNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	enrollments, err := s.snapshot(studentID)
	if err != nil {
		return nil, err
	}

	transcript := &models.Transcript{
		Variant:     variant,
		Institution: s.institution,
		Student:     student,
		IssuedAt:    s.now(),
	}

	scope := enrollments
	if variant == models.TranscriptSemester {
		transcript.Semester = semester
		scope = filterSemester(enrollments, semester)
	}

	transcript.Groups = buildSemesterGroups(scope)
	transcript.Summary = models.TranscriptSummary{
		CreditsAttempted: CreditsAttempted(enrollments),
		CreditsEarned:    CreditsEarned(enrollments),
		CumulativeGPA:    Round2(ComputeGPA(enrollments)),
	}
	transcript.Summary.Standing = AcademicStanding(transcript.Summary.CumulativeGPA)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, transcript, s.cacheTTL); err != nil {
			s.logger.Warn("transcript cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return transcript, nil
}

// buildSemesterGroups groups non-dropped enrollments by semester in the
// fixed enumeration order and computes per-semester totals.
func buildSemesterGroups(enrollments []models.Enrollment) []models.TranscriptSemesterGroup {
	groups := make([]models.TranscriptSemesterGroup, 0, len(models.Semesters()))
	for _, semester := range models.Semesters() {
		var rows []models.TranscriptRow
		var semesterScope []models.Enrollment
		for i := range enrollments {
			e := &enrollments[i]
			if e.Dropped || e.Semester != semester {
				continue
			}
			semesterScope = append(semesterScope, *e)
			rows = append(rows, models.TranscriptRow{
				CourseCode: e.Course.Code,
				Title:      e.Course.Title,
				Credits:    e.Course.Credits,
				Marks:      e.Marks,
				HasMarks:   e.HasMarks(),
				Grade:      e.Grade,
			})
		}
		if len(rows) == 0 {
			continue
		}
		credits := 0
		for i := range semesterScope {
			credits += semesterScope[i].GPACredits()
		}
		groups = append(groups, models.TranscriptSemesterGroup{
			Semester: semester,
			Rows:     rows,
			Credits:  credits,
			GPA:      Round2(ComputeGPA(semesterScope)),
		})
	}
	return groups
}

const (
	titleWidth  = 30
	bannerWidth = 60
	scopedWidth = 50
)

// RenderText produces the plain-text transcript for the variant.
func (s *TranscriptService) RenderText(t *models.Transcript) string {
	var b strings.Builder
	switch t.Variant {
	case models.TranscriptOfficial:
		b.WriteString("*** OFFICIAL TRANSCRIPT ***\n")
		b.WriteString("This is an official academic record.\n")
		fmt.Fprintf(&b, "Date of Issue: %s\n\n", t.IssuedAt.Format("2006-01-02"))
		renderBody(&b, t)
		b.WriteString("\n*** END OF OFFICIAL TRANSCRIPT ***\n")
	case models.TranscriptUnofficial:
		b.WriteString("*** UNOFFICIAL TRANSCRIPT ***\n")
		b.WriteString("This is an unofficial academic record for student use only.\n\n")
		renderBody(&b, t)
		b.WriteString("\n*** UNOFFICIAL - NOT FOR OFFICIAL USE ***\n")
	case models.TranscriptSemester:
		renderSemesterScoped(&b, t)
	default:
		renderBody(&b, t)
	}
	return b.String()
}

func renderBody(b *strings.Builder, t *models.Transcript) {
	rule := strings.Repeat("=", bannerWidth)
	b.WriteString(rule + "\n")
	fmt.Fprintf(b, "%s\n", center(strings.ToUpper(t.Institution), bannerWidth))
	b.WriteString(center("ACADEMIC TRANSCRIPT", bannerWidth) + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(b, "Student: %s\n", t.Student.FullName)
	fmt.Fprintf(b, "Registration Number: %s\n", t.Student.RegNo)
	fmt.Fprintf(b, "Status: %s\n", t.Student.Status)
	b.WriteString(rule + "\n")

	for _, group := range t.Groups {
		renderSemesterSection(b, group)
	}

	b.WriteString("\n--- ACADEMIC SUMMARY ---\n")
	fmt.Fprintf(b, "Total Credits Attempted: %d\n", t.Summary.CreditsAttempted)
	fmt.Fprintf(b, "Total Credits Earned: %d\n", t.Summary.CreditsEarned)
	fmt.Fprintf(b, "Cumulative GPA: %.2f\n", t.Summary.CumulativeGPA)
	fmt.Fprintf(b, "Academic Standing: %s\n", t.Summary.Standing)
	b.WriteString(rule + "\n")
}

func renderSemesterSection(b *strings.Builder, group models.TranscriptSemesterGroup) {
	fmt.Fprintf(b, "\n--- %s SEMESTER ---\n", group.Semester)
	fmt.Fprintf(b, "%-12s | %-30s | %-7s | %-8s | %-5s\n",
		"Course Code", "Course Title", "Credits", "Marks", "Grade")
	b.WriteString(strings.Repeat("-", 70) + "\n")
	for _, row := range group.Rows {
		marks := "N/A"
		if row.HasMarks {
			marks = fmt.Sprintf("%.1f", row.Marks)
		}
		fmt.Fprintf(b, "%-12s | %-30s | %-7d | %-8s | %-5s\n",
			row.CourseCode, truncate(row.Title, titleWidth), row.Credits, marks, row.Grade)
	}
	b.WriteString(strings.Repeat("-", 70) + "\n")
	fmt.Fprintf(b, "Semester Credits: %d | Semester GPA: %.2f\n", group.Credits, group.GPA)
}

func renderSemesterScoped(b *strings.Builder, t *models.Transcript) {
	rule := strings.Repeat("=", scopedWidth)
	b.WriteString(rule + "\n")
	fmt.Fprintf(b, "%s\n", center(fmt.Sprintf("%s SEMESTER TRANSCRIPT", t.Semester), scopedWidth))
	b.WriteString(rule + "\n")
	fmt.Fprintf(b, "Student: %s\n", t.Student.FullName)
	fmt.Fprintf(b, "Registration Number: %s\n", t.Student.RegNo)
	b.WriteString(rule + "\n")

	if len(t.Groups) == 0 {
		b.WriteString("No enrollments found for this semester.\n")
	} else {
		for _, group := range t.Groups {
			renderSemesterSection(b, group)
		}
	}
	b.WriteString(rule + "\n")
}

func (s *TranscriptService) snapshot(studentID string) ([]models.Enrollment, error) {
	enrollments, err := s.store.Enrollments(studentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.ErrStudentNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	return enrollments, nil
}

func (s *TranscriptService) recordCache(hit bool, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit, d)
	}
}

func filterSemester(enrollments []models.Enrollment, semester models.Semester) []models.Enrollment {
	scoped := make([]models.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Semester == semester {
			scoped = append(scoped, e)
		}
	}
	return scoped
}

func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max-3] + "..."
}

func center(text string, width int) string {
	if len(text) >= width {
		return text
	}
	pad := (width - len(text)) / 2
	return strings.Repeat(" ", pad) + text
}
