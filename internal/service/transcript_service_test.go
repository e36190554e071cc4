package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/ccrm-api/internal/models"
	"github.com/campusops/ccrm-api/internal/store"
	appErrors "github.com/campusops/ccrm-api/pkg/errors"
)

type fakeCache struct {
	entries map[string][]byte
	hits    int
	misses  int
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		f.misses++
		return appErrors.ErrCacheMiss
	}
	f.hits++
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if f.entries == nil {
		f.entries = make(map[string][]byte)
	}
	f.entries[key] = raw
	return nil
}

func seedTranscriptFixture(t *testing.T) (*store.Store, models.Student) {
	t.Helper()
	st := store.New()
	student := st.CreateStudent("Ada Lovelace", "ada@example.edu")

	fall := models.Course{Code: "CS101", Title: "Intro to Computer Science", Credits: 4, Department: "CS", Semester: models.SemesterFall}
	spring := models.Course{Code: "BI301", Title: "Introduction to Computational Biology", Credits: 3, Department: "BIO", Semester: models.SemesterSpring}
	dropped := models.Course{Code: "CS102", Title: "Data Structures", Credits: 3, Department: "CS", Semester: models.SemesterFall}
	ungraded := models.Course{Code: "CS103", Title: "Algorithms", Credits: 3, Department: "CS", Semester: models.SemesterFall}

	require.NoError(t, st.WithLedger(student.ID, func(l *store.Ledger) error {
		e1 := models.NewEnrollment("e1", fall, models.SemesterFall)
		require.NoError(t, e1.SetMarks(95)) // S
		e2 := models.NewEnrollment("e2", spring, models.SemesterSpring)
		require.NoError(t, e2.SetMarks(72)) // B
		e3 := models.NewEnrollment("e3", dropped, models.SemesterFall)
		e3.Drop()
		e4 := models.NewEnrollment("e4", ungraded, models.SemesterFall)
		l.Append(e1)
		l.Append(e2)
		l.Append(e3)
		l.Append(e4)
		return nil
	}))
	return st, student
}

func newTranscriptService(st *store.Store, cache transcriptCache) *TranscriptService {
	return NewTranscriptService(st, cache, nil, "Test University", time.Minute, zap.NewNop())
}

func TestCumulativeAndSemesterGPA(t *testing.T) {
	st, student := seedTranscriptFixture(t)
	svc := newTranscriptService(st, nil)

	// (10*4 + 8*3) / 7 = 64/7 = 9.142857..., displayed as 9.14.
	gpa, err := svc.CumulativeGPA(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.14, gpa)

	fall, err := svc.SemesterGPA(context.Background(), student.ID, models.SemesterFall)
	require.NoError(t, err)
	assert.Equal(t, 10.0, fall)

	summer, err := svc.SemesterGPA(context.Background(), student.ID, models.SemesterSummer)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summer)

	_, err = svc.CumulativeGPA(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrStudentNotFound)
}

func TestGenerateUnofficialTranscript(t *testing.T) {
	st, student := seedTranscriptFixture(t)
	svc := newTranscriptService(st, nil)

	transcript, err := svc.Generate(context.Background(), student.ID, models.TranscriptUnofficial, "")
	require.NoError(t, err)

	require.Len(t, transcript.Groups, 2, "dropped-only semesters are omitted")
	assert.Equal(t, models.SemesterSpring, transcript.Groups[0].Semester, "fixed enumeration order")
	assert.Equal(t, models.SemesterFall, transcript.Groups[1].Semester)

	fallGroup := transcript.Groups[1]
	require.Len(t, fallGroup.Rows, 2, "dropped rows are excluded, ungraded rows stay")
	assert.Equal(t, 4, fallGroup.Credits, "ungraded credits do not enter the GPA denominator")
	assert.Equal(t, 10.0, fallGroup.GPA)

	assert.Equal(t, 7, transcript.Summary.CreditsAttempted)
	assert.Equal(t, 7, transcript.Summary.CreditsEarned)
	assert.Equal(t, 9.14, transcript.Summary.CumulativeGPA)
	assert.Equal(t, "Excellent", transcript.Summary.Standing)
}

func TestGenerateSemesterVariantScopesGroupsOnly(t *testing.T) {
	st, student := seedTranscriptFixture(t)
	svc := newTranscriptService(st, nil)

	transcript, err := svc.Generate(context.Background(), student.ID, models.TranscriptSemester, models.SemesterSpring)
	require.NoError(t, err)

	require.Len(t, transcript.Groups, 1)
	assert.Equal(t, models.SemesterSpring, transcript.Groups[0].Semester)
	assert.Equal(t, 9.14, transcript.Summary.CumulativeGPA, "summary always covers the full history")
}

func TestGenerateUsesCache(t *testing.T) {
	st, student := seedTranscriptFixture(t)
	cache := &fakeCache{}
	svc := newTranscriptService(st, cache)

	first, err := svc.Generate(context.Background(), student.ID, models.TranscriptOfficial, "")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.misses)

	second, err := svc.Generate(context.Background(), student.ID, models.TranscriptOfficial, "")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestRenderTextOfficialFraming(t *testing.T) {
	st, student := seedTranscriptFixture(t)
	svc := newTranscriptService(st, nil)

	transcript, err := svc.Generate(context.Background(), student.ID, models.TranscriptOfficial, "")
	require.NoError(t, err)

	text := svc.RenderText(transcript)
	assert.Contains(t, text, "*** OFFICIAL TRANSCRIPT ***")
	assert.Contains(t, text, "*** END OF OFFICIAL TRANSCRIPT ***")
	assert.Contains(t, text, "Date of Issue: "+transcript.IssuedAt.Format("2006-01-02"))
	assert.Contains(t, text, "TEST UNIVERSITY")
	assert.Contains(t, text, "--- ACADEMIC SUMMARY ---")
	assert.Contains(t, text, "Cumulative GPA: 9.14")
	assert.Contains(t, text, "N/A", "ungraded rows print N/A marks")

	longTitle := "Introduction to Computational Biology"
	assert.Contains(t, text, longTitle[:27]+"...", "titles are truncated for the table")
	assert.NotContains(t, text, longTitle)
}

func TestRenderTextSemesterVariantEmpty(t *testing.T) {
	st, student := seedTranscriptFixture(t)
	svc := newTranscriptService(st, nil)

	transcript, err := svc.Generate(context.Background(), student.ID, models.TranscriptSemester, models.SemesterSummer)
	require.NoError(t, err)

	text := svc.RenderText(transcript)
	assert.Contains(t, text, "SUMMER SEMESTER TRANSCRIPT")
	assert.Contains(t, text, "No enrollments found for this semester.")
}

func TestRenderTextUnofficialDisclaimer(t *testing.T) {
	st, student := seedTranscriptFixture(t)
	svc := newTranscriptService(st, nil)

	transcript, err := svc.Generate(context.Background(), student.ID, models.TranscriptUnofficial, "")
	require.NoError(t, err)

	text := svc.RenderText(transcript)
	assert.Contains(t, text, "*** UNOFFICIAL TRANSCRIPT ***")
	assert.Contains(t, text, "*** UNOFFICIAL - NOT FOR OFFICIAL USE ***")
}
