package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/campusops/ccrm-api/internal/models"
)

// TranscriptPDF renders structured transcripts into a printable PDF.
type TranscriptPDF struct{}

// NewTranscriptPDF constructs a transcript PDF renderer.
func NewTranscriptPDF() *TranscriptPDF {
	return &TranscriptPDF{}
}

var transcriptColumns = []struct {
	title string
	width float64
}{
	{"Course Code", 30},
	{"Course Title", 80},
	{"Credits", 20},
	{"Marks", 25},
	{"Grade", 20},
}

// Render produces the PDF document for the transcript.
func (e *TranscriptPDF) Render(t *models.Transcript) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, strings.ToUpper(t.Institution), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, e.heading(t), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Student: %s", t.Student.FullName), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Registration Number: %s", t.Student.RegNo), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", t.Student.Status), "", 1, "", false, 0, "")
	if t.Variant == models.TranscriptOfficial {
		pdf.CellFormat(0, 6, fmt.Sprintf("Date of Issue: %s", t.IssuedAt.Format("2006-01-02")), "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	if len(t.Groups) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 8, "No enrollments found for this semester.", "", 1, "", false, 0, "")
	}
	for _, group := range t.Groups {
		e.renderGroup(pdf, group)
	}

	if t.Variant != models.TranscriptSemester {
		e.renderSummary(pdf, t.Summary)
	}

	if t.Variant == models.TranscriptUnofficial {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 6, "UNOFFICIAL - NOT FOR OFFICIAL USE", "", 1, "C", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render transcript pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *TranscriptPDF) heading(t *models.Transcript) string {
	switch t.Variant {
	case models.TranscriptOfficial:
		return "OFFICIAL TRANSCRIPT"
	case models.TranscriptSemester:
		return fmt.Sprintf("%s SEMESTER TRANSCRIPT", t.Semester)
	default:
		return "UNOFFICIAL TRANSCRIPT"
	}
}

func (e *TranscriptPDF) renderGroup(pdf *gofpdf.Fpdf, group models.TranscriptSemesterGroup) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("%s SEMESTER", group.Semester), "", 1, "", false, 0, "")

	pdf.SetFont("Arial", "B", 9)
	for _, col := range transcriptColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range group.Rows {
		marks := "N/A"
		if row.HasMarks {
			marks = fmt.Sprintf("%.1f", row.Marks)
		}
		cells := []string{row.CourseCode, row.Title, fmt.Sprintf("%d", row.Credits), marks, string(row.Grade)}
		for i, col := range transcriptColumns {
			pdf.CellFormat(col.width, 6, cells[i], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 7, fmt.Sprintf("Semester Credits: %d  |  Semester GPA: %.2f", group.Credits, group.GPA), "", 1, "", false, 0, "")
	pdf.Ln(2)
}

func (e *TranscriptPDF) renderSummary(pdf *gofpdf.Fpdf, summary models.TranscriptSummary) {
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "ACADEMIC SUMMARY", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total Credits Attempted: %d", summary.CreditsAttempted), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total Credits Earned: %d", summary.CreditsEarned), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Cumulative GPA: %.2f", summary.CumulativeGPA), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Academic Standing: %s", summary.Standing), "", 1, "", false, 0, "")
}
