package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusops/ccrm-api/internal/models"
	"github.com/campusops/ccrm-api/internal/service"
	appErrors "github.com/campusops/ccrm-api/pkg/errors"
	"github.com/campusops/ccrm-api/pkg/export"
	"github.com/campusops/ccrm-api/pkg/response"
)

// TranscriptHandler exposes GPA and transcript endpoints. The archive
// service is optional; without it official PDFs are not retained.
type TranscriptHandler struct {
	transcripts *service.TranscriptService
	students    *service.StudentService
	pdf         *export.TranscriptPDF
	archive     *service.ArchiveService
}

// NewTranscriptHandler constructs TranscriptHandler.
func NewTranscriptHandler(transcripts *service.TranscriptService, students *service.StudentService, pdf *export.TranscriptPDF, archive *service.ArchiveService) *TranscriptHandler {
	return &TranscriptHandler{transcripts: transcripts, students: students, pdf: pdf, archive: archive}
}

// GPA godoc
// @Summary Get a student's GPA
// @Description Cumulative GPA by default; pass semester for a scoped figure.
// @Tags Transcripts
// @Produce json
// @Param id path string true "Student ID"
// @Param semester query string false "Scope to one semester"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/gpa [get]
func (h *TranscriptHandler) GPA(c *gin.Context) {
	studentID := c.Param("id")

	var gpa float64
	var err error
	scope := "cumulative"
	if raw := c.Query("semester"); raw != "" {
		semester, perr := models.ParseSemester(raw)
		if perr != nil {
			response.Error(c, appErrors.Wrap(perr, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester"))
			return
		}
		gpa, err = h.transcripts.SemesterGPA(c.Request.Context(), studentID, semester)
		scope = string(semester)
	} else {
		gpa, err = h.transcripts.CumulativeGPA(c.Request.Context(), studentID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"student_id": studentID, "scope": scope, "gpa": gpa}, nil)
}

// Transcript godoc
// @Summary Generate a transcript
// @Description Variants: official, unofficial (default), semester. Formats: json (default), text, pdf.
// @Tags Transcripts
// @Produce json
// @Param id path string true "Student ID"
// @Param variant query string false "official | unofficial | semester"
// @Param semester query string false "Required for the semester variant"
// @Param format query string false "json | text | pdf"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/transcript [get]
func (h *TranscriptHandler) Transcript(c *gin.Context) {
	variant, err := parseVariant(c.DefaultQuery("variant", "unofficial"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var semester models.Semester
	if variant == models.TranscriptSemester {
		parsed, perr := models.ParseSemester(c.Query("semester"))
		if perr != nil {
			response.Error(c, appErrors.Wrap(perr, appErrors.ErrValidation.Code, http.StatusBadRequest, "semester variant requires a valid semester"))
			return
		}
		semester = parsed
	}

	transcript, err := h.transcripts.Generate(c.Request.Context(), c.Param("id"), variant, semester)
	if err != nil {
		response.Error(c, err)
		return
	}

	switch strings.ToLower(c.DefaultQuery("format", "json")) {
	case "text":
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(h.transcripts.RenderText(transcript)))
	case "pdf":
		doc, rerr := h.pdf.Render(transcript)
		if rerr != nil {
			response.Error(c, appErrors.Wrap(rerr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript pdf"))
			return
		}
		if variant == models.TranscriptOfficial && h.archive != nil {
			h.archive.ArchiveTranscript(transcript, doc)
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=transcript-%s.pdf", transcript.Student.RegNo))
		c.Data(http.StatusOK, "application/pdf", doc)
	default:
		response.JSON(c, http.StatusOK, transcript, nil)
	}
}

// Archive godoc
// @Summary List archived official transcripts
// @Tags Transcripts
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/transcript/archive [get]
func (h *TranscriptHandler) Archive(c *gin.Context) {
	if h.archive == nil {
		response.JSON(c, http.StatusOK, []string{}, nil)
		return
	}
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	documents, err := h.archive.Archived(student.RegNo)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list archived transcripts"))
		return
	}
	response.JSON(c, http.StatusOK, documents, nil)
}

func parseVariant(raw string) (models.TranscriptVariant, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(models.TranscriptOfficial):
		return models.TranscriptOfficial, nil
	case string(models.TranscriptUnofficial), "":
		return models.TranscriptUnofficial, nil
	case string(models.TranscriptSemester):
		return models.TranscriptSemester, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "variant must be official, unofficial or semester")
	}
}
