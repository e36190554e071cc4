package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusops/ccrm-api/internal/service"
	appErrors "github.com/campusops/ccrm-api/pkg/errors"
	"github.com/campusops/ccrm-api/pkg/export"
	"github.com/campusops/ccrm-api/pkg/response"
)

// ReportHandler exposes institution-wide reporting endpoints.
type ReportHandler struct {
	reports *service.ReportingService
	csv     *export.CSVExporter
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportingService, csv *export.CSVExporter) *ReportHandler {
	return &ReportHandler{reports: reports, csv: csv}
}

// TopStudents godoc
// @Summary Rank students by cumulative GPA
// @Tags Reports
// @Produce json
// @Param limit query int false "Maximum rows (default 10)"
// @Param format query string false "json | csv"
// @Success 200 {object} response.Envelope
// @Router /reports/top-students [get]
func (h *ReportHandler) TopStudents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rankings := h.reports.TopStudents(c.Request.Context(), limit)

	if strings.EqualFold(c.Query("format"), "csv") {
		data := export.Dataset{Header: []string{"Rank", "Registration Number", "Name", "GPA", "Credits Earned"}}
		for i, r := range rankings {
			data.Append(
				strconv.Itoa(i+1),
				r.Student.RegNo,
				r.Student.FullName,
				fmt.Sprintf("%.2f", r.CumulativeGPA),
				strconv.Itoa(r.CreditsEarned),
			)
		}
		h.renderCSV(c, "top-students.csv", data)
		return
	}

	response.JSON(c, http.StatusOK, rankings, nil)
}

// GradeDistribution godoc
// @Summary Grade distribution across all enrollments
// @Tags Reports
// @Produce json
// @Param format query string false "json | csv"
// @Success 200 {object} response.Envelope
// @Router /reports/grade-distribution [get]
func (h *ReportHandler) GradeDistribution(c *gin.Context) {
	rows := h.reports.GradeDistribution(c.Request.Context())

	if strings.EqualFold(c.Query("format"), "csv") {
		data := export.Dataset{Header: []string{"GPA Range", "Count"}}
		for _, row := range rows {
			data.Append(row.Range, strconv.Itoa(row.Count))
		}
		h.renderCSV(c, "grade-distribution.csv", data)
		return
	}

	response.JSON(c, http.StatusOK, rows, nil)
}

func (h *ReportHandler) renderCSV(c *gin.Context, filename string, data export.Dataset) {
	payload, err := h.csv.Render(data)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", payload)
}
