package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sman1kwanyar/e-presensi-api/internal/dto"
	"github.com/sman1kwanyar/e-presensi-api/internal/service"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
	"github.com/sman1kwanyar/e-presensi-api/pkg/response"
)

// ReportHandler renders attendance and discipline reports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Attendance godoc
// @Summary Build an attendance report
// @Description Returns the assembled report as JSON, or downloads it as CSV/PDF when format is set.
// @Tags Reports
// @Produce json
// @Param kind query string true "Report kind (daily or monthly)"
// @Param classId query string true "Class ID"
// @Param date query string false "Date for daily reports (YYYY-MM-DD)"
// @Param month query string false "Month for monthly reports (YYYY-MM)"
// @Param format query string false "Output format (csv or pdf)"
// @Success 200 {object} response.Envelope
// @Router /reports/attendance [get]
func (h *ReportHandler) Attendance(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	switch req.Format {
	case "":
		report, err := h.reports.BuildAttendanceReport(c.Request.Context(), req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, report, nil)
	case "csv":
		data, filename, err := h.reports.RenderAttendanceCSV(c.Request.Context(), req)
		if err != nil {
			response.Error(c, err)
			return
		}
		sendFile(c, data, filename, "text/csv")
	case "pdf":
		data, filename, err := h.reports.RenderAttendancePDF(c.Request.Context(), req)
		if err != nil {
			response.Error(c, err)
			return
		}
		sendFile(c, data, filename, "application/pdf")
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

// Violations godoc
// @Summary Build a discipline report
// @Description Returns the month's incident report as JSON, or downloads it as CSV/PDF when format is set.
// @Tags Reports
// @Produce json
// @Param month query string true "Month (YYYY-MM)"
// @Param classId query string false "Class ID"
// @Param format query string false "Output format (csv or pdf)"
// @Success 200 {object} response.Envelope
// @Router /reports/violations [get]
func (h *ReportHandler) Violations(c *gin.Context) {
	month := c.Query("month")
	classID := c.Query("classId")

	switch c.Query("format") {
	case "":
		report, rows, err := h.reports.BuildViolationReport(c.Request.Context(), month, classID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, gin.H{"report": report, "rows": rows}, nil)
	case "csv":
		data, filename, err := h.reports.RenderViolationCSV(c.Request.Context(), month, classID)
		if err != nil {
			response.Error(c, err)
			return
		}
		sendFile(c, data, filename, "text/csv")
	case "pdf":
		data, filename, err := h.reports.RenderViolationPDF(c.Request.Context(), month, classID)
		if err != nil {
			response.Error(c, err)
			return
		}
		sendFile(c, data, filename, "application/pdf")
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

func sendFile(c *gin.Context, data []byte, filename, contentType string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
