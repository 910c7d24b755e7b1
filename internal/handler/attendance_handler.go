package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	"github.com/sman1kwanyar/e-presensi-api/internal/service"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
	"github.com/sman1kwanyar/e-presensi-api/pkg/response"
)

type attendanceService interface {
	List(ctx context.Context, req service.ListRequest) ([]models.AttendanceRecord, *models.Pagination, error)
	Submit(ctx context.Context, req service.SubmitAttendanceRequest) (*models.AttendanceRecord, error)
}

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	attendance attendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance attendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param classId query string false "Filter by class"
// @Param teacherId query string false "Filter by teacher"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param month query string false "Filter by month (YYYY-MM)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	req := service.ListRequest{
		ClassID:   c.Query("classId"),
		TeacherID: c.Query("teacherId"),
		Month:     c.Query("month"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD"))
			return
		}
		req.Date = &date
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		req.PageSize = size
	}

	records, pagination, err := h.attendance.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Submit godoc
// @Summary Record one session's attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.SubmitAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Submit(c *gin.Context) {
	var req service.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	// Teachers submit for themselves; the token decides who is recording.
	if claims := claimsFromContext(c); claims != nil && claims.Role == models.RoleGuru {
		req.TeacherID = claims.UserID
	}
	record, err := h.attendance.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}
