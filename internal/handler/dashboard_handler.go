package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sman1kwanyar/e-presensi-api/internal/dto"
	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	"github.com/sman1kwanyar/e-presensi-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummary, error)
	Discipline(ctx context.Context) (*dto.DisciplineSummary, error)
	StudentRecap(ctx context.Context, studentID, month string) (*dto.StatusTally, error)
}

type insightService interface {
	AttendanceInsight(ctx context.Context) (string, error)
}

type metricsSnapshotter interface {
	Snapshot() models.SystemMetrics
}

// DashboardHandler serves aggregated statistics and the AI insight feed.
type DashboardHandler struct {
	dashboard dashboardService
	insights  insightService
	metrics   metricsSnapshotter
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard dashboardService, insights insightService, metrics metricsSnapshotter) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, insights: insights, metrics: metrics}
}

// Summary godoc
// @Summary School-wide dashboard summary
// @Description Today's presence rates, class recaps, violation distributions, and top point totals.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Discipline godoc
// @Summary Discipline-office dashboard summary
// @Description This month's incident counts, class recap, category and gender splits, and top point totals.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/discipline [get]
func (h *DashboardHandler) Discipline(c *gin.Context) {
	summary, err := h.dashboard.Discipline(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// StudentRecap godoc
// @Summary Monthly attendance recap for one student
// @Tags Dashboard
// @Produce json
// @Param id path string true "Student ID"
// @Param month query string true "Month (YYYY-MM)"
// @Success 200 {object} response.Envelope
// @Router /dashboard/students/{id}/recap [get]
func (h *DashboardHandler) StudentRecap(c *gin.Context) {
	tally, err := h.dashboard.StudentRecap(c.Request.Context(), c.Param("id"), c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tally, nil)
}

// Insight godoc
// @Summary AI-generated attendance analysis
// @Description Summarizes recent attendance records. Falls back to a static message when generation fails.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/insight [get]
func (h *DashboardHandler) Insight(c *gin.Context) {
	insight, err := h.insights.AttendanceInsight(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"insight": insight}, nil)
}

// Metrics godoc
// @Summary Runtime metrics snapshot
// @Tags Dashboard
// @Produce json
// @Success 200 {object} models.SystemMetrics
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) Metrics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}
