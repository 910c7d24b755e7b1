package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sman1kwanyar/e-presensi-api/internal/dto"
	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
)

type fakeDashboardSrv struct {
	summary       *dto.DashboardSummary
	summaryErr    error
	discipline    *dto.DisciplineSummary
	disciplineErr error
	recap         *dto.StatusTally
	recapErr      error
	lastRecap     struct {
		studentID string
		month     string
	}
}

func (f *fakeDashboardSrv) Summary(context.Context) (*dto.DashboardSummary, error) {
	return f.summary, f.summaryErr
}

func (f *fakeDashboardSrv) Discipline(context.Context) (*dto.DisciplineSummary, error) {
	return f.discipline, f.disciplineErr
}

func (f *fakeDashboardSrv) StudentRecap(_ context.Context, studentID, month string) (*dto.StatusTally, error) {
	f.lastRecap.studentID = studentID
	f.lastRecap.month = month
	return f.recap, f.recapErr
}

type fakeInsightSrv struct {
	text string
	err  error
}

func (f *fakeInsightSrv) AttendanceInsight(context.Context) (string, error) {
	return f.text, f.err
}

type fakeMetricsSrv struct{}

func (fakeMetricsSrv) Snapshot() models.SystemMetrics {
	return models.SystemMetrics{CacheHits: 3}
}

func TestDashboardHandlerSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		summary: &dto.DashboardSummary{Date: "2026-09-01", PresenceRate: 90},
	}, &fakeInsightSrv{}, fakeMetricsSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "2026-09-01", envelope.Data["date"])
	assert.Equal(t, float64(90), envelope.Data["presenceRate"])
}

func TestDashboardHandlerStudentRecapPassesParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeDashboardSrv{recap: &dto.StatusTally{Hadir: 10, Total: 12}}
	handler := NewDashboardHandler(service, &fakeInsightSrv{}, fakeMetricsSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/students/stu-1/recap?month=2026-08", nil)
	c.Params = gin.Params{{Key: "id", Value: "stu-1"}}

	handler.StudentRecap(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-1", service.lastRecap.studentID)
	assert.Equal(t, "2026-08", service.lastRecap.month)
}

func TestDashboardHandlerStudentRecapBadMonth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeDashboardSrv{recapErr: appErrors.Clone(appErrors.ErrValidation, "month must be formatted YYYY-MM")}
	handler := NewDashboardHandler(service, &fakeInsightSrv{}, fakeMetricsSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/students/stu-1/recap?month=wrong", nil)
	c.Params = gin.Params{{Key: "id", Value: "stu-1"}}

	handler.StudentRecap(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandlerInsight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{}, &fakeInsightSrv{text: "Semua kelas hadir penuh."}, fakeMetricsSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/insight", nil)

	handler.Insight(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "Semua kelas hadir penuh.", envelope.Data["insight"])
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}
