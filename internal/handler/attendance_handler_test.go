package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sman1kwanyar/e-presensi-api/internal/middleware"
	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	"github.com/sman1kwanyar/e-presensi-api/internal/service"
)

type attendanceServiceMock struct {
	records    []models.AttendanceRecord
	listErr    error
	lastList   service.ListRequest
	created    *models.AttendanceRecord
	submitErr  error
	lastSubmit service.SubmitAttendanceRequest
}

func (m *attendanceServiceMock) List(_ context.Context, req service.ListRequest) ([]models.AttendanceRecord, *models.Pagination, error) {
	m.lastList = req
	return m.records, &models.Pagination{Page: req.Page, PageSize: req.PageSize, TotalCount: len(m.records)}, m.listErr
}

func (m *attendanceServiceMock) Submit(_ context.Context, req service.SubmitAttendanceRequest) (*models.AttendanceRecord, error) {
	m.lastSubmit = req
	return m.created, m.submitErr
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestAttendanceHandlerListPassesFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &attendanceServiceMock{}
	handler := NewAttendanceHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/attendance?classId=class-1&month=2026-08&page=2&limit=10", nil)
	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "class-1", mockSvc.lastList.ClassID)
	assert.Equal(t, "2026-08", mockSvc.lastList.Month)
	assert.Equal(t, 2, mockSvc.lastList.Page)
	assert.Equal(t, 10, mockSvc.lastList.PageSize)
}

func TestAttendanceHandlerListRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAttendanceHandler(&attendanceServiceMock{})

	c, w := newGinContext(http.MethodGet, "/attendance?date=31-12-2026", nil)
	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceHandlerSubmitOverridesTeacherForGuru(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &attendanceServiceMock{created: &models.AttendanceRecord{ID: "att-1"}}
	handler := NewAttendanceHandler(mockSvc)

	payload, _ := json.Marshal(service.SubmitAttendanceRequest{
		TeacherID: "someone-else",
		SubjectID: "sub-1",
		ClassID:   "class-1",
		Period:    "1-2",
		Journal:   "Bab 3",
	})
	c, w := newGinContext(http.MethodPost, "/attendance", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "teacher-1", Role: models.RoleGuru})

	handler.Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "teacher-1", mockSvc.lastSubmit.TeacherID)
}

func TestAttendanceHandlerSubmitKeepsTeacherForAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &attendanceServiceMock{created: &models.AttendanceRecord{ID: "att-1"}}
	handler := NewAttendanceHandler(mockSvc)

	payload, _ := json.Marshal(service.SubmitAttendanceRequest{
		TeacherID: "teacher-2",
		SubjectID: "sub-1",
		ClassID:   "class-1",
		Period:    "1-2",
		Journal:   "Bab 3",
	})
	c, w := newGinContext(http.MethodPost, "/attendance", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "teacher-2", mockSvc.lastSubmit.TeacherID)
}

func TestAttendanceHandlerSubmitRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAttendanceHandler(&attendanceServiceMock{})

	c, w := newGinContext(http.MethodPost, "/attendance", []byte("{not json"))
	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
