package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
)

type backupServiceMock struct {
	doc           *models.BackupDocument
	exportErr     error
	restoreErr    error
	lastRaw       []byte
	lastConfirmed bool
	restoreCalled bool
}

func (m *backupServiceMock) Export(context.Context) (*models.BackupDocument, error) {
	return m.doc, m.exportErr
}

func (m *backupServiceMock) Restore(_ context.Context, raw []byte, confirmed bool) error {
	m.restoreCalled = true
	m.lastRaw = raw
	m.lastConfirmed = confirmed
	return m.restoreErr
}

func TestBackupHandlerExportSetsDownloadHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &backupServiceMock{
		doc: &models.BackupDocument{BackupDate: time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)},
	}
	handler := NewBackupHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/backup", nil)
	handler.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="backup-presensi-2026-09-01.json"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), `"backupDate"`)
}

func TestBackupHandlerRestorePassesConfirmFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &backupServiceMock{}
	handler := NewBackupHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/backup/restore?confirm=true", []byte(`{"students":[],"teachers":[],"attendance":[]}`))
	handler.Restore(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.restoreCalled)
	assert.True(t, mockSvc.lastConfirmed)
	assert.Equal(t, []byte(`{"students":[],"teachers":[],"attendance":[]}`), mockSvc.lastRaw)
}

func TestBackupHandlerRestoreWithoutConfirm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &backupServiceMock{}
	handler := NewBackupHandler(mockSvc)

	c, _ := newGinContext(http.MethodPost, "/backup/restore", []byte(`{}`))
	handler.Restore(c)

	assert.True(t, mockSvc.restoreCalled)
	assert.False(t, mockSvc.lastConfirmed)
}
