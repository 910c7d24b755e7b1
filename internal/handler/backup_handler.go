package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
	"github.com/sman1kwanyar/e-presensi-api/pkg/response"
)

// maxRestoreBody caps uploaded backup files at 32 MiB.
const maxRestoreBody = 32 << 20

type backupService interface {
	Export(ctx context.Context) (*models.BackupDocument, error)
	Restore(ctx context.Context, raw []byte, confirmed bool) error
}

// BackupHandler exposes full-database export and restore.
type BackupHandler struct {
	backups backupService
}

// NewBackupHandler constructs BackupHandler.
func NewBackupHandler(backups backupService) *BackupHandler {
	return &BackupHandler{backups: backups}
}

// Export godoc
// @Summary Download a full backup
// @Description Streams the entire database as a single JSON document.
// @Tags Backup
// @Produce json
// @Success 200 {object} models.BackupDocument
// @Router /backup [get]
func (h *BackupHandler) Export(c *gin.Context) {
	doc, err := h.backups.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode backup"))
		return
	}

	filename := fmt.Sprintf("backup-presensi-%s.json", doc.BackupDate.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", payload)
}

// Restore godoc
// @Summary Restore from a backup file
// @Description Replaces stored collections with the uploaded document. Requires confirm=true.
// @Tags Backup
// @Accept json
// @Produce json
// @Param confirm query bool true "Must be true to proceed"
// @Success 200 {object} response.Envelope
// @Router /backup/restore [post]
func (h *BackupHandler) Restore(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRestoreBody))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read backup file"))
		return
	}

	if err := h.backups.Restore(c.Request.Context(), raw, confirmed); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"restoredAt": time.Now().UTC().Format(time.RFC3339),
	}, nil)
}
