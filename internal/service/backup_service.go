package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
)

type snapshotRepository interface {
	Export(ctx context.Context) (*models.BackupDocument, error)
	Restore(ctx context.Context, doc *models.RestoreDocument) error
}

type backupCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// BackupService exports the whole dataset as one JSON document and restores
// previously exported documents.
type BackupService struct {
	snapshots snapshotRepository
	cache     backupCacheInvalidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewBackupService constructs the service.
func NewBackupService(snapshots snapshotRepository, cache backupCacheInvalidator, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{
		snapshots: snapshots,
		cache:     cache,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Export reads every collection and stamps the document with the export time.
func (s *BackupService) Export(ctx context.Context) (*models.BackupDocument, error) {
	doc, err := s.snapshots.Export(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export backup")
	}
	doc.BackupDate = s.now()
	return doc, nil
}

// Restore parses a previously exported document and replaces every
// collection present in it. Nothing is written when parsing or the shape
// check fails, and a failed replacement rolls back entirely.
func (s *BackupService) Restore(ctx context.Context, raw []byte, confirmed bool) error {
	if !confirmed {
		return appErrors.Clone(appErrors.ErrValidation, "restore requires explicit confirmation")
	}

	var doc models.RestoreDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "corrupt file")
	}
	if !doc.ShapeValid() {
		return appErrors.Clone(appErrors.ErrValidation, "invalid backup format")
	}

	if err := s.snapshots.Restore(ctx, &doc); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to restore backup")
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "dashboard:*"); err != nil {
			s.logger.Warn("failed to invalidate dashboard cache after restore", zap.Error(err))
		}
	}

	s.logger.Info("backup restored")
	return nil
}
