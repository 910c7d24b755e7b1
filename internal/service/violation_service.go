package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
)

type violationRepository interface {
	ListItems(ctx context.Context) ([]models.ViolationItem, error)
	FindItemByID(ctx context.Context, id string) (*models.ViolationItem, error)
	CreateItem(ctx context.Context, item *models.ViolationItem) error
	UpdateItem(ctx context.Context, item *models.ViolationItem) error
	DeleteItem(ctx context.Context, id string) error
	DeleteItems(ctx context.Context, ids []string) error
	ListRecords(ctx context.Context, filter models.ViolationFilter) ([]models.ViolationRecord, int, error)
	ListAllRecords(ctx context.Context) ([]models.ViolationRecord, error)
	CreateRecord(ctx context.Context, record *models.ViolationRecord) error
}

type studentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// ViolationService manages the violation catalog and recorded incidents.
type ViolationService struct {
	repo      violationRepository
	students  studentLookup
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewViolationService constructs the service.
func NewViolationService(repo violationRepository, students studentLookup, validate *validator.Validate, logger *zap.Logger) *ViolationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViolationService{
		repo:      repo,
		students:  students,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ViolationItemRequest describes a catalog entry payload.
type ViolationItemRequest struct {
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=Ringan Sedang Berat"`
	Points      int    `json:"points" validate:"gte=0"`
}

// RecordViolationRequest describes an incident payload.
type RecordViolationRequest struct {
	StudentID       string `json:"studentId" validate:"required"`
	ViolationItemID string `json:"violationItemId" validate:"required"`
	Notes           string `json:"notes"`
	Reporter        string `json:"reporter" validate:"required"`
}

// ViolationListRequest describes filters for listing incidents.
type ViolationListRequest struct {
	ClassID     string
	StudentID   string
	Date        *time.Time
	Month       string
	StudentName string
	Page        int
	PageSize    int
}

// ListItems returns the violation catalog.
func (s *ViolationService) ListItems(ctx context.Context) ([]models.ViolationItem, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list violation items")
	}
	return items, nil
}

// CreateItem adds a catalog entry.
func (s *ViolationService) CreateItem(ctx context.Context, req ViolationItemRequest) (*models.ViolationItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	item := &models.ViolationItem{
		Description: req.Description,
		Category:    models.ViolationCategory(req.Category),
		Points:      req.Points,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create violation item")
	}
	return item, nil
}

// UpdateItem modifies a catalog entry.
func (s *ViolationService) UpdateItem(ctx context.Context, id string, req ViolationItemRequest) (*models.ViolationItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, err := s.repo.FindItemByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "violation item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load violation item")
	}
	item := &models.ViolationItem{
		ID:          id,
		Description: req.Description,
		Category:    models.ViolationCategory(req.Category),
		Points:      req.Points,
	}
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update violation item")
	}
	return item, nil
}

// DeleteItem removes a catalog entry. Existing incidents keep the dangling
// reference and aggregate to zero points.
func (s *ViolationService) DeleteItem(ctx context.Context, id string) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete violation item")
	}
	return nil
}

// DeleteItems removes a batch of catalog entries in one statement.
func (s *ViolationService) DeleteItems(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "at least one item id is required")
	}
	if err := s.repo.DeleteItems(ctx, ids); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete violation items")
	}
	s.logger.Info("violation items deleted", zap.Int("count", len(ids)))
	return nil
}

// ListRecords returns incidents with pagination.
func (s *ViolationService) ListRecords(ctx context.Context, req ViolationListRequest) ([]models.ViolationRecord, *models.Pagination, error) {
	filter := models.ViolationFilter{
		ClassID:     req.ClassID,
		StudentID:   req.StudentID,
		Date:        req.Date,
		Month:       req.Month,
		StudentName: req.StudentName,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	records, total, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list violation records")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return records, pagination, nil
}

// Record registers a new incident dated today.
func (s *ViolationService) Record(ctx context.Context, req RecordViolationRequest) (*models.ViolationRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	item, err := s.repo.FindItemByID(ctx, req.ViolationItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "violation item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load violation item")
	}

	record := &models.ViolationRecord{
		Date:            s.now(),
		StudentID:       req.StudentID,
		ViolationItemID: req.ViolationItemID,
		Notes:           req.Notes,
		Reporter:        req.Reporter,
	}
	if err := s.repo.CreateRecord(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record violation")
	}

	s.logger.Info("violation recorded",
		zap.String("student", student.FullName),
		zap.String("category", string(item.Category)),
		zap.Int("points", item.Points))
	return record, nil
}
