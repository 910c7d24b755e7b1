package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
)

type classRepository interface {
	ListAll(ctx context.Context) ([]models.ClassRoom, error)
	FindByID(ctx context.Context, id string) (*models.ClassRoom, error)
	Create(ctx context.Context, class *models.ClassRoom) error
	Update(ctx context.Context, class *models.ClassRoom) error
	Delete(ctx context.Context, id string) error
}

// ClassService manages class rooms.
type ClassService struct {
	repo      classRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs the service.
func NewClassService(repo classRepository, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, validator: validate, logger: logger}
}

// ClassRequest describes a class create or update payload.
type ClassRequest struct {
	Name  string `json:"name" validate:"required"`
	Grade string `json:"grade" validate:"required,oneof=X XI XII"`
}

// List returns all classes.
func (s *ClassService) List(ctx context.Context) ([]models.ClassRoom, error) {
	classes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Get fetches one class.
func (s *ClassService) Get(ctx context.Context, id string) (*models.ClassRoom, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}
	return class, nil
}

// Create adds a class.
func (s *ClassService) Create(ctx context.Context, req ClassRequest) (*models.ClassRoom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	class := &models.ClassRoom{Name: req.Name, Grade: models.GradeLevel(req.Grade)}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// Update modifies a class.
func (s *ClassService) Update(ctx context.Context, id string, req ClassRequest) (*models.ClassRoom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	class := &models.ClassRoom{ID: id, Name: req.Name, Grade: models.GradeLevel(req.Grade)}
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	return nil
}
