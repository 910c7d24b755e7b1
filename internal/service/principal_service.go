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

type principalRepository interface {
	Get(ctx context.Context) (*models.Principal, error)
	Upsert(ctx context.Context, principal *models.Principal) error
}

// PrincipalService manages the headmaster record shown on report
// letterheads.
type PrincipalService struct {
	repo      principalRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPrincipalService constructs the service.
func NewPrincipalService(repo principalRepository, validate *validator.Validate, logger *zap.Logger) *PrincipalService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrincipalService{repo: repo, validator: validate, logger: logger}
}

// PrincipalRequest describes the headmaster payload.
type PrincipalRequest struct {
	FullName string `json:"full_name" validate:"required"`
	NIP      string `json:"nip" validate:"required"`
}

// Get returns the headmaster record.
func (s *PrincipalService) Get(ctx context.Context) (*models.Principal, error) {
	principal, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "principal not set")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch principal")
	}
	return principal, nil
}

// Set replaces the headmaster record.
func (s *PrincipalService) Set(ctx context.Context, req PrincipalRequest) (*models.Principal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	principal := &models.Principal{FullName: req.FullName, NIP: req.NIP}
	if err := s.repo.Upsert(ctx, principal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save principal")
	}
	return principal, nil
}
