package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
)

type credentialRepository interface {
	ListByScope(ctx context.Context, scope models.CredentialScope) ([]models.Credential, error)
	FindByUsername(ctx context.Context, scope models.CredentialScope, username string) (*models.Credential, error)
	Create(ctx context.Context, cred *models.Credential) error
	Update(ctx context.Context, cred *models.Credential) error
	Delete(ctx context.Context, id string) error
}

type teacherAccountLookup interface {
	FindByUsername(ctx context.Context, username string) (*models.Teacher, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// scopeRoles maps a credential scope to the role its tokens carry.
var scopeRoles = map[models.CredentialScope]models.UserRole{
	models.CredentialScopeAdmin:      models.RoleAdmin,
	models.CredentialScopeDiscipline: models.RoleBK,
	models.CredentialScopeHeadmaster: models.RoleKepsek,
}

// AuthService authenticates the admin, discipline and headmaster desks plus
// teacher accounts, and manages the credential lists.
type AuthService struct {
	credentials credentialRepository
	teachers    teacherAccountLookup
	validator   *validator.Validate
	logger      *zap.Logger
	config      AuthConfig
	now         func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(credentials credentialRepository, teachers teacherAccountLookup, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Expiration <= 0 {
		config.Expiration = 12 * time.Hour
	}
	return &AuthService{
		credentials: credentials,
		teachers:    teachers,
		validator:   validate,
		logger:      logger,
		config:      config,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Login verifies a username and password against the credential lists and
// teacher accounts, returning a signed access token on success.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	for _, scope := range []models.CredentialScope{models.CredentialScopeAdmin, models.CredentialScopeDiscipline, models.CredentialScopeHeadmaster} {
		cred, err := s.credentials.FindByUsername(ctx, scope, req.Username)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch credential")
		}
		if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)) != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
		}
		return s.issueToken(cred.ID, cred.Username, scopeRoles[scope])
	}

	teacher, err := s.teachers.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch teacher account")
	}
	if teacher.PasswordHash == nil || bcrypt.CompareHashAndPassword([]byte(*teacher.PasswordHash), []byte(req.Password)) != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}
	return s.issueToken(teacher.ID, teacher.FullName, models.RoleGuru)
}

func (s *AuthService) issueToken(userID, fullName string, role models.UserRole) (*models.LoginResponse, error) {
	now := s.now()
	claims := models.JWTClaims{
		UserID:   userID,
		Role:     role,
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign access token")
	}
	return &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		UserID:      userID,
		FullName:    fullName,
		Role:        role,
	}, nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

// CredentialRequest describes a credential create or update payload.
type CredentialRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

// ListCredentials returns the credential list of a scope.
func (s *AuthService) ListCredentials(ctx context.Context, scope models.CredentialScope) ([]models.Credential, error) {
	if _, ok := scopeRoles[scope]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown credential scope")
	}
	creds, err := s.credentials.ListByScope(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list credentials")
	}
	return creds, nil
}

// CreateCredential adds a login to a scope with a hashed password.
func (s *AuthService) CreateCredential(ctx context.Context, scope models.CredentialScope, req CredentialRequest) (*models.Credential, error) {
	if _, ok := scopeRoles[scope]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown credential scope")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, err := s.credentials.FindByUsername(ctx, scope, req.Username); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	cred := &models.Credential{Scope: scope, Username: req.Username, PasswordHash: string(hash)}
	if err := s.credentials.Create(ctx, cred); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create credential")
	}
	return cred, nil
}

// UpdateCredential replaces a login's username and password.
func (s *AuthService) UpdateCredential(ctx context.Context, id string, req CredentialRequest) (*models.Credential, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	cred := &models.Credential{ID: id, Username: req.Username, PasswordHash: string(hash)}
	if err := s.credentials.Update(ctx, cred); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update credential")
	}
	return cred, nil
}

// DeleteCredential removes a login from its scope.
func (s *AuthService) DeleteCredential(ctx context.Context, id string) error {
	if err := s.credentials.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete credential")
	}
	return nil
}
