package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
)

// CredentialRepository manages login credentials for the admin and
// discipline desks. Each scope can hold several accounts.
type CredentialRepository struct {
	db *sqlx.DB
}

// NewCredentialRepository constructs a CredentialRepository.
func NewCredentialRepository(db *sqlx.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// ListByScope returns all credentials belonging to a scope.
func (r *CredentialRepository) ListByScope(ctx context.Context, scope models.CredentialScope) ([]models.Credential, error) {
	const query = `SELECT id, scope, username, password_hash FROM credentials WHERE scope = $1 ORDER BY username ASC`
	var creds []models.Credential
	if err := r.db.SelectContext(ctx, &creds, query, scope); err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	return creds, nil
}

// ListAll returns every credential across scopes.
func (r *CredentialRepository) ListAll(ctx context.Context) ([]models.Credential, error) {
	const query = `SELECT id, scope, username, password_hash FROM credentials ORDER BY scope ASC, username ASC`
	var creds []models.Credential
	if err := r.db.SelectContext(ctx, &creds, query); err != nil {
		return nil, fmt.Errorf("list all credentials: %w", err)
	}
	return creds, nil
}

// FindByUsername fetches a credential within a scope by username.
func (r *CredentialRepository) FindByUsername(ctx context.Context, scope models.CredentialScope, username string) (*models.Credential, error) {
	const query = `SELECT id, scope, username, password_hash FROM credentials WHERE scope = $1 AND username = $2`
	var cred models.Credential
	if err := r.db.GetContext(ctx, &cred, query, scope, username); err != nil {
		return nil, err
	}
	return &cred, nil
}

// Create inserts a new credential.
func (r *CredentialRepository) Create(ctx context.Context, cred *models.Credential) error {
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}
	const query = `INSERT INTO credentials (id, scope, username, password_hash) VALUES (:id, :scope, :username, :password_hash)`
	if _, err := r.db.NamedExecContext(ctx, query, cred); err != nil {
		return fmt.Errorf("create credential: %w", err)
	}
	return nil
}

// Update modifies an existing credential.
func (r *CredentialRepository) Update(ctx context.Context, cred *models.Credential) error {
	const query = `UPDATE credentials SET username = :username, password_hash = :password_hash WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, cred); err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	return nil
}

// Delete removes a credential.
func (r *CredentialRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM credentials WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
