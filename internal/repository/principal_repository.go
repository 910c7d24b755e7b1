package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
)

// PrincipalRepository manages the single headmaster record used in report
// letterheads and signature blocks.
type PrincipalRepository struct {
	db *sqlx.DB
}

// NewPrincipalRepository constructs a PrincipalRepository.
func NewPrincipalRepository(db *sqlx.DB) *PrincipalRepository {
	return &PrincipalRepository{db: db}
}

// Get returns the headmaster record. The table holds a single row.
func (r *PrincipalRepository) Get(ctx context.Context) (*models.Principal, error) {
	const query = `SELECT full_name, nip FROM principal WHERE id = 1`
	var principal models.Principal
	if err := r.db.GetContext(ctx, &principal, query); err != nil {
		return nil, err
	}
	return &principal, nil
}

// Upsert replaces the headmaster record.
func (r *PrincipalRepository) Upsert(ctx context.Context, principal *models.Principal) error {
	const query = `INSERT INTO principal (id, full_name, nip) VALUES (1, $1, $2)
        ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, nip = EXCLUDED.nip`
	if _, err := r.db.ExecContext(ctx, query, principal.FullName, principal.NIP); err != nil {
		return fmt.Errorf("upsert principal: %w", err)
	}
	return nil
}
