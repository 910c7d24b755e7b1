package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
)

// ClassRepository manages persistence for class rooms.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListAll returns every class ordered by grade then name.
func (r *ClassRepository) ListAll(ctx context.Context) ([]models.ClassRoom, error) {
	const query = `SELECT id, name, grade FROM classes ORDER BY grade ASC, name ASC`
	var classes []models.ClassRoom
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID fetches a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.ClassRoom, error) {
	const query = `SELECT id, name, grade FROM classes WHERE id = $1`
	var class models.ClassRoom
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.ClassRoom) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	const query = `INSERT INTO classes (id, name, grade) VALUES (:id, :name, :grade)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies an existing class.
func (r *ClassRepository) Update(ctx context.Context, class *models.ClassRoom) error {
	const query = `UPDATE classes SET name = :name, grade = :grade WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM classes WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}
