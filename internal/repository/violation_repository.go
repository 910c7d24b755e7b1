package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
)

// ViolationRepository manages persistence for the violation catalog and
// recorded incidents.
type ViolationRepository struct {
	db *sqlx.DB
}

// NewViolationRepository constructs a ViolationRepository.
func NewViolationRepository(db *sqlx.DB) *ViolationRepository {
	return &ViolationRepository{db: db}
}

// ListItems returns the full violation catalog ordered by category then points.
func (r *ViolationRepository) ListItems(ctx context.Context) ([]models.ViolationItem, error) {
	const query = `SELECT id, description, category, points FROM violation_items ORDER BY category ASC, points ASC, description ASC`
	var items []models.ViolationItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list violation items: %w", err)
	}
	return items, nil
}

// FindItemByID fetches a single catalog entry.
func (r *ViolationRepository) FindItemByID(ctx context.Context, id string) (*models.ViolationItem, error) {
	const query = `SELECT id, description, category, points FROM violation_items WHERE id = $1`
	var item models.ViolationItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new catalog entry.
func (r *ViolationRepository) CreateItem(ctx context.Context, item *models.ViolationItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	const query = `INSERT INTO violation_items (id, description, category, points) VALUES (:id, :description, :category, :points)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create violation item: %w", err)
	}
	return nil
}

// UpdateItem modifies an existing catalog entry.
func (r *ViolationRepository) UpdateItem(ctx context.Context, item *models.ViolationItem) error {
	const query = `UPDATE violation_items SET description = :description, category = :category, points = :points WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update violation item: %w", err)
	}
	return nil
}

// DeleteItem removes a catalog entry. Recorded incidents keep their item
// reference; lookups for a deleted item resolve to zero points.
func (r *ViolationRepository) DeleteItem(ctx context.Context, id string) error {
	const query = `DELETE FROM violation_items WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete violation item: %w", err)
	}
	return nil
}

// DeleteItems removes several catalog entries at once.
func (r *ViolationRepository) DeleteItems(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM violation_items WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("delete violation items: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("delete violation items: %w", err)
	}
	return nil
}

// ListRecords returns incident records matching the provided filters, newest first.
func (r *ViolationRepository) ListRecords(ctx context.Context, filter models.ViolationFilter) ([]models.ViolationRecord, int, error) {
	// LEFT JOIN so incidents survive the deletion of their student; class
	// and name filters must not swallow those orphaned rows.
	base := "FROM violation_records v LEFT JOIN students s ON s.id = v.student_id"
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("v.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("(s.id IS NULL OR s.class_id = $%d)", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("v.date = $%d", len(args)+1))
		args = append(args, filter.Date.Format("2006-01-02"))
	}
	if filter.Month != "" {
		conditions = append(conditions, fmt.Sprintf("to_char(v.date, 'YYYY-MM') = $%d", len(args)+1))
		args = append(args, filter.Month)
	}
	if filter.StudentName != "" {
		conditions = append(conditions, fmt.Sprintf("(s.id IS NULL OR LOWER(s.full_name) LIKE $%d)", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.StudentName)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT v.id, v.date, v.student_id, v.violation_item_id, v.notes, v.reporter, v.created_at
        %s ORDER BY v.date DESC, v.created_at DESC LIMIT %d OFFSET %d`, base, size, offset)

	var records []models.ViolationRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list violation records: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count violation records: %w", err)
	}
	return records, total, nil
}

// ListAllRecords returns every incident record, oldest first.
func (r *ViolationRepository) ListAllRecords(ctx context.Context) ([]models.ViolationRecord, error) {
	const query = `SELECT id, date, student_id, violation_item_id, notes, reporter, created_at FROM violation_records ORDER BY date ASC, created_at ASC`
	var records []models.ViolationRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list all violation records: %w", err)
	}
	return records, nil
}

// CreateRecord inserts a new incident record.
func (r *ViolationRepository) CreateRecord(ctx context.Context, record *models.ViolationRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO violation_records (id, date, student_id, violation_item_id, notes, reporter, created_at)
        VALUES (:id, :date, :student_id, :violation_item_id, :notes, :reporter, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create violation record: %w", err)
	}
	return nil
}
