package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
)

// AttendanceRepository manages persistence for session attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = "id, date, day_name, period, teacher_id, subject_id, class_id, grade, journal, entries, created_at"

// List returns attendance records matching the provided filters, newest first.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, filter.Date.Format("2006-01-02"))
	}
	if filter.Month != "" {
		conditions = append(conditions, fmt.Sprintf("to_char(date, 'YYYY-MM') = $%d", len(args)+1))
		args = append(args, filter.Month)
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM attendance_records WHERE %s ORDER BY date DESC, created_at DESC LIMIT %d OFFSET %d",
		attendanceColumns, where, size, offset)

	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM attendance_records WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return records, total, nil
}

// ListAll returns every attendance record, oldest first. Used by the
// aggregation engine and backup export.
func (r *AttendanceRepository) ListAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_records ORDER BY date ASC, created_at ASC", attendanceColumns)
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list all attendance: %w", err)
	}
	return records, nil
}

// ListRecent returns the newest records up to limit, used for the narrative
// insight slice.
func (r *AttendanceRepository) ListRecent(ctx context.Context, limit int) ([]models.AttendanceRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf("SELECT %s FROM attendance_records ORDER BY date DESC, created_at DESC LIMIT %d", attendanceColumns, limit)
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list recent attendance: %w", err)
	}
	return records, nil
}

// ExistsForSession reports whether a record already exists for the
// (date, teacher, class, subject) tuple.
func (r *AttendanceRepository) ExistsForSession(ctx context.Context, date time.Time, teacherID, classID, subjectID string) (bool, error) {
	const query = `SELECT 1 FROM attendance_records WHERE date = $1 AND teacher_id = $2 AND class_id = $3 AND subject_id = $4 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, date.Format("2006-01-02"), teacherID, classID, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check session: %w", err)
	}
	return true, nil
}

// Create inserts a new attendance record. Records are never updated.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance_records (id, date, day_name, period, teacher_id, subject_id, class_id, grade, journal, entries, created_at)
        VALUES (:id, :date, :day_name, :period, :teacher_id, :subject_id, :class_id, :grade, :journal, :entries, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}
