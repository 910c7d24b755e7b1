package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
)

// SnapshotRepository reads and replaces whole collections for the backup and
// restore flows. Restore runs in a single transaction so a failed import
// never leaves the database partially replaced.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository constructs a SnapshotRepository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Export reads every collection into a BackupDocument. BackupDate is left
// for the caller to stamp.
func (r *SnapshotRepository) Export(ctx context.Context) (*models.BackupDocument, error) {
	doc := &models.BackupDocument{}

	if err := r.db.SelectContext(ctx, &doc.Teachers, fmt.Sprintf("SELECT %s FROM teachers ORDER BY full_name ASC", teacherColumns)); err != nil {
		return nil, fmt.Errorf("export teachers: %w", err)
	}
	if err := r.db.SelectContext(ctx, &doc.Subjects, "SELECT id, name FROM subjects ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("export subjects: %w", err)
	}
	if err := r.db.SelectContext(ctx, &doc.Classes, "SELECT id, name, grade FROM classes ORDER BY grade ASC, name ASC"); err != nil {
		return nil, fmt.Errorf("export classes: %w", err)
	}
	if err := r.db.SelectContext(ctx, &doc.Students, fmt.Sprintf("SELECT %s FROM students ORDER BY full_name ASC", studentColumns)); err != nil {
		return nil, fmt.Errorf("export students: %w", err)
	}
	if err := r.db.SelectContext(ctx, &doc.Attendance, fmt.Sprintf("SELECT %s FROM attendance_records ORDER BY date ASC, created_at ASC", attendanceColumns)); err != nil {
		return nil, fmt.Errorf("export attendance: %w", err)
	}
	if err := r.db.SelectContext(ctx, &doc.ViolationItems, "SELECT id, description, category, points FROM violation_items ORDER BY category ASC, points ASC, description ASC"); err != nil {
		return nil, fmt.Errorf("export violation items: %w", err)
	}
	if err := r.db.SelectContext(ctx, &doc.ViolationRecords, "SELECT id, date, student_id, violation_item_id, notes, reporter, created_at FROM violation_records ORDER BY date ASC, created_at ASC"); err != nil {
		return nil, fmt.Errorf("export violation records: %w", err)
	}

	var creds []models.Credential
	if err := r.db.SelectContext(ctx, &creds, "SELECT id, scope, username, password_hash FROM credentials ORDER BY scope ASC, username ASC"); err != nil {
		return nil, fmt.Errorf("export credentials: %w", err)
	}
	for _, cred := range creds {
		switch cred.Scope {
		case models.CredentialScopeAdmin:
			doc.AdminCredentials = append(doc.AdminCredentials, cred)
		case models.CredentialScopeDiscipline:
			doc.ViolationCredentials = append(doc.ViolationCredentials, cred)
		}
	}

	var principal models.Principal
	err := r.db.GetContext(ctx, &principal, "SELECT full_name, nip FROM principal WHERE id = 1")
	if err == nil {
		doc.Headmaster = &principal
	}

	return doc, nil
}

// Restore replaces every collection present in the document. Absent keys
// (nil slices) leave their collection untouched.
func (r *SnapshotRepository) Restore(ctx context.Context, doc *models.RestoreDocument) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin restore: %w", err)
	}
	defer tx.Rollback()

	if doc.Subjects != nil {
		if err := replaceCollection(ctx, tx, "subjects",
			"INSERT INTO subjects (id, name) VALUES (:id, :name)", *doc.Subjects); err != nil {
			return err
		}
	}
	if doc.Classes != nil {
		if err := replaceCollection(ctx, tx, "classes",
			"INSERT INTO classes (id, name, grade) VALUES (:id, :name, :grade)", *doc.Classes); err != nil {
			return err
		}
	}
	if doc.Teachers != nil {
		if err := replaceCollection(ctx, tx, "teachers",
			`INSERT INTO teachers (id, full_name, nip, subject_id, class_id, username, password_hash, created_at, updated_at)
            VALUES (:id, :full_name, :nip, :subject_id, :class_id, :username, :password_hash, :created_at, :updated_at)`, *doc.Teachers); err != nil {
			return err
		}
	}
	if doc.Students != nil {
		if err := replaceCollection(ctx, tx, "students",
			`INSERT INTO students (id, full_name, nis, class_id, gender, created_at, updated_at)
            VALUES (:id, :full_name, :nis, :class_id, :gender, :created_at, :updated_at)`, *doc.Students); err != nil {
			return err
		}
	}
	if doc.Attendance != nil {
		if err := replaceCollection(ctx, tx, "attendance_records",
			`INSERT INTO attendance_records (id, date, day_name, period, teacher_id, subject_id, class_id, grade, journal, entries, created_at)
            VALUES (:id, :date, :day_name, :period, :teacher_id, :subject_id, :class_id, :grade, :journal, :entries, :created_at)`, *doc.Attendance); err != nil {
			return err
		}
	}
	if doc.ViolationItems != nil {
		if err := replaceCollection(ctx, tx, "violation_items",
			"INSERT INTO violation_items (id, description, category, points) VALUES (:id, :description, :category, :points)", *doc.ViolationItems); err != nil {
			return err
		}
	}
	if doc.ViolationRecords != nil {
		if err := replaceCollection(ctx, tx, "violation_records",
			`INSERT INTO violation_records (id, date, student_id, violation_item_id, notes, reporter, created_at)
            VALUES (:id, :date, :student_id, :violation_item_id, :notes, :reporter, :created_at)`, *doc.ViolationRecords); err != nil {
			return err
		}
	}
	if doc.AdminCredentials != nil {
		if err := restoreCredentials(ctx, tx, models.CredentialScopeAdmin, *doc.AdminCredentials); err != nil {
			return err
		}
	}
	if doc.ViolationCredentials != nil {
		if err := restoreCredentials(ctx, tx, models.CredentialScopeDiscipline, *doc.ViolationCredentials); err != nil {
			return err
		}
	}
	if doc.Headmaster != nil {
		const query = `INSERT INTO principal (id, full_name, nip) VALUES (1, $1, $2)
            ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, nip = EXCLUDED.nip`
		if _, err := tx.ExecContext(ctx, query, doc.Headmaster.FullName, doc.Headmaster.NIP); err != nil {
			return fmt.Errorf("restore principal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit restore: %w", err)
	}
	return nil
}

func replaceCollection[T any](ctx context.Context, tx *sqlx.Tx, table, insert string, rows []T) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for i := range rows {
		if _, err := tx.NamedExecContext(ctx, insert, rows[i]); err != nil {
			return fmt.Errorf("restore %s: %w", table, err)
		}
	}
	return nil
}

func restoreCredentials(ctx context.Context, tx *sqlx.Tx, scope models.CredentialScope, creds []models.Credential) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM credentials WHERE scope = $1", scope); err != nil {
		return fmt.Errorf("clear %s credentials: %w", scope, err)
	}
	for i := range creds {
		creds[i].Scope = scope
		const query = `INSERT INTO credentials (id, scope, username, password_hash) VALUES (:id, :scope, :username, :password_hash)`
		if _, err := tx.NamedExecContext(ctx, query, creds[i]); err != nil {
			return fmt.Errorf("restore %s credentials: %w", scope, err)
		}
	}
	return nil
}
