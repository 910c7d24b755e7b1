package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
)

func newViolationMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestViolationRepositoryListItems(t *testing.T) {
	db, mock, cleanup := newViolationMock(t)
	defer cleanup()
	repo := NewViolationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "description", "category", "points"}).
		AddRow("v-1", "Terlambat masuk kelas", "Ringan", 5).
		AddRow("v-2", "Membawa rokok", "Berat", 50)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, description, category, points FROM violation_items ORDER BY category ASC, points ASC, description ASC")).
		WillReturnRows(rows)

	items, err := repo.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.ViolationCategoryRingan, items[0].Category)
	assert.Equal(t, 50, items[1].Points)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViolationRepositoryListRecordsByStudentName(t *testing.T) {
	db, mock, cleanup := newViolationMock(t)
	defer cleanup()
	repo := NewViolationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "date", "student_id", "violation_item_id", "notes", "reporter", "created_at"}).
		AddRow("r-1", time.Now(), "s-1", "v-1", "", "Pak Budi", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM violation_records v LEFT JOIN students s ON s.id = v.student_id WHERE 1=1 AND (s.id IS NULL OR LOWER(s.full_name) LIKE $1)")).
		WithArgs("%andi%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM violation_records v LEFT JOIN students s")).
		WithArgs("%andi%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	records, total, err := repo.ListRecords(context.Background(), models.ViolationFilter{StudentName: "Andi"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Incidents whose student row was deleted stay visible, even when the
// listing is filtered by class.
func TestViolationRepositoryListRecordsKeepsOrphanedStudents(t *testing.T) {
	db, mock, cleanup := newViolationMock(t)
	defer cleanup()
	repo := NewViolationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "date", "student_id", "violation_item_id", "notes", "reporter", "created_at"}).
		AddRow("r-1", time.Now(), "s-gone", "v-1", "", "Bu Sari", time.Now()).
		AddRow("r-2", time.Now(), "s-1", "v-1", "", "Pak Budi", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM violation_records v LEFT JOIN students s ON s.id = v.student_id WHERE 1=1 AND (s.id IS NULL OR s.class_id = $1)")).
		WithArgs("c-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM violation_records v LEFT JOIN students s")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	records, total, err := repo.ListRecords(context.Background(), models.ViolationFilter{ClassID: "c-1"})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, "s-gone", records[0].StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViolationRepositoryCreateRecord(t *testing.T) {
	db, mock, cleanup := newViolationMock(t)
	defer cleanup()
	repo := NewViolationRepository(db)

	mock.ExpectExec("INSERT INTO violation_records").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.ViolationRecord{
		Date:            time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
		StudentID:       "s-1",
		ViolationItemID: "v-1",
		Reporter:        "Bu Sari",
	}
	err := repo.CreateRecord(context.Background(), record)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViolationRepositoryDeleteItem(t *testing.T) {
	db, mock, cleanup := newViolationMock(t)
	defer cleanup()
	repo := NewViolationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM violation_items WHERE id = $1")).
		WithArgs("v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteItem(context.Background(), "v-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
