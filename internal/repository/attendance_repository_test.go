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

func newAttendanceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func attendanceRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "date", "day_name", "period", "teacher_id", "subject_id", "class_id", "grade", "journal", "entries", "created_at"}).
		AddRow("rec-1", time.Now(), "Senin", "1-2", "t-1", "sub-1", "c-1", "X", "Bab 1", []byte(`[{"studentId":"s-1","status":"H"}]`), time.Now())
}

func TestAttendanceRepositoryList(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, date, day_name, period, teacher_id, subject_id, class_id, grade, journal, entries, created_at FROM attendance_records WHERE 1=1 AND class_id = $1 ORDER BY date DESC, created_at DESC LIMIT 50 OFFSET 0")).
		WithArgs("c-1").
		WillReturnRows(attendanceRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM attendance_records WHERE 1=1 AND class_id = $1")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	records, total, err := repo.List(context.Background(), models.AttendanceFilter{ClassID: "c-1"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, models.AttendanceStatusHadir, records[0].Entries[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListMonthFilter(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("to_char(date, 'YYYY-MM') = $1")).
		WithArgs("2026-08").
		WillReturnRows(attendanceRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM attendance_records")).
		WithArgs("2026-08").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	records, total, err := repo.List(context.Background(), models.AttendanceFilter{Month: "2026-08"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryExistsForSession(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM attendance_records WHERE date = $1 AND teacher_id = $2 AND class_id = $3 AND subject_id = $4 LIMIT 1")).
		WithArgs("2026-08-17", "t-1", "c-1", "sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsForSession(context.Background(), date, "t-1", "c-1", "sub-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryExistsForSessionEmpty(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM attendance_records")).
		WithArgs("2026-08-17", "t-1", "c-1", "sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsForSession(context.Background(), date, "t-1", "c-1", "sub-1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance_records").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.AttendanceRecord{
		Date:      time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
		DayName:   "Senin",
		Period:    "3-4",
		TeacherID: "t-1",
		SubjectID: "sub-1",
		ClassID:   "c-1",
		Grade:     models.GradeX,
		Journal:   "Persamaan kuadrat",
		Entries:   models.StudentEntryList{{StudentID: "s-1", Status: models.AttendanceStatusHadir}},
	}
	err := repo.Create(context.Background(), record)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
