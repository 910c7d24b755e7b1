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

func newStudentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "full_name", "nis", "class_id", "gender", "created_at", "updated_at"}).
		AddRow("s-1", "Andi Saputra", "2024001", "c-1", "L", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, nis, class_id, gender, created_at, updated_at FROM students WHERE 1=1 AND class_id = $1 ORDER BY full_name ASC LIMIT 50 OFFSET 0")).
		WithArgs("c-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE 1=1 AND class_id = $1")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{ClassID: "c-1"})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{FullName: "Andi Saputra", NIS: "2024001", ClassID: "c-1", Gender: models.GenderL}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListByClass(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "full_name", "nis", "class_id", "gender", "created_at", "updated_at"}).
		AddRow("s-1", "Andi Saputra", "2024001", "c-1", "L", time.Now(), time.Now()).
		AddRow("s-2", "Bunga Lestari", "2024002", "c-1", "P", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE class_id = $1 ORDER BY full_name ASC")).
		WithArgs("c-1").
		WillReturnRows(rows)

	students, err := repo.ListByClass(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, models.GenderP, students[1].Gender)
	assert.NoError(t, mock.ExpectationsWereMet())
}
