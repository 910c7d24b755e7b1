package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
)

func newSnapshotMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSnapshotRepositoryRestorePartial(t *testing.T) {
	db, mock, cleanup := newSnapshotMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	subjects := []models.Subject{{ID: "sub-1", Name: "Matematika"}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subjects")).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO subjects").
		WithArgs("sub-1", "Matematika").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	doc := &models.RestoreDocument{Subjects: &subjects}
	require.NoError(t, repo.Restore(context.Background(), doc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryRestoreRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newSnapshotMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	subjects := []models.Subject{{ID: "sub-1", Name: "Matematika"}}
	classes := []models.ClassRoom{{ID: "c-1", Name: "X-A", Grade: models.GradeX}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subjects")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO subjects").
		WithArgs("sub-1", "Matematika").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM classes")).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	doc := &models.RestoreDocument{Subjects: &subjects, Classes: &classes}
	err := repo.Restore(context.Background(), doc)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryRestoreCredentialsScoped(t *testing.T) {
	db, mock, cleanup := newSnapshotMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	admins := []models.Credential{{ID: "cr-1", Username: "admin", PasswordHash: "$2a$10$abc"}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM credentials WHERE scope = $1")).
		WithArgs(models.CredentialScopeAdmin).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO credentials").
		WithArgs("cr-1", string(models.CredentialScopeAdmin), "admin", "$2a$10$abc").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	doc := &models.RestoreDocument{AdminCredentials: &admins}
	require.NoError(t, repo.Restore(context.Background(), doc))
	assert.NoError(t, mock.ExpectationsWereMet())
}
