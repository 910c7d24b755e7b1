package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
)

type mockSnapshotRepo struct {
	doc      *models.BackupDocument
	restored *models.RestoreDocument
}

func (m *mockSnapshotRepo) Export(ctx context.Context) (*models.BackupDocument, error) {
	return m.doc, nil
}

func (m *mockSnapshotRepo) Restore(ctx context.Context, doc *models.RestoreDocument) error {
	m.restored = doc
	return nil
}

func newBackupFixture() (*BackupService, *mockSnapshotRepo) {
	username := "pakbudi"
	hash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	snapshots := &mockSnapshotRepo{doc: &models.BackupDocument{
		Teachers:   []models.Teacher{{ID: "t-1", FullName: "Pak Budi", Username: &username, PasswordHash: &hash}},
		Students:   []models.Student{{ID: "s-1", FullName: "Andi Saputra", ClassID: "c-1"}},
		Attendance: []models.AttendanceRecord{{ID: "rec-1", ClassID: "c-1"}},
	}}
	svc := NewBackupService(snapshots, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC) }
	return svc, snapshots
}

func TestBackupExportStampsDate(t *testing.T) {
	svc, _ := newBackupFixture()

	doc, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC), doc.BackupDate)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"backupDate":"2026-09-01T06:00:00Z"`)
}

func TestBackupRoundTrip(t *testing.T) {
	svc, snapshots := newBackupFixture()

	doc, err := svc.Export(context.Background())
	require.NoError(t, err)
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	require.NoError(t, svc.Restore(context.Background(), raw, true))
	require.NotNil(t, snapshots.restored)
	require.NotNil(t, snapshots.restored.Students)
	assert.Len(t, *snapshots.restored.Students, 1)
	require.NotNil(t, snapshots.restored.Attendance)
	assert.Len(t, *snapshots.restored.Attendance, 1)
}

// A teacher with a login account must come back from a restore with the same
// bcrypt hash the export carried.
func TestBackupRoundTripKeepsTeacherLogin(t *testing.T) {
	svc, snapshots := newBackupFixture()

	doc, err := svc.Export(context.Background())
	require.NoError(t, err)
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"password":"$2a$10$`)

	require.NoError(t, svc.Restore(context.Background(), raw, true))
	require.NotNil(t, snapshots.restored)
	require.NotNil(t, snapshots.restored.Teachers)
	teachers := *snapshots.restored.Teachers
	require.Len(t, teachers, 1)
	require.NotNil(t, teachers[0].Username)
	assert.Equal(t, "pakbudi", *teachers[0].Username)
	require.NotNil(t, teachers[0].PasswordHash)
	assert.Equal(t, *snapshots.doc.Teachers[0].PasswordHash, *teachers[0].PasswordHash)
}

func TestBackupRestoreRejectsCorruptFile(t *testing.T) {
	svc, snapshots := newBackupFixture()

	err := svc.Restore(context.Background(), []byte("{not json"), true)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "corrupt")
	assert.Nil(t, snapshots.restored)
}

func TestBackupRestoreRejectsWrongShape(t *testing.T) {
	svc, snapshots := newBackupFixture()

	// Valid JSON but missing the students/teachers/attendance keys.
	err := svc.Restore(context.Background(), []byte(`{"subjects":[]}`), true)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "invalid backup format")
	assert.Nil(t, snapshots.restored)
}

func TestBackupRestoreRequiresConfirmation(t *testing.T) {
	svc, snapshots := newBackupFixture()

	err := svc.Restore(context.Background(), []byte(`{}`), false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, snapshots.restored)
}

func TestBackupRestorePartialKeys(t *testing.T) {
	svc, snapshots := newBackupFixture()

	raw := []byte(`{
        "students": [{"id":"s-9","full_name":"Citra Dewi","nis":"2024009","class_id":"c-1","gender":"P"}],
        "teachers": [],
        "attendance": []
    }`)
	require.NoError(t, svc.Restore(context.Background(), raw, true))
	require.NotNil(t, snapshots.restored)
	assert.Nil(t, snapshots.restored.Subjects)
	assert.Nil(t, snapshots.restored.Classes)
	require.NotNil(t, snapshots.restored.Students)
	assert.Len(t, *snapshots.restored.Students, 1)
	assert.Len(t, *snapshots.restored.Teachers, 0)
}
