package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
)

type mockAttendanceRepo struct {
	records []models.AttendanceRecord
}

func (m *mockAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	return m.records, len(m.records), nil
}

func (m *mockAttendanceRepo) ListAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	return m.records, nil
}

func (m *mockAttendanceRepo) ExistsForSession(ctx context.Context, date time.Time, teacherID, classID, subjectID string) (bool, error) {
	key := date.Format("2006-01-02")
	for _, r := range m.records {
		if r.DateKey() == key && r.TeacherID == teacherID && r.ClassID == classID && r.SubjectID == subjectID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAttendanceRepo) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = "new-record"
	}
	m.records = append(m.records, *record)
	return nil
}

type mockRosterRepo struct {
	roster map[string][]models.Student
}

func (m *mockRosterRepo) ListByClass(ctx context.Context, classID string) ([]models.Student, error) {
	return m.roster[classID], nil
}

type mockClassLookup struct {
	classes map[string]models.ClassRoom
}

func (m *mockClassLookup) FindByID(ctx context.Context, id string) (*models.ClassRoom, error) {
	if c, ok := m.classes[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

type mockSubjectLookup struct {
	subjects map[string]models.Subject
}

func (m *mockSubjectLookup) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func newAttendanceFixture() (*AttendanceService, *mockAttendanceRepo) {
	repo := &mockAttendanceRepo{}
	roster := &mockRosterRepo{roster: map[string][]models.Student{
		"c-1": {
			{ID: "s-1", FullName: "Andi Saputra", ClassID: "c-1", Gender: models.GenderL},
			{ID: "s-2", FullName: "Bunga Lestari", ClassID: "c-1", Gender: models.GenderP},
			{ID: "s-3", FullName: "Citra Dewi", ClassID: "c-1", Gender: models.GenderP},
		},
	}}
	classes := &mockClassLookup{classes: map[string]models.ClassRoom{
		"c-1": {ID: "c-1", Name: "X-A", Grade: models.GradeX},
	}}
	subjects := &mockSubjectLookup{subjects: map[string]models.Subject{
		"sub-1": {ID: "sub-1", Name: "Matematika"},
	}}
	svc := NewAttendanceService(repo, roster, classes, subjects, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 17, 7, 30, 0, 0, time.UTC) }
	return svc, repo
}

func TestAttendanceSubmitDefaultsToHadir(t *testing.T) {
	svc, repo := newAttendanceFixture()

	record, err := svc.Submit(context.Background(), SubmitAttendanceRequest{
		TeacherID: "t-1",
		SubjectID: "sub-1",
		ClassID:   "c-1",
		Period:    "1-2",
		Journal:   "Persamaan linear",
		Entries:   []SubmitEntry{{StudentID: "s-2", Status: "S"}},
	})
	require.NoError(t, err)
	require.Len(t, repo.records, 1)

	byStudent := map[string]models.AttendanceStatus{}
	for _, e := range record.Entries {
		byStudent[e.StudentID] = e.Status
	}
	assert.Equal(t, models.AttendanceStatusHadir, byStudent["s-1"])
	assert.Equal(t, models.AttendanceStatusSakit, byStudent["s-2"])
	assert.Equal(t, models.AttendanceStatusHadir, byStudent["s-3"])
	assert.Equal(t, "Senin", record.DayName)
	assert.Equal(t, models.GradeX, record.Grade)
	assert.Equal(t, "2026-08-17", record.DateKey())
}

func TestAttendanceSubmitDuplicateLeavesCollectionUnchanged(t *testing.T) {
	svc, repo := newAttendanceFixture()

	req := SubmitAttendanceRequest{
		TeacherID: "t-1",
		SubjectID: "sub-1",
		ClassID:   "c-1",
		Period:    "1-2",
		Journal:   "Persamaan linear",
	}
	_, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Matematika")
	assert.Contains(t, appErr.Message, "X-A")
	assert.Len(t, repo.records, 1)
}

func TestAttendanceSubmitRejectsUnknownStudent(t *testing.T) {
	svc, repo := newAttendanceFixture()

	_, err := svc.Submit(context.Background(), SubmitAttendanceRequest{
		TeacherID: "t-1",
		SubjectID: "sub-1",
		ClassID:   "c-1",
		Period:    "1-2",
		Journal:   "Persamaan linear",
		Entries:   []SubmitEntry{{StudentID: "ghost", Status: "A"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.records)
}

func TestAttendanceSubmitRequiresJournal(t *testing.T) {
	svc, repo := newAttendanceFixture()

	_, err := svc.Submit(context.Background(), SubmitAttendanceRequest{
		TeacherID: "t-1",
		SubjectID: "sub-1",
		ClassID:   "c-1",
		Period:    "1-2",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.records)
}

func TestAttendanceSubmitTallyConservation(t *testing.T) {
	svc, _ := newAttendanceFixture()

	record, err := svc.Submit(context.Background(), SubmitAttendanceRequest{
		TeacherID: "t-1",
		SubjectID: "sub-1",
		ClassID:   "c-1",
		Period:    "3-4",
		Journal:   "Trigonometri",
		Entries: []SubmitEntry{
			{StudentID: "s-1", Status: "I"},
			{StudentID: "s-2", Status: "A"},
		},
	})
	require.NoError(t, err)

	tally := TallyEntries([]models.AttendanceRecord{*record})
	assert.Equal(t, 3, tally.Total)
	assert.Equal(t, tally.Hadir+tally.Izin+tally.Sakit+tally.Dispensasi+tally.Alpa, tally.Total)
}
