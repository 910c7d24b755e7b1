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

type mockViolationRepo struct {
	items   map[string]models.ViolationItem
	records []models.ViolationRecord
}

func (m *mockViolationRepo) ListItems(ctx context.Context) ([]models.ViolationItem, error) {
	out := make([]models.ViolationItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *mockViolationRepo) FindItemByID(ctx context.Context, id string) (*models.ViolationItem, error) {
	if item, ok := m.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockViolationRepo) CreateItem(ctx context.Context, item *models.ViolationItem) error {
	if m.items == nil {
		m.items = map[string]models.ViolationItem{}
	}
	if item.ID == "" {
		item.ID = "new-item"
	}
	m.items[item.ID] = *item
	return nil
}

func (m *mockViolationRepo) UpdateItem(ctx context.Context, item *models.ViolationItem) error {
	m.items[item.ID] = *item
	return nil
}

func (m *mockViolationRepo) DeleteItem(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockViolationRepo) DeleteItems(ctx context.Context, ids []string) error {
	for _, id := range ids {
		delete(m.items, id)
	}
	return nil
}

func (m *mockViolationRepo) ListRecords(ctx context.Context, filter models.ViolationFilter) ([]models.ViolationRecord, int, error) {
	return m.records, len(m.records), nil
}

func (m *mockViolationRepo) ListAllRecords(ctx context.Context) ([]models.ViolationRecord, error) {
	return m.records, nil
}

func (m *mockViolationRepo) CreateRecord(ctx context.Context, record *models.ViolationRecord) error {
	if record.ID == "" {
		record.ID = "new-record"
	}
	m.records = append(m.records, *record)
	return nil
}

type mockStudentLookup struct {
	students map[string]models.Student
}

func (m *mockStudentLookup) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func newViolationFixture() (*ViolationService, *mockViolationRepo) {
	repo := &mockViolationRepo{items: map[string]models.ViolationItem{
		"v-1": {ID: "v-1", Description: "Terlambat masuk kelas", Category: models.ViolationCategoryRingan, Points: 5},
	}}
	students := &mockStudentLookup{students: map[string]models.Student{
		"s-1": {ID: "s-1", FullName: "Andi Saputra", ClassID: "c-1"},
	}}
	svc := NewViolationService(repo, students, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 17, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestViolationRecord(t *testing.T) {
	svc, repo := newViolationFixture()

	record, err := svc.Record(context.Background(), RecordViolationRequest{
		StudentID:       "s-1",
		ViolationItemID: "v-1",
		Notes:           "Terlambat 15 menit",
		Reporter:        "Pak Budi",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-08-17", record.DateKey())
	assert.Len(t, repo.records, 1)
}

func TestViolationRecordUnknownStudent(t *testing.T) {
	svc, repo := newViolationFixture()

	_, err := svc.Record(context.Background(), RecordViolationRequest{
		StudentID:       "ghost",
		ViolationItemID: "v-1",
		Reporter:        "Pak Budi",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.records)
}

func TestViolationRecordUnknownItem(t *testing.T) {
	svc, repo := newViolationFixture()

	_, err := svc.Record(context.Background(), RecordViolationRequest{
		StudentID:       "s-1",
		ViolationItemID: "deleted",
		Reporter:        "Pak Budi",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.records)
}

func TestViolationItemValidation(t *testing.T) {
	svc, _ := newViolationFixture()

	_, err := svc.CreateItem(context.Background(), ViolationItemRequest{
		Description: "Merokok di lingkungan sekolah",
		Category:    "Fatal",
		Points:      50,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestViolationItemUpdateNotFound(t *testing.T) {
	svc, _ := newViolationFixture()

	_, err := svc.UpdateItem(context.Background(), "missing", ViolationItemRequest{
		Description: "Atribut tidak lengkap",
		Category:    "Ringan",
		Points:      2,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestViolationItemBulkDelete(t *testing.T) {
	svc, repo := newViolationFixture()
	repo.items["v-2"] = models.ViolationItem{ID: "v-2", Description: "Atribut tidak lengkap", Category: models.ViolationCategoryRingan, Points: 2}

	err := svc.DeleteItems(context.Background(), []string{"v-1", "v-2"})
	require.NoError(t, err)
	assert.Empty(t, repo.items)
}

func TestViolationItemBulkDeleteRequiresIDs(t *testing.T) {
	svc, _ := newViolationFixture()

	err := svc.DeleteItems(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
