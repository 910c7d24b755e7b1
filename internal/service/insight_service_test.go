package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
)

type mockRecentAttendance struct {
	records []models.AttendanceRecord
	limit   int
}

func (m *mockRecentAttendance) ListRecent(ctx context.Context, limit int) ([]models.AttendanceRecord, error) {
	m.limit = limit
	if len(m.records) > limit {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func insightRecords(n int) []models.AttendanceRecord {
	records := make([]models.AttendanceRecord, n)
	for i := range records {
		records[i] = models.AttendanceRecord{
			Date:    time.Date(2026, 8, 1+i%28, 0, 0, 0, 0, time.UTC),
			DayName: "Senin",
			ClassID: "c-1",
			Entries: models.StudentEntryList{{StudentID: "s-1", Status: models.AttendanceStatusHadir}},
		}
	}
	return records
}

func TestAttendanceInsight(t *testing.T) {
	var gotPath string
	var gotBody generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(generateResponse{
			Candidates: []struct {
				Content generateContent `json:"content"`
			}{
				{Content: generateContent{Parts: []generatePart{{Text: "Kehadiran stabil di atas 90%."}}}},
			},
		})
	}))
	defer server.Close()

	repo := &mockRecentAttendance{records: insightRecords(30)}
	svc := NewInsightService(repo, nil, InsightConfig{
		Enabled:     true,
		Endpoint:    server.URL,
		APIKey:      "test-key",
		Model:       "gemini-3-flash-preview",
		RecentLimit: 20,
	}, nil)

	text, err := svc.AttendanceInsight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Kehadiran stabil di atas 90%.", text)
	assert.Equal(t, 20, repo.limit)
	assert.Equal(t, "/v1beta/models/gemini-3-flash-preview:generateContent", gotPath)
	require.Len(t, gotBody.Contents, 1)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "SMAN 1 Kwanyar")
}

func TestAttendanceInsightFallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewInsightService(&mockRecentAttendance{records: insightRecords(3)}, nil, InsightConfig{
		Enabled:  true,
		Endpoint: server.URL,
		Model:    "gemini-3-flash-preview",
	}, nil)

	text, err := svc.AttendanceInsight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, InsightFallback, text)
}

func TestAttendanceInsightDisabled(t *testing.T) {
	svc := NewInsightService(&mockRecentAttendance{}, nil, InsightConfig{Enabled: false}, nil)

	text, err := svc.AttendanceInsight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, InsightFallback, text)
}
