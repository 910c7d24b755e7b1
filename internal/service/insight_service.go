package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
)

// InsightFallback is returned whenever the language model cannot be reached
// or answers with garbage, so the dashboard always has something to show.
const InsightFallback = "Gagal memuat analisis AI saat ini."

// InsightConfig wires the generative language endpoint.
type InsightConfig struct {
	Enabled     bool
	Endpoint    string
	APIKey      string
	Model       string
	Timeout     time.Duration
	CacheTTL    time.Duration
	RecentLimit int
}

type recentAttendanceRepository interface {
	ListRecent(ctx context.Context, limit int) ([]models.AttendanceRecord, error)
}

// InsightService asks a generative language model for a short narrative
// reading of recent attendance and caches the answer.
type InsightService struct {
	attendance recentAttendanceRepository
	cache      *CacheService
	client     *http.Client
	config     InsightConfig
	logger     *zap.Logger
}

// NewInsightService constructs the service.
func NewInsightService(attendance recentAttendanceRepository, cache *CacheService, config InsightConfig, logger *zap.Logger) *InsightService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 30 * time.Minute
	}
	if config.RecentLimit <= 0 {
		config.RecentLimit = 20
	}
	return &InsightService{
		attendance: attendance,
		cache:      cache,
		client:     &http.Client{Timeout: config.Timeout},
		config:     config,
		logger:     logger,
	}
}

// AttendanceInsight summarises the most recent attendance records in
// Indonesian. Failures degrade to a static placeholder rather than an error.
func (s *InsightService) AttendanceInsight(ctx context.Context) (string, error) {
	if !s.config.Enabled || s.config.Endpoint == "" {
		return InsightFallback, nil
	}

	const cacheKey = "insight:attendance"
	var cached string
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	records, err := s.attendance.ListRecent(ctx, s.config.RecentLimit)
	if err != nil {
		s.logger.Warn("failed to load recent attendance for insight", zap.Error(err))
		return InsightFallback, nil
	}

	stats := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		tally := TallyEntries([]models.AttendanceRecord{record})
		stats = append(stats, map[string]interface{}{
			"tanggal":    record.DateKey(),
			"hari":       record.DayName,
			"kelas":      record.ClassID,
			"hadir":      tally.Hadir,
			"izin":       tally.Izin,
			"sakit":      tally.Sakit,
			"dispensasi": tally.Dispensasi,
			"alpa":       tally.Alpa,
		})
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return InsightFallback, nil
	}

	prompt := fmt.Sprintf("Analisis data kehadiran sekolah SMAN 1 Kwanyar berikut: %s. "+
		"Berikan ringkasan dalam 3 poin: 1. Tingkat kehadiran rata-rata, "+
		"2. Identifikasi masalah (jika ada siswa/kelas yang sering absen), dan "+
		"3. Saran tindakan untuk guru. Jawab dalam Bahasa Indonesia yang profesional.", statsJSON)

	text, err := s.generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("insight request failed", zap.Error(err))
		return InsightFallback, nil
	}

	if err := s.cache.Set(ctx, cacheKey, text, s.config.CacheTTL); err != nil {
		s.logger.Warn("failed to cache insight", zap.Error(err))
	}
	return text, nil
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

func (s *InsightService) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal insight request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", s.config.Endpoint, s.config.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build insight request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call insight endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("insight endpoint returned %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode insight response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("insight response is empty")
	}
	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("insight response is empty")
	}
	return text, nil
}
