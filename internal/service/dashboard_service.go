package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sman1kwanyar/e-presensi-api/internal/dto"
	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
)

type violationAggregateRepository interface {
	ListAllRecords(ctx context.Context) ([]models.ViolationRecord, error)
	ListItems(ctx context.Context) ([]models.ViolationItem, error)
}

type teacherDirectory interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
}

// DashboardService aggregates the landing dashboard summary with a short
// cache in front of it.
type DashboardService struct {
	attendance attendanceRepository
	violations violationAggregateRepository
	students   studentReader
	teachers   teacherDirectory
	classes    classReader
	cache      *CacheService
	cacheTTL   time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(attendance attendanceRepository, violations violationAggregateRepository, students studentReader, teachers teacherDirectory, classes classReader, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{
		attendance: attendance,
		violations: violations,
		students:   students,
		teachers:   teachers,
		classes:    classes,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Summary assembles today's dashboard payload, serving from cache when
// possible.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	today := s.now()
	cacheKey := fmt.Sprintf("dashboard:summary:%s", today.Format("2006-01-02"))

	var cached dto.DashboardSummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	records, err := s.attendance.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	violations, err := s.violations.ListAllRecords(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load violation records")
	}
	items, err := s.violations.ListItems(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load violation items")
	}
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	classes, err := s.classes.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}

	dayKey := today.Format("2006-01-02")
	monthKey := today.Format("2006-01")

	var todayRecords []models.AttendanceRecord
	for _, record := range records {
		if record.DateKey() == dayKey {
			todayRecords = append(todayRecords, record)
		}
	}

	violationsToday := 0
	for _, record := range violations {
		if record.DateKey() == dayKey {
			violationsToday++
		}
	}

	todayTally := TallyEntries(todayRecords)
	summary := &dto.DashboardSummary{
		Date:            dayKey,
		StudentCount:    len(students),
		TeacherCount:    len(teachers),
		ClassCount:      len(classes),
		TodayTally:      todayTally,
		PresenceRate:    todayTally.PresenceRate(),
		ClassRates:      ClassPresenceRates(todayRecords, classes),
		ViolationsToday: violationsToday,
		ViolationRecap:  ClassViolationRecap(violations, students, classes, today),
		CategorySplit:   CategoryDistribution(violations, items, monthKey),
		GenderSplit:     GenderDistribution(violations, students, monthKey),
		TopPoints:       TopPointStudents(violations, items, students, classes, 10),
	}

	if err := s.cache.Set(ctx, cacheKey, summary, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
	}
	return summary, nil
}

// Discipline assembles the discipline-office dashboard payload, cached per
// day alongside the landing summary.
func (s *DashboardService) Discipline(ctx context.Context) (*dto.DisciplineSummary, error) {
	today := s.now()
	cacheKey := fmt.Sprintf("dashboard:discipline:%s", today.Format("2006-01-02"))

	var cached dto.DisciplineSummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	violations, err := s.violations.ListAllRecords(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load violation records")
	}
	items, err := s.violations.ListItems(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load violation items")
	}
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	classes, err := s.classes.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}

	dayKey := today.Format("2006-01-02")
	monthKey := today.Format("2006-01")

	incidentsToday := 0
	incidentsMonth := 0
	for _, record := range violations {
		if record.DateKey() == dayKey {
			incidentsToday++
		}
		if record.MonthKey() == monthKey {
			incidentsMonth++
		}
	}

	summary := &dto.DisciplineSummary{
		Month:          monthKey,
		IncidentsToday: incidentsToday,
		IncidentsMonth: incidentsMonth,
		ClassRecap:     ClassViolationRecap(violations, students, classes, today),
		CategorySplit:  CategoryDistribution(violations, items, monthKey),
		GenderSplit:    GenderDistribution(violations, students, monthKey),
		TopPoints:      TopPointStudents(violations, items, students, classes, 10),
	}

	if err := s.cache.Set(ctx, cacheKey, summary, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache discipline dashboard", zap.Error(err))
	}
	return summary, nil
}

// StudentRecap returns one student's per-status tally for a month.
func (s *DashboardService) StudentRecap(ctx context.Context, studentID, month string) (*dto.StatusTally, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be formatted YYYY-MM")
	}
	records, err := s.attendance.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	tally := StudentMonthlyTally(records, studentID, month)
	return &tally, nil
}
