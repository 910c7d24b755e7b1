package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
)

// dayNamesID maps time.Weekday to the Indonesian day name stamped on
// attendance records and report headers.
var dayNamesID = [7]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

// DayNameID returns the Indonesian day name for the given date.
func DayNameID(t time.Time) string {
	return dayNamesID[int(t.Weekday())]
}

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	ListAll(ctx context.Context) ([]models.AttendanceRecord, error)
	ExistsForSession(ctx context.Context, date time.Time, teacherID, classID, subjectID string) (bool, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
}

type rosterRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.Student, error)
}

type classLookup interface {
	FindByID(ctx context.Context, id string) (*models.ClassRoom, error)
}

type subjectLookup interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// AttendanceService records and lists session attendance.
type AttendanceService struct {
	repo      attendanceRepository
	roster    rosterRepository
	classes   classLookup
	subjects  subjectLookup
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs the service.
func NewAttendanceService(repo attendanceRepository, roster rosterRepository, classes classLookup, subjects subjectLookup, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		repo:      repo,
		roster:    roster,
		classes:   classes,
		subjects:  subjects,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SubmitEntry is one student's mark inside a submission.
type SubmitEntry struct {
	StudentID string `json:"studentId" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=H I S D A"`
}

// SubmitAttendanceRequest describes one teaching session's attendance.
type SubmitAttendanceRequest struct {
	TeacherID string        `json:"teacherId" validate:"required"`
	SubjectID string        `json:"subjectId" validate:"required"`
	ClassID   string        `json:"classId" validate:"required"`
	Period    string        `json:"period" validate:"required"`
	Journal   string        `json:"journal" validate:"required"`
	Entries   []SubmitEntry `json:"entries" validate:"dive"`
}

// ListRequest describes filters for listing attendance records.
type ListRequest struct {
	ClassID   string
	TeacherID string
	Date      *time.Time
	Month     string
	Page      int
	PageSize  int
}

// List returns attendance records with pagination.
func (s *AttendanceService) List(ctx context.Context, req ListRequest) ([]models.AttendanceRecord, *models.Pagination, error) {
	filter := models.AttendanceFilter{
		ClassID:   req.ClassID,
		TeacherID: req.TeacherID,
		Date:      req.Date,
		Month:     req.Month,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return records, pagination, nil
}

// Submit records one session's attendance for today. A class roster entry
// without an explicit mark defaults to Hadir; marks for students outside the
// roster are rejected. A second submission for the same
// (date, teacher, class, subject) tuple is refused.
func (s *AttendanceService) Submit(ctx context.Context, req SubmitAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	class, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	today := s.now()
	exists, err := s.repo.ExistsForSession(ctx, today, req.TeacherID, req.ClassID, req.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing session")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("attendance for %s in %s is already recorded today", subject.Name, class.Name))
	}

	roster, err := s.roster.ListByClass(ctx, req.ClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}
	enrolled := make(map[string]bool, len(roster))
	for _, student := range roster {
		enrolled[student.ID] = true
	}

	marks := make(map[string]models.AttendanceStatus, len(req.Entries))
	for _, e := range req.Entries {
		if !enrolled[e.StudentID] {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s is not enrolled in %s", e.StudentID, class.Name))
		}
		marks[e.StudentID] = models.AttendanceStatus(e.Status)
	}

	entries := make(models.StudentEntryList, 0, len(roster))
	for _, student := range roster {
		status, ok := marks[student.ID]
		if !ok {
			status = models.AttendanceStatusHadir
		}
		entries = append(entries, models.StudentEntry{StudentID: student.ID, Status: status})
	}

	record := &models.AttendanceRecord{
		Date:      today,
		DayName:   DayNameID(today),
		Period:    req.Period,
		TeacherID: req.TeacherID,
		SubjectID: req.SubjectID,
		ClassID:   req.ClassID,
		Grade:     class.Grade,
		Journal:   req.Journal,
		Entries:   entries,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}

	s.logger.Info("attendance recorded",
		zap.String("class", class.Name),
		zap.String("subject", subject.Name),
		zap.Int("entries", len(record.Entries)))
	return record, nil
}
