package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sman1kwanyar/e-presensi-api/internal/dto"
	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
	"github.com/sman1kwanyar/e-presensi-api/pkg/export"
)

// monthNamesID holds Indonesian month names, indexed by time.Month.
var monthNamesID = [13]string{"", "Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember"}

// FormatDateID renders a date as "2 Agustus 2026".
func FormatDateID(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNamesID[t.Month()], t.Year())
}

// FormatMonthID renders a "2006-01" key as "Agustus 2026".
func FormatMonthID(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return fmt.Sprintf("%s %d", monthNamesID[t.Month()], t.Year())
}

// Report kinds accepted by the renderer.
const (
	ReportKindDaily   = "daily"
	ReportKindMonthly = "monthly"
)

type principalLookup interface {
	Get(ctx context.Context) (*models.Principal, error)
}

type studentReader interface {
	ListByClass(ctx context.Context, classID string) ([]models.Student, error)
	ListAll(ctx context.Context) ([]models.Student, error)
}

type classReader interface {
	FindByID(ctx context.Context, id string) (*models.ClassRoom, error)
	ListAll(ctx context.Context) ([]models.ClassRoom, error)
}

type violationReportRepository interface {
	ListRecords(ctx context.Context, filter models.ViolationFilter) ([]models.ViolationRecord, int, error)
	ListItems(ctx context.Context) ([]models.ViolationItem, error)
}

// ReportService assembles attendance and discipline reports and renders
// them as CSV or PDF downloads.
type ReportService struct {
	attendance attendanceRepository
	violations violationReportRepository
	students   studentReader
	classes    classReader
	principal  principalLookup
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	schoolName string
	maxRows    int
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService constructs the service.
func NewReportService(attendance attendanceRepository, violations violationReportRepository, students studentReader, classes classReader, principal principalLookup, schoolName string, maxRows int, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRows <= 0 {
		maxRows = 5000
	}
	return &ReportService{
		attendance: attendance,
		violations: violations,
		students:   students,
		classes:    classes,
		principal:  principal,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		schoolName: schoolName,
		maxRows:    maxRows,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// BuildAttendanceReport assembles the per-student report for one class,
// covering a single day or a whole month depending on req.Kind.
func (s *ReportService) BuildAttendanceReport(ctx context.Context, req dto.ReportRequest) (*dto.Report, error) {
	class, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	filter := models.AttendanceFilter{ClassID: req.ClassID, Page: 1, PageSize: s.maxRows}
	var subtitle string
	switch req.Kind {
	case ReportKindDaily:
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
		}
		filter.Date = &date
		subtitle = fmt.Sprintf("Laporan Presensi Harian Kelas %s — %s, %s", class.Name, DayNameID(date), FormatDateID(date))
	case ReportKindMonthly:
		if _, err := time.Parse("2006-01", req.Month); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "month must be formatted YYYY-MM")
		}
		filter.Month = req.Month
		subtitle = fmt.Sprintf("Laporan Presensi Bulanan Kelas %s — %s", class.Name, FormatMonthID(req.Month))
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "kind must be daily or monthly")
	}

	records, _, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	roster, err := s.students.ListByClass(ctx, req.ClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}

	rows := make([]dto.ReportRow, 0, len(roster))
	for i, student := range roster {
		tally := dto.StatusTally{}
		for _, record := range records {
			for _, entry := range record.Entries {
				if entry.StudentID == student.ID {
					addStatus(&tally, entry.Status)
				}
			}
		}
		rows = append(rows, dto.ReportRow{
			Number:      i + 1,
			StudentName: student.FullName,
			NIS:         student.NIS,
			Gender:      string(student.Gender),
			Hadir:       tally.Hadir,
			Izin:        tally.Izin,
			Sakit:       tally.Sakit,
			Dispensasi:  tally.Dispensasi,
			Alpa:        tally.Alpa,
			Presence:    tally.PresenceRate(),
		})
	}

	report := &dto.Report{
		Title:     s.schoolName,
		Subtitle:  subtitle,
		Rows:      rows,
		Summary:   TallyEntries(records),
		Signature: s.signature(ctx),
	}
	return report, nil
}

// BuildViolationReport assembles the discipline incident table for a month,
// optionally narrowed to one class.
func (s *ReportService) BuildViolationReport(ctx context.Context, month, classID string) (*dto.Report, []dto.ViolationReportRow, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "month must be formatted YYYY-MM")
	}

	var className string
	if classID != "" {
		class, err := s.classes.FindByID(ctx, classID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
			}
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
		}
		className = class.Name
	}

	records, _, err := s.violations.ListRecords(ctx, models.ViolationFilter{ClassID: classID, Month: month, Page: 1, PageSize: s.maxRows})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load violation records")
	}
	items, err := s.violations.ListItems(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load violation items")
	}
	itemByID := make(map[string]models.ViolationItem, len(items))
	for _, item := range items {
		itemByID[item.ID] = item
	}

	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	classes, err := s.classes.ListAll(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	studentByID := make(map[string]models.Student, len(students))
	for _, student := range students {
		studentByID[student.ID] = student
	}
	classNames := make(map[string]string, len(classes))
	for _, class := range classes {
		classNames[class.ID] = class.Name
	}

	rows := make([]dto.ViolationReportRow, 0, len(records))
	for i, record := range records {
		row := dto.ViolationReportRow{
			Number:   i + 1,
			Date:     record.DateKey(),
			Reporter: record.Reporter,
		}
		if student, ok := studentByID[record.StudentID]; ok {
			row.StudentName = student.FullName
			row.ClassName = classNames[student.ClassID]
		} else {
			row.StudentName = "Siswa Dihapus"
		}
		if item, ok := itemByID[record.ViolationItemID]; ok {
			row.Description = item.Description
			row.Category = string(item.Category)
			row.Points = item.Points
		} else {
			row.Description = "(item dihapus)"
		}
		rows = append(rows, row)
	}

	subtitle := fmt.Sprintf("Rekap Pelanggaran — %s", FormatMonthID(month))
	if className != "" {
		subtitle = fmt.Sprintf("Rekap Pelanggaran Kelas %s — %s", className, FormatMonthID(month))
	}
	report := &dto.Report{
		Title:     s.schoolName,
		Subtitle:  subtitle,
		Signature: s.signature(ctx),
	}
	return report, rows, nil
}

// RenderAttendanceCSV renders the attendance report as CSV bytes.
func (s *ReportService) RenderAttendanceCSV(ctx context.Context, req dto.ReportRequest) ([]byte, string, error) {
	report, err := s.BuildAttendanceReport(ctx, req)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(attendanceDataset(report))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, reportFilename(req, "csv"), nil
}

// RenderAttendancePDF renders the attendance report as PDF bytes.
func (s *ReportService) RenderAttendancePDF(ctx context.Context, req dto.ReportRequest) ([]byte, string, error) {
	report, err := s.BuildAttendanceReport(ctx, req)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.pdf.Render(attendanceDataset(report))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return payload, reportFilename(req, "pdf"), nil
}

// RenderViolationCSV renders the discipline report as CSV bytes.
func (s *ReportService) RenderViolationCSV(ctx context.Context, month, classID string) ([]byte, string, error) {
	report, rows, err := s.BuildViolationReport(ctx, month, classID)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(violationDataset(report, rows))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, fmt.Sprintf("rekap-pelanggaran-%s.csv", month), nil
}

// RenderViolationPDF renders the discipline report as PDF bytes.
func (s *ReportService) RenderViolationPDF(ctx context.Context, month, classID string) ([]byte, string, error) {
	report, rows, err := s.BuildViolationReport(ctx, month, classID)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.pdf.Render(violationDataset(report, rows))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return payload, fmt.Sprintf("rekap-pelanggaran-%s.pdf", month), nil
}

// signature builds the letterhead signature block with the headmaster's
// name and the generation date. A missing principal row leaves a blank
// line to sign on.
func (s *ReportService) signature(ctx context.Context) []string {
	name := "................................"
	nip := "NIP. -"
	if s.principal != nil {
		if principal, err := s.principal.Get(ctx); err == nil {
			name = principal.FullName
			nip = "NIP. " + principal.NIP
		}
	}
	return []string{
		fmt.Sprintf("Kwanyar, %s", FormatDateID(s.now())),
		"Kepala Sekolah,",
		name,
		nip,
	}
}

func attendanceDataset(report *dto.Report) export.Dataset {
	headers := []string{"No", "Nama", "NIS", "L/P", "H", "I", "S", "D", "A", "% Hadir"}
	rows := make([]map[string]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, map[string]string{
			"No":      strconv.Itoa(row.Number),
			"Nama":    row.StudentName,
			"NIS":     row.NIS,
			"L/P":     row.Gender,
			"H":       strconv.Itoa(row.Hadir),
			"I":       strconv.Itoa(row.Izin),
			"S":       strconv.Itoa(row.Sakit),
			"D":       strconv.Itoa(row.Dispensasi),
			"A":       strconv.Itoa(row.Alpa),
			"% Hadir": strconv.Itoa(row.Presence),
		})
	}
	summary := []string{
		fmt.Sprintf("Hadir: %d, Izin: %d, Sakit: %d, Dispensasi: %d, Alpa: %d",
			report.Summary.Hadir, report.Summary.Izin, report.Summary.Sakit, report.Summary.Dispensasi, report.Summary.Alpa),
		fmt.Sprintf("Persentase kehadiran: %d%%", report.Summary.PresenceRate()),
	}
	return export.Dataset{
		Title:     report.Title,
		Subtitle:  report.Subtitle,
		Headers:   headers,
		Rows:      rows,
		Summary:   summary,
		Signature: report.Signature,
	}
}

func violationDataset(report *dto.Report, rows []dto.ViolationReportRow) export.Dataset {
	headers := []string{"No", "Tanggal", "Nama", "Kelas", "Pelanggaran", "Kategori", "Poin", "Pelapor"}
	out := make([]map[string]string, 0, len(rows))
	totalPoints := 0
	for _, row := range rows {
		totalPoints += row.Points
		out = append(out, map[string]string{
			"No":          strconv.Itoa(row.Number),
			"Tanggal":     row.Date,
			"Nama":        row.StudentName,
			"Kelas":       row.ClassName,
			"Pelanggaran": row.Description,
			"Kategori":    row.Category,
			"Poin":        strconv.Itoa(row.Points),
			"Pelapor":     row.Reporter,
		})
	}
	summary := []string{
		fmt.Sprintf("Total pelanggaran: %d", len(rows)),
		fmt.Sprintf("Total poin: %d", totalPoints),
	}
	return export.Dataset{
		Title:     report.Title,
		Subtitle:  report.Subtitle,
		Headers:   headers,
		Rows:      out,
		Summary:   summary,
		Signature: report.Signature,
	}
}

func reportFilename(req dto.ReportRequest, ext string) string {
	if req.Kind == ReportKindDaily {
		return fmt.Sprintf("presensi-harian-%s.%s", req.Date, ext)
	}
	return fmt.Sprintf("presensi-bulanan-%s.%s", req.Month, ext)
}
