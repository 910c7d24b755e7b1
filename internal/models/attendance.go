package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AttendanceStatus represents the per-student status inside a session record.
type AttendanceStatus string

const (
	AttendanceStatusHadir      AttendanceStatus = "H"
	AttendanceStatusIzin       AttendanceStatus = "I"
	AttendanceStatusSakit      AttendanceStatus = "S"
	AttendanceStatusDispensasi AttendanceStatus = "D"
	AttendanceStatusAlpa       AttendanceStatus = "A"
)

// AllAttendanceStatuses returns the five statuses in display order.
func AllAttendanceStatuses() []AttendanceStatus {
	return []AttendanceStatus{
		AttendanceStatusHadir,
		AttendanceStatusIzin,
		AttendanceStatusSakit,
		AttendanceStatusDispensasi,
		AttendanceStatusAlpa,
	}
}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusHadir, AttendanceStatusIzin, AttendanceStatusSakit,
		AttendanceStatusDispensasi, AttendanceStatusAlpa:
		return true
	default:
		return false
	}
}

// Label returns the Indonesian display label for the status.
func (s AttendanceStatus) Label() string {
	switch s {
	case AttendanceStatusHadir:
		return "Hadir"
	case AttendanceStatusIzin:
		return "Izin"
	case AttendanceStatusSakit:
		return "Sakit"
	case AttendanceStatusDispensasi:
		return "Dispensasi"
	case AttendanceStatusAlpa:
		return "Alpa"
	default:
		return string(s)
	}
}

// StudentEntry is one student's status inside a session record.
type StudentEntry struct {
	StudentID string           `json:"student_id"`
	Status    AttendanceStatus `json:"status"`
}

// StudentEntryList is the ordered per-student status list, stored as a JSONB
// document column alongside the session row.
type StudentEntryList []StudentEntry

// Value implements driver.Valuer for JSONB storage.
func (l StudentEntryList) Value() (driver.Value, error) {
	if l == nil {
		l = StudentEntryList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB storage.
func (l *StudentEntryList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = StudentEntryList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported entry list source type %T", src)
	}
}

// AttendanceRecord is one submitted class session. Records are immutable
// after creation; there is at most one per (date, teacher, class, subject).
type AttendanceRecord struct {
	ID        string           `db:"id" json:"id"`
	Date      time.Time        `db:"date" json:"date"`
	DayName   string           `db:"day_name" json:"day_name"`
	Period    string           `db:"period" json:"period"`
	TeacherID string           `db:"teacher_id" json:"teacher_id"`
	SubjectID string           `db:"subject_id" json:"subject_id"`
	ClassID   string           `db:"class_id" json:"class_id"`
	Grade     GradeLevel       `db:"grade" json:"grade"`
	Journal   string           `db:"journal" json:"journal"`
	Entries   StudentEntryList `db:"entries" json:"entries"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// DateKey returns the record date in YYYY-MM-DD form.
func (r AttendanceRecord) DateKey() string {
	return r.Date.Format("2006-01-02")
}

// MonthKey returns the record month in YYYY-MM form.
func (r AttendanceRecord) MonthKey() string {
	return r.Date.Format("2006-01")
}

// AttendanceFilter scopes attendance listings and reports.
type AttendanceFilter struct {
	ClassID   string
	TeacherID string
	Date      *time.Time
	Month     string // YYYY-MM
	Page      int
	PageSize  int
}
