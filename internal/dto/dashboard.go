package dto

import "github.com/sman1kwanyar/e-presensi-api/internal/models"

// StatusTally counts per-status marks across a set of attendance entries.
type StatusTally struct {
	Hadir      int `json:"hadir"`
	Izin       int `json:"izin"`
	Sakit      int `json:"sakit"`
	Dispensasi int `json:"dispensasi"`
	Alpa       int `json:"alpa"`
	Total      int `json:"total"`
}

// PresenceRate returns hadir over total as a whole-number percentage,
// rounded half up. Zero entries yield zero.
func (t StatusTally) PresenceRate() int {
	if t.Total == 0 {
		return 0
	}
	return int(float64(t.Hadir)/float64(t.Total)*100 + 0.5)
}

// ClassPresenceRate pairs a class with its presence percentage.
type ClassPresenceRate struct {
	ClassID      string            `json:"classId"`
	ClassName    string            `json:"className"`
	Grade        models.GradeLevel `json:"grade"`
	Tally        StatusTally       `json:"tally"`
	PresenceRate int               `json:"presenceRate"`
}

// ClassViolationRecap counts incidents per class for today and the
// current month.
type ClassViolationRecap struct {
	ClassID   string            `json:"classId"`
	ClassName string            `json:"className"`
	Grade     models.GradeLevel `json:"grade"`
	Today     int               `json:"today"`
	Month     int               `json:"month"`
}

// CategoryCount pairs a violation category with its incident count.
type CategoryCount struct {
	Category models.ViolationCategory `json:"category"`
	Count    int                      `json:"count"`
}

// GenderCount splits incident counts by student gender.
type GenderCount struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

// StudentPointTotal is the accumulated violation points of one student.
type StudentPointTotal struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	ClassName   string `json:"className"`
	Points      int    `json:"points"`
	Incidents   int    `json:"incidents"`
}

// DisciplineSummary is the aggregate payload behind the discipline-office
// dashboard.
type DisciplineSummary struct {
	Month          string                `json:"month"`
	IncidentsToday int                   `json:"incidentsToday"`
	IncidentsMonth int                   `json:"incidentsMonth"`
	ClassRecap     []ClassViolationRecap `json:"classRecap"`
	CategorySplit  []CategoryCount       `json:"categorySplit"`
	GenderSplit    GenderCount           `json:"genderSplit"`
	TopPoints      []StudentPointTotal   `json:"topPoints"`
}

// DashboardSummary is the aggregate payload behind the landing dashboard.
type DashboardSummary struct {
	Date            string                `json:"date"`
	StudentCount    int                   `json:"studentCount"`
	TeacherCount    int                   `json:"teacherCount"`
	ClassCount      int                   `json:"classCount"`
	TodayTally      StatusTally           `json:"todayTally"`
	PresenceRate    int                   `json:"presenceRate"`
	ClassRates      []ClassPresenceRate   `json:"classRates"`
	ViolationsToday int                   `json:"violationsToday"`
	ViolationRecap  []ClassViolationRecap `json:"violationRecap"`
	CategorySplit   []CategoryCount       `json:"categorySplit"`
	GenderSplit     GenderCount           `json:"genderSplit"`
	TopPoints       []StudentPointTotal   `json:"topPoints"`
}
