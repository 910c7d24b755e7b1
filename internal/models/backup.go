package models

import "time"

// BackupDocument is the full dataset serialized for download. Key names
// match the backup file format consumed by restore.
type BackupDocument struct {
	Teachers             []Teacher          `json:"teachers"`
	Subjects             []Subject          `json:"subjects"`
	Classes              []ClassRoom        `json:"classes"`
	Students             []Student          `json:"students"`
	Attendance           []AttendanceRecord `json:"attendance"`
	ViolationItems       []ViolationItem    `json:"violationItems"`
	ViolationRecords     []ViolationRecord  `json:"violationRecords"`
	Headmaster           *Principal         `json:"headmaster"`
	AdminCredentials     []Credential       `json:"adminCredentials"`
	ViolationCredentials []Credential       `json:"violationCredentials"`
	BackupDate           time.Time          `json:"backupDate"`
}

// RestoreDocument mirrors BackupDocument with pointer collections so absent
// keys can be told apart from empty ones: only present keys are replaced.
type RestoreDocument struct {
	Teachers             *[]Teacher          `json:"teachers"`
	Subjects             *[]Subject          `json:"subjects"`
	Classes              *[]ClassRoom        `json:"classes"`
	Students             *[]Student          `json:"students"`
	Attendance           *[]AttendanceRecord `json:"attendance"`
	ViolationItems       *[]ViolationItem    `json:"violationItems"`
	ViolationRecords     *[]ViolationRecord  `json:"violationRecords"`
	Headmaster           *Principal          `json:"headmaster"`
	AdminCredentials     *[]Credential       `json:"adminCredentials"`
	ViolationCredentials *[]Credential       `json:"violationCredentials"`
	BackupDate           *time.Time          `json:"backupDate"`
}

// ShapeValid reports whether the document carries the minimum collections a
// trusted backup always has.
func (d RestoreDocument) ShapeValid() bool {
	return d.Students != nil && d.Teachers != nil && d.Attendance != nil
}
