package dto

// ReportRequest captures query parameters for report rendering.
type ReportRequest struct {
	Kind    string `form:"kind"`
	ClassID string `form:"classId"`
	Date    string `form:"date"`
	Month   string `form:"month"`
	Format  string `form:"format"`
}

// ReportRow is one student line in an attendance report table.
type ReportRow struct {
	Number      int    `json:"no"`
	StudentName string `json:"studentName"`
	NIS         string `json:"nis"`
	Gender      string `json:"gender"`
	Hadir       int    `json:"hadir"`
	Izin        int    `json:"izin"`
	Sakit       int    `json:"sakit"`
	Dispensasi  int    `json:"dispensasi"`
	Alpa        int    `json:"alpa"`
	Presence    int    `json:"presence"`
}

// Report is a fully assembled report ready for rendering.
type Report struct {
	Title     string      `json:"title"`
	Subtitle  string      `json:"subtitle"`
	Rows      []ReportRow `json:"rows"`
	Summary   StatusTally `json:"summary"`
	Signature []string    `json:"signature"`
}

// ViolationReportRow is one incident line in a discipline report.
type ViolationReportRow struct {
	Number      int    `json:"no"`
	Date        string `json:"date"`
	StudentName string `json:"studentName"`
	ClassName   string `json:"className"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Points      int    `json:"points"`
	Reporter    string `json:"reporter"`
}
