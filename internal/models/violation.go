package models

import "time"

// ViolationCategory grades the severity of a violation item.
type ViolationCategory string

const (
	ViolationCategoryRingan ViolationCategory = "Ringan"
	ViolationCategorySedang ViolationCategory = "Sedang"
	ViolationCategoryBerat  ViolationCategory = "Berat"
)

// AllViolationCategories returns the categories in severity order.
func AllViolationCategories() []ViolationCategory {
	return []ViolationCategory{ViolationCategoryRingan, ViolationCategorySedang, ViolationCategoryBerat}
}

// Valid returns true when the category is a supported value.
func (c ViolationCategory) Valid() bool {
	switch c {
	case ViolationCategoryRingan, ViolationCategorySedang, ViolationCategoryBerat:
		return true
	default:
		return false
	}
}

// ViolationItem is discipline-office reference data: a rule with a point weight.
type ViolationItem struct {
	ID          string            `db:"id" json:"id"`
	Description string            `db:"description" json:"description"`
	Category    ViolationCategory `db:"category" json:"category"`
	Points      int               `db:"points" json:"points"`
}

// ViolationRecord is one reported incident. Records are immutable after
// creation; multiple incidents per student per day are allowed.
type ViolationRecord struct {
	ID              string    `db:"id" json:"id"`
	Date            time.Time `db:"date" json:"date"`
	StudentID       string    `db:"student_id" json:"student_id"`
	ViolationItemID string    `db:"violation_item_id" json:"violation_item_id"`
	Notes           string    `db:"notes" json:"notes"`
	Reporter        string    `db:"reporter" json:"reporter"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// DateKey returns the record date in YYYY-MM-DD form.
func (r ViolationRecord) DateKey() string {
	return r.Date.Format("2006-01-02")
}

// MonthKey returns the record month in YYYY-MM form.
func (r ViolationRecord) MonthKey() string {
	return r.Date.Format("2006-01")
}

// ViolationFilter scopes incident listings.
type ViolationFilter struct {
	ClassID     string
	StudentID   string
	Date        *time.Time
	Month       string // YYYY-MM
	StudentName string // substring match for the history view
	Page        int
	PageSize    int
}
