package models

import "time"

// Gender is the student gender tag (L = laki-laki, P = perempuan).
type Gender string

const (
	GenderL Gender = "L"
	GenderP Gender = "P"
)

// Valid returns true when the gender is a supported value.
func (g Gender) Valid() bool {
	return g == GenderL || g == GenderP
}

// Student is one enrolled student.
type Student struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	NIS       string    `db:"nis" json:"nis"`
	ClassID   string    `db:"class_id" json:"class_id"`
	Gender    Gender    `db:"gender" json:"gender"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter scopes student listings.
type StudentFilter struct {
	ClassID  string
	Search   string
	Page     int
	PageSize int
}
