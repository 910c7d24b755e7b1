package models

// GradeLevel is the school grade tag for a classroom.
type GradeLevel string

const (
	GradeX   GradeLevel = "X"
	GradeXI  GradeLevel = "XI"
	GradeXII GradeLevel = "XII"
)

// Valid returns true when the grade is a supported value.
func (g GradeLevel) Valid() bool {
	switch g {
	case GradeX, GradeXI, GradeXII:
		return true
	default:
		return false
	}
}

// ClassRoom is reference data for one class group.
type ClassRoom struct {
	ID    string     `db:"id" json:"id"`
	Name  string     `db:"name" json:"name"`
	Grade GradeLevel `db:"grade" json:"grade"`
}
