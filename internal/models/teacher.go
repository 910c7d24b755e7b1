package models

import "time"

// Teacher is one staff member. SubjectID and ClassID are optional defaults
// preselected on the attendance form; Username/PasswordHash are set only for
// teachers with a login account. PasswordHash serializes as the bcrypt hash,
// same as Credential, so a backup restore keeps logins working.
type Teacher struct {
	ID           string    `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	NIP          string    `db:"nip" json:"nip"`
	SubjectID    *string   `db:"subject_id" json:"subject_id,omitempty"`
	ClassID      *string   `db:"class_id" json:"class_id,omitempty"`
	Username     *string   `db:"username" json:"username,omitempty"`
	PasswordHash *string   `db:"password_hash" json:"password,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherFilter scopes teacher listings.
type TeacherFilter struct {
	Search    string
	SubjectID string
	Page      int
	PageSize  int
}
