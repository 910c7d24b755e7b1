package models

// Principal is the singleton headmaster record used on report letterheads.
type Principal struct {
	FullName string `db:"full_name" json:"full_name"`
	NIP      string `db:"nip" json:"nip"`
}
