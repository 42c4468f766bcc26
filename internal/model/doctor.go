package model

// Doctor is reference data: created outside this service, never mutated by it.
// Timezone is the doctor's canonical IANA zone; every visit booked for the
// doctor is interpreted and re-displayed in it.
type Doctor struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Timezone  string `db:"timezone" json:"timezone"`
}
