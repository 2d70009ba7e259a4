package models

import "time"

// PatronClass selects the circulation policy applied to a patron.
type PatronClass string

const (
	PatronClassStudent PatronClass = "STUDENT"
	PatronClassFaculty PatronClass = "FACULTY"
)

// Valid reports whether the class is one of the known patron classes.
func (c PatronClass) Valid() bool {
	return c == PatronClassStudent || c == PatronClassFaculty
}

// PatronStatus represents a patron's account state.
type PatronStatus string

const (
	PatronStatusActive   PatronStatus = "ACTIVE"
	PatronStatusInactive PatronStatus = "INACTIVE"
)

// Patron is a library member able to borrow assets. Students and faculty
// share one entity; the class picks loan-day, loan-limit and fine policy.
type Patron struct {
	ID         string       `db:"id" json:"id"`
	Code       string       `db:"code" json:"code"`
	Name       string       `db:"name" json:"name"`
	Class      PatronClass  `db:"class" json:"class"`
	Status     PatronStatus `db:"status" json:"status"`
	Course     *string      `db:"course" json:"course,omitempty"`
	Department *string      `db:"department" json:"department,omitempty"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// Active reports whether the patron may use circulation services.
func (p *Patron) Active() bool {
	return p.Status == PatronStatusActive
}
