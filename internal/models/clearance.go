package models

import "github.com/shopspring/decimal"

// ClearanceReport is a read-only projection of a patron's eligibility to
// borrow. Accrued fines are what Return would charge right now on open
// overdue loans; nothing is persisted when the report is built.
type ClearanceReport struct {
	PatronID     string          `json:"patron_id"`
	PatronCode   string          `json:"patron_code"`
	PatronName   string          `json:"patron_name"`
	PatronClass  PatronClass     `json:"patron_class"`
	PendingFines decimal.Decimal `json:"pending_fines"`
	AccruedFines decimal.Decimal `json:"accrued_fines"`
	TotalOwed    decimal.Decimal `json:"total_owed"`
	ActiveLoans  int             `json:"active_loans"`
	MaxLoans     int             `json:"max_loans"`
	OverdueLoans int             `json:"overdue_loans"`
	// UnsettledLostLoanID points at an open or closed lost-asset loan
	// whose replacement fine is still owed.
	UnsettledLostLoanID *string  `json:"unsettled_lost_loan_id,omitempty"`
	Cleared             bool     `json:"cleared"`
	BlockReasons        []string `json:"block_reasons,omitempty"`
}
