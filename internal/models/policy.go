package models

import "github.com/shopspring/decimal"

// LoanPolicy bundles the circulation constants for one patron class.
type LoanPolicy struct {
	Class      PatronClass     `json:"class"`
	LoanDays   int             `json:"loan_days"`
	MaxLoans   int             `json:"max_loans"`
	FinePerDay decimal.Decimal `json:"fine_per_day"`
}
