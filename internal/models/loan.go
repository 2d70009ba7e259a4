package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks settlement of a loan's penalty. It stays unset
// until the loan is closed.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusWaived  PaymentStatus = "waived"
)

// Loan records one borrow event of an asset by a patron. A loan with a
// nil ReturnedAt is open; at most one open loan may reference an asset.
type Loan struct {
	ID            string          `db:"id" json:"id"`
	PatronID      string          `db:"patron_id" json:"patron_id"`
	AssetID       string          `db:"asset_id" json:"asset_id"`
	BorrowedAt    time.Time       `db:"borrowed_at" json:"borrowed_at"`
	DueDate       time.Time       `db:"due_date" json:"due_date"`
	ReturnedAt    *time.Time      `db:"returned_at" json:"returned_at,omitempty"`
	PenaltyAmount decimal.Decimal `db:"penalty_amount" json:"penalty_amount"`
	PaymentStatus *PaymentStatus  `db:"payment_status" json:"payment_status,omitempty"`
	PaymentDate   *time.Time      `db:"payment_date" json:"payment_date,omitempty"`
	Remarks       *string         `db:"remarks" json:"remarks,omitempty"`
	ProcessedBy   *string         `db:"processed_by" json:"processed_by,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Open reports whether the loan is still active.
func (l *Loan) Open() bool {
	return l.ReturnedAt == nil
}

// PenaltySettled reports whether nothing is owed on this loan.
func (l *Loan) PenaltySettled() bool {
	if l.PenaltyAmount.IsZero() {
		return true
	}
	if l.PaymentStatus == nil {
		return false
	}
	return *l.PaymentStatus == PaymentStatusPaid || *l.PaymentStatus == PaymentStatusWaived
}

// LoanDetail enriches Loan with patron and asset display fields.
type LoanDetail struct {
	Loan
	PatronCode  string      `db:"patron_code" json:"patron_code"`
	PatronName  string      `db:"patron_name" json:"patron_name"`
	PatronClass PatronClass `db:"patron_class" json:"patron_class"`
	AssetCode   string      `db:"asset_code" json:"asset_code"`
	BookTitle   string      `db:"book_title" json:"book_title"`
	Author      string      `db:"author" json:"author"`
}

// LoanFilter provides filters for listing loans.
type LoanFilter struct {
	PatronID    string
	PatronClass PatronClass
	AssetCode   string
	OnlyOpen    bool
	OnlyOverdue bool
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
