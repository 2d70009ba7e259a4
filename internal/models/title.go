package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Title is a bibliographic record. One title has many physical assets.
type Title struct {
	ID         string          `db:"id" json:"id"`
	Title      string          `db:"title" json:"title"`
	Author     string          `db:"author" json:"author"`
	ISBN       *string         `db:"isbn" json:"isbn,omitempty"`
	CallNumber *string         `db:"call_number" json:"call_number,omitempty"`
	Category   *string         `db:"category" json:"category,omitempty"`
	Price      decimal.Decimal `db:"price" json:"price"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt  *time.Time      `db:"deleted_at" json:"deleted_at,omitempty"`
}
