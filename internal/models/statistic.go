package models

import "time"

// MonthlyStatistic counts borrows per Dewey hundred-range per month.
type MonthlyStatistic struct {
	ID          int64       `db:"id" json:"id"`
	Year        int         `db:"year" json:"year"`
	Month       int         `db:"month" json:"month"`
	RangeStart  int         `db:"range_start" json:"range_start"`
	RangeEnd    int         `db:"range_end" json:"range_end"`
	PatronClass PatronClass `db:"patron_class" json:"patron_class"`
	Count       int         `db:"count" json:"count"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// StatisticsMatrix is the yearly report: one row per Dewey range, with a
// count for each of the twelve months.
type StatisticsMatrix struct {
	Year   int                   `json:"year"`
	Ranges []StatisticsMatrixRow `json:"ranges"`
}

// StatisticsMatrixRow is one Dewey range across twelve months.
type StatisticsMatrixRow struct {
	RangeStart int     `json:"range_start"`
	RangeEnd   int     `json:"range_end"`
	Months     [12]int `json:"months"`
}
