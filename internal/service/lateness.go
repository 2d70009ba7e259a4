package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lateness is measured at end-of-day granularity: a return is late only
// once "now" is strictly past 23:59:59 of the due date, and the count is
// a whole-day date difference, not a duration. Return and the clearance
// projection both go through overdueFine so the charged and the
// predicted amounts can never drift apart.

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// lateDays returns the number of whole days a return at "now" is past
// the due date, zero when on time.
func lateDays(dueDate, now time.Time) int {
	if !now.After(endOfDay(dueDate)) {
		return 0
	}
	return int(startOfDay(now).Sub(startOfDay(dueDate)) / (24 * time.Hour))
}

// overdueFine computes days late and the resulting penalty for the
// given per-day rate.
func overdueFine(dueDate, now time.Time, ratePerDay decimal.Decimal) (int, decimal.Decimal) {
	days := lateDays(dueDate, now)
	if days == 0 {
		return 0, decimal.Zero
	}
	return days, ratePerDay.Mul(decimal.NewFromInt(int64(days)))
}
