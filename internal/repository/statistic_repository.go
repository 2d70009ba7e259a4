package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GENKAIYIEE/library-backend/internal/models"
)

// StatisticRepository persists monthly borrow counters per Dewey range.
type StatisticRepository struct {
	db *sqlx.DB
}

// NewStatisticRepository constructs the repository.
func NewStatisticRepository(db *sqlx.DB) *StatisticRepository {
	return &StatisticRepository{db: db}
}

// IncrementRange bumps the counter for one year/month/range/class cell,
// creating it on first use.
func (r *StatisticRepository) IncrementRange(ctx context.Context, year, month, rangeStart, rangeEnd int, class models.PatronClass) error {
	const query = `INSERT INTO monthly_statistics (year, month, range_start, range_end, patron_class, count, updated_at)
VALUES ($1, $2, $3, $4, $5, 1, $6)
ON CONFLICT (year, month, range_start, patron_class)
DO UPDATE SET count = monthly_statistics.count + 1, updated_at = EXCLUDED.updated_at`
	if _, err := runner(ctx, r.db).ExecContext(ctx, query, year, month, rangeStart, rangeEnd, class, time.Now().UTC()); err != nil {
		return fmt.Errorf("increment statistic: %w", err)
	}
	return nil
}

// ListByYear returns all counters recorded for a year.
func (r *StatisticRepository) ListByYear(ctx context.Context, year int) ([]models.MonthlyStatistic, error) {
	const query = `SELECT id, year, month, range_start, range_end, patron_class, count, updated_at
FROM monthly_statistics WHERE year = $1 ORDER BY range_start ASC, month ASC`
	var stats []models.MonthlyStatistic
	if err := sqlx.SelectContext(ctx, runner(ctx, r.db), &stats, query, year); err != nil {
		return nil, fmt.Errorf("list statistics: %w", err)
	}
	return stats, nil
}
