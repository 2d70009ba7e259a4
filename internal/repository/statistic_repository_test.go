package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/GENKAIYIEE/library-backend/internal/models"
)

func TestStatisticRepositoryIncrementRange(t *testing.T) {
	db, mock, cleanup := newLoanRepoMock(t)
	defer cleanup()

	repo := NewStatisticRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO monthly_statistics")).
		WithArgs(2026, 3, 800, 899, models.PatronClassStudent, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.IncrementRange(context.Background(), 2026, 3, 800, 899, models.PatronClassStudent)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatisticRepositoryListByYear(t *testing.T) {
	db, mock, cleanup := newLoanRepoMock(t)
	defer cleanup()

	repo := NewStatisticRepository(db)
	rows := sqlmock.NewRows([]string{"id", "year", "month", "range_start", "range_end", "patron_class", "count", "updated_at"}).
		AddRow(1, 2026, 3, 800, 899, "STUDENT", 4, time.Now()).
		AddRow(2, 2026, 4, 800, 899, "STUDENT", 2, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM monthly_statistics WHERE year = $1")).
		WithArgs(2026).
		WillReturnRows(rows)

	stats, err := repo.ListByYear(context.Background(), 2026)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.Equal(t, 4, stats[0].Count)
	require.NoError(t, mock.ExpectationsWereMet())
}
