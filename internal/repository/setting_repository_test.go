package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestSettingRepositoryGet(t *testing.T) {
	db, mock, cleanup := newLoanRepoMock(t)
	defer cleanup()

	repo := NewSettingRepository(db)
	rows := sqlmock.NewRows([]string{"key", "value", "type", "grouping", "description", "updated_at"}).
		AddRow("student_loan_days", "7", "integer", "circulation", nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value, type, grouping, description, updated_at FROM library_settings WHERE key = $1")).
		WithArgs("student_loan_days").
		WillReturnRows(rows)

	setting, err := repo.Get(context.Background(), "student_loan_days")
	require.NoError(t, err)
	require.Equal(t, "7", setting.Value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingRepositoryUpdateValue(t *testing.T) {
	db, mock, cleanup := newLoanRepoMock(t)
	defer cleanup()

	repo := NewSettingRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE library_settings SET value = $2, updated_at = $3 WHERE key = $1")).
		WithArgs("student_loan_days", "10", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.UpdateValue(context.Background(), "student_loan_days", "10")
	require.NoError(t, err)
	require.True(t, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingRepositoryUpdateValueUnknownKey(t *testing.T) {
	db, mock, cleanup := newLoanRepoMock(t)
	defer cleanup()

	repo := NewSettingRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE library_settings")).
		WithArgs("no_such_key", "1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.UpdateValue(context.Background(), "no_such_key", "1")
	require.NoError(t, err)
	require.False(t, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}
