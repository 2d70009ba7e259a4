package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GENKAIYIEE/library-backend/internal/clock"
	"github.com/GENKAIYIEE/library-backend/internal/models"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
)

type mockFineStore struct {
	loans   map[string]*models.Loan
	pending []models.LoanDetail
}

func (m *mockFineStore) FindByID(ctx context.Context, id string) (*models.Loan, error) {
	if l, ok := m.loans[id]; ok {
		return l, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFineStore) UpdatePayment(ctx context.Context, id string, status models.PaymentStatus, paymentDate *time.Time, remarks *string) error {
	l, ok := m.loans[id]
	if !ok {
		return sql.ErrNoRows
	}
	l.PaymentStatus = &status
	l.PaymentDate = paymentDate
	if remarks != nil {
		l.Remarks = remarks
	}
	return nil
}

func (m *mockFineStore) ListPendingFinesByPatron(ctx context.Context, patronID string) ([]models.LoanDetail, error) {
	return m.pending, nil
}

type mockFinePatrons struct {
	patrons map[string]*models.Patron
}

func (m *mockFinePatrons) FindByCode(ctx context.Context, code string) (*models.Patron, error) {
	if p, ok := m.patrons[code]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func fineLoan(status models.PaymentStatus, amount int64) *models.Loan {
	s := status
	return &models.Loan{ID: "loan-1", PenaltyAmount: decimal.NewFromInt(amount), PaymentStatus: &s}
}

func newFines(store *mockFineStore) *FinesService {
	now := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)
	return NewFinesService(store, &mockFinePatrons{}, clock.NewFixed(now), nil, nil)
}

func TestPayPendingFine(t *testing.T) {
	store := &mockFineStore{loans: map[string]*models.Loan{"loan-1": fineLoan(models.PaymentStatusPending, 25)}}
	svc := newFines(store)

	loan, err := svc.Pay(context.Background(), "loan-1")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPaid, *loan.PaymentStatus)
	require.NotNil(t, loan.PaymentDate)
	assert.Equal(t, time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC), *loan.PaymentDate)
}

func TestPayUnknownLoan(t *testing.T) {
	svc := newFines(&mockFineStore{loans: map[string]*models.Loan{}})
	_, err := svc.Pay(context.Background(), "missing")
	assertAppError(t, err, appErrors.ErrNotFound)
}

func TestPayLoanWithoutPenalty(t *testing.T) {
	store := &mockFineStore{loans: map[string]*models.Loan{"loan-1": fineLoan(models.PaymentStatusPending, 0)}}
	svc := newFines(store)

	_, err := svc.Pay(context.Background(), "loan-1")
	assertAppError(t, err, appErrors.ErrNoPenalty)
}

func TestPayAlreadySettled(t *testing.T) {
	store := &mockFineStore{loans: map[string]*models.Loan{"loan-1": fineLoan(models.PaymentStatusPaid, 25)}}
	svc := newFines(store)

	_, err := svc.Pay(context.Background(), "loan-1")
	assertAppError(t, err, appErrors.ErrAlreadySettled)
}

func TestWaiveRequiresReason(t *testing.T) {
	store := &mockFineStore{loans: map[string]*models.Loan{"loan-1": fineLoan(models.PaymentStatusPending, 25)}}
	svc := newFines(store)

	_, err := svc.Waive(context.Background(), "loan-1", WaiveRequest{})
	assertAppError(t, err, appErrors.ErrValidation)

	loan, err := svc.Waive(context.Background(), "loan-1", WaiveRequest{Reason: "book damaged before loan"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusWaived, *loan.PaymentStatus)
	require.NotNil(t, loan.Remarks)
	assert.Contains(t, *loan.Remarks, "book damaged before loan")
}

func TestWaiveAcceptsShortReason(t *testing.T) {
	store := &mockFineStore{loans: map[string]*models.Loan{"loan-1": fineLoan(models.PaymentStatusPending, 25)}}
	svc := newFines(store)

	loan, err := svc.Waive(context.Background(), "loan-1", WaiveRequest{Reason: "ok"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusWaived, *loan.PaymentStatus)
}

func TestUnpayRevertsToPending(t *testing.T) {
	store := &mockFineStore{loans: map[string]*models.Loan{"loan-1": fineLoan(models.PaymentStatusPaid, 25)}}
	svc := newFines(store)

	loan, err := svc.Unpay(context.Background(), "loan-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, *loan.PaymentStatus)
	assert.Nil(t, loan.PaymentDate)
}

func TestUnpayZeroPenaltyAutoPaidReturn(t *testing.T) {
	// An on-time return settles at paid with zero penalty; the desk must
	// still be able to revert it.
	store := &mockFineStore{loans: map[string]*models.Loan{"loan-1": fineLoan(models.PaymentStatusPaid, 0)}}
	svc := newFines(store)

	loan, err := svc.Unpay(context.Background(), "loan-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, *loan.PaymentStatus)
	assert.Nil(t, loan.PaymentDate)
}

func TestUnpayAlreadyPending(t *testing.T) {
	store := &mockFineStore{loans: map[string]*models.Loan{"loan-1": fineLoan(models.PaymentStatusPending, 25)}}
	svc := newFines(store)

	_, err := svc.Unpay(context.Background(), "loan-1")
	assertAppError(t, err, appErrors.ErrConflict)
}

func TestListPatronFines(t *testing.T) {
	store := &mockFineStore{pending: []models.LoanDetail{{PatronCode: "S-1"}}}
	patrons := &mockFinePatrons{patrons: map[string]*models.Patron{
		"S-1": {ID: "p1", Code: "S-1", Class: models.PatronClassStudent, Status: models.PatronStatusActive},
	}}
	svc := NewFinesService(store, patrons, clock.NewSystem(), nil, nil)

	fines, err := svc.ListPatronFines(context.Background(), "S-1")
	require.NoError(t, err)
	require.Len(t, fines, 1)

	_, err = svc.ListPatronFines(context.Background(), "missing")
	assertAppError(t, err, appErrors.ErrNotFound)
}
