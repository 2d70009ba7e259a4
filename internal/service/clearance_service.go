package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GENKAIYIEE/library-backend/internal/clock"
	"github.com/GENKAIYIEE/library-backend/internal/models"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
)

type clearanceLoanStore interface {
	SumPendingFines(ctx context.Context, patronID string) (decimal.Decimal, error)
	ListOpenByPatron(ctx context.Context, patronID string) ([]models.Loan, error)
	FindUnsettledLostByPatron(ctx context.Context, patronID string) (*models.Loan, error)
}

type clearancePatronReader interface {
	FindByCode(ctx context.Context, code string) (*models.Patron, error)
}

// ClearanceService builds the pure read-only eligibility projection a
// registrar checks before sign-off. Accrued fines use the same math as
// Return, so the projection never disagrees with what a return would
// actually charge at the same instant.
type ClearanceService struct {
	loans   clearanceLoanStore
	patrons clearancePatronReader
	policy  policyProvider
	clock   clock.Clock
	logger  *zap.Logger
}

// NewClearanceService constructs the service.
func NewClearanceService(loans clearanceLoanStore, patrons clearancePatronReader, policy policyProvider, clk clock.Clock, logger *zap.Logger) *ClearanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &ClearanceService{loans: loans, patrons: patrons, policy: policy, clock: clk, logger: logger}
}

// Evaluate computes the patron's clearance report. Nothing is written.
func (s *ClearanceService) Evaluate(ctx context.Context, patronCode string) (*models.ClearanceReport, error) {
	patron, err := s.patrons.FindByCode(ctx, patronCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "patron not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patron")
	}

	policy, err := s.policy.PolicyFor(ctx, patron.Class)
	if err != nil {
		return nil, err
	}

	pending, err := s.loans.SumPendingFines(ctx, patron.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum pending fines")
	}

	open, err := s.loans.ListOpenByPatron(ctx, patron.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list open loans")
	}

	now := s.clock.Now()
	accrued := decimal.Zero
	overdue := 0
	for _, loan := range open {
		days, fine := overdueFine(loan.DueDate, now, policy.FinePerDay)
		if days > 0 {
			overdue++
			accrued = accrued.Add(fine)
		}
	}

	lost, err := s.loans.FindUnsettledLostByPatron(ctx, patron.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check lost loans")
	}

	report := &models.ClearanceReport{
		PatronID:     patron.ID,
		PatronCode:   patron.Code,
		PatronName:   patron.Name,
		PatronClass:  patron.Class,
		PendingFines: pending,
		AccruedFines: accrued,
		TotalOwed:    pending.Add(accrued),
		ActiveLoans:  len(open),
		MaxLoans:     policy.MaxLoans,
		OverdueLoans: overdue,
	}
	if lost != nil {
		id := lost.ID
		report.UnsettledLostLoanID = &id
	}

	if pending.IsPositive() {
		report.BlockReasons = append(report.BlockReasons, "pending fines must be settled")
	}
	if accrued.IsPositive() {
		report.BlockReasons = append(report.BlockReasons, "open loans have accrued overdue fines")
	}
	if overdue > 0 {
		report.BlockReasons = append(report.BlockReasons, "overdue loans must be returned")
	}
	if len(open) >= policy.MaxLoans {
		report.BlockReasons = append(report.BlockReasons, "loan limit reached")
	}
	if lost != nil {
		report.BlockReasons = append(report.BlockReasons, "a lost book's replacement fine is unsettled")
	}
	report.Cleared = len(report.BlockReasons) == 0

	return report, nil
}
