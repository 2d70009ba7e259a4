package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/GENKAIYIEE/library-backend/internal/clock"
	"github.com/GENKAIYIEE/library-backend/internal/models"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
)

type fineLoanStore interface {
	FindByID(ctx context.Context, id string) (*models.Loan, error)
	UpdatePayment(ctx context.Context, id string, status models.PaymentStatus, paymentDate *time.Time, remarks *string) error
	ListPendingFinesByPatron(ctx context.Context, patronID string) ([]models.LoanDetail, error)
}

type finePatronReader interface {
	FindByCode(ctx context.Context, code string) (*models.Patron, error)
}

// WaiveRequest records why a fine was forgiven.
type WaiveRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// FinesService settles loan penalties: pay, waive, and revert.
type FinesService struct {
	loans     fineLoanStore
	patrons   finePatronReader
	clock     clock.Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFinesService constructs the service.
func NewFinesService(loans fineLoanStore, patrons finePatronReader, clk clock.Clock, validate *validator.Validate, logger *zap.Logger) *FinesService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &FinesService{loans: loans, patrons: patrons, clock: clk, validator: validate, logger: logger}
}

// Pay marks a pending fine as paid and stamps the payment date.
func (s *FinesService) Pay(ctx context.Context, loanID string) (*models.Loan, error) {
	return s.settle(ctx, loanID, models.PaymentStatusPaid, nil)
}

// Waive forgives a pending fine. The reason is mandatory and kept in the
// loan's remarks for the audit trail.
func (s *FinesService) Waive(ctx context.Context, loanID string, req WaiveRequest) (*models.Loan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "a waive reason is required")
	}
	remarks := fmt.Sprintf("waived: %s", req.Reason)
	return s.settle(ctx, loanID, models.PaymentStatusWaived, &remarks)
}

// Unpay reverts a paid or waived fine back to pending, for desk
// mistakes. The payment date is cleared. Unlike Pay and Waive it has no
// penalty precondition, so an auto-settled on-time return can still be
// corrected.
func (s *FinesService) Unpay(ctx context.Context, loanID string) (*models.Loan, error) {
	loan, err := s.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.PaymentStatus == nil || *loan.PaymentStatus == models.PaymentStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "fine is already pending")
	}
	if err := s.loans.UpdatePayment(ctx, loan.ID, models.PaymentStatusPending, nil, nil); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment")
	}
	pending := models.PaymentStatusPending
	loan.PaymentStatus = &pending
	loan.PaymentDate = nil
	return loan, nil
}

// ListPatronFines returns the patron's pending fines with title context.
func (s *FinesService) ListPatronFines(ctx context.Context, patronCode string) ([]models.LoanDetail, error) {
	patron, err := s.patrons.FindByCode(ctx, patronCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "patron not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patron")
	}
	fines, err := s.loans.ListPendingFinesByPatron(ctx, patron.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fines")
	}
	return fines, nil
}

func (s *FinesService) settle(ctx context.Context, loanID string, status models.PaymentStatus, remarks *string) (*models.Loan, error) {
	loan, err := s.chargedLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.PaymentStatus != nil && *loan.PaymentStatus != models.PaymentStatusPending {
		return nil, appErrors.WithDetails(appErrors.ErrAlreadySettled,
			"fine has already been settled",
			map[string]interface{}{"payment_status": *loan.PaymentStatus})
	}
	now := s.clock.Now()
	if err := s.loans.UpdatePayment(ctx, loan.ID, status, &now, remarks); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment")
	}
	loan.PaymentStatus = &status
	loan.PaymentDate = &now
	if remarks != nil {
		loan.Remarks = remarks
	}
	return loan, nil
}

func (s *FinesService) loadLoan(ctx context.Context, loanID string) (*models.Loan, error) {
	loan, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "loan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load loan")
	}
	return loan, nil
}

// chargedLoan loads a loan and rejects ones that never accrued a fine.
func (s *FinesService) chargedLoan(ctx context.Context, loanID string) (*models.Loan, error) {
	loan, err := s.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !loan.PenaltyAmount.IsPositive() {
		return nil, appErrors.ErrNoPenalty
	}
	return loan, nil
}
