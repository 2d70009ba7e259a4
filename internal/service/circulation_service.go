package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GENKAIYIEE/library-backend/internal/clock"
	"github.com/GENKAIYIEE/library-backend/internal/models"
	"github.com/GENKAIYIEE/library-backend/internal/repository"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
)

type transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type circulationLoanStore interface {
	FindOpenByAssetID(ctx context.Context, assetID string) (*models.Loan, error)
	FindLatestByAssetID(ctx context.Context, assetID string) (*models.Loan, error)
	SumPendingFines(ctx context.Context, patronID string) (decimal.Decimal, error)
	CountOpenByPatron(ctx context.Context, patronID string) (int, error)
	Create(ctx context.Context, loan *models.Loan) error
	Close(ctx context.Context, id string, returnedAt time.Time, penalty decimal.Decimal, status models.PaymentStatus) error
}

type circulationCatalogStore interface {
	FindAssetByCodeForUpdate(ctx context.Context, code string) (*models.Asset, error)
	FindAssetByIDForUpdate(ctx context.Context, id string) (*models.Asset, error)
	UpdateAssetStatus(ctx context.Context, id string, status models.AssetStatus) error
	FindTitleByID(ctx context.Context, id string) (*models.Title, error)
}

type circulationPatronReader interface {
	FindByCode(ctx context.Context, code string) (*models.Patron, error)
	FindByID(ctx context.Context, id string) (*models.Patron, error)
}

type policyProvider interface {
	PolicyFor(ctx context.Context, class models.PatronClass) (*models.LoanPolicy, error)
	LostBookDefaultFee(ctx context.Context) (decimal.Decimal, error)
}

// borrowRecorder is notified after a successful borrow commit. It must
// never block or fail the borrow itself.
type borrowRecorder interface {
	RecordBorrow(callNumber string, class models.PatronClass)
}

// BorrowRequest identifies who borrows which copy.
type BorrowRequest struct {
	PatronCode  string  `json:"patron_code" validate:"required"`
	AssetCode   string  `json:"asset_code" validate:"required"`
	ProcessedBy *string `json:"processed_by,omitempty"`
}

// BorrowResult is returned to the circulation desk after a borrow.
type BorrowResult struct {
	Loan     *models.Loan `json:"loan"`
	DueDate  time.Time    `json:"due_date"`
	LoanDays int          `json:"loan_days"`
}

// ReturnResult reports the outcome of a return or mark-lost.
type ReturnResult struct {
	Loan     *models.Loan    `json:"loan"`
	DaysLate int             `json:"days_late"`
	Penalty  decimal.Decimal `json:"penalty"`
}

// CirculationService is the circulation engine: guarded state
// transitions over asset status and loan records. Every operation runs
// as one database transaction; two concurrent borrows of the same asset
// cannot both succeed (row lock on the asset, plus the partial unique
// index on open loans as backstop).
type CirculationService struct {
	tx        transactor
	loans     circulationLoanStore
	catalog   circulationCatalogStore
	patrons   circulationPatronReader
	policy    policyProvider
	recorder  borrowRecorder
	clock     clock.Clock
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCirculationService constructs the engine.
func NewCirculationService(
	tx transactor,
	loans circulationLoanStore,
	catalog circulationCatalogStore,
	patrons circulationPatronReader,
	policy policyProvider,
	recorder borrowRecorder,
	clk clock.Clock,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *CirculationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &CirculationService{
		tx:        tx,
		loans:     loans,
		catalog:   catalog,
		patrons:   patrons,
		policy:    policy,
		recorder:  recorder,
		clock:     clk,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Borrow lends an available asset to a patron. Preconditions are checked
// in a fixed order and the first failure wins with no side effects:
// patron exists and is active, no pending fines, loan limit not reached,
// asset available, no open loan on the asset.
func (s *CirculationService) Borrow(ctx context.Context, req BorrowRequest) (*BorrowResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid borrow payload")
	}

	var (
		result     BorrowResult
		callNumber string
		class      models.PatronClass
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		patron, err := s.patrons.FindByCode(ctx, req.PatronCode)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "patron not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patron")
		}
		if !patron.Active() {
			return appErrors.ErrPatronInactive
		}
		class = patron.Class

		pending, err := s.loans.SumPendingFines(ctx, patron.ID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum pending fines")
		}
		if pending.IsPositive() {
			return appErrors.WithDetails(appErrors.ErrFinesPending,
				"patron has pending fines; settle before borrowing",
				map[string]interface{}{"pending_fines": pending})
		}

		policy, err := s.policy.PolicyFor(ctx, patron.Class)
		if err != nil {
			return err
		}

		active, err := s.loans.CountOpenByPatron(ctx, patron.ID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count open loans")
		}
		if active >= policy.MaxLoans {
			return appErrors.WithDetails(appErrors.ErrLoanLimitReached,
				"patron has reached the active loan limit",
				map[string]interface{}{"current_loans": active, "max_loans": policy.MaxLoans})
		}

		asset, err := s.catalog.FindAssetByCodeForUpdate(ctx, req.AssetCode)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "asset not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
		}
		if asset.Status != models.AssetStatusAvailable {
			return appErrors.WithDetails(appErrors.ErrAssetUnavailable,
				"asset is not available for borrowing",
				map[string]interface{}{"status": asset.Status})
		}

		open, err := s.loans.FindOpenByAssetID(ctx, asset.ID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check open loans")
		}
		if open != nil {
			return appErrors.ErrAlreadyBorrowed
		}

		now := s.clock.Now()
		due := startOfDay(now).AddDate(0, 0, policy.LoanDays)
		loan := &models.Loan{
			PatronID:      patron.ID,
			AssetID:       asset.ID,
			BorrowedAt:    now,
			DueDate:       due,
			PenaltyAmount: decimal.Zero,
			ProcessedBy:   req.ProcessedBy,
		}
		if err := s.loans.Create(ctx, loan); err != nil {
			if repository.IsUniqueViolation(err) {
				return appErrors.ErrAlreadyBorrowed
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create loan")
		}
		if err := s.catalog.UpdateAssetStatus(ctx, asset.ID, models.AssetStatusBorrowed); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update asset status")
		}

		title, err := s.catalog.FindTitleByID(ctx, asset.TitleID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load title")
		}
		if title.CallNumber != nil {
			callNumber = *title.CallNumber
		}

		result = BorrowResult{Loan: loan, DueDate: due, LoanDays: policy.LoanDays}
		return nil
	})
	s.observe("borrow", err)
	if err != nil {
		return nil, err
	}

	// Statistics are recorded after commit so a recorder failure can
	// never fail or roll back the borrow.
	if s.recorder != nil && callNumber != "" {
		s.recorder.RecordBorrow(callNumber, class)
	}
	return &result, nil
}

// Return closes the open loan for an asset, charges any overdue fine
// and makes the asset available again.
func (s *CirculationService) Return(ctx context.Context, assetCode string) (*ReturnResult, error) {
	var result ReturnResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		asset, loan, err := s.openLoanForAsset(ctx, assetCode)
		if err != nil {
			return err
		}

		patron, err := s.patrons.FindByID(ctx, loan.PatronID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patron")
		}
		policy, err := s.policy.PolicyFor(ctx, patron.Class)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		daysLate, penalty := overdueFine(loan.DueDate, now, policy.FinePerDay)
		status := models.PaymentStatusPending
		if penalty.IsZero() {
			status = models.PaymentStatusPaid
		}

		if err := s.closeLoan(ctx, loan, asset, now, penalty, status, models.AssetStatusAvailable); err != nil {
			return err
		}
		result = ReturnResult{Loan: loan, DaysLate: daysLate, Penalty: penalty}
		return nil
	})
	s.observe("return", err)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkLost closes the open loan charging the title's replacement price
// (or the configured default) and parks the asset in the lost state.
// The fine is always left pending; a lost book is never auto-paid.
func (s *CirculationService) MarkLost(ctx context.Context, assetCode string) (*ReturnResult, error) {
	var result ReturnResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		asset, loan, err := s.openLoanForAsset(ctx, assetCode)
		if err != nil {
			return err
		}

		title, err := s.catalog.FindTitleByID(ctx, asset.TitleID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load title")
		}
		penalty := title.Price
		if !penalty.IsPositive() {
			penalty, err = s.policy.LostBookDefaultFee(ctx)
			if err != nil {
				return err
			}
		}

		now := s.clock.Now()
		if err := s.closeLoan(ctx, loan, asset, now, penalty, models.PaymentStatusPending, models.AssetStatusLost); err != nil {
			return err
		}
		result = ReturnResult{Loan: loan, DaysLate: lateDays(loan.DueDate, now), Penalty: penalty}
		return nil
	})
	s.observe("mark_lost", err)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkDamaged pulls an available asset out of circulation.
func (s *CirculationService) MarkDamaged(ctx context.Context, assetID string) (*models.Asset, error) {
	asset, err := s.transitionAsset(ctx, assetID, models.AssetStatusDamaged, nil)
	s.observe("mark_damaged", err)
	return asset, err
}

// Repair returns a damaged asset to circulation.
func (s *CirculationService) Repair(ctx context.Context, assetID string) (*models.Asset, error) {
	asset, err := s.transitionAsset(ctx, assetID, models.AssetStatusAvailable, func(a *models.Asset) error {
		if a.Status != models.AssetStatusDamaged {
			return appErrors.WithDetails(appErrors.ErrInvalidState,
				"only damaged assets can be repaired",
				map[string]interface{}{"status": a.Status})
		}
		return nil
	})
	s.observe("repair", err)
	return asset, err
}

// RestoreFromLost brings a lost asset back once its replacement fine is
// settled (paid, waived, or zero).
func (s *CirculationService) RestoreFromLost(ctx context.Context, assetID string) (*models.Asset, error) {
	asset, err := s.transitionAsset(ctx, assetID, models.AssetStatusAvailable, func(a *models.Asset) error {
		if a.Status != models.AssetStatusLost {
			return appErrors.WithDetails(appErrors.ErrInvalidState,
				"asset is not marked lost",
				map[string]interface{}{"status": a.Status})
		}
		return nil
	})
	s.observe("restore_from_lost", err)
	return asset, err
}

// openLoanForAsset locks the asset row and resolves its open loan.
func (s *CirculationService) openLoanForAsset(ctx context.Context, assetCode string) (*models.Asset, *models.Loan, error) {
	asset, err := s.catalog.FindAssetByCodeForUpdate(ctx, assetCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "asset not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
	}
	loan, err := s.loans.FindOpenByAssetID(ctx, asset.ID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load open loan")
	}
	if loan == nil {
		return nil, nil, appErrors.ErrNotCurrentlyBorrowed
	}
	return asset, loan, nil
}

// closeLoan is the shared closing path used by Return and MarkLost; the
// two differ only in penalty source, payment status, and the asset's
// terminal state.
func (s *CirculationService) closeLoan(ctx context.Context, loan *models.Loan, asset *models.Asset, now time.Time, penalty decimal.Decimal, status models.PaymentStatus, target models.AssetStatus) error {
	if !asset.Status.CanTransitionTo(target) {
		return appErrors.WithDetails(appErrors.ErrInvalidState,
			"asset status does not allow this operation",
			map[string]interface{}{"status": asset.Status, "target": target})
	}
	if err := s.loans.Close(ctx, loan.ID, now, penalty, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotCurrentlyBorrowed
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close loan")
	}
	if err := s.catalog.UpdateAssetStatus(ctx, asset.ID, target); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update asset status")
	}
	returnedAt := now
	loan.ReturnedAt = &returnedAt
	loan.PenaltyAmount = penalty
	loan.PaymentStatus = &status
	return nil
}

// transitionAsset performs a guarded status change with no loan close.
// The extra guard runs before the generic state-machine check so callers
// can produce a more specific error; RestoreFromLost also enforces that
// the latest loan's fine is settled.
func (s *CirculationService) transitionAsset(ctx context.Context, assetID string, target models.AssetStatus, guard func(*models.Asset) error) (*models.Asset, error) {
	var updated *models.Asset
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		asset, err := s.catalog.FindAssetByIDForUpdate(ctx, assetID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "asset not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
		}
		if guard != nil {
			if err := guard(asset); err != nil {
				return err
			}
		}
		if !asset.Status.CanTransitionTo(target) {
			return appErrors.WithDetails(appErrors.ErrInvalidState,
				"asset status does not allow this operation",
				map[string]interface{}{"status": asset.Status, "target": target})
		}
		if asset.Status == models.AssetStatusLost && target == models.AssetStatusAvailable {
			latest, err := s.loans.FindLatestByAssetID(ctx, asset.ID)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest loan")
			}
			if latest != nil && !latest.PenaltySettled() {
				return appErrors.WithDetails(appErrors.ErrFineUnsettled,
					"replacement fine must be paid or waived before restoring",
					map[string]interface{}{"loan_id": latest.ID, "penalty_amount": latest.PenaltyAmount})
			}
		}
		if err := s.catalog.UpdateAssetStatus(ctx, asset.ID, target); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update asset status")
		}
		asset.Status = target
		updated = asset
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CirculationService) observe(operation string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Status < 500 {
			outcome = "blocked"
		}
	}
	s.metrics.RecordCirculationOp(operation, outcome)
}
