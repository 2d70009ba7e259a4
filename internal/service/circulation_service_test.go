package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GENKAIYIEE/library-backend/internal/clock"
	"github.com/GENKAIYIEE/library-backend/internal/models"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
)

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type circStore struct {
	patrons   map[string]*models.Patron
	titles    map[string]*models.Title
	assets    map[string]*models.Asset
	loans     []*models.Loan
	createErr error
}

func newCircStore() *circStore {
	return &circStore{
		patrons: map[string]*models.Patron{},
		titles:  map[string]*models.Title{},
		assets:  map[string]*models.Asset{},
	}
}

func (s *circStore) addPatron(code string, class models.PatronClass, status models.PatronStatus) *models.Patron {
	p := &models.Patron{ID: uuid.NewString(), Code: code, Name: "Patron " + code, Class: class, Status: status}
	s.patrons[code] = p
	return p
}

func (s *circStore) addAsset(code, callNumber string, price decimal.Decimal, status models.AssetStatus) *models.Asset {
	t := &models.Title{ID: uuid.NewString(), Title: "Title " + code, Author: "Author", CallNumber: &callNumber, Price: price}
	s.titles[t.ID] = t
	a := &models.Asset{ID: uuid.NewString(), AssetCode: code, TitleID: t.ID, Status: status}
	s.assets[code] = a
	return a
}

func (s *circStore) assetByID(id string) *models.Asset {
	for _, a := range s.assets {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *circStore) FindByCode(ctx context.Context, code string) (*models.Patron, error) {
	if p, ok := s.patrons[code]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (s *circStore) FindByID(ctx context.Context, id string) (*models.Patron, error) {
	for _, p := range s.patrons {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *circStore) FindAssetByCodeForUpdate(ctx context.Context, code string) (*models.Asset, error) {
	if a, ok := s.assets[code]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (s *circStore) FindAssetByIDForUpdate(ctx context.Context, id string) (*models.Asset, error) {
	if a := s.assetByID(id); a != nil {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (s *circStore) UpdateAssetStatus(ctx context.Context, id string, status models.AssetStatus) error {
	a := s.assetByID(id)
	if a == nil {
		return sql.ErrNoRows
	}
	a.Status = status
	return nil
}

func (s *circStore) FindTitleByID(ctx context.Context, id string) (*models.Title, error) {
	if t, ok := s.titles[id]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (s *circStore) FindOpenByAssetID(ctx context.Context, assetID string) (*models.Loan, error) {
	for _, l := range s.loans {
		if l.AssetID == assetID && l.Open() {
			return l, nil
		}
	}
	return nil, nil
}

func (s *circStore) FindLatestByAssetID(ctx context.Context, assetID string) (*models.Loan, error) {
	var latest *models.Loan
	for _, l := range s.loans {
		if l.AssetID != assetID {
			continue
		}
		if latest == nil || l.BorrowedAt.After(latest.BorrowedAt) {
			latest = l
		}
	}
	return latest, nil
}

func (s *circStore) SumPendingFines(ctx context.Context, patronID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, l := range s.loans {
		if l.PatronID != patronID || l.PaymentStatus == nil {
			continue
		}
		if *l.PaymentStatus == models.PaymentStatusPending && l.PenaltyAmount.IsPositive() {
			sum = sum.Add(l.PenaltyAmount)
		}
	}
	return sum, nil
}

func (s *circStore) CountOpenByPatron(ctx context.Context, patronID string) (int, error) {
	count := 0
	for _, l := range s.loans {
		if l.PatronID == patronID && l.Open() {
			count++
		}
	}
	return count, nil
}

func (s *circStore) Create(ctx context.Context, loan *models.Loan) error {
	if s.createErr != nil {
		return s.createErr
	}
	if loan.ID == "" {
		loan.ID = uuid.NewString()
	}
	s.loans = append(s.loans, loan)
	return nil
}

func (s *circStore) Close(ctx context.Context, id string, returnedAt time.Time, penalty decimal.Decimal, status models.PaymentStatus) error {
	for _, l := range s.loans {
		if l.ID == id && l.Open() {
			ts := returnedAt
			l.ReturnedAt = &ts
			l.PenaltyAmount = penalty
			l.PaymentStatus = &status
			return nil
		}
	}
	return sql.ErrNoRows
}

type stubPolicy struct {
	studentFine decimal.Decimal
	facultyFine decimal.Decimal
	lostFee     decimal.Decimal
}

func newStubPolicy() *stubPolicy {
	return &stubPolicy{
		studentFine: decimal.NewFromInt(5),
		facultyFine: decimal.Zero,
		lostFee:     decimal.NewFromInt(500),
	}
}

func (p *stubPolicy) PolicyFor(ctx context.Context, class models.PatronClass) (*models.LoanPolicy, error) {
	if class == models.PatronClassFaculty {
		return &models.LoanPolicy{Class: class, LoanDays: 14, MaxLoans: 5, FinePerDay: p.facultyFine}, nil
	}
	return &models.LoanPolicy{Class: class, LoanDays: 7, MaxLoans: 3, FinePerDay: p.studentFine}, nil
}

func (p *stubPolicy) LostBookDefaultFee(ctx context.Context) (decimal.Decimal, error) {
	return p.lostFee, nil
}

type recordedBorrow struct {
	callNumber string
	class      models.PatronClass
}

type mockRecorder struct {
	recorded []recordedBorrow
}

func (m *mockRecorder) RecordBorrow(callNumber string, class models.PatronClass) {
	m.recorded = append(m.recorded, recordedBorrow{callNumber: callNumber, class: class})
}

func newCirculation(store *circStore, clk clock.Clock, recorder *mockRecorder) *CirculationService {
	return NewCirculationService(fakeTx{}, store, store, store, newStubPolicy(), recorder, clk, nil, nil, nil)
}

func assertAppError(t *testing.T, err error, want *appErrors.Error) {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected app error, got %v", err)
	assert.Equal(t, want.Code, appErr.Code)
}

func TestBorrowHappyPath(t *testing.T) {
	store := newCircStore()
	store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusActive)
	store.addAsset("BK-1", "813.54 FIC", decimal.NewFromInt(350), models.AssetStatusAvailable)
	now := time.Date(2024, 3, 11, 15, 30, 0, 0, time.UTC)
	recorder := &mockRecorder{}
	svc := newCirculation(store, clock.NewFixed(now), recorder)

	result, err := svc.Borrow(context.Background(), BorrowRequest{PatronCode: "S-1", AssetCode: "BK-1"})
	require.NoError(t, err)

	assert.Equal(t, 7, result.LoanDays)
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), result.DueDate)
	assert.True(t, result.Loan.Open())
	assert.Equal(t, models.AssetStatusBorrowed, store.assets["BK-1"].Status)

	require.Len(t, recorder.recorded, 1)
	assert.Equal(t, "813.54 FIC", recorder.recorded[0].callNumber)
	assert.Equal(t, models.PatronClassStudent, recorder.recorded[0].class)
}

func TestBorrowFacultyLoanDays(t *testing.T) {
	store := newCircStore()
	store.addPatron("F-1", models.PatronClassFaculty, models.PatronStatusActive)
	store.addAsset("BK-1", "510 MAT", decimal.Zero, models.AssetStatusAvailable)
	now := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	svc := newCirculation(store, clock.NewFixed(now), &mockRecorder{})

	result, err := svc.Borrow(context.Background(), BorrowRequest{PatronCode: "F-1", AssetCode: "BK-1"})
	require.NoError(t, err)
	assert.Equal(t, 14, result.LoanDays)
	assert.Equal(t, time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), result.DueDate)
}

func TestBorrowUnknownPatron(t *testing.T) {
	store := newCircStore()
	store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusAvailable)
	svc := newCirculation(store, clock.NewFixed(time.Now()), &mockRecorder{})

	_, err := svc.Borrow(context.Background(), BorrowRequest{PatronCode: "nope", AssetCode: "BK-1"})
	assertAppError(t, err, appErrors.ErrNotFound)
}

func TestBorrowInactivePatronWinsOverOtherBlocks(t *testing.T) {
	store := newCircStore()
	patron := store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusInactive)
	store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusBorrowed)

	// Give the patron a pending fine too; the inactive check must fire first.
	pending := models.PaymentStatusPending
	ret := time.Now()
	store.loans = append(store.loans, &models.Loan{
		ID: uuid.NewString(), PatronID: patron.ID, AssetID: uuid.NewString(),
		ReturnedAt: &ret, PenaltyAmount: decimal.NewFromInt(25), PaymentStatus: &pending,
	})

	svc := newCirculation(store, clock.NewFixed(time.Now()), &mockRecorder{})
	_, err := svc.Borrow(context.Background(), BorrowRequest{PatronCode: "S-1", AssetCode: "BK-1"})
	assertAppError(t, err, appErrors.ErrPatronInactive)
}

func TestBorrowBlockedByPendingFines(t *testing.T) {
	store := newCircStore()
	patron := store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusActive)
	store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusAvailable)

	pending := models.PaymentStatusPending
	ret := time.Now()
	store.loans = append(store.loans, &models.Loan{
		ID: uuid.NewString(), PatronID: patron.ID, AssetID: uuid.NewString(),
		ReturnedAt: &ret, PenaltyAmount: decimal.NewFromInt(15), PaymentStatus: &pending,
	})

	svc := newCirculation(store, clock.NewFixed(time.Now()), &mockRecorder{})
	_, err := svc.Borrow(context.Background(), BorrowRequest{PatronCode: "S-1", AssetCode: "BK-1"})
	assertAppError(t, err, appErrors.ErrFinesPending)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	require.NotNil(t, appErr.Details)
	assert.Contains(t, appErr.Details, "pending_fines")
}

func TestBorrowBlockedByLoanLimit(t *testing.T) {
	store := newCircStore()
	patron := store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusActive)
	store.addAsset("BK-NEW", "200", decimal.Zero, models.AssetStatusAvailable)
	for i := 0; i < 3; i++ {
		store.loans = append(store.loans, &models.Loan{
			ID: uuid.NewString(), PatronID: patron.ID, AssetID: uuid.NewString(),
			PenaltyAmount: decimal.Zero,
		})
	}

	svc := newCirculation(store, clock.NewFixed(time.Now()), &mockRecorder{})
	_, err := svc.Borrow(context.Background(), BorrowRequest{PatronCode: "S-1", AssetCode: "BK-NEW"})
	assertAppError(t, err, appErrors.ErrLoanLimitReached)
}

func TestBorrowBlockedByAssetStatus(t *testing.T) {
	store := newCircStore()
	store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusActive)
	for _, status := range []models.AssetStatus{models.AssetStatusBorrowed, models.AssetStatusDamaged, models.AssetStatusLost} {
		code := "BK-" + string(status)
		store.addAsset(code, "300", decimal.Zero, status)

		svc := newCirculation(store, clock.NewFixed(time.Now()), &mockRecorder{})
		_, err := svc.Borrow(context.Background(), BorrowRequest{PatronCode: "S-1", AssetCode: code})
		assertAppError(t, err, appErrors.ErrAssetUnavailable)
	}
}

func TestBorrowLeavesNoSideEffectsOnFailure(t *testing.T) {
	store := newCircStore()
	store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusInactive)
	store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusAvailable)
	recorder := &mockRecorder{}

	svc := newCirculation(store, clock.NewFixed(time.Now()), recorder)
	_, err := svc.Borrow(context.Background(), BorrowRequest{PatronCode: "S-1", AssetCode: "BK-1"})
	require.Error(t, err)

	assert.Empty(t, store.loans)
	assert.Equal(t, models.AssetStatusAvailable, store.assets["BK-1"].Status)
	assert.Empty(t, recorder.recorded)
}

// A concurrent borrow that slips past the in-transaction open-loan check
// is still rejected by the partial unique index on open loans; the
// resulting 23505 must surface as ALREADY_BORROWED, not an internal error.
func TestBorrowConcurrentInsertRejected(t *testing.T) {
	store := newCircStore()
	store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusActive)
	store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusAvailable)
	store.createErr = &pq.Error{Code: "23505", Constraint: "uq_loans_open_asset"}
	recorder := &mockRecorder{}

	svc := newCirculation(store, clock.NewFixed(time.Now()), recorder)
	_, err := svc.Borrow(context.Background(), BorrowRequest{PatronCode: "S-1", AssetCode: "BK-1"})
	assertAppError(t, err, appErrors.ErrAlreadyBorrowed)

	assert.Empty(t, store.loans)
	assert.Equal(t, models.AssetStatusAvailable, store.assets["BK-1"].Status)
	assert.Empty(t, recorder.recorded)
}

func borrowThen(t *testing.T, store *circStore, patronCode, assetCode string, borrowedAt time.Time) *models.Loan {
	t.Helper()
	svc := newCirculation(store, clock.NewFixed(borrowedAt), &mockRecorder{})
	result, err := svc.Borrow(context.Background(), BorrowRequest{PatronCode: patronCode, AssetCode: assetCode})
	require.NoError(t, err)
	return result.Loan
}

func TestReturnOnTime(t *testing.T) {
	store := newCircStore()
	store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusActive)
	store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusAvailable)
	borrowedAt := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	borrowThen(t, store, "S-1", "BK-1", borrowedAt)

	// Returning at 23:00 on the due date itself is still on time.
	returnAt := time.Date(2024, 3, 18, 23, 0, 0, 0, time.UTC)
	svc := newCirculation(store, clock.NewFixed(returnAt), &mockRecorder{})
	result, err := svc.Return(context.Background(), "BK-1")
	require.NoError(t, err)

	assert.Equal(t, 0, result.DaysLate)
	assert.True(t, result.Penalty.IsZero())
	require.NotNil(t, result.Loan.PaymentStatus)
	assert.Equal(t, models.PaymentStatusPaid, *result.Loan.PaymentStatus)
	assert.Equal(t, models.AssetStatusAvailable, store.assets["BK-1"].Status)
}

func TestReturnLateChargesPerDay(t *testing.T) {
	store := newCircStore()
	store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusActive)
	store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusAvailable)
	borrowedAt := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	borrowThen(t, store, "S-1", "BK-1", borrowedAt)

	// Due 2024-03-18; returning the morning of the 21st is 3 days late.
	returnAt := time.Date(2024, 3, 21, 8, 0, 0, 0, time.UTC)
	svc := newCirculation(store, clock.NewFixed(returnAt), &mockRecorder{})
	result, err := svc.Return(context.Background(), "BK-1")
	require.NoError(t, err)

	assert.Equal(t, 3, result.DaysLate)
	assert.True(t, result.Penalty.Equal(decimal.NewFromInt(15)))
	require.NotNil(t, result.Loan.PaymentStatus)
	assert.Equal(t, models.PaymentStatusPending, *result.Loan.PaymentStatus)
}

func TestReturnFacultyAccruesNoFine(t *testing.T) {
	store := newCircStore()
	store.addPatron("F-1", models.PatronClassFaculty, models.PatronStatusActive)
	store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusAvailable)
	borrowedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	borrowThen(t, store, "F-1", "BK-1", borrowedAt)

	returnAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := newCirculation(store, clock.NewFixed(returnAt), &mockRecorder{})
	result, err := svc.Return(context.Background(), "BK-1")
	require.NoError(t, err)

	assert.True(t, result.Penalty.IsZero())
	assert.Equal(t, models.PaymentStatusPaid, *result.Loan.PaymentStatus)
}

func TestReturnFineMonotonicity(t *testing.T) {
	store := newCircStore()
	store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusActive)
	store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusAvailable)
	borrowedAt := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	loan := borrowThen(t, store, "S-1", "BK-1", borrowedAt)

	rate := decimal.NewFromInt(5)
	previous := decimal.Zero
	for day := 0; day < 30; day++ {
		at := borrowedAt.AddDate(0, 0, day)
		_, fine := overdueFine(loan.DueDate, at, rate)
		assert.True(t, fine.GreaterThanOrEqual(previous), "fine decreased at day %d", day)
		previous = fine
	}
}

func TestReturnWithoutOpenLoan(t *testing.T) {
	store := newCircStore()
	store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusAvailable)
	svc := newCirculation(store, clock.NewFixed(time.Now()), &mockRecorder{})

	_, err := svc.Return(context.Background(), "BK-1")
	assertAppError(t, err, appErrors.ErrNotCurrentlyBorrowed)
}

func TestMarkLostUsesTitlePrice(t *testing.T) {
	store := newCircStore()
	store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusActive)
	store.addAsset("BK-1", "100", decimal.NewFromInt(350), models.AssetStatusAvailable)
	borrowedAt := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	borrowThen(t, store, "S-1", "BK-1", borrowedAt)

	svc := newCirculation(store, clock.NewFixed(borrowedAt.AddDate(0, 1, 0)), &mockRecorder{})
	result, err := svc.MarkLost(context.Background(), "BK-1")
	require.NoError(t, err)

	assert.True(t, result.Penalty.Equal(decimal.NewFromInt(350)))
	assert.Equal(t, models.PaymentStatusPending, *result.Loan.PaymentStatus)
	assert.Equal(t, models.AssetStatusLost, store.assets["BK-1"].Status)
}

func TestMarkLostFallsBackToDefaultFee(t *testing.T) {
	store := newCircStore()
	store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusActive)
	store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusAvailable)
	borrowedAt := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	borrowThen(t, store, "S-1", "BK-1", borrowedAt)

	svc := newCirculation(store, clock.NewFixed(borrowedAt), &mockRecorder{})
	result, err := svc.MarkLost(context.Background(), "BK-1")
	require.NoError(t, err)

	assert.True(t, result.Penalty.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, models.PaymentStatusPending, *result.Loan.PaymentStatus)
}

func TestMarkDamagedOnlyFromAvailable(t *testing.T) {
	store := newCircStore()
	available := store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusAvailable)
	borrowed := store.addAsset("BK-2", "100", decimal.Zero, models.AssetStatusBorrowed)
	svc := newCirculation(store, clock.NewFixed(time.Now()), &mockRecorder{})

	asset, err := svc.MarkDamaged(context.Background(), available.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusDamaged, asset.Status)

	_, err = svc.MarkDamaged(context.Background(), borrowed.ID)
	assertAppError(t, err, appErrors.ErrInvalidState)
}

func TestRepairOnlyFromDamaged(t *testing.T) {
	store := newCircStore()
	damaged := store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusDamaged)
	available := store.addAsset("BK-2", "100", decimal.Zero, models.AssetStatusAvailable)
	svc := newCirculation(store, clock.NewFixed(time.Now()), &mockRecorder{})

	asset, err := svc.Repair(context.Background(), damaged.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusAvailable, asset.Status)

	_, err = svc.Repair(context.Background(), available.ID)
	assertAppError(t, err, appErrors.ErrInvalidState)
}

func TestRestoreFromLostRequiresSettledFine(t *testing.T) {
	store := newCircStore()
	patron := store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusActive)
	lost := store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusLost)

	pending := models.PaymentStatusPending
	ret := time.Now()
	loan := &models.Loan{
		ID: uuid.NewString(), PatronID: patron.ID, AssetID: lost.ID,
		BorrowedAt: ret.AddDate(0, 0, -10), ReturnedAt: &ret,
		PenaltyAmount: decimal.NewFromInt(500), PaymentStatus: &pending,
	}
	store.loans = append(store.loans, loan)

	svc := newCirculation(store, clock.NewFixed(time.Now()), &mockRecorder{})
	_, err := svc.RestoreFromLost(context.Background(), lost.ID)
	assertAppError(t, err, appErrors.ErrFineUnsettled)

	paid := models.PaymentStatusPaid
	loan.PaymentStatus = &paid

	asset, err := svc.RestoreFromLost(context.Background(), lost.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusAvailable, asset.Status)
}

func TestRestoreFromLostRejectsOtherStates(t *testing.T) {
	store := newCircStore()
	available := store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusAvailable)
	svc := newCirculation(store, clock.NewFixed(time.Now()), &mockRecorder{})

	_, err := svc.RestoreFromLost(context.Background(), available.ID)
	assertAppError(t, err, appErrors.ErrInvalidState)
}

func TestBorrowAfterReturnReuse(t *testing.T) {
	store := newCircStore()
	store.addPatron("S-1", models.PatronClassStudent, models.PatronStatusActive)
	store.addPatron("S-2", models.PatronClassStudent, models.PatronStatusActive)
	store.addAsset("BK-1", "100", decimal.Zero, models.AssetStatusAvailable)

	borrowedAt := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	borrowThen(t, store, "S-1", "BK-1", borrowedAt)

	returnAt := borrowedAt.AddDate(0, 0, 2)
	svc := newCirculation(store, clock.NewFixed(returnAt), &mockRecorder{})
	_, err := svc.Return(context.Background(), "BK-1")
	require.NoError(t, err)

	// The same copy can go straight back out to another patron.
	borrowThen(t, store, "S-2", "BK-1", returnAt.Add(time.Hour))
	assert.Equal(t, models.AssetStatusBorrowed, store.assets["BK-1"].Status)
}
