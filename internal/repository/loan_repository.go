package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/GENKAIYIEE/library-backend/internal/models"
)

const loanColumns = `id, patron_id, asset_id, borrowed_at, due_date, returned_at, penalty_amount, payment_status, payment_date, remarks, processed_by, created_at, updated_at`

const loanDetailSelect = `SELECT l.id, l.patron_id, l.asset_id, l.borrowed_at, l.due_date, l.returned_at,
       l.penalty_amount, l.payment_status, l.payment_date, l.remarks, l.processed_by, l.created_at, l.updated_at,
       p.code AS patron_code, p.name AS patron_name, p.class AS patron_class,
       a.asset_code, t.title AS book_title, t.author
FROM loans l
JOIN patrons p ON p.id = l.patron_id
JOIN assets a ON a.id = l.asset_id
JOIN titles t ON t.id = a.title_id`

// LoanRepository persists the loan lifecycle.
type LoanRepository struct {
	db *sqlx.DB
}

// NewLoanRepository constructs the repository.
func NewLoanRepository(db *sqlx.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// FindByID fetches a loan by primary key.
func (r *LoanRepository) FindByID(ctx context.Context, id string) (*models.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM loans WHERE id = $1`, loanColumns)
	var loan models.Loan
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &loan, query, id); err != nil {
		return nil, err
	}
	return &loan, nil
}

// FindOpenByAssetID returns the single open loan for an asset, or nil.
func (r *LoanRepository) FindOpenByAssetID(ctx context.Context, assetID string) (*models.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM loans WHERE asset_id = $1 AND returned_at IS NULL`, loanColumns)
	var loan models.Loan
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &loan, query, assetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open loan: %w", err)
	}
	return &loan, nil
}

// FindLatestByAssetID returns the most recent loan for an asset, or nil.
func (r *LoanRepository) FindLatestByAssetID(ctx context.Context, assetID string) (*models.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM loans WHERE asset_id = $1 ORDER BY borrowed_at DESC LIMIT 1`, loanColumns)
	var loan models.Loan
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &loan, query, assetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find latest loan: %w", err)
	}
	return &loan, nil
}

// SumPendingFines totals recorded pending penalties for a patron.
func (r *LoanRepository) SumPendingFines(ctx context.Context, patronID string) (decimal.Decimal, error) {
	const query = `SELECT COALESCE(SUM(penalty_amount), 0) FROM loans
WHERE patron_id = $1 AND payment_status = 'pending' AND penalty_amount > 0`
	var total decimal.Decimal
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &total, query, patronID); err != nil {
		return decimal.Zero, fmt.Errorf("sum pending fines: %w", err)
	}
	return total, nil
}

// CountOpenByPatron counts a patron's active loans.
func (r *LoanRepository) CountOpenByPatron(ctx context.Context, patronID string) (int, error) {
	const query = `SELECT COUNT(*) FROM loans WHERE patron_id = $1 AND returned_at IS NULL`
	var count int
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &count, query, patronID); err != nil {
		return 0, fmt.Errorf("count open loans: %w", err)
	}
	return count, nil
}

// ListOpenByPatron returns all active loans of a patron.
func (r *LoanRepository) ListOpenByPatron(ctx context.Context, patronID string) ([]models.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM loans WHERE patron_id = $1 AND returned_at IS NULL ORDER BY due_date ASC`, loanColumns)
	var loans []models.Loan
	if err := sqlx.SelectContext(ctx, runner(ctx, r.db), &loans, query, patronID); err != nil {
		return nil, fmt.Errorf("list open loans: %w", err)
	}
	return loans, nil
}

// Create inserts a new open loan. The partial unique index on
// (asset_id) WHERE returned_at IS NULL rejects a concurrent duplicate.
func (r *LoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	if loan.ID == "" {
		loan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	loan.CreatedAt = now
	loan.UpdatedAt = now
	const query = `INSERT INTO loans (id, patron_id, asset_id, borrowed_at, due_date, returned_at, penalty_amount, payment_status, payment_date, remarks, processed_by, created_at, updated_at)
VALUES (:id, :patron_id, :asset_id, :borrowed_at, :due_date, :returned_at, :penalty_amount, :payment_status, :payment_date, :remarks, :processed_by, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, runner(ctx, r.db), query, loan); err != nil {
		return err
	}
	return nil
}

// Close finalises an open loan with its computed penalty. Used by both
// return and mark-lost, which differ only in penalty source and the
// payment status they record.
func (r *LoanRepository) Close(ctx context.Context, id string, returnedAt time.Time, penalty decimal.Decimal, status models.PaymentStatus) error {
	const query = `UPDATE loans
SET returned_at = $2, penalty_amount = $3, payment_status = $4, updated_at = $5
WHERE id = $1 AND returned_at IS NULL`
	result, err := runner(ctx, r.db).ExecContext(ctx, query, id, returnedAt, penalty, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("close loan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("close loan rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePayment transitions the payment status. Return state and penalty
// amount are never touched here.
func (r *LoanRepository) UpdatePayment(ctx context.Context, id string, status models.PaymentStatus, paymentDate *time.Time, remarks *string) error {
	const query = `UPDATE loans
SET payment_status = $2, payment_date = $3, remarks = COALESCE($4, remarks), updated_at = $5
WHERE id = $1`
	if _, err := runner(ctx, r.db).ExecContext(ctx, query, id, status, paymentDate, remarks, time.Now().UTC()); err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

// List returns loan details matching the filter plus a total count.
func (r *LoanRepository) List(ctx context.Context, filter models.LoanFilter) ([]models.LoanDetail, int, error) {
	where, args := buildLoanFilter(filter)

	countQuery := `SELECT COUNT(*) FROM loans l
JOIN patrons p ON p.id = l.patron_id
JOIN assets a ON a.id = l.asset_id
JOIN titles t ON t.id = a.title_id` + where
	var total int
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count loans: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	order := "l.borrowed_at DESC"
	if filter.SortBy == "due_date" {
		order = "l.due_date ASC"
	}
	query := fmt.Sprintf("%s%s ORDER BY %s LIMIT %d OFFSET %d", loanDetailSelect, where, order, size, (page-1)*size)

	var loans []models.LoanDetail
	if err := sqlx.SelectContext(ctx, runner(ctx, r.db), &loans, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list loans: %w", err)
	}
	return loans, total, nil
}

// ListPendingFinesByPatron returns closed loans still owing money.
func (r *LoanRepository) ListPendingFinesByPatron(ctx context.Context, patronID string) ([]models.LoanDetail, error) {
	query := loanDetailSelect + `
WHERE l.patron_id = $1 AND l.payment_status = 'pending' AND l.penalty_amount > 0
ORDER BY l.returned_at DESC`
	var loans []models.LoanDetail
	if err := sqlx.SelectContext(ctx, runner(ctx, r.db), &loans, query, patronID); err != nil {
		return nil, fmt.Errorf("list pending fines: %w", err)
	}
	return loans, nil
}

// FindUnsettledLostByPatron returns the most recent loan whose asset is
// still lost and whose replacement fine is unpaid, or nil.
func (r *LoanRepository) FindUnsettledLostByPatron(ctx context.Context, patronID string) (*models.Loan, error) {
	query := `SELECT l.` + strings.ReplaceAll(loanColumns, ", ", ", l.") + `
FROM loans l
JOIN assets a ON a.id = l.asset_id
WHERE l.patron_id = $1 AND a.status = 'lost'
  AND l.payment_status = 'pending' AND l.penalty_amount > 0
ORDER BY l.borrowed_at DESC
LIMIT 1`
	var loan models.Loan
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &loan, query, patronID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find unsettled lost loan: %w", err)
	}
	return &loan, nil
}

// ListOverdueOpen returns open loans past their due date, oldest first.
// This is the feed the external reminder job consumes.
func (r *LoanRepository) ListOverdueOpen(ctx context.Context, now time.Time) ([]models.LoanDetail, error) {
	query := loanDetailSelect + `
WHERE l.returned_at IS NULL AND l.due_date < $1
ORDER BY l.due_date ASC`
	var loans []models.LoanDetail
	if err := sqlx.SelectContext(ctx, runner(ctx, r.db), &loans, query, now); err != nil {
		return nil, fmt.Errorf("list overdue loans: %w", err)
	}
	return loans, nil
}

func buildLoanFilter(filter models.LoanFilter) (string, []interface{}) {
	clauses := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.PatronID != "" {
		add("l.patron_id = $%d", filter.PatronID)
	}
	if filter.PatronClass != "" {
		add("p.class = $%d", filter.PatronClass)
	}
	if filter.AssetCode != "" {
		add("a.asset_code = $%d", filter.AssetCode)
	}
	if filter.OnlyOpen {
		clauses = append(clauses, "l.returned_at IS NULL")
	}
	if filter.OnlyOverdue {
		clauses = append(clauses, "l.returned_at IS NULL AND l.due_date < NOW()")
	}

	if len(clauses) == 0 {
		return "", args
	}
	where := "\nWHERE " + clauses[0]
	for _, clause := range clauses[1:] {
		where += " AND " + clause
	}
	return where, args
}
