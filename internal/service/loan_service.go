package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GENKAIYIEE/library-backend/internal/clock"
	"github.com/GENKAIYIEE/library-backend/internal/models"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
	"github.com/GENKAIYIEE/library-backend/pkg/export"
)

type loanQueryStore interface {
	List(ctx context.Context, filter models.LoanFilter) ([]models.LoanDetail, int, error)
	ListOverdueOpen(ctx context.Context, now time.Time) ([]models.LoanDetail, error)
}

type loanPatronReader interface {
	FindByCode(ctx context.Context, code string) (*models.Patron, error)
}

// LoanService serves loan history and overdue queries plus their
// exports. All reads, no state changes.
type LoanService struct {
	loans   loanQueryStore
	patrons loanPatronReader
	clock   clock.Clock
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewLoanService constructs the service.
func NewLoanService(loans loanQueryStore, patrons loanPatronReader, clk clock.Clock, logger *zap.Logger) *LoanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &LoanService{
		loans:   loans,
		patrons: patrons,
		clock:   clk,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// List returns loan history matching the filter, with pagination.
func (s *LoanService) List(ctx context.Context, filter models.LoanFilter) ([]models.LoanDetail, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	loans, total, err := s.loans.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list loans")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return loans, pagination, nil
}

// History returns a patron's full loan history, newest first.
func (s *LoanService) History(ctx context.Context, patronCode string, page, pageSize int) ([]models.LoanDetail, *models.Pagination, error) {
	patron, err := s.patrons.FindByCode(ctx, patronCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "patron not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patron")
	}
	return s.List(ctx, models.LoanFilter{
		PatronID: patron.ID,
		Page:     page,
		PageSize: pageSize,
	})
}

// Overdue returns open loans past their due date, oldest first.
func (s *LoanService) Overdue(ctx context.Context) ([]models.LoanDetail, error) {
	loans, err := s.loans.ListOverdueOpen(ctx, s.clock.Now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list overdue loans")
	}
	return loans, nil
}

// ExportHistoryCSV renders the filtered loan history as CSV.
func (s *LoanService) ExportHistoryCSV(ctx context.Context, filter models.LoanFilter) ([]byte, error) {
	filter.Page = 1
	filter.PageSize = 100
	loans, _, err := s.loans.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list loans")
	}
	data, err := s.csv.Render(loanDataset(loans, s.clock.Now()))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return data, nil
}

// ExportOverduePDF renders the current overdue list as a PDF table.
func (s *LoanService) ExportOverduePDF(ctx context.Context) ([]byte, error) {
	now := s.clock.Now()
	loans, err := s.loans.ListOverdueOpen(ctx, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list overdue loans")
	}
	data, err := s.pdf.Render(loanDataset(loans, now), fmt.Sprintf("Overdue Loans as of %s", now.Format("2006-01-02")))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return data, nil
}

var loanExportHeaders = []string{"Patron", "Name", "Class", "Asset", "Title", "Borrowed", "Due", "Returned", "Days Late", "Penalty", "Payment"}

func loanDataset(loans []models.LoanDetail, now time.Time) export.Dataset {
	rows := make([]map[string]string, 0, len(loans))
	for _, l := range loans {
		returned := ""
		late := lateDays(l.DueDate, now)
		if l.ReturnedAt != nil {
			returned = l.ReturnedAt.Format("2006-01-02")
			late = lateDays(l.DueDate, *l.ReturnedAt)
		}
		payment := ""
		if l.PaymentStatus != nil {
			payment = string(*l.PaymentStatus)
		}
		rows = append(rows, map[string]string{
			"Patron":    l.PatronCode,
			"Name":      l.PatronName,
			"Class":     string(l.PatronClass),
			"Asset":     l.AssetCode,
			"Title":     l.BookTitle,
			"Borrowed":  l.BorrowedAt.Format("2006-01-02"),
			"Due":       l.DueDate.Format("2006-01-02"),
			"Returned":  returned,
			"Days Late": fmt.Sprintf("%d", late),
			"Penalty":   l.PenaltyAmount.StringFixed(2),
			"Payment":   payment,
		})
	}
	return export.Dataset{Headers: loanExportHeaders, Rows: rows}
}
