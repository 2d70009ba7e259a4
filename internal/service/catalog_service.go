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

type catalogStore interface {
	FindAssetDetailByCode(ctx context.Context, code string) (*models.AssetDetail, error)
	ListAssetsByStatus(ctx context.Context, status models.AssetStatus) ([]models.AssetDetail, error)
	CreateTitle(ctx context.Context, title *models.Title) error
	CreateAsset(ctx context.Context, asset *models.Asset) error
}

type catalogLoanReader interface {
	FindOpenByAssetID(ctx context.Context, assetID string) (*models.Loan, error)
}

type catalogPatronReader interface {
	FindByID(ctx context.Context, id string) (*models.Patron, error)
}

// CreateTitleRequest is the payload for registering a bibliographic record.
type CreateTitleRequest struct {
	Title      string  `json:"title" validate:"required"`
	Author     string  `json:"author" validate:"required"`
	ISBN       *string `json:"isbn,omitempty"`
	CallNumber *string `json:"call_number,omitempty"`
	Category   *string `json:"category,omitempty"`
	Price      string  `json:"price,omitempty"`
}

// CreateAssetRequest registers one physical copy under a title.
type CreateAssetRequest struct {
	AssetCode string  `json:"asset_code" validate:"required"`
	TitleID   string  `json:"title_id" validate:"required,uuid4"`
	Building  *string `json:"building,omitempty"`
	Aisle     *string `json:"aisle,omitempty"`
	Shelf     *string `json:"shelf,omitempty"`
}

// BorrowerSummary describes who currently holds a copy.
type BorrowerSummary struct {
	LoanID     string    `json:"loan_id"`
	PatronCode string    `json:"patron_code"`
	PatronName string    `json:"patron_name"`
	BorrowedAt time.Time `json:"borrowed_at"`
	DueDate    time.Time `json:"due_date"`
	DaysLate   int       `json:"days_late"`
}

// BarcodeInfo is the circulation desk's scan result: the copy, its
// title, and the open loan if one exists.
type BarcodeInfo struct {
	Asset    *models.AssetDetail `json:"asset"`
	Borrower *BorrowerSummary    `json:"borrower,omitempty"`
}

// CatalogService covers title/asset registration and desk lookups.
type CatalogService struct {
	catalog   catalogStore
	loans     catalogLoanReader
	patrons   catalogPatronReader
	clock     clock.Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs the service.
func NewCatalogService(catalog catalogStore, loans catalogLoanReader, patrons catalogPatronReader, clk clock.Clock, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &CatalogService{catalog: catalog, loans: loans, patrons: patrons, clock: clk, validator: validate, logger: logger}
}

// CreateTitle registers a bibliographic record.
func (s *CatalogService) CreateTitle(ctx context.Context, req CreateTitleRequest) (*models.Title, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid title payload")
	}
	price := decimal.Zero
	if req.Price != "" {
		parsed, err := decimal.NewFromString(req.Price)
		if err != nil || parsed.IsNegative() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "price must be a non-negative number")
		}
		price = parsed
	}
	title := &models.Title{
		Title:      req.Title,
		Author:     req.Author,
		ISBN:       req.ISBN,
		CallNumber: req.CallNumber,
		Category:   req.Category,
		Price:      price,
	}
	if err := s.catalog.CreateTitle(ctx, title); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a title with this ISBN already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create title")
	}
	return title, nil
}

// CreateAsset registers a physical copy. New copies start available.
func (s *CatalogService) CreateAsset(ctx context.Context, req CreateAssetRequest) (*models.Asset, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid asset payload")
	}
	asset := &models.Asset{
		AssetCode: req.AssetCode,
		TitleID:   req.TitleID,
		Status:    models.AssetStatusAvailable,
		Building:  req.Building,
		Aisle:     req.Aisle,
		Shelf:     req.Shelf,
	}
	if err := s.catalog.CreateAsset(ctx, asset); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "asset code already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create asset")
	}
	return asset, nil
}

// Lookup resolves a scanned barcode to the copy and, when it is out,
// the borrower and how late the loan is.
func (s *CatalogService) Lookup(ctx context.Context, assetCode string) (*BarcodeInfo, error) {
	asset, err := s.catalog.FindAssetDetailByCode(ctx, assetCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "asset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
	}

	info := &BarcodeInfo{Asset: asset}
	loan, err := s.loans.FindOpenByAssetID(ctx, asset.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load open loan")
	}
	if loan == nil {
		return info, nil
	}

	patron, err := s.patrons.FindByID(ctx, loan.PatronID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patron")
	}
	info.Borrower = &BorrowerSummary{
		LoanID:     loan.ID,
		PatronCode: patron.Code,
		PatronName: patron.Name,
		BorrowedAt: loan.BorrowedAt,
		DueDate:    loan.DueDate,
		DaysLate:   lateDays(loan.DueDate, s.clock.Now()),
	}
	return info, nil
}

// ListAvailable returns the copies currently on the shelf.
func (s *CatalogService) ListAvailable(ctx context.Context) ([]models.AssetDetail, error) {
	return s.listByStatus(ctx, models.AssetStatusAvailable)
}

// ListBorrowed returns the copies currently out.
func (s *CatalogService) ListBorrowed(ctx context.Context) ([]models.AssetDetail, error) {
	return s.listByStatus(ctx, models.AssetStatusBorrowed)
}

func (s *CatalogService) listByStatus(ctx context.Context, status models.AssetStatus) ([]models.AssetDetail, error) {
	assets, err := s.catalog.ListAssetsByStatus(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assets")
	}
	return assets, nil
}
