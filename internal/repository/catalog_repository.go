package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GENKAIYIEE/library-backend/internal/models"
)

const assetColumns = `id, asset_code, title_id, status, building, aisle, shelf, created_at, updated_at, deleted_at`

const titleColumns = `id, title, author, isbn, call_number, category, price, created_at, updated_at, deleted_at`

// CatalogRepository persists titles and physical assets. The circulation
// engine is the only writer of asset status.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// FindAssetByCode fetches a non-deleted asset by barcode.
func (r *CatalogRepository) FindAssetByCode(ctx context.Context, code string) (*models.Asset, error) {
	query := fmt.Sprintf(`SELECT %s FROM assets WHERE asset_code = $1 AND deleted_at IS NULL`, assetColumns)
	var asset models.Asset
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &asset, query, code); err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindAssetByCodeForUpdate locks the asset row for the remainder of the
// surrounding transaction. Borrow/return race on this lock.
func (r *CatalogRepository) FindAssetByCodeForUpdate(ctx context.Context, code string) (*models.Asset, error) {
	query := fmt.Sprintf(`SELECT %s FROM assets WHERE asset_code = $1 AND deleted_at IS NULL FOR UPDATE`, assetColumns)
	var asset models.Asset
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &asset, query, code); err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindAssetByIDForUpdate locks the asset row by primary key.
func (r *CatalogRepository) FindAssetByIDForUpdate(ctx context.Context, id string) (*models.Asset, error) {
	query := fmt.Sprintf(`SELECT %s FROM assets WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, assetColumns)
	var asset models.Asset
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &asset, query, id); err != nil {
		return nil, err
	}
	return &asset, nil
}

// UpdateAssetStatus persists a status transition.
func (r *CatalogRepository) UpdateAssetStatus(ctx context.Context, id string, status models.AssetStatus) error {
	const query = `UPDATE assets SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := runner(ctx, r.db).ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update asset status: %w", err)
	}
	return nil
}

// FindTitleByID fetches a title. Soft-deleted titles are still readable
// because closed loans may reference them.
func (r *CatalogRepository) FindTitleByID(ctx context.Context, id string) (*models.Title, error) {
	query := fmt.Sprintf(`SELECT %s FROM titles WHERE id = $1`, titleColumns)
	var title models.Title
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &title, query, id); err != nil {
		return nil, err
	}
	return &title, nil
}

// CreateTitle inserts a bibliographic record.
func (r *CatalogRepository) CreateTitle(ctx context.Context, title *models.Title) error {
	if title.ID == "" {
		title.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	title.CreatedAt = now
	title.UpdatedAt = now
	const query = `INSERT INTO titles (id, title, author, isbn, call_number, category, price, created_at, updated_at)
VALUES (:id, :title, :author, :isbn, :call_number, :category, :price, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, runner(ctx, r.db), query, title); err != nil {
		return fmt.Errorf("create title: %w", err)
	}
	return nil
}

// CreateAsset inserts a physical copy, available by default.
func (r *CatalogRepository) CreateAsset(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	if asset.Status == "" {
		asset.Status = models.AssetStatusAvailable
	}
	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	const query = `INSERT INTO assets (id, asset_code, title_id, status, building, aisle, shelf, created_at, updated_at)
VALUES (:id, :asset_code, :title_id, :status, :building, :aisle, :shelf, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, runner(ctx, r.db), query, asset); err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}

// ListAssetsByStatus returns asset details in a given status, excluding
// soft-deleted copies and copies of soft-deleted titles.
func (r *CatalogRepository) ListAssetsByStatus(ctx context.Context, status models.AssetStatus) ([]models.AssetDetail, error) {
	query := fmt.Sprintf(`SELECT a.%s, t.title AS book_title, t.author, t.call_number, t.category
FROM assets a
JOIN titles t ON t.id = a.title_id AND t.deleted_at IS NULL
WHERE a.status = $1 AND a.deleted_at IS NULL
ORDER BY a.asset_code ASC`, assetJoinColumns())
	var assets []models.AssetDetail
	if err := sqlx.SelectContext(ctx, runner(ctx, r.db), &assets, query, status); err != nil {
		return nil, fmt.Errorf("list assets by status: %w", err)
	}
	return assets, nil
}

// FindAssetDetailByCode resolves a barcode to the asset plus its
// title's bibliographic fields.
func (r *CatalogRepository) FindAssetDetailByCode(ctx context.Context, code string) (*models.AssetDetail, error) {
	query := fmt.Sprintf(`SELECT a.%s, t.title AS book_title, t.author, t.call_number, t.category
FROM assets a
JOIN titles t ON t.id = a.title_id AND t.deleted_at IS NULL
WHERE a.asset_code = $1 AND a.deleted_at IS NULL`, assetJoinColumns())
	var asset models.AssetDetail
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &asset, query, code); err != nil {
		return nil, fmt.Errorf("find asset detail by code: %w", err)
	}
	return &asset, nil
}

func assetJoinColumns() string {
	return `id, a.asset_code, a.title_id, a.status, a.building, a.aisle, a.shelf, a.created_at, a.updated_at, a.deleted_at`
}
