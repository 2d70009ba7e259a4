package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GENKAIYIEE/library-backend/internal/models"
)

const settingColumns = `key, value, type, grouping, description, updated_at`

// SettingRepository persists library policy settings.
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository constructs the repository.
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get fetches a single setting by key.
func (r *SettingRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	query := fmt.Sprintf(`SELECT %s FROM library_settings WHERE key = $1`, settingColumns)
	var setting models.Setting
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &setting, query, key); err != nil {
		return nil, err
	}
	return &setting, nil
}

// List returns all settings, optionally scoped to a group.
func (r *SettingRepository) List(ctx context.Context, group string) ([]models.Setting, error) {
	var settings []models.Setting
	if group == "" {
		query := fmt.Sprintf(`SELECT %s FROM library_settings ORDER BY key ASC`, settingColumns)
		if err := sqlx.SelectContext(ctx, runner(ctx, r.db), &settings, query); err != nil {
			return nil, fmt.Errorf("list settings: %w", err)
		}
		return settings, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM library_settings WHERE grouping = $1 ORDER BY key ASC`, settingColumns)
	if err := sqlx.SelectContext(ctx, runner(ctx, r.db), &settings, query, group); err != nil {
		return nil, fmt.Errorf("list settings by group: %w", err)
	}
	return settings, nil
}

// UpdateValue sets the value of an existing key. Unknown keys are not
// created implicitly.
func (r *SettingRepository) UpdateValue(ctx context.Context, key, value string) (bool, error) {
	const query = `UPDATE library_settings SET value = $2, updated_at = $3 WHERE key = $1`
	result, err := runner(ctx, r.db).ExecContext(ctx, query, key, value, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("update setting: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update setting rows: %w", err)
	}
	return affected > 0, nil
}
