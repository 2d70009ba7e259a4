package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GENKAIYIEE/library-backend/internal/models"
)

const patronColumns = `id, code, name, class, status, course, department, created_at, updated_at`

// PatronRepository reads patron records. Patrons are managed externally;
// the circulation engine only consumes them.
type PatronRepository struct {
	db *sqlx.DB
}

// NewPatronRepository constructs the repository.
func NewPatronRepository(db *sqlx.DB) *PatronRepository {
	return &PatronRepository{db: db}
}

// FindByCode fetches a patron by its library code (student or faculty id).
func (r *PatronRepository) FindByCode(ctx context.Context, code string) (*models.Patron, error) {
	query := fmt.Sprintf(`SELECT %s FROM patrons WHERE code = $1`, patronColumns)
	var patron models.Patron
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &patron, query, code); err != nil {
		return nil, err
	}
	return &patron, nil
}

// FindByID fetches a patron by primary key.
func (r *PatronRepository) FindByID(ctx context.Context, id string) (*models.Patron, error) {
	query := fmt.Sprintf(`SELECT %s FROM patrons WHERE id = $1`, patronColumns)
	var patron models.Patron
	if err := sqlx.GetContext(ctx, runner(ctx, r.db), &patron, query, id); err != nil {
		return nil, err
	}
	return &patron, nil
}
