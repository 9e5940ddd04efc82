package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fornecelist/backend/internal/domain"
)

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepo(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) ListAll(ctx context.Context) ([]domain.Category, error) {
	const query = `
		SELECT id, name, slug, created_at
		FROM category
		ORDER BY name ASC
	`
	categories := make([]domain.Category, 0)
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}
