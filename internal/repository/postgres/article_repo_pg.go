package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fornecelist/backend/internal/domain"
)

type ArticleRepository struct {
	db *sqlx.DB
}

func NewArticleRepo(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

const articleColumns = `id, title, slug, excerpt, content, cover_image_url, category_id,
       published_at, created_at, updated_at`

func (r *ArticleRepository) ListPublished(ctx context.Context, limit, offset int) ([]domain.Article, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT ` + articleColumns + `
		FROM article
		WHERE published_at IS NOT NULL AND published_at <= NOW()
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2`
	articles := make([]domain.Article, 0)
	if err := r.db.SelectContext(ctx, &articles, query, limit, offset); err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *ArticleRepository) FindBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM article WHERE slug = $1`
	var article domain.Article
	if err := r.db.GetContext(ctx, &article, query, slug); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *ArticleRepository) LatestPerCategory(ctx context.Context) ([]uuid.UUID, error) {
	const query = `
		SELECT DISTINCT ON (category_id) id
		FROM article
		WHERE published_at IS NOT NULL AND published_at <= NOW()
		ORDER BY category_id, published_at DESC
	`
	ids := make([]uuid.UUID, 0)
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, err
	}
	return ids, nil
}
