package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
)

type ArticleRepository interface {
	ListPublished(ctx context.Context, limit, offset int) ([]domain.Article, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Article, error)
	// LatestPerCategory returns, for every category with at least one
	// published article, the id of its most recently published one.
	LatestPerCategory(ctx context.Context) ([]uuid.UUID, error)
}
