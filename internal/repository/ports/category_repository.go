package ports

import (
	"context"

	"github.com/fornecelist/backend/internal/domain"
)

type CategoryRepository interface {
	ListAll(ctx context.Context) ([]domain.Category, error)
}
