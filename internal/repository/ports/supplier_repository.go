package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
)

type SupplierFilter struct {
	CategoryIDs []uuid.UUID
	State       string
	City        string
	AvgPrice    *domain.PriceRange
	Search      string
	Limit       int
	Offset      int
}

type SupplierRepository interface {
	Create(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	FindByCode(ctx context.Context, code string) (*domain.Supplier, error)
	List(ctx context.Context, filter SupplierFilter) ([]domain.Supplier, error)
	ListCodes(ctx context.Context) ([]string, error)
}
