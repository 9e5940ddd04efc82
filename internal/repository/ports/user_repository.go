package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpsertByEmail(ctx context.Context, email, fullName string) (*domain.User, error)
	ListRoles(ctx context.Context, userID uuid.UUID) ([]domain.Role, error)
}
