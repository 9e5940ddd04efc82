package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
)

type TrialRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*domain.TrialState, error)
}

type FeatureRuleRepository interface {
	FindByKey(ctx context.Context, featureKey string) (*domain.FeatureAccessRule, error)
}
