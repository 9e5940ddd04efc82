package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fornecelist/backend/internal/domain"
)

type TrialRepository struct {
	db *sqlx.DB
}

func NewTrialRepo(db *sqlx.DB) *TrialRepository {
	return &TrialRepository{db: db}
}

func (r *TrialRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.TrialState, error) {
	const query = `
		SELECT user_id, status, start_date, end_date, allowed_entity_ids,
		       last_rotation_date, created_at, updated_at
		FROM user_trial
		WHERE user_id = $1
	`
	var trial domain.TrialState
	if err := r.db.GetContext(ctx, &trial, query, userID); err != nil {
		return nil, err
	}
	return &trial, nil
}

type FeatureRuleRepository struct {
	db *sqlx.DB
}

func NewFeatureRuleRepo(db *sqlx.DB) *FeatureRuleRepository {
	return &FeatureRuleRepository{db: db}
}

func (r *FeatureRuleRepository) FindByKey(ctx context.Context, featureKey string) (*domain.FeatureAccessRule, error) {
	const query = `
		SELECT feature_key, trial_access_level, trial_limit_value, trial_locked_message,
		       non_subscriber_access_level, non_subscriber_limit_value, non_subscriber_locked_message
		FROM feature_access_rule
		WHERE feature_key = $1
	`
	var rule domain.FeatureAccessRule
	if err := r.db.GetContext(ctx, &rule, query, featureKey); err != nil {
		return nil, err
	}
	return &rule, nil
}
