package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fornecelist/backend/internal/domain"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, full_name, user_image_url, password_hash, password_salt,
       subscription_active, created_at, updated_at`

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM app_user WHERE id = $1`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM app_user WHERE lower(email) = lower($1)`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, strings.TrimSpace(email)); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpsertByEmail(ctx context.Context, email, fullName string) (*domain.User, error) {
	query := `
		INSERT INTO app_user (email, full_name)
		VALUES (lower($1), NULLIF($2, ''))
		ON CONFLICT (email) DO UPDATE
		SET full_name = COALESCE(app_user.full_name, EXCLUDED.full_name),
		    updated_at = NOW()
		RETURNING ` + userColumns
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, strings.TrimSpace(email), strings.TrimSpace(fullName)); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ListRoles(ctx context.Context, userID uuid.UUID) ([]domain.Role, error) {
	const query = `
		SELECT r.id, r.role_name, r.description, r.created_at, r.updated_at
		FROM role r
		JOIN user_role ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.role_name ASC
	`
	roles := make([]domain.Role, 0)
	if err := r.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, err
	}
	return roles, nil
}
