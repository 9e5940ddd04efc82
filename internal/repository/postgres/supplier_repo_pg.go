package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fornecelist/backend/internal/domain"
	"github.com/fornecelist/backend/internal/repository/ports"
)

type SupplierRepository struct {
	db *sqlx.DB
}

func NewSupplierRepo(db *sqlx.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

const supplierColumns = `id, code, name, description, city, state, instagram, whatsapp, website,
       avg_price, min_order, shipping_methods, requires_cnpj, payment_methods,
       images, created_at, updated_at`

func (r *SupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	const query = `
		INSERT INTO supplier (
			code, name, description, city, state, instagram, whatsapp, website,
			avg_price, min_order, shipping_methods, requires_cnpj, payment_methods,
			images
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14
		)
		RETURNING ` + supplierColumns

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var inserted domain.Supplier
	if err := tx.GetContext(ctx, &inserted, query,
		supplier.Code,
		supplier.Name,
		supplier.Description,
		supplier.City,
		supplier.State,
		nullStringPtr(supplier.Instagram),
		nullStringPtr(supplier.Whatsapp),
		nullStringPtr(supplier.Website),
		priceRangeValue(supplier.AvgPrice),
		nullStringPtr(supplier.MinOrder),
		supplier.ShippingMethods,
		supplier.RequiresCNPJ,
		supplier.PaymentMethods,
		supplier.Images,
	); err != nil {
		return nil, err
	}

	for _, categoryID := range supplier.CategoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO supplier_category (supplier_id, category_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			inserted.ID, categoryID,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	inserted.CategoryIDs = supplier.CategoryIDs
	return &inserted, nil
}

func (r *SupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM supplier WHERE id = $1`
	var supplier domain.Supplier
	if err := r.db.GetContext(ctx, &supplier, query, id); err != nil {
		return nil, err
	}
	if err := r.loadCategories(ctx, &supplier); err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *SupplierRepository) FindByCode(ctx context.Context, code string) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM supplier WHERE code = $1`
	var supplier domain.Supplier
	if err := r.db.GetContext(ctx, &supplier, query, code); err != nil {
		return nil, err
	}
	if err := r.loadCategories(ctx, &supplier); err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *SupplierRepository) List(ctx context.Context, filter ports.SupplierFilter) ([]domain.Supplier, error) {
	conditions := make([]string, 0, 4)
	params := make([]any, 0, 6)

	if len(filter.CategoryIDs) > 0 {
		ids := make([]string, 0, len(filter.CategoryIDs))
		for _, id := range filter.CategoryIDs {
			ids = append(ids, id.String())
		}
		params = append(params, pq.StringArray(ids))
		conditions = append(conditions, fmt.Sprintf(
			`id IN (SELECT supplier_id FROM supplier_category WHERE category_id = ANY($%d::uuid[]))`,
			len(params)))
	}
	if strings.TrimSpace(filter.State) != "" {
		params = append(params, strings.TrimSpace(filter.State))
		conditions = append(conditions, fmt.Sprintf("state ILIKE $%d", len(params)))
	}
	if strings.TrimSpace(filter.City) != "" {
		params = append(params, strings.TrimSpace(filter.City))
		conditions = append(conditions, fmt.Sprintf("city ILIKE $%d", len(params)))
	}
	if filter.AvgPrice != nil {
		params = append(params, *filter.AvgPrice)
		conditions = append(conditions, fmt.Sprintf("avg_price = $%d", len(params)))
	}
	if strings.TrimSpace(filter.Search) != "" {
		params = append(params, "%"+strings.TrimSpace(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(params), len(params)))
	}

	query := `SELECT ` + supplierColumns + ` FROM supplier`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name ASC"

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	params = append(params, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(params))
	if filter.Offset > 0 {
		params = append(params, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(params))
	}

	suppliers := make([]domain.Supplier, 0)
	if err := r.db.SelectContext(ctx, &suppliers, query, params...); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *SupplierRepository) ListCodes(ctx context.Context) ([]string, error) {
	codes := make([]string, 0)
	if err := r.db.SelectContext(ctx, &codes, `SELECT code FROM supplier`); err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *SupplierRepository) loadCategories(ctx context.Context, supplier *domain.Supplier) error {
	ids := make([]uuid.UUID, 0)
	err := r.db.SelectContext(ctx, &ids,
		`SELECT category_id FROM supplier_category WHERE supplier_id = $1`, supplier.ID)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	supplier.CategoryIDs = ids
	return nil
}

func priceRangeValue(price *domain.PriceRange) any {
	if price == nil {
		return nil
	}
	return *price
}
