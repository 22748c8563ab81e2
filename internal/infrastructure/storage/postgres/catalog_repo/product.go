// Package catalog_repo loads catalog snapshots from PostgreSQL.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventory/internal/core/apperror"
	"inventory/internal/core/types"
	"inventory/internal/domain/catalog"
)

const productTable = "products"

// productRow mirrors the products table. Price is selected as text and
// parsed leniently, so NUMERIC, MONEY and text columns all work.
type productRow struct {
	ID          int64  `db:"id"`
	SKU         string `db:"sku"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Price       string `db:"price"`
}

// ProductRepoConfig selects which products make up the snapshot.
type ProductRepoConfig struct {
	Table      string
	ActiveOnly bool
	Limit      uint64
}

// DefaultProductRepoConfig returns the standard snapshot query settings.
func DefaultProductRepoConfig() ProductRepoConfig {
	return ProductRepoConfig{
		Table:      productTable,
		ActiveOnly: true,
	}
}

// ProductRepo implements catalog.Source.
type ProductRepo struct {
	db  pgxscan.Querier
	cfg ProductRepoConfig
}

// NewProductRepo creates a product repository over db (usually a *postgres.Pool).
func NewProductRepo(db pgxscan.Querier, cfg ProductRepoConfig) *ProductRepo {
	if cfg.Table == "" {
		cfg.Table = productTable
	}
	return &ProductRepo{db: db, cfg: cfg}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *ProductRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *ProductRepo) snapshotQuery() squirrel.SelectBuilder {
	q := r.Builder().
		Select(
			"id",
			"sku",
			"name",
			"COALESCE(description, '') AS description",
			"COALESCE(price::text, '0') AS price",
		).
		From(r.cfg.Table).
		OrderBy("name ASC", "id ASC")

	if r.cfg.ActiveOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	if r.cfg.Limit > 0 {
		q = q.Limit(r.cfg.Limit)
	}
	return q
}

// Load implements catalog.Source.
func (r *ProductRepo) Load(ctx context.Context) ([]catalog.Product, error) {
	sql, args, err := r.snapshotQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build snapshot query: %w", err)
	}

	var rows []productRow
	if err := pgxscan.Select(ctx, r.db, &rows, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("select %s: %w", r.cfg.Table, err))
	}

	products := make([]catalog.Product, len(rows))
	for i, row := range rows {
		products[i] = catalog.Product{
			ID:          row.ID,
			SKU:         row.SKU,
			Name:        row.Name,
			Description: row.Description,
			Price:       types.NewNumeric(row.Price),
		}
	}
	return products, nil
}

var _ catalog.Source = (*ProductRepo)(nil)
