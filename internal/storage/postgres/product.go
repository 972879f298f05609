package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openretail/pos-register/internal/domain/catalog"
)

var _ catalog.Repository = (*ProductRepository)(nil)

// ProductRepository implements catalog.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, sku, barcode, category, unit_price, tax_rate, stock_quantity`

// List returns all products ordered by name.
func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	var p catalog.Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Barcode, &p.Category,
		&p.UnitPrice, &p.TaxRate, &p.StockQuantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// Search resolves a scan string: an exact barcode match wins, otherwise a
// case-insensitive substring match on name or SKU.
func (r *ProductRepository) Search(ctx context.Context, query string) ([]catalog.Product, error) {
	byBarcode := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE barcode = $1`, query)

	var p catalog.Product
	err := byBarcode.Scan(&p.ID, &p.Name, &p.SKU, &p.Barcode, &p.Category,
		&p.UnitPrice, &p.TaxRate, &p.StockQuantity)
	if err == nil {
		return []catalog.Product{p}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("searching products by barcode %q: %w", query, err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE name ILIKE '%' || $1 || '%' OR sku ILIKE '%' || $1 || '%'
		 ORDER BY name`, query)
	if err != nil {
		return nil, fmt.Errorf("searching products %q: %w", query, err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Upsert inserts or replaces a product row. Used by the ingest and seed tools.
func (r *ProductRepository) Upsert(ctx context.Context, p catalog.Product) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, name, sku, barcode, category, unit_price, tax_rate, stock_quantity)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, sku = EXCLUDED.sku, barcode = EXCLUDED.barcode,
		   category = EXCLUDED.category, unit_price = EXCLUDED.unit_price,
		   tax_rate = EXCLUDED.tax_rate, stock_quantity = EXCLUDED.stock_quantity`,
		p.ID, p.Name, p.SKU, p.Barcode, p.Category, p.UnitPrice, p.TaxRate, p.StockQuantity)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]catalog.Product, error) {
	var out []catalog.Product
	for rows.Next() {
		var p catalog.Product
		err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Barcode, &p.Category,
			&p.UnitPrice, &p.TaxRate, &p.StockQuantity)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	return out, nil
}
