package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no product matches a lookup.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item as seen by the register. The register copies
// price and tax rate into the cart line at add-time; StockQuantity is always
// re-read from the catalog when a quantity changes.
type Product struct {
	ID            string
	Name          string
	SKU           string
	Barcode       string
	Category      string
	UnitPrice     decimal.Decimal
	TaxRate       decimal.Decimal // percent, e.g. 18 for 18%
	StockQuantity int
}

// Repository defines read operations over the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	// Search resolves a scan/search string: an exact barcode match wins,
	// otherwise products whose name or SKU contain the query are returned.
	Search(ctx context.Context, query string) ([]Product, error)
}
