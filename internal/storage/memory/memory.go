// Package memory provides volatile in-process repositories. This is the
// reference storage mode: everything lives in maps guarded by a RWMutex and
// is lost on restart. The postgres package offers the durable equivalents
// behind the same interfaces.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/openretail/pos-register/internal/domain/catalog"
	"github.com/openretail/pos-register/internal/domain/customer"
	"github.com/openretail/pos-register/internal/domain/register"
)

// ProductRepository implements catalog.Repository over an in-memory map.
type ProductRepository struct {
	mu   sync.RWMutex
	byID map[string]catalog.Product
	// order preserves insertion order for List.
	order []string
}

var _ catalog.Repository = (*ProductRepository)(nil)

// NewProductRepository returns an empty in-memory catalog.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{byID: make(map[string]catalog.Product)}
}

// Put inserts or replaces a product.
func (r *ProductRepository) Put(p catalog.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.byID[p.ID] = p
}

func (r *ProductRepository) List(_ context.Context) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &p, nil
}

// Search resolves a scan string: an exact barcode match returns that single
// product; otherwise the query matches as a case-insensitive substring of
// the name or SKU.
func (r *ProductRepository) Search(_ context.Context, query string) ([]catalog.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if r.byID[id].Barcode == query {
			p := r.byID[id]
			return []catalog.Product{p}, nil
		}
	}

	q := strings.ToLower(query)
	var out []catalog.Product
	for _, id := range r.order {
		p := r.byID[id]
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// CustomerRepository implements customer.Repository over an in-memory map.
type CustomerRepository struct {
	mu   sync.RWMutex
	byID map[string]customer.Customer
}

var _ customer.Repository = (*CustomerRepository)(nil)

// NewCustomerRepository returns an empty in-memory customer directory.
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{byID: make(map[string]customer.Customer)}
}

// Put inserts or replaces a customer.
func (r *CustomerRepository) Put(c customer.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
}

func (r *CustomerRepository) List(_ context.Context) ([]customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]customer.Customer, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *CustomerRepository) GetByID(_ context.Context, id string) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return &c, nil
}

// SaleRepository implements register.HistoryRepository as an append-only
// in-memory log.
type SaleRepository struct {
	mu    sync.RWMutex
	sales []register.Sale
}

var _ register.HistoryRepository = (*SaleRepository)(nil)

// NewSaleRepository returns an empty in-memory sales history.
func NewSaleRepository() *SaleRepository {
	return &SaleRepository{}
}

func (r *SaleRepository) Append(_ context.Context, sale *register.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = append(r.sales, *sale)
	return nil
}

func (r *SaleRepository) List(_ context.Context) ([]register.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]register.Sale(nil), r.sales...), nil
}

// Seed populates demo catalog and customer data for memory mode so a fresh
// install has something to scan.
func Seed(products *ProductRepository, customers *CustomerRepository) {
	for _, p := range []catalog.Product{
		{ID: "prod-espresso", Name: "Espresso Beans 1kg", SKU: "SKU-ESP-1KG", Barcode: "8901001000011", Category: "beverage", UnitPrice: decimal.RequireFromString("18.50"), TaxRate: decimal.RequireFromString("18"), StockQuantity: 40},
		{ID: "prod-grinder", Name: "Hand Grinder", SKU: "SKU-GRD-01", Barcode: "8901001000028", Category: "equipment", UnitPrice: decimal.RequireFromString("64.00"), TaxRate: decimal.RequireFromString("18"), StockQuantity: 12},
		{ID: "prod-filter", Name: "Paper Filters 100pk", SKU: "SKU-FLT-100", Barcode: "8901001000035", Category: "consumable", UnitPrice: decimal.RequireFromString("6.25"), TaxRate: decimal.RequireFromString("5"), StockQuantity: 200},
		{ID: "prod-mug", Name: "Ceramic Mug 350ml", SKU: "SKU-MUG-350", Barcode: "8901001000042", Category: "merch", UnitPrice: decimal.RequireFromString("11.90"), TaxRate: decimal.RequireFromString("12"), StockQuantity: 75},
		{ID: "prod-kettle", Name: "Gooseneck Kettle", SKU: "SKU-KTL-01", Barcode: "8901001000059", Category: "equipment", UnitPrice: decimal.RequireFromString("89.99"), TaxRate: decimal.RequireFromString("18"), StockQuantity: 8},
	} {
		products.Put(p)
	}

	for _, c := range []customer.Customer{
		{ID: "cust-1001", Name: "Asha Verma", Phone: "555-0101", Email: "asha@example.com"},
		{ID: "cust-1002", Name: "Ben Okafor", Phone: "555-0102", Email: "ben@example.com"},
		{ID: "cust-1003", Name: "Carmen Díaz", Phone: "555-0103", Email: "carmen@example.com"},
	} {
		customers.Put(c)
	}
}
