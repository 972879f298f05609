package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openretail/pos-register/internal/domain/register"
)

var _ register.HistoryRepository = (*SaleRepository)(nil)

// SaleRepository implements register.HistoryRepository backed by PostgreSQL.
// The line items and tender breakdown are serialized to JSONB; sales are
// immutable once written, so there is no update path.
type SaleRepository struct {
	pool *pgxpool.Pool
}

// NewSaleRepository returns a SaleRepository that uses the given pool.
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{pool: pool}
}

// Append persists a completed sale.
func (r *SaleRepository) Append(ctx context.Context, sale *register.Sale) error {
	linesJSON, err := json.Marshal(sale.Lines)
	if err != nil {
		return fmt.Errorf("marshaling sale lines: %w", err)
	}
	tenderJSON, err := json.Marshal(sale.Tender)
	if err != nil {
		return fmt.Errorf("marshaling tender: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO sales (
		   id, order_number, customer_id, customer_name, lines,
		   subtotal, tax_amount, discount_amount, total_amount,
		   global_discount_percent, payment_method, tender, reference,
		   paid_amount, due_amount, status, cashier_id, created_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		sale.ID, sale.OrderNumber, sale.Customer.ID, sale.Customer.Name, linesJSON,
		sale.Subtotal, sale.TaxAmount, sale.DiscountAmount, sale.TotalAmount,
		sale.GlobalDiscountPercent, string(sale.PaymentMethod), tenderJSON, sale.Reference,
		sale.PaidAmount, sale.DueAmount, string(sale.Status), sale.CashierID, sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting sale %q: %w", sale.ID, err)
	}
	return nil
}

// List returns all recorded sales, newest first.
func (r *SaleRepository) List(ctx context.Context) ([]register.Sale, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_number, customer_id, customer_name, lines,
		        subtotal, tax_amount, discount_amount, total_amount,
		        global_discount_percent, payment_method, tender, reference,
		        paid_amount, due_amount, status, cashier_id, created_at
		 FROM sales ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var out []register.Sale
	for rows.Next() {
		var (
			s          register.Sale
			linesJSON  []byte
			tenderJSON []byte
			method     string
			status     string
		)
		err := rows.Scan(&s.ID, &s.OrderNumber, &s.Customer.ID, &s.Customer.Name, &linesJSON,
			&s.Subtotal, &s.TaxAmount, &s.DiscountAmount, &s.TotalAmount,
			&s.GlobalDiscountPercent, &method, &tenderJSON, &s.Reference,
			&s.PaidAmount, &s.DueAmount, &status, &s.CashierID, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning sale row: %w", err)
		}
		if err := json.Unmarshal(linesJSON, &s.Lines); err != nil {
			return nil, fmt.Errorf("unmarshaling lines of sale %q: %w", s.ID, err)
		}
		if err := json.Unmarshal(tenderJSON, &s.Tender); err != nil {
			return nil, fmt.Errorf("unmarshaling tender of sale %q: %w", s.ID, err)
		}
		s.PaymentMethod = register.Method(method)
		s.Status = register.Status(status)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale rows: %w", err)
	}
	return out, nil
}
