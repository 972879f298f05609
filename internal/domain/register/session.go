// Package register implements the point-of-sale transaction core: the cart
// engine, payment splitting, and the hold/resume/complete sale lifecycle.
//
// A Session is a single-owner handle over one register's cart. Operations are
// synchronous and atomic with respect to the caller: each either applies its
// full effect or rejects with a typed error leaving the cart unchanged. The
// session itself is not safe for concurrent use; callers that share a session
// across goroutines must serialize access (see handler.SessionManager).
package register

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openretail/pos-register/internal/domain/catalog"
	"github.com/openretail/pos-register/internal/domain/customer"
	"github.com/openretail/pos-register/internal/domain/pricing"
)

// ErrLineNotFound is returned when a mutation targets a product that has no
// line in the cart. RemoveItem is exempt: removal is idempotent.
var ErrLineNotFound = errors.New("no cart line for product")

// ErrNegativeTender is returned when a tender amount below zero is entered.
var ErrNegativeTender = errors.New("tender amount cannot be negative")

var percentBound = decimal.NewFromInt(100)

// Session owns the live cart and the list of held sales for one register.
type Session struct {
	catalog   catalog.Repository
	customers customer.Repository
	history   HistoryRepository
	refs      ReferenceGenerator
	notifier  Notifier
	cashierID string
	now       func() time.Time

	cart Cart
	held []Sale
}

// NewSession creates a session with an empty cart and the walk-in customer.
func NewSession(
	cat catalog.Repository,
	customers customer.Repository,
	history HistoryRepository,
	cashierID string,
) *Session {
	return &Session{
		catalog:   cat,
		customers: customers,
		history:   history,
		refs:      UUIDReferenceGenerator{},
		notifier:  NopNotifier{},
		cashierID: cashierID,
		now:       time.Now,
		cart:      NewCart(),
	}
}

// SetNotifier wires a notification sink for rejected and completed
// operations. A nil notifier restores the no-op default.
func (s *Session) SetNotifier(n Notifier) {
	if n == nil {
		n = NopNotifier{}
	}
	s.notifier = n
}

// Cart returns a snapshot copy of the live cart.
func (s *Session) Cart() Cart { return s.cart.clone() }

// Held returns the current held sales, newest last.
func (s *Session) Held() []Sale { return append([]Sale(nil), s.held...) }

// AddItem merges quantity into an existing line for the product or opens a
// new line at zero discount, copying price and tax rate from the product
// snapshot. It rejects with a StockError when the resulting quantity would
// exceed the product's stock.
func (s *Session) AddItem(_ context.Context, p catalog.Product, quantity int) error {
	if quantity <= 0 {
		return s.reject(ErrInvalidQuantity)
	}

	if i := s.cart.lineIndex(p.ID); i >= 0 {
		next := s.cart.Lines[i].Quantity + quantity
		if next > p.StockQuantity {
			return s.reject(&StockError{ProductID: p.ID, Requested: next, Available: p.StockQuantity})
		}
		line := s.cart.Lines[i]
		line.Quantity = next
		s.cart.Lines[i] = pricing.Recompute(line)
		return nil
	}

	if quantity > p.StockQuantity {
		return s.reject(&StockError{ProductID: p.ID, Requested: quantity, Available: p.StockQuantity})
	}

	s.cart.Lines = append(s.cart.Lines, pricing.Recompute(pricing.Line{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.UnitPrice,
		TaxRate:     p.TaxRate,
	}))
	return nil
}

// UpdateQuantity sets the quantity of an existing line. Stock is re-checked
// against the catalog's current snapshot at call time, not the one captured
// when the line was added.
func (s *Session) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return s.reject(ErrInvalidQuantity)
	}
	i := s.cart.lineIndex(productID)
	if i < 0 {
		return s.reject(ErrLineNotFound)
	}

	p, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return errors.Wrap(err, "re-check stock")
	}
	if quantity > p.StockQuantity {
		return s.reject(&StockError{ProductID: productID, Requested: quantity, Available: p.StockQuantity})
	}

	line := s.cart.Lines[i]
	line.Quantity = quantity
	s.cart.Lines[i] = pricing.Recompute(line)
	return nil
}

// UpdateDiscount sets the discount percent of an existing line.
func (s *Session) UpdateDiscount(productID string, percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(percentBound) {
		return s.reject(&InvalidRangeError{Field: "discount percent", Percent: percent})
	}
	i := s.cart.lineIndex(productID)
	if i < 0 {
		return s.reject(ErrLineNotFound)
	}

	line := s.cart.Lines[i]
	line.DiscountPercent = percent
	s.cart.Lines[i] = pricing.Recompute(line)
	return nil
}

// RemoveItem deletes the line for productID. Removing an absent product is a
// no-op, not an error.
func (s *Session) RemoveItem(productID string) {
	i := s.cart.lineIndex(productID)
	if i < 0 {
		return
	}
	s.cart.Lines = append(s.cart.Lines[:i], s.cart.Lines[i+1:]...)
}

// SetCustomer attaches the customer with the given ID to the sale, falling
// back to the walk-in customer when the ID is empty or unknown.
func (s *Session) SetCustomer(ctx context.Context, id string) {
	s.cart.Customer = customer.Resolve(ctx, s.customers, id)
}

// SetGlobalDiscount sets the cart-wide discount percent, applied to the
// subtotal remaining after per-line discounts.
func (s *Session) SetGlobalDiscount(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(percentBound) {
		return s.reject(&InvalidRangeError{Field: "global discount percent", Percent: percent})
	}
	s.cart.GlobalDiscountPercent = percent
	return nil
}

// SetPaymentMethod switches the active payment mode. Amounts already entered
// on any channel are kept.
func (s *Session) SetPaymentMethod(m Method) {
	s.cart.PaymentMethod = m
}

// SetTenderAmount records the amount offered on one payment channel. Partial
// or incomplete entry is legal; sufficiency is checked only at Complete.
func (s *Session) SetTenderAmount(ch Channel, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return s.reject(ErrNegativeTender)
	}
	s.cart.Tender.Set(ch, amount)
	return nil
}

// SetReference records the free-text payment reference (card or UPI
// transaction ID).
func (s *Session) SetReference(ref string) {
	s.cart.Reference = ref
}

// Clear resets the cart to its initial empty state: no lines, walk-in
// customer, cash mode, zero tender. This is the "start new sale" transition;
// held sales are kept.
func (s *Session) Clear() {
	s.cart = NewCart()
}

// Hold suspends the sale in progress: the cart is snapshotted with status
// hold, stored on the held list, and the cart resets for the next customer.
func (s *Session) Hold(_ context.Context) (*Sale, error) {
	if len(s.cart.Lines) == 0 {
		return nil, s.reject(ErrEmptyCart)
	}

	sale := s.snapshot(StatusHold)
	sale.PaidAmount = decimal.Zero
	sale.DueAmount = sale.TotalAmount

	s.held = append(s.held, sale)
	s.cart = NewCart()
	s.notifier.Notify(NotifySuccess, "sale held: "+sale.OrderNumber)
	return &sale, nil
}

// Resume destroys the held sale with the given ID and reconstitutes it as
// the live cart, replacing whatever the cart held. Lines, per-line discount
// percents, and the global discount percent are restored verbatim from the
// snapshot; the customer is re-resolved against the directory, falling back
// to walk-in when the stored customer no longer exists.
func (s *Session) Resume(ctx context.Context, saleID string) error {
	idx := -1
	for i := range s.held {
		if s.held[i].ID == saleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.reject(&SaleNotFoundError{SaleID: saleID})
	}

	sale := s.held[idx]
	s.held = append(s.held[:idx], s.held[idx+1:]...)

	cart := NewCart()
	cart.Lines = append([]pricing.Line(nil), sale.Lines...)
	cart.Customer = customer.Resolve(ctx, s.customers, sale.Customer.ID)
	cart.GlobalDiscountPercent = sale.GlobalDiscountPercent
	s.cart = cart
	return nil
}

// Complete finalizes the sale: it validates that the tendered amount covers
// the grand total, snapshots the cart, appends the sale to history, resets
// the cart, and returns the finalized sale.
func (s *Session) Complete(ctx context.Context) (*Sale, error) {
	if len(s.cart.Lines) == 0 {
		return nil, s.reject(ErrEmptyCart)
	}

	total := s.cart.GrandTotal().Round(2)
	tendered := s.cart.TotalTendered()
	if tendered.LessThan(total) {
		return nil, s.reject(&InsufficientPaymentError{Tendered: tendered, Required: total})
	}

	sale := s.snapshot(StatusPaid)
	sale.PaidAmount = tendered.Round(2)
	sale.DueAmount = decimal.Max(decimal.Zero, sale.TotalAmount.Sub(sale.PaidAmount))
	if sale.PaidAmount.LessThan(sale.TotalAmount) {
		sale.Status = StatusPartiallyPaid
	}

	if err := s.history.Append(ctx, &sale); err != nil {
		// Cart state is untouched so the cashier can retry.
		return nil, errors.Wrap(err, "append sale to history")
	}

	s.cart = NewCart()
	s.notifier.Notify(NotifySuccess, "sale completed: "+sale.OrderNumber)
	return &sale, nil
}

// snapshot freezes the live cart into an immutable Sale. Monetary totals are
// rounded to 2 decimal places at this boundary; line values stay exact so a
// resumed cart reproduces the original figures.
func (s *Session) snapshot(st Status) Sale {
	c := s.cart.clone()
	return Sale{
		ID:                    uuid.New().String(),
		OrderNumber:           s.refs.Next(),
		Customer:              c.Customer,
		Lines:                 c.Lines,
		Subtotal:              c.Subtotal().Round(2),
		TaxAmount:             c.TaxTotal().Round(2),
		DiscountAmount:        c.DiscountTotal().Round(2),
		TotalAmount:           c.GrandTotal().Round(2),
		GlobalDiscountPercent: c.GlobalDiscountPercent,
		PaymentMethod:         c.PaymentMethod,
		Tender:                c.Tender,
		Reference:             c.Reference,
		Status:                st,
		CashierID:             s.cashierID,
		CreatedAt:             s.now(),
	}
}

// reject notifies the configured sink about a rejected operation and returns
// the error unchanged.
func (s *Session) reject(err error) error {
	s.notifier.Notify(NotifyError, err.Error())
	return err
}
