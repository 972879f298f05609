package register

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for cart operations.
var (
	// ErrEmptyCart is returned when Hold or Complete is attempted on a cart
	// with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidQuantity is returned when a quantity is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// StockError indicates a requested quantity exceeds the product's current
// stock. The operation it rejects is a no-op.
type StockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// InvalidRangeError indicates a discount percent outside [0, 100].
type InvalidRangeError struct {
	Field   string
	Percent decimal.Decimal
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%s must be between 0 and 100, got %s", e.Field, e.Percent)
}

// InsufficientPaymentError indicates Complete was attempted with a tendered
// amount below the grand total.
type InsufficientPaymentError struct {
	Tendered decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: tendered %s, required %s", e.Tendered, e.Required)
}

// SaleNotFoundError indicates Resume was given an unknown held sale ID.
type SaleNotFoundError struct {
	SaleID string
}

func (e *SaleNotFoundError) Error() string {
	return fmt.Sprintf("held sale %s not found", e.SaleID)
}
