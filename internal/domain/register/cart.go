package register

import (
	"github.com/shopspring/decimal"

	"github.com/openretail/pos-register/internal/domain/customer"
	"github.com/openretail/pos-register/internal/domain/pricing"
)

// Cart is the mutable state of the sale in progress: the ordered line items
// (unique by product ID), the selected customer, the global discount, and the
// payment entry fields. One Cart exists per register session.
type Cart struct {
	Lines                 []pricing.Line
	Customer              customer.Customer
	GlobalDiscountPercent decimal.Decimal
	PaymentMethod         Method
	Tender                Tender
	Reference             string
}

// NewCart returns the initial empty cart: no lines, walk-in customer, cash
// payment, zero tender. This is also the state after Clear, Hold, and Complete.
func NewCart() Cart {
	return Cart{
		Customer:      customer.WalkIn(),
		PaymentMethod: MethodCash,
	}
}

// lineIndex returns the position of the line for productID, or -1.
func (c *Cart) lineIndex(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// clone returns a deep copy of the cart so callers can hold a snapshot
// without aliasing the live line slice.
func (c Cart) clone() Cart {
	cp := c
	cp.Lines = append([]pricing.Line(nil), c.Lines...)
	return cp
}

// Subtotal is the pre-discount, pre-tax total of all lines.
func (c Cart) Subtotal() decimal.Decimal { return pricing.Subtotal(c.Lines) }

// TaxTotal is the total tax across all lines.
func (c Cart) TaxTotal() decimal.Decimal { return pricing.TaxTotal(c.Lines) }

// DiscountTotal is the combined line and global discount.
func (c Cart) DiscountTotal() decimal.Decimal {
	return pricing.DiscountTotal(c.Lines, c.GlobalDiscountPercent)
}

// GrandTotal is subtotal − discount + tax.
func (c Cart) GrandTotal() decimal.Decimal {
	return pricing.GrandTotal(c.Lines, c.GlobalDiscountPercent)
}

// ItemCount is the total quantity across all lines.
func (c Cart) ItemCount() int { return pricing.TotalItemCount(c.Lines) }

// TotalTendered is the amount tendered under the current payment method.
func (c Cart) TotalTendered() decimal.Decimal { return c.Tender.Total(c.PaymentMethod) }
