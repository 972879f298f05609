// Package pricing contains the pure calculation functions for cart lines and
// cart-level totals. Nothing here holds state: every total is re-derived from
// the lines on each call, so derived figures can never go stale.
package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line is one product entry in a cart. UnitPrice and TaxRate are copied from
// the catalog at add-time. DiscountAmount, TaxAmount, and LineTotal are
// derived; mutate the inputs and call Recompute, never the derived fields.
type Line struct {
	ProductID       string
	ProductName     string
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxRate         decimal.Decimal
	TaxAmount       decimal.Decimal
	LineTotal       decimal.Decimal
}

// Recompute returns l with its derived fields filled in from the inputs:
//
//	discounted unit  = unit_price · (1 − discount%/100)
//	discount_amount  = unit_price · discount%/100 · qty
//	tax_amount       = discounted unit · tax%/100 · qty
//	line_total       = discounted unit · (1 + tax%/100) · qty
func Recompute(l Line) Line {
	qty := decimal.NewFromInt(int64(l.Quantity))
	discounted := l.UnitPrice.Sub(l.UnitPrice.Mul(l.DiscountPercent).Div(hundred))
	unitTax := discounted.Mul(l.TaxRate).Div(hundred)

	l.DiscountAmount = l.UnitPrice.Mul(l.DiscountPercent).Div(hundred).Mul(qty)
	l.TaxAmount = unitTax.Mul(qty)
	l.LineTotal = discounted.Add(unitTax).Mul(qty)
	return l
}

// Subtotal is the pre-discount, pre-tax sum of unit_price · qty over all lines.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// TaxTotal is the sum of per-line tax amounts.
func TaxTotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.TaxAmount)
	}
	return sum
}

// LineDiscountTotal is the sum of per-line discount amounts, excluding any
// global discount.
func LineDiscountTotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.DiscountAmount)
	}
	return sum
}

// DiscountTotal is the total discount for the cart: per-line discounts first,
// then the global percentage applied to the residual subtotal. Line and
// global discounts deliberately do not stack multiplicatively.
func DiscountTotal(lines []Line, globalPercent decimal.Decimal) decimal.Decimal {
	lineDiscount := LineDiscountTotal(lines)
	residual := Subtotal(lines).Sub(lineDiscount)
	return lineDiscount.Add(residual.Mul(globalPercent).Div(hundred))
}

// GrandTotal is subtotal − total discount + total tax.
func GrandTotal(lines []Line, globalPercent decimal.Decimal) decimal.Decimal {
	return Subtotal(lines).Sub(DiscountTotal(lines, globalPercent)).Add(TaxTotal(lines))
}

// TotalItemCount is the sum of quantities over all lines.
func TotalItemCount(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
