package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, want.Equal(got), "expected %s %s, got %s", field, want, got)
}

func TestRecompute(t *testing.T) {
	tests := []struct {
		name         string
		line         Line
		wantDiscount decimal.Decimal
		wantTax      decimal.Decimal
		wantTotal    decimal.Decimal
	}{
		{
			name: "no discount, 18% tax",
			line: Line{
				ProductID: "p1",
				Quantity:  2,
				UnitPrice: dec("100"),
				TaxRate:   dec("18"),
			},
			wantDiscount: dec("0"),
			wantTax:      dec("36"),
			wantTotal:    dec("236"),
		},
		{
			name: "10% line discount",
			line: Line{
				ProductID:       "p1",
				Quantity:        2,
				UnitPrice:       dec("100"),
				DiscountPercent: dec("10"),
				TaxRate:         dec("18"),
			},
			wantDiscount: dec("20"),
			wantTax:      dec("32.4"),
			wantTotal:    dec("212.4"),
		},
		{
			name: "zero tax",
			line: Line{
				ProductID: "p2",
				Quantity:  3,
				UnitPrice: dec("9.50"),
			},
			wantDiscount: dec("0"),
			wantTax:      dec("0"),
			wantTotal:    dec("28.50"),
		},
		{
			name: "full discount zeroes the line",
			line: Line{
				ProductID:       "p3",
				Quantity:        1,
				UnitPrice:       dec("49.99"),
				DiscountPercent: dec("100"),
				TaxRate:         dec("5"),
			},
			wantDiscount: dec("49.99"),
			wantTax:      dec("0"),
			wantTotal:    dec("0"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recompute(tt.line)

			assertDecimal(t, tt.wantDiscount, got.DiscountAmount, "discount amount")
			assertDecimal(t, tt.wantTax, got.TaxAmount, "tax amount")
			assertDecimal(t, tt.wantTotal, got.LineTotal, "line total")
		})
	}
}

// Recompute must leave a line satisfying the closed-form identities, so a
// line can never drift internally inconsistent.
func TestRecompute_Identities(t *testing.T) {
	l := Recompute(Line{
		ProductID:       "p1",
		Quantity:        7,
		UnitPrice:       dec("13.37"),
		DiscountPercent: dec("12.5"),
		TaxRate:         dec("18"),
	})

	qty := decimal.NewFromInt(int64(l.Quantity))
	discounted := l.UnitPrice.Mul(decimal.NewFromInt(1).Sub(l.DiscountPercent.Div(dec("100"))))
	wantTotal := discounted.Mul(qty).Mul(decimal.NewFromInt(1).Add(l.TaxRate.Div(dec("100"))))
	wantDiscount := l.UnitPrice.Mul(l.DiscountPercent).Div(dec("100")).Mul(qty)

	assertDecimal(t, wantTotal, l.LineTotal, "line total")
	assertDecimal(t, wantDiscount, l.DiscountAmount, "discount amount")
}

func TestAggregates(t *testing.T) {
	lines := []Line{
		Recompute(Line{ProductID: "p1", Quantity: 2, UnitPrice: dec("100"), TaxRate: dec("18")}),
		Recompute(Line{ProductID: "p2", Quantity: 1, UnitPrice: dec("50"), DiscountPercent: dec("20"), TaxRate: dec("5")}),
	}

	assertDecimal(t, dec("250"), Subtotal(lines), "subtotal")
	// p1: 200·0.18 = 36; p2: 40·0.05 = 2.
	assertDecimal(t, dec("38"), TaxTotal(lines), "tax total")
	assertDecimal(t, dec("10"), LineDiscountTotal(lines), "line discount total")
	assert.Equal(t, 3, TotalItemCount(lines))
}

// Global discount applies to the subtotal remaining after line discounts,
// not on top of each discounted line.
func TestDiscountTotal_GlobalOnResidual(t *testing.T) {
	lines := []Line{
		Recompute(Line{ProductID: "p1", Quantity: 2, UnitPrice: dec("100"), TaxRate: dec("18")}),
		Recompute(Line{ProductID: "p2", Quantity: 1, UnitPrice: dec("50"), DiscountPercent: dec("20"), TaxRate: dec("5")}),
	}

	// Line discounts: 10. Residual: 250 − 10 = 240. Global 10%: 24.
	got := DiscountTotal(lines, dec("10"))
	assertDecimal(t, dec("34"), got, "discount total")

	// Grand total: 250 − 34 + 38 = 254.
	assertDecimal(t, dec("254"), GrandTotal(lines, dec("10")), "grand total")
}

func TestAggregates_EmptyCart(t *testing.T) {
	require.True(t, Subtotal(nil).IsZero())
	require.True(t, TaxTotal(nil).IsZero())
	require.True(t, DiscountTotal(nil, dec("15")).IsZero())
	require.True(t, GrandTotal(nil, dec("15")).IsZero())
	assert.Equal(t, 0, TotalItemCount(nil))
}
