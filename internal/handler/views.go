package handler

import (
	"time"

	"github.com/openretail/pos-register/internal/domain/catalog"
	"github.com/openretail/pos-register/internal/domain/customer"
	"github.com/openretail/pos-register/internal/domain/pricing"
	"github.com/openretail/pos-register/internal/domain/register"
)

// Monetary values are rendered as JSON numbers, mirroring what the register
// UI consumes. Amounts were rounded to 2 decimal places at the snapshot
// boundary, so the float conversion is presentation-only.

type lineView struct {
	ProductID       string  `json:"productId"`
	ProductName     string  `json:"productName"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	DiscountPercent float64 `json:"discountPercent"`
	DiscountAmount  float64 `json:"discountAmount"`
	TaxRate         float64 `json:"taxRate"`
	TaxAmount       float64 `json:"taxAmount"`
	LineTotal       float64 `json:"lineTotal"`
}

type tenderView struct {
	Cash float64 `json:"cash"`
	Card float64 `json:"card"`
	UPI  float64 `json:"upi"`
}

type cartView struct {
	Lines                 []lineView   `json:"lines"`
	Customer              customerView `json:"customer"`
	GlobalDiscountPercent float64      `json:"globalDiscountPercent"`
	PaymentMethod         string       `json:"paymentMethod"`
	Tender                tenderView   `json:"tender"`
	Reference             string       `json:"reference,omitempty"`
	Subtotal              float64      `json:"subtotal"`
	TaxTotal              float64      `json:"taxTotal"`
	DiscountTotal         float64      `json:"discountTotal"`
	GrandTotal            float64      `json:"grandTotal"`
	ItemCount             int          `json:"itemCount"`
	TotalTendered         float64      `json:"totalTendered"`
}

type saleView struct {
	ID             string       `json:"id"`
	OrderNumber    string       `json:"orderNumber"`
	Customer       customerView `json:"customer"`
	Lines          []lineView   `json:"lines"`
	Subtotal       float64      `json:"subtotal"`
	TaxAmount      float64      `json:"taxAmount"`
	DiscountAmount float64      `json:"discountAmount"`
	TotalAmount    float64      `json:"totalAmount"`
	PaymentMethod  string       `json:"paymentMethod"`
	Tender         tenderView   `json:"tender"`
	Reference      string       `json:"reference,omitempty"`
	PaidAmount     float64      `json:"paidAmount"`
	DueAmount      float64      `json:"dueAmount"`
	Status         string       `json:"status"`
	CashierID      string       `json:"cashierId,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

type productView struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	Barcode       string  `json:"barcode"`
	Category      string  `json:"category"`
	UnitPrice     float64 `json:"unitPrice"`
	TaxRate       float64 `json:"taxRate"`
	StockQuantity int     `json:"stockQuantity"`
}

type customerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

func toLineView(l pricing.Line) lineView {
	return lineView{
		ProductID:       l.ProductID,
		ProductName:     l.ProductName,
		Quantity:        l.Quantity,
		UnitPrice:       l.UnitPrice.InexactFloat64(),
		DiscountPercent: l.DiscountPercent.InexactFloat64(),
		DiscountAmount:  l.DiscountAmount.InexactFloat64(),
		TaxRate:         l.TaxRate.InexactFloat64(),
		TaxAmount:       l.TaxAmount.InexactFloat64(),
		LineTotal:       l.LineTotal.InexactFloat64(),
	}
}

func toCartView(c register.Cart) cartView {
	lines := make([]lineView, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = toLineView(l)
	}
	return cartView{
		Lines:                 lines,
		Customer:              toCustomerView(c.Customer),
		GlobalDiscountPercent: c.GlobalDiscountPercent.InexactFloat64(),
		PaymentMethod:         string(c.PaymentMethod),
		Tender:                tenderView{Cash: c.Tender.Cash.InexactFloat64(), Card: c.Tender.Card.InexactFloat64(), UPI: c.Tender.UPI.InexactFloat64()},
		Reference:             c.Reference,
		Subtotal:              c.Subtotal().InexactFloat64(),
		TaxTotal:              c.TaxTotal().InexactFloat64(),
		DiscountTotal:         c.DiscountTotal().InexactFloat64(),
		GrandTotal:            c.GrandTotal().InexactFloat64(),
		ItemCount:             c.ItemCount(),
		TotalTendered:         c.TotalTendered().InexactFloat64(),
	}
}

func toSaleView(s register.Sale) saleView {
	lines := make([]lineView, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = toLineView(l)
	}
	return saleView{
		ID:             s.ID,
		OrderNumber:    s.OrderNumber,
		Customer:       toCustomerView(s.Customer),
		Lines:          lines,
		Subtotal:       s.Subtotal.InexactFloat64(),
		TaxAmount:      s.TaxAmount.InexactFloat64(),
		DiscountAmount: s.DiscountAmount.InexactFloat64(),
		TotalAmount:    s.TotalAmount.InexactFloat64(),
		PaymentMethod:  string(s.PaymentMethod),
		Tender:         tenderView{Cash: s.Tender.Cash.InexactFloat64(), Card: s.Tender.Card.InexactFloat64(), UPI: s.Tender.UPI.InexactFloat64()},
		Reference:      s.Reference,
		PaidAmount:     s.PaidAmount.InexactFloat64(),
		DueAmount:      s.DueAmount.InexactFloat64(),
		Status:         string(s.Status),
		CashierID:      s.CashierID,
		CreatedAt:      s.CreatedAt,
	}
}

func toProductView(p catalog.Product) productView {
	return productView{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Barcode:       p.Barcode,
		Category:      p.Category,
		UnitPrice:     p.UnitPrice.InexactFloat64(),
		TaxRate:       p.TaxRate.InexactFloat64(),
		StockQuantity: p.StockQuantity,
	}
}

func toCustomerView(c customer.Customer) customerView {
	return customerView{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email}
}
