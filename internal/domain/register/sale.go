package register

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openretail/pos-register/internal/domain/customer"
	"github.com/openretail/pos-register/internal/domain/pricing"
)

// Status is the terminal state of a sale snapshot.
type Status string

const (
	StatusHold          Status = "hold"
	StatusPaid          Status = "paid"
	StatusPartiallyPaid Status = "partially_paid"
)

// Sale is an immutable snapshot of a cart, produced by Hold or Complete.
// Per-line discount percents and the global discount percent are stored
// verbatim so a held sale resumes with exactly the discounts it was held
// with, whatever their shape.
type Sale struct {
	ID                    string
	OrderNumber           string
	Customer              customer.Customer
	Lines                 []pricing.Line
	Subtotal              decimal.Decimal
	TaxAmount             decimal.Decimal
	DiscountAmount        decimal.Decimal
	TotalAmount           decimal.Decimal
	GlobalDiscountPercent decimal.Decimal
	PaymentMethod         Method
	Tender                Tender
	Reference             string
	PaidAmount            decimal.Decimal
	DueAmount             decimal.Decimal
	Status                Status
	CashierID             string
	CreatedAt             time.Time
}

// HistoryRepository is the external sink for completed sales. Held sales
// never reach it; they live inside the session until resumed.
type HistoryRepository interface {
	Append(ctx context.Context, sale *Sale) error
	List(ctx context.Context) ([]Sale, error)
}

// ReferenceGenerator produces opaque unique order numbers. The format carries
// no meaning beyond uniqueness.
type ReferenceGenerator interface {
	Next() string
}

// UUIDReferenceGenerator issues order numbers backed by random UUIDs.
type UUIDReferenceGenerator struct{}

func (UUIDReferenceGenerator) Next() string { return uuid.New().String() }

// NotifyKind classifies a user-facing notification.
type NotifyKind string

const (
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
)

// Notifier delivers fire-and-forget user-facing messages for rejected and
// completed operations. Core operations return structured errors regardless
// of whether a notifier is wired up.
type Notifier interface {
	Notify(kind NotifyKind, message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(NotifyKind, string) {}
