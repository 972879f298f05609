package customer

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no customer matches a lookup.
var ErrNotFound = errors.New("customer not found")

// WalkInID is the well-known ID of the default walk-in customer. Every fresh
// cart starts with this customer, and lookups that fail fall back to it.
const WalkInID = "walk-in"

// Customer identifies the buyer on a sale.
type Customer struct {
	ID    string
	Name  string
	Phone string
	Email string
}

// WalkIn returns the default customer used when no specific customer is
// selected at the register.
func WalkIn() Customer {
	return Customer{ID: WalkInID, Name: "Walk-in Customer"}
}

// Repository defines read operations over the customer directory.
type Repository interface {
	List(ctx context.Context) ([]Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
}

// Resolve looks up a customer by ID, falling back to the walk-in customer
// when the ID is empty or does not resolve.
func Resolve(ctx context.Context, repo Repository, id string) Customer {
	if id == "" || id == WalkInID || repo == nil {
		return WalkIn()
	}
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return WalkIn()
	}
	return *c
}
