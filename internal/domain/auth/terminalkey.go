package auth

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrUnknownKey is returned when no terminal key matches a hash.
var ErrUnknownKey = errors.New("unknown terminal key")

// TerminalKey holds the identity data for a validated register terminal key.
type TerminalKey struct {
	ID       string
	KeyHash  string
	Terminal string
	Cashier  string
}

// Repository provides lookup of terminal keys by their HMAC hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*TerminalKey, error)
}
