package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openretail/pos-register/internal/domain/auth"
)

var _ auth.Repository = (*TerminalKeyRepository)(nil)

// TerminalKeyRepository provides terminal key lookups backed by PostgreSQL.
type TerminalKeyRepository struct {
	pool *pgxpool.Pool
}

// NewTerminalKeyRepository returns a TerminalKeyRepository that uses the
// given pool.
func NewTerminalKeyRepository(pool *pgxpool.Pool) *TerminalKeyRepository {
	return &TerminalKeyRepository{pool: pool}
}

// FindByHash looks up an active terminal key by its HMAC-SHA256 hash.
func (r *TerminalKeyRepository) FindByHash(ctx context.Context, hash string) (*auth.TerminalKey, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, key_hash, terminal, cashier FROM terminal_keys
		 WHERE key_hash = $1 AND active`, hash)

	var k auth.TerminalKey
	if err := row.Scan(&k.ID, &k.KeyHash, &k.Terminal, &k.Cashier); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUnknownKey
		}
		return nil, fmt.Errorf("finding terminal key by hash: %w", err)
	}
	return &k, nil
}

// Insert stores a terminal key hash. Used by the seed tool.
func (r *TerminalKeyRepository) Insert(ctx context.Context, k auth.TerminalKey) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO terminal_keys (id, key_hash, terminal, cashier, active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 ON CONFLICT (key_hash) DO NOTHING`,
		k.ID, k.KeyHash, k.Terminal, k.Cashier)
	if err != nil {
		return fmt.Errorf("inserting terminal key %q: %w", k.ID, err)
	}
	return nil
}
