// Command seed-db prepares a PostgreSQL database for a demo deployment:
// it runs migrations, loads products from a JSON file, inserts a small set
// of customers, and registers one terminal key hashed with the configured
// pepper.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/openretail/pos-register/internal/domain/auth"
	"github.com/openretail/pos-register/internal/domain/catalog"
	"github.com/openretail/pos-register/internal/domain/customer"
	"github.com/openretail/pos-register/internal/storage/postgres"
)

type productJSON struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Barcode  string          `json:"barcode"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	TaxRate  decimal.Decimal `json:"taxRate"`
	Stock    int             `json:"stock"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		terminalKey  string
		pepper       string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&terminalKey, "terminal-key", "", "terminal key to seed (or POS_SEED_TERMINAL_KEY env)")
	flag.StringVar(&pepper, "terminal-key-pepper", "", "HMAC pepper for terminal key hashing (or POS_TERMINAL_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if terminalKey == "" {
		terminalKey = os.Getenv("POS_SEED_TERMINAL_KEY")
	}
	if pepper == "" {
		pepper = os.Getenv("POS_TERMINAL_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, terminalKey, pepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, terminalKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, postgres.NewProductRepository(pool), productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedCustomers(ctx, postgres.NewCustomerRepository(pool)); err != nil {
		return errors.Wrap(err, "seed customers")
	}

	if terminalKey != "" {
		if err := seedTerminalKey(ctx, postgres.NewTerminalKeyRepository(pool), terminalKey, pepper); err != nil {
			return errors.Wrap(err, "seed terminal key")
		}
	} else {
		slog.Info("no terminal key provided, skipping")
	}

	return nil
}

func seedProducts(ctx context.Context, repo *postgres.ProductRepository, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		if err := repo.Upsert(ctx, catalog.Product{
			ID:            p.ID,
			Name:          p.Name,
			SKU:           p.SKU,
			Barcode:       p.Barcode,
			Category:      p.Category,
			UnitPrice:     p.Price,
			TaxRate:       p.TaxRate,
			StockQuantity: p.Stock,
		}); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

func seedCustomers(ctx context.Context, repo *postgres.CustomerRepository) error {
	slog.Info("seeding demo customers")

	customers := []customer.Customer{
		{ID: "cust-1", Name: "Asha Patel", Phone: "+1-555-0101", Email: "asha@example.com"},
		{ID: "cust-2", Name: "Marco Silva", Phone: "+1-555-0102", Email: "marco@example.com"},
		{ID: "cust-3", Name: "Lena Fischer", Phone: "+1-555-0103", Email: "lena@example.com"},
	}

	for _, c := range customers {
		if err := repo.Upsert(ctx, c); err != nil {
			return errors.Wrapf(err, "upsert customer %s", c.ID)
		}

		slog.Info("upserted customer", slog.String("id", c.ID), slog.String("name", c.Name))
	}

	return nil
}

func seedTerminalKey(ctx context.Context, repo *postgres.TerminalKeyRepository, key, pepper string) error {
	slog.Info("seeding terminal key")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(key))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	if err := repo.Insert(ctx, auth.TerminalKey{
		ID:       "default",
		KeyHash:  keyHash,
		Terminal: "register-1",
		Cashier:  "cashier-1",
	}); err != nil {
		return errors.Wrap(err, "insert default terminal key")
	}

	slog.Info("seeded terminal key", slog.String("id", "default"), slog.String("terminal", "register-1"))

	return nil
}
