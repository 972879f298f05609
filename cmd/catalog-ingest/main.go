// Command catalog-ingest loads supplier catalog feeds into the product table.
//
// Feeds are gzip-compressed CSV files (sku,barcode,name,category,unit_price,
// tax_rate,stock). Suppliers overlap: the same barcode frequently appears in
// several feeds with different prices. Feeds are processed in lexical order
// and the first feed to mention a barcode wins; later occurrences are skipped
// via per-feed bloom filters so the full barcode set never has to fit in an
// exact in-memory index.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/openretail/pos-register/internal/domain/catalog"
	"github.com/openretail/pos-register/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
	feedColumns   = 7
)

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing catalog*.csv.gz feed files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "catalog*.csv.gz"))
	if err != nil {
		return errors.Wrap(err, "glob feed files")
	}
	if len(files) == 0 {
		return errors.Errorf("no catalog*.csv.gz files in %s", dataDir)
	}
	sort.Strings(files) // feed priority order

	// Pass 1: one bloom filter of barcodes per feed, built concurrently.
	slog.Info("pass 1: indexing feed barcodes", slog.Int("files", len(files)))

	filters, err := buildBarcodeFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "index feed barcodes")
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Pass 2: upsert feeds in priority order, skipping barcodes already
	// claimed by an earlier feed.
	products := postgres.NewProductRepository(pool)
	var total int
	for i, f := range files {
		n, err := ingestFeed(ctx, products, f, filters[:i])
		if err != nil {
			return errors.Wrapf(err, "ingest feed %s", f)
		}
		total += n
		slog.Info("feed ingested", slog.String("file", filepath.Base(f)), slog.Int("products", n))
	}

	slog.Info("all feeds ingested", slog.Int("total_products", total))
	return nil
}

// buildBarcodeFilters creates one bloom filter per feed file, concurrently.
func buildBarcodeFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFeed(ctx, i, f, filters))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

func buildFilterForFeed(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamFeed(ctx, path, func(row []string) error {
			filter.AddString(row[1])
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 1 progress",
					slog.String("file", filepath.Base(path)),
					slog.Uint64("rows", count),
				)
			}
			return nil
		}); err != nil {
			return errors.Wrapf(err, "index %s", path)
		}

		slog.Info("pass 1 complete",
			slog.String("file", filepath.Base(path)),
			slog.Uint64("rows", count),
		)

		filters[idx] = filter
		return nil
	}
}

// ingestFeed upserts every row of one feed whose barcode is not claimed by an
// earlier feed. Bloom false positives drop a later-feed row, which only means
// a lower-priority supplier loses a tiebreak it was going to lose anyway.
func ingestFeed(
	ctx context.Context,
	products *postgres.ProductRepository,
	path string,
	earlier []*bloom.BloomFilter,
) (int, error) {
	var inserted int

	err := streamFeed(ctx, path, func(row []string) error {
		barcode := row[1]
		for _, f := range earlier {
			if f.TestString(barcode) {
				return nil
			}
		}

		p, err := parseFeedRow(row)
		if err != nil {
			return errors.Wrapf(err, "row for barcode %s", barcode)
		}

		if err := products.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.SKU)
		}

		inserted++
		if inserted%progressEvery == 0 {
			slog.Info("pass 2 progress",
				slog.String("file", filepath.Base(path)),
				slog.Int("upserted", inserted),
			)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// parseFeedRow converts a CSV row (sku,barcode,name,category,unit_price,
// tax_rate,stock) into a catalog product. The SKU doubles as the stable
// product ID so repeated ingest runs stay idempotent.
func parseFeedRow(row []string) (catalog.Product, error) {
	price, err := decimal.NewFromString(row[4])
	if err != nil {
		return catalog.Product{}, errors.Wrap(err, "parse unit_price")
	}
	taxRate, err := decimal.NewFromString(row[5])
	if err != nil {
		return catalog.Product{}, errors.Wrap(err, "parse tax_rate")
	}
	stock, err := strconv.Atoi(row[6])
	if err != nil {
		return catalog.Product{}, errors.Wrap(err, "parse stock")
	}

	return catalog.Product{
		ID:            row[0],
		SKU:           row[0],
		Barcode:       row[1],
		Name:          row[2],
		Category:      row[3],
		UnitPrice:     price,
		TaxRate:       taxRate,
		StockQuantity: stock,
	}, nil
}

// streamFeed opens a gzip-compressed CSV feed and calls fn for each data row.
// Short rows are rejected; a header row (sku,...) is skipped if present.
func streamFeed(ctx context.Context, path string, fn func(row []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	r := csv.NewReader(gz)
	r.FieldsPerRecord = feedColumns
	r.ReuseRecord = true

	first := true
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}

		if first {
			first = false
			if row[0] == "sku" {
				continue
			}
		}

		if err := fn(row); err != nil {
			return err
		}
	}
}
