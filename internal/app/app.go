package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/openretail/pos-register/internal/domain/auth"
	"github.com/openretail/pos-register/internal/domain/catalog"
	"github.com/openretail/pos-register/internal/domain/customer"
	"github.com/openretail/pos-register/internal/domain/register"
	"github.com/openretail/pos-register/internal/handler"
	"github.com/openretail/pos-register/internal/storage/memory"
	"github.com/openretail/pos-register/internal/storage/postgres"
	"github.com/openretail/pos-register/pkg/health"
	"github.com/openretail/pos-register/pkg/httpmiddleware"
)

// zapNotifier forwards register notifications to the service log. Terminals
// render their own UI feedback; on the server side the same events become
// structured log lines.
type zapNotifier struct {
	lg         *zap.Logger
	registerID string
}

func (n zapNotifier) Notify(kind register.NotifyKind, message string) {
	n.lg.Info("register notification",
		zap.String("register_id", n.registerID),
		zap.String("kind", string(kind)),
		zap.String("message", message),
	)
}

// sessionFactory builds register sessions for terminals. The cashier comes
// from the authenticated terminal key; without auth (or an anonymous key)
// the configured default cashier is recorded on sales instead.
func sessionFactory(
	cfg *Config,
	lg *zap.Logger,
	cat catalog.Repository,
	customers customer.Repository,
	history register.HistoryRepository,
) handler.SessionFactory {
	return func(registerID, cashierID string) *register.Session {
		if cashierID == "" {
			cashierID = cfg.CashierID
		}
		s := register.NewSession(cat, customers, history, cashierID)
		s.SetNotifier(zapNotifier{lg: lg, registerID: registerID})
		return s
	}
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("storage", cfg.Storage),
	)

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	var (
		catalogRepo  catalog.Repository
		customerRepo customer.Repository
		historyRepo  register.HistoryRepository
		keyRepo      auth.Repository
	)

	switch cfg.Storage {
	case StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}

		healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.DatabasePingCheck(pool))

		catalogRepo = postgres.NewProductRepository(pool)
		customerRepo = postgres.NewCustomerRepository(pool)
		historyRepo = postgres.NewSaleRepository(pool)
		keyRepo = postgres.NewTerminalKeyRepository(pool)

	case StorageMemory:
		products := memory.NewProductRepository()
		customers := memory.NewCustomerRepository()
		memory.Seed(products, customers)

		catalogRepo = products
		customerRepo = customers
		historyRepo = memory.NewSaleRepository()

	default:
		return errors.Errorf("unknown storage backend %q", cfg.Storage)
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// One session per register terminal, created on first request.
	sessions := handler.NewSessionManager(sessionFactory(cfg, lg, catalogRepo, customerRepo, historyRepo))

	h := handler.NewHandler(catalogRepo, customerRepo, historyRepo, sessions)

	api := http.Handler(h.Routes())
	if cfg.TerminalKeyPepper != "" {
		if keyRepo == nil {
			return errors.New("terminal key auth requires postgres storage")
		}
		api = handler.TerminalAuth(keyRepo, []byte(cfg.TerminalKeyPepper))(api)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", api))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "X-Register-ID", "X-Terminal-Key"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("pos-register", m.TracerProvider(), m.MeterProvider()),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
