// @title                       Finance API
// @version                     1.0
// @description                 Personal and small-business finance tracking with role-based access control.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ledgerly/finance-api/internal/api"
	"github.com/ledgerly/finance-api/internal/api/handler"
	"github.com/ledgerly/finance-api/internal/api/metrics"
	"github.com/ledgerly/finance-api/internal/api/middleware"
	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/service"
	"github.com/ledgerly/finance-api/internal/infrastructure/config"
	"github.com/ledgerly/finance-api/internal/infrastructure/db/mongo"
	"github.com/ledgerly/finance-api/internal/infrastructure/db/redis"
	"github.com/ledgerly/finance-api/internal/infrastructure/queue"
	"github.com/ledgerly/finance-api/internal/infrastructure/render"
	"github.com/ledgerly/finance-api/internal/infrastructure/storage"
	"github.com/ledgerly/finance-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envErr := godotenv.Load()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "finance-api",
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found; relying on existing environment")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Stores ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	var (
		rdb     *redis.Client
		limiter middleware.Limiter
		redisOK handler.Pinger
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		redisOK = rdb.Ready
		if cfg.RateLimit.Enabled {
			limiter = rdb.RateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		}
	} else {
		log.Info().Msg("REDIS_ADDR not set; rate limiting disabled")
	}

	files, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		return err
	}
	renderer := render.New()

	// --- Repositories ---
	users := mongo.NewUserRepository(db)
	transactions := mongo.NewTransactionRepository(db)
	budgets := mongo.NewBudgetRepository(db)
	clients := mongo.NewClientRepository(db)
	invoices := mongo.NewInvoiceRepository(db)
	audits := mongo.NewAuditRepository(db)

	// --- Audit pipeline: Authorizer -> dispatcher -> store ---
	auditSvc := service.NewAuditService(audits, logger.Component("audit"))
	auditSvc.OnFailure(metrics.AuditWriteFailuresTotal.Inc)

	dispatcher := queue.NewAuditDispatcher(cfg.Audit.Workers, cfg.Audit.Buffer, auditSvc, logger.Component("audit-queue"))
	dispatcher.EnqueueTimeout(cfg.Audit.EnqueueTimeout)
	dispatcher.OnDrop(metrics.AuditDroppedTotal.Inc)
	dispatcher.Start(ctx)
	defer dispatcher.Close()

	authz := access.NewAuthorizer(access.DefaultTable(), dispatcher, access.WithObserver(metrics.ObserveDecision))

	// --- Services ---
	authSvc := service.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL, logger.Component("auth"))
	if cfg.SeedUsers {
		if err := authSvc.Seed(ctx, service.DefaultSeedAccounts); err != nil {
			log.Error().Err(err).Msg("seed users")
		}
	}

	txSvc := service.NewTransactionService(transactions, renderer, logger.Component("transactions"))
	txSvc.OnImport(metrics.ObserveImport)

	exportSvc := service.NewExportService(transactions, budgets, renderer, logger.Component("export"))
	exportSvc.OnExport(metrics.ObserveExport)

	e, err := api.NewRouter(api.Deps{
		Services: api.Services{
			Auth:         authSvc,
			Transactions: txSvc,
			Budgets:      service.NewBudgetService(budgets, logger.Component("budgets")),
			Clients:      service.NewClientService(clients, logger.Component("clients")),
			Invoices:     service.NewInvoiceService(invoices, clients, logger.Component("invoices")),
			Dashboard:    service.NewDashboardService(transactions, budgets),
			Audit:        auditSvc,
			Export:       exportSvc,
		},
		Authorizer: authz,
		Files:      files,
		UploadDir:  files.Dir(),
		Limiter:    limiter,
		Health: handler.NewHealthHandler(cfg.Env, cfg.CORSOrigin, func(ctx context.Context) error {
			return mongo.Ping(ctx, db)
		}, redisOK),
		CORSOrigins: cfg.CORSOrigin,
		Logger:      logger.Component("http"),
	})
	if err != nil {
		return err
	}

	// --- Serve until signalled ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("finance API listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
