package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gobooks/internal/adapter/http"
	"github.com/iho/gobooks/internal/adapter/http/handler"
	"github.com/iho/gobooks/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/gobooks/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobooks/internal/adapter/repository/redis"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/auth"
	"github.com/iho/gobooks/internal/infrastructure/config"
	"github.com/iho/gobooks/internal/infrastructure/logger"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
	"github.com/iho/gobooks/internal/infrastructure/postgres"
	"github.com/iho/gobooks/internal/infrastructure/redis"
	"github.com/iho/gobooks/internal/usecase"
)

const limiterCleanupInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.AutoMigrate {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New(prometheus.DefaultRegisterer)

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	employeeRepo := postgresRepo.NewEmployeeRepository(pool)
	payrollRepo := postgresRepo.NewPayrollRepository(pool)
	approvalRepo := postgresRepo.NewApprovalRepository(pool)
	reportRepo := postgresRepo.NewReportRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log,
		postgresRepo.WithMaxRetries(cfg.RetryMaxAttempts),
		postgresRepo.WithMaxElapsedTime(cfg.RetryMaxElapsed),
	)

	reportCache := redisRepo.NewReportCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, auditRepo, idGen, log)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, journalRepo, auditRepo, reportCache, idGen, log, m)
	payrollUC := usecase.NewPayrollUseCase(txManager, employeeRepo, payrollRepo, accountRepo, ledgerUC, auditRepo, idGen, payrollConfig(cfg.Payroll), log, m)
	reportUC := usecase.NewReportUseCase(reportRepo, reportCache, cfg.ReportCacheTTL, log, m)

	dispatch := usecase.ResourceDispatch{
		Journal: usecase.NewJournalApprovalUpdater(ledgerUC),
	}
	approvalUC := usecase.NewApprovalUseCase(txManager, approvalRepo, dispatch, auditRepo, idGen, log, m)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.RateLimitHits)
	go rateLimiter.RunCleanup(ctx, limiterCleanupInterval)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:  handler.NewAccountHandler(accountUC),
		JournalHandler:  handler.NewJournalHandler(ledgerUC, retrier),
		PayrollHandler:  handler.NewPayrollHandler(payrollUC, retrier),
		ApprovalHandler: handler.NewApprovalHandler(approvalUC, dispatch, retrier, log),
		ReportHandler:   handler.NewReportHandler(reportUC),
		TaxHandler:      handler.NewTaxHandler(),
		AuditHandler:    handler.NewAuditHandler(auditRepo),
		HealthHandler: handler.NewHealthHandler(
			handler.HealthCheck{Name: "postgres", Check: pool.Ping},
			handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}},
		),
		Authenticator:    newAuthenticator(cfg, log),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		MetricsHandler:   promhttp.Handler(),
		Logger:           log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Bool("auth_enabled", cfg.AuthEnabled).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// newAuthenticator returns the JWT middleware when auth is enabled and the
// trusted-header middleware otherwise.
func newAuthenticator(cfg *config.Config, log zerolog.Logger) func(http.Handler) http.Handler {
	if !cfg.AuthEnabled {
		log.Warn().Msg("authentication disabled, trusting actor headers")
		return middleware.HeaderActor
	}
	return middleware.AuthMiddleware(auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration))
}

func payrollConfig(cfg config.PayrollConfig) usecase.PayrollConfig {
	return usecase.PayrollConfig{
		Accounts: usecase.PayrollAccounts{
			SalaryExpense:     cfg.SalaryExpenseAccount,
			TaxPayable:        cfg.TaxPayableAccount,
			BPJSPayable:       cfg.BPJSPayableAccount,
			NetSalaryPayable:  cfg.NetSalaryPayableAccount,
			DeductionsPayable: cfg.DeductionsPayableAccount,
		},
		BPJSRates: domain.BPJSRates{
			Kesehatan:       cfg.BPJSKesehatanRate,
			Ketenagakerjaan: cfg.BPJSKetenagakerjaanRate,
		},
	}
}
