package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/gobooks/internal/adapter/http/handler"
	"github.com/iho/gobooks/internal/adapter/http/middleware"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler  *handler.AccountHandler
	JournalHandler  *handler.JournalHandler
	PayrollHandler  *handler.PayrollHandler
	ApprovalHandler *handler.ApprovalHandler
	ReportHandler   *handler.ReportHandler
	TaxHandler      *handler.TaxHandler
	AuditHandler    *handler.AuditHandler
	HealthHandler   *handler.HealthHandler

	// Authenticator puts the request actor on the context. Defaults to
	// middleware.HeaderActor.
	Authenticator func(http.Handler) http.Handler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	authenticate := cfg.Authenticator
	if authenticate == nil {
		authenticate = middleware.HeaderActor
	}

	writeLedger := middleware.Require(domain.Role.CanWriteLedger)
	runPayroll := middleware.Require(domain.Role.CanRunPayroll)
	manageApprovals := middleware.Require(domain.Role.CanManageApprovals)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticate)

		// Idempotency keys are scoped by company, so this runs after authentication.
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/by-code/{code}", cfg.AccountHandler.GetByCode)
			r.With(writeLedger).Post("/", cfg.AccountHandler.Create)
			r.With(writeLedger).Delete("/{id}", cfg.AccountHandler.Delete)
		})

		r.Route("/journals", func(r chi.Router) {
			r.Get("/", cfg.JournalHandler.List)
			r.Get("/{id}", cfg.JournalHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(writeLedger)
				r.Post("/", cfg.JournalHandler.Record)
				r.Post("/drafts", cfg.JournalHandler.CreateDraft)
				r.Put("/drafts/{id}", cfg.JournalHandler.UpdateDraft)
				r.Post("/{id}/post", cfg.JournalHandler.Post)
				r.Post("/{id}/void", cfg.JournalHandler.Void)
				r.Post("/{id}/reverse", cfg.JournalHandler.Reverse)
			})
		})

		r.Get("/ledger/consistency", cfg.JournalHandler.CheckConsistency)

		r.Route("/payroll", func(r chi.Router) {
			r.Use(runPayroll)
			r.Post("/runs", cfg.PayrollHandler.Process)
			r.Get("/runs", cfg.PayrollHandler.List)
			r.Get("/runs/{id}", cfg.PayrollHandler.Get)
			r.Get("/runs/{id}/slips", cfg.PayrollHandler.ListSlips)
			r.Post("/preview", cfg.PayrollHandler.Preview)
		})

		r.Route("/approvals", func(r chi.Router) {
			r.Get("/configs", cfg.ApprovalHandler.ListConfigs)
			r.With(manageApprovals).Post("/configs", cfg.ApprovalHandler.CreateConfig)
			r.With(manageApprovals).Delete("/configs/{id}", cfg.ApprovalHandler.DeactivateConfig)

			r.Post("/requests", cfg.ApprovalHandler.Submit)
			r.Get("/requests/pending", cfg.ApprovalHandler.ListPending)
			r.Get("/requests/{id}", cfg.ApprovalHandler.GetRequest)
			r.Post("/requests/{id}/approve", cfg.ApprovalHandler.Approve)
			r.Post("/requests/{id}/reject", cfg.ApprovalHandler.Reject)
			r.Post("/requests/{id}/cancel", cfg.ApprovalHandler.Cancel)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/balances", cfg.ReportHandler.LedgerBalances)
			r.Get("/trial-balance", cfg.ReportHandler.TrialBalance)
			r.Get("/balance-sheet", cfg.ReportHandler.BalanceSheet)
			r.Get("/profit-and-loss", cfg.ReportHandler.ProfitAndLoss)
			r.Get("/cash-flow", cfg.ReportHandler.CashFlow)
		})

		r.Get("/tax/withholding", cfg.TaxHandler.Withholding)

		r.With(manageApprovals).Get("/audit-logs", cfg.AuditHandler.List)
	})

	return r
}
