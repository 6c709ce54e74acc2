package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/gobooks/internal/domain"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	LedgerBalances(ctx context.Context, companyID string, asOf time.Time, types []domain.AccountType) ([]domain.AccountBalance, error)
	TrialBalance(ctx context.Context, companyID string, asOf time.Time) (*domain.TrialBalance, error)
	ProfitAndLoss(ctx context.Context, companyID string, start, end time.Time) (*domain.ProfitAndLoss, error)
	BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheet, error)
	CashFlowStatement(ctx context.Context, companyID string, start, end time.Time) (*domain.CashFlowStatement, error)
}

// ReportHandler serves financial statements. Dates are YYYY-MM-DD; as_of
// and end default to today and start to January 1 of end's year.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// LedgerBalances lists per-account balances, optionally limited to ?type= values.
func (h *ReportHandler) LedgerBalances(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	asOf, err := parseDateQuery(r, "as_of", today())
	if err != nil {
		writeDomainError(w, "invalid date", err)
		return
	}

	var types []domain.AccountType
	for _, t := range r.URL.Query()["type"] {
		types = append(types, domain.AccountType(t))
	}

	balances, err := h.reportUC.LedgerBalances(r.Context(), actor.CompanyID, asOf, types)
	if err != nil {
		writeDomainError(w, "failed to load balances", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"as_of": asOf.Format(dateLayout), "balances": balances})
}

// TrialBalance renders the trial balance as of a date.
func (h *ReportHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	h.asOf(w, r, func(ctx context.Context, companyID string, asOf time.Time) (any, error) {
		return h.reportUC.TrialBalance(ctx, companyID, asOf)
	})
}

// BalanceSheet renders the balance sheet as of a date.
func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	h.asOf(w, r, func(ctx context.Context, companyID string, asOf time.Time) (any, error) {
		return h.reportUC.BalanceSheet(ctx, companyID, asOf)
	})
}

// ProfitAndLoss renders the income statement for a range.
func (h *ReportHandler) ProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	h.period(w, r, func(ctx context.Context, companyID string, start, end time.Time) (any, error) {
		return h.reportUC.ProfitAndLoss(ctx, companyID, start, end)
	})
}

// CashFlow renders the cash flow statement for a range.
func (h *ReportHandler) CashFlow(w http.ResponseWriter, r *http.Request) {
	h.period(w, r, func(ctx context.Context, companyID string, start, end time.Time) (any, error) {
		return h.reportUC.CashFlowStatement(ctx, companyID, start, end)
	})
}

func (h *ReportHandler) asOf(w http.ResponseWriter, r *http.Request, build func(context.Context, string, time.Time) (any, error)) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	asOf, err := parseDateQuery(r, "as_of", today())
	if err != nil {
		writeDomainError(w, "invalid date", err)
		return
	}

	report, err := build(r.Context(), actor.CompanyID, asOf)
	if err != nil {
		writeDomainError(w, "failed to build report", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) period(w http.ResponseWriter, r *http.Request, build func(context.Context, string, time.Time, time.Time) (any, error)) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	end, err := parseDateQuery(r, "end", today())
	if err != nil {
		writeDomainError(w, "invalid date", err)
		return
	}
	start, err := parseDateQuery(r, "start", time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		writeDomainError(w, "invalid date", err)
		return
	}

	report, err := build(r.Context(), actor.CompanyID, start, end)
	if err != nil {
		writeDomainError(w, "failed to build report", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
