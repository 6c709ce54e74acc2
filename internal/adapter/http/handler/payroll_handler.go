package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// PayrollService defines the behavior needed by PayrollHandler.
type PayrollService interface {
	ProcessMonthlyPayroll(ctx context.Context, input usecase.ProcessPayrollInput) (*usecase.PayrollResult, error)
	PreviewPayroll(ctx context.Context, actor domain.Actor, month, year int) (*usecase.PayrollPreview, error)
	GetPayroll(ctx context.Context, companyID, id string) (*domain.Payroll, error)
	ListPayrolls(ctx context.Context, companyID string, year int) ([]*domain.Payroll, error)
	ListSlips(ctx context.Context, companyID, payrollID string) ([]*domain.PayrollSlip, error)
}

// PayrollHandler handles payroll HTTP requests.
type PayrollHandler struct {
	payrollUC PayrollService
	retrier   usecase.Retrier
}

// NewPayrollHandler creates a new PayrollHandler. retrier may be nil.
func NewPayrollHandler(payrollUC PayrollService, retrier usecase.Retrier) *PayrollHandler {
	return &PayrollHandler{payrollUC: payrollUC, retrier: retrier}
}

// Process runs payroll for one month.
func (h *PayrollHandler) Process(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.PayrollPeriodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	input := req.ToUseCaseInput(actor)

	var result *usecase.PayrollResult
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		result, err = h.payrollUC.ProcessMonthlyPayroll(r.Context(), input)
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to process payroll", err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// Preview computes payroll for a month without persisting it.
func (h *PayrollHandler) Preview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.PayrollPeriodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	preview, err := h.payrollUC.PreviewPayroll(r.Context(), actor, req.Month, req.Year)
	if err != nil {
		writeDomainError(w, "failed to preview payroll", err)
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// Get retrieves one payroll run.
func (h *PayrollHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	payroll, err := h.payrollUC.GetPayroll(r.Context(), actor.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get payroll", err)
		return
	}

	writeJSON(w, http.StatusOK, payroll)
}

// List lists the payroll runs of a year, the current year by default.
func (h *PayrollHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	year := parseIntQuery(r, "year", time.Now().UTC().Year())
	payrolls, err := h.payrollUC.ListPayrolls(r.Context(), actor.CompanyID, year)
	if err != nil {
		writeDomainError(w, "failed to list payrolls", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPayrollsResponse{Payrolls: payrolls, Total: int64(len(payrolls))})
}

// ListSlips lists the per-employee slips of a payroll run.
func (h *PayrollHandler) ListSlips(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	slips, err := h.payrollUC.ListSlips(r.Context(), actor.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list slips", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListSlipsResponse{Slips: slips, Total: int64(len(slips))})
}
