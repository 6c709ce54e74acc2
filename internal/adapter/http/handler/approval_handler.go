package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/logger"
	"github.com/iho/gobooks/internal/usecase"
)

// ApprovalService defines the behavior needed by ApprovalHandler.
type ApprovalService interface {
	CreateConfig(ctx context.Context, input usecase.CreateConfigInput) (*domain.ApprovalConfig, error)
	ListConfigs(ctx context.Context, companyID string, resourceType domain.ResourceType, includeInactive bool) ([]*domain.ApprovalConfig, error)
	DeactivateConfig(ctx context.Context, actor domain.Actor, id string) error
	Submit(ctx context.Context, input usecase.SubmitInput) (*usecase.SubmitResult, error)
	Approve(ctx context.Context, actor domain.Actor, requestID, comment string) (*domain.ApprovalRequest, error)
	Reject(ctx context.Context, actor domain.Actor, requestID, reason string) (*domain.ApprovalRequest, error)
	Cancel(ctx context.Context, actor domain.Actor, requestID string) (*domain.ApprovalRequest, error)
	GetRequest(ctx context.Context, companyID, id string) (*domain.ApprovalRequest, error)
	ListPending(ctx context.Context, companyID string, role domain.Role, limit, offset int) ([]*domain.ApprovalRequest, error)
}

// Finalizer applies terminal approval outcomes to the underlying resource.
// usecase.ResourceDispatch implements it.
type Finalizer interface {
	Finalize(ctx context.Context, actor domain.Actor, req *domain.ApprovalRequest) error
	Approved(ctx context.Context, actor domain.Actor, rt domain.ResourceType, resourceID string) error
}

// ApprovalHandler handles approval workflow HTTP requests.
type ApprovalHandler struct {
	approvalUC ApprovalService
	finalizer  Finalizer
	retrier    usecase.Retrier
	logger     zerolog.Logger
}

// NewApprovalHandler creates a new ApprovalHandler. finalizer and retrier may be nil.
func NewApprovalHandler(approvalUC ApprovalService, finalizer Finalizer, retrier usecase.Retrier, logger zerolog.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		approvalUC: approvalUC,
		finalizer:  finalizer,
		retrier:    retrier,
		logger:     logger,
	}
}

// CreateConfig stores a routing config.
func (h *ApprovalHandler) CreateConfig(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.CreateApprovalConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cfg, err := h.approvalUC.CreateConfig(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		writeDomainError(w, "failed to create approval config", err)
		return
	}

	writeJSON(w, http.StatusCreated, cfg)
}

// ListConfigs lists routing configs.
func (h *ApprovalHandler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	configs, err := h.approvalUC.ListConfigs(
		r.Context(),
		actor.CompanyID,
		domain.ResourceType(r.URL.Query().Get("resource_type")),
		parseBoolQuery(r, "include_inactive"),
	)
	if err != nil {
		writeDomainError(w, "failed to list approval configs", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListApprovalConfigsResponse{Configs: configs, Total: int64(len(configs))})
}

// DeactivateConfig stops a config from routing new requests.
func (h *ApprovalHandler) DeactivateConfig(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.approvalUC.DeactivateConfig(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to deactivate approval config", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Submit routes a resource for approval. Without a matching config the
// resource is approved at once and finalized.
func (h *ApprovalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.SubmitApprovalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	input := req.ToUseCaseInput(actor)

	var result *usecase.SubmitResult
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		result, err = h.approvalUC.Submit(r.Context(), input)
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to submit for approval", err)
		return
	}

	resp := dto.ApprovalResponse{Request: result.Request, AutoApproved: result.AutoApproved}
	if result.AutoApproved && h.finalizer != nil {
		h.finish(r, &resp, func(ctx context.Context) error {
			return h.finalizer.Approved(ctx, actor, input.ResourceType, input.ResourceID)
		})
	}

	status := http.StatusCreated
	if result.AutoApproved {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

// Approve approves the current step of a request.
func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "failed to approve", func(ctx context.Context, actor domain.Actor, id string, req dto.ApprovalDecisionRequest) (*domain.ApprovalRequest, error) {
		return h.approvalUC.Approve(ctx, actor, id, req.Comment)
	})
}

// Reject rejects a request.
func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "failed to reject", func(ctx context.Context, actor domain.Actor, id string, req dto.ApprovalDecisionRequest) (*domain.ApprovalRequest, error) {
		return h.approvalUC.Reject(ctx, actor, id, req.Reason)
	})
}

// Cancel withdraws a request. Only its requester may cancel.
func (h *ApprovalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "failed to cancel", func(ctx context.Context, actor domain.Actor, id string, _ dto.ApprovalDecisionRequest) (*domain.ApprovalRequest, error) {
		return h.approvalUC.Cancel(ctx, actor, id)
	})
}

type decision func(ctx context.Context, actor domain.Actor, id string, req dto.ApprovalDecisionRequest) (*domain.ApprovalRequest, error)

func (h *ApprovalHandler) decide(w http.ResponseWriter, r *http.Request, message string, op decision) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var body dto.ApprovalDecisionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	id := chi.URLParam(r, "id")
	var req *domain.ApprovalRequest
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		req, err = op(r.Context(), actor, id, body)
		return err
	})
	if err != nil {
		writeDomainError(w, message, err)
		return
	}

	resp := dto.ApprovalResponse{Request: req}
	if h.finalizer != nil && (req.Status == domain.ApprovalStatusApproved || req.Status == domain.ApprovalStatusRejected) {
		h.finish(r, &resp, func(ctx context.Context) error {
			return h.finalizer.Finalize(ctx, actor, req)
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// finish runs the resource follow-up of a committed decision. The decision
// stands even when the follow-up fails, so the failure is reported in the body.
func (h *ApprovalHandler) finish(r *http.Request, resp *dto.ApprovalResponse, apply func(ctx context.Context) error) {
	err := retry(r.Context(), h.retrier, func() error { return apply(r.Context()) })
	switch {
	case err == nil:
		resp.Finalized = true
	case errors.Is(err, domain.ErrNoResourceUpdater):
	default:
		resp.FinalizeError = err.Error()
		log := logger.WithContext(r.Context(), h.logger)
		log.Error().Err(err).Msg("approval finalization failed")
	}
}

// GetRequest retrieves a request with its history.
func (h *ApprovalHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	req, err := h.approvalUC.GetRequest(r.Context(), actor.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get approval request", err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// ListPending lists open requests waiting on a role, the caller's own role by default.
func (h *ApprovalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	role := domain.Role(r.URL.Query().Get("role"))
	if role == "" {
		role = actor.Role
	}

	requests, err := h.approvalUC.ListPending(
		r.Context(),
		actor.CompanyID,
		role,
		parseIntQuery(r, "limit", 50),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeDomainError(w, "failed to list pending approvals", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListApprovalRequestsResponse{Requests: requests, Total: int64(len(requests))})
}
