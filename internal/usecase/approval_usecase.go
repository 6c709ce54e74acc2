package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

// ApprovalUseCase runs multi-step approval workflows. It records decisions
// only; finalizing the underlying resource is left to ResourceDispatch.
type ApprovalUseCase struct {
	txManager    TransactionManager
	approvalRepo ApprovalRepository
	resources    ResourceInspector
	idGen        IDGenerator
	audit        *auditor
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

// NewApprovalUseCase creates a new ApprovalUseCase. resources may be nil,
// in which case submitted amounts are trusted as given.
func NewApprovalUseCase(
	txManager TransactionManager,
	approvalRepo ApprovalRepository,
	resources ResourceInspector,
	auditRepo AuditRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *ApprovalUseCase {
	return &ApprovalUseCase{
		txManager:    txManager,
		approvalRepo: approvalRepo,
		resources:    resources,
		idGen:        idGen,
		audit:        newAuditor(auditRepo, idGen, logger, metrics),
		logger:       logger,
		metrics:      metrics,
	}
}

// CreateConfigInput represents input for creating an approval config.
type CreateConfigInput struct {
	Actor        domain.Actor
	Name         string
	ResourceType domain.ResourceType
	Threshold    decimal.Decimal
	Steps        []domain.ApprovalStep
}

// SubmitInput represents input for submitting a resource for approval.
type SubmitInput struct {
	Actor        domain.Actor
	ResourceType domain.ResourceType
	ResourceID   string
	Amount       decimal.Decimal
}

// SubmitResult is the outcome of Submit. Request is nil when no config
// applies and the action is implicitly approved.
type SubmitResult struct {
	Request      *domain.ApprovalRequest `json:"request,omitempty"`
	AutoApproved bool                    `json:"auto_approved"`
}

// CreateConfig validates and stores a routing config for the actor's company.
func (uc *ApprovalUseCase) CreateConfig(ctx context.Context, input CreateConfigInput) (*domain.ApprovalConfig, error) {
	if err := input.Actor.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	steps := make([]domain.ApprovalStep, len(input.Steps))
	copy(steps, input.Steps)

	cfg := &domain.ApprovalConfig{
		ID:           uc.idGen.Generate(),
		CompanyID:    input.Actor.CompanyID,
		Name:         strings.TrimSpace(input.Name),
		ResourceType: input.ResourceType,
		Threshold:    input.Threshold,
		Steps:        steps,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if cfg.Name == "" {
		cfg.Name = fmt.Sprintf("%s >= %s", cfg.ResourceType, cfg.Threshold.StringFixed(2))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateMoney(cfg.Threshold); err != nil {
		return nil, fmt.Errorf("threshold: %w", err)
	}

	if err := uc.approvalRepo.CreateConfig(ctx, cfg); err != nil {
		return nil, err
	}

	uc.audit.record(ctx, input.Actor, domain.AuditActionApprovalConfigCreate, "approval_config", cfg.ID, nil, cfg)

	return cfg, nil
}

// ListConfigs lists a company's configs, optionally filtered by resource type.
func (uc *ApprovalUseCase) ListConfigs(ctx context.Context, companyID string, resourceType domain.ResourceType, includeInactive bool) ([]*domain.ApprovalConfig, error) {
	if resourceType != "" && !resourceType.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidResourceType, resourceType)
	}
	return uc.approvalRepo.ListConfigs(ctx, companyID, resourceType, includeInactive)
}

// DeactivateConfig stops a config from routing new requests. Requests
// already in flight keep their snapshot of its steps.
func (uc *ApprovalUseCase) DeactivateConfig(ctx context.Context, actor domain.Actor, id string) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	if err := uc.approvalRepo.DeactivateConfig(ctx, actor.CompanyID, id, time.Now().UTC()); err != nil {
		return err
	}

	uc.audit.record(ctx, actor, domain.AuditActionApprovalConfigDeactivate, "approval_config", id, nil, nil)

	return nil
}

// Submit opens an approval request routed by the highest threshold not
// above the amount. With no matching config the action is auto-approved.
// When the resource records its own amount, that amount routes the request
// and the submitted one is ignored.
func (uc *ApprovalUseCase) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if err := input.Actor.Validate(); err != nil {
		return nil, err
	}
	if !input.ResourceType.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidResourceType, input.ResourceType)
	}
	if strings.TrimSpace(input.ResourceID) == "" {
		return nil, fmt.Errorf("%w: resource id is required", domain.ErrValidation)
	}

	amount := input.Amount
	if uc.resources != nil {
		recorded, ok, err := uc.resources.ResourceAmount(ctx, input.Actor, input.ResourceType, input.ResourceID)
		if err != nil {
			return nil, err
		}
		if ok {
			amount = recorded
		}
	}
	if err := domain.ValidateMoney(amount); err != nil {
		return nil, err
	}

	configs, err := uc.approvalRepo.ListConfigs(ctx, input.Actor.CompanyID, input.ResourceType, false)
	if err != nil {
		return nil, err
	}

	cfg := domain.SelectConfig(configs, input.ResourceType, amount)
	if cfg == nil {
		if uc.resources != nil {
			if err := uc.resources.AuthorizeImplicit(input.Actor, input.ResourceType); err != nil {
				return nil, err
			}
		}
		uc.countAction(domain.ApprovalActionSubmit, input.ResourceType)
		return &SubmitResult{AutoApproved: true}, nil
	}

	req := domain.NewApprovalRequest(uc.idGen.Generate(), cfg, input.ResourceID, amount, input.Actor, time.Now().UTC())

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.approvalRepo.CreateRequest(txCtx, tx, req); err != nil {
		return nil, err
	}
	if err := uc.approvalRepo.AppendHistory(txCtx, tx, req.LastHistory()); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.countAction(domain.ApprovalActionSubmit, input.ResourceType)
	uc.audit.record(ctx, input.Actor, domain.AuditActionApprovalSubmit, "approval_request", req.ID, nil, req)

	return &SubmitResult{Request: req}, nil
}

// Approve records the actor's approval of the current step. The last step
// approves the request; earlier steps advance it.
func (uc *ApprovalUseCase) Approve(ctx context.Context, actor domain.Actor, requestID, comment string) (*domain.ApprovalRequest, error) {
	return uc.act(ctx, actor, requestID, domain.AuditActionApprovalApprove, func(req *domain.ApprovalRequest, now time.Time) error {
		return req.Approve(actor, strings.TrimSpace(comment), now)
	})
}

// Reject finalizes the request as rejected.
func (uc *ApprovalUseCase) Reject(ctx context.Context, actor domain.Actor, requestID, reason string) (*domain.ApprovalRequest, error) {
	if err := domain.ValidateDescription(reason); err != nil {
		return nil, err
	}
	return uc.act(ctx, actor, requestID, domain.AuditActionApprovalReject, func(req *domain.ApprovalRequest, now time.Time) error {
		return req.Reject(actor, strings.TrimSpace(reason), now)
	})
}

// Cancel withdraws a pending request. Only its requester may cancel.
func (uc *ApprovalUseCase) Cancel(ctx context.Context, actor domain.Actor, requestID string) (*domain.ApprovalRequest, error) {
	return uc.act(ctx, actor, requestID, domain.AuditActionApprovalCancel, func(req *domain.ApprovalRequest, now time.Time) error {
		return req.Cancel(actor, now)
	})
}

// GetRequest returns a request with its full history.
func (uc *ApprovalUseCase) GetRequest(ctx context.Context, companyID, id string) (*domain.ApprovalRequest, error) {
	return uc.approvalRepo.GetRequest(ctx, companyID, id)
}

// ListPending lists open requests whose current step expects role.
func (uc *ApprovalUseCase) ListPending(ctx context.Context, companyID string, role domain.Role, limit, offset int) ([]*domain.ApprovalRequest, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.approvalRepo.ListPending(ctx, companyID, role, limit, offset)
}

// act locks the request row, applies one decision and appends its history
// entry in a single transaction.
func (uc *ApprovalUseCase) act(
	ctx context.Context,
	actor domain.Actor,
	requestID string,
	action domain.AuditAction,
	apply func(req *domain.ApprovalRequest, now time.Time) error,
) (*domain.ApprovalRequest, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	req, err := uc.approvalRepo.GetRequestForUpdate(txCtx, tx, actor.CompanyID, requestID)
	if err != nil {
		return nil, err
	}

	before := map[string]any{"status": req.Status, "current_step": req.CurrentStep}

	if err := apply(req, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.approvalRepo.UpdateRequest(txCtx, tx, req); err != nil {
		return nil, err
	}
	last := req.LastHistory()
	if err := uc.approvalRepo.AppendHistory(txCtx, tx, last); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.countAction(last.Action, req.ResourceType)
	uc.audit.record(ctx, actor, action, "approval_request", req.ID, before, map[string]any{
		"status":       req.Status,
		"current_step": req.CurrentStep,
	})

	return req, nil
}

func (uc *ApprovalUseCase) countAction(action domain.ApprovalAction, rt domain.ResourceType) {
	if uc.metrics != nil {
		uc.metrics.ApprovalActions.WithLabelValues(string(action), string(rt)).Inc()
	}
}
