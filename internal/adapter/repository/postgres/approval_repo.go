package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/postgres/generated"
	"github.com/iho/gobooks/internal/usecase"
)

// ApprovalRepository implements usecase.ApprovalRepository. Steps are
// stored as JSONB on both the config and the request, so a request keeps
// the chain it was created with even if the config changes later.
type ApprovalRepository struct {
	queries *generated.Queries
}

// NewApprovalRepository creates a new ApprovalRepository.
func NewApprovalRepository(db generated.DBTX) *ApprovalRepository {
	return &ApprovalRepository{queries: generated.New(db)}
}

// CreateConfig stores a new approval config.
func (r *ApprovalRepository) CreateConfig(ctx context.Context, cfg *domain.ApprovalConfig) error {
	steps, err := marshalJSON(cfg.Steps)
	if err != nil {
		return err
	}

	return r.queries.CreateApprovalConfig(ctx, generated.CreateApprovalConfigParams{
		ID:           cfg.ID,
		CompanyID:    cfg.CompanyID,
		Name:         cfg.Name,
		ResourceType: string(cfg.ResourceType),
		Threshold:    decimalToNumeric(cfg.Threshold),
		Steps:        steps,
		Active:       cfg.Active,
		CreatedAt:    timeToPgTimestamptz(cfg.CreatedAt),
		UpdatedAt:    timeToPgTimestamptz(cfg.UpdatedAt),
	})
}

// GetConfig retrieves one config.
func (r *ApprovalRepository) GetConfig(ctx context.Context, companyID, id string) (*domain.ApprovalConfig, error) {
	row, err := r.queries.GetApprovalConfig(ctx, generated.GetApprovalConfigParams{CompanyID: companyID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrApprovalConfigNotFound
		}
		return nil, err
	}

	return rowToApprovalConfig(row)
}

// ListConfigs returns configs ordered by resource type then descending
// threshold. An empty resourceType lists every type.
func (r *ApprovalRepository) ListConfigs(ctx context.Context, companyID string, resourceType domain.ResourceType, includeInactive bool) ([]*domain.ApprovalConfig, error) {
	rows, err := r.queries.ListApprovalConfigs(ctx, generated.ListApprovalConfigsParams{
		CompanyID:       companyID,
		ResourceType:    optionalText(string(resourceType)),
		IncludeInactive: includeInactive,
	})
	if err != nil {
		return nil, err
	}

	configs := make([]*domain.ApprovalConfig, 0, len(rows))
	for _, row := range rows {
		cfg, err := rowToApprovalConfig(row)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}

	return configs, nil
}

// DeactivateConfig switches a config off. Open requests keep their steps.
func (r *ApprovalRepository) DeactivateConfig(ctx context.Context, companyID, id string, at time.Time) error {
	affected, err := r.queries.DeactivateApprovalConfig(ctx, generated.DeactivateApprovalConfigParams{
		CompanyID: companyID,
		ID:        id,
		UpdatedAt: timeToPgTimestamptz(at),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrApprovalConfigNotFound
	}

	return nil
}

// CreateRequest inserts a request header. History rows are appended separately.
func (r *ApprovalRepository) CreateRequest(ctx context.Context, tx usecase.Transaction, req *domain.ApprovalRequest) error {
	steps, err := marshalJSON(req.Steps)
	if err != nil {
		return err
	}

	return queriesFor(tx).CreateApprovalRequest(ctx, generated.CreateApprovalRequestParams{
		ID:           req.ID,
		CompanyID:    req.CompanyID,
		ConfigID:     req.ConfigID,
		ResourceType: string(req.ResourceType),
		ResourceID:   req.ResourceID,
		Amount:       decimalToNumeric(req.Amount),
		RequestedBy:  req.RequestedBy,
		CurrentStep:  int32(req.CurrentStep),
		TotalSteps:   int32(req.TotalSteps),
		Steps:        steps,
		Status:       string(req.Status),
		Reason:       req.Reason,
		CreatedAt:    timeToPgTimestamptz(req.CreatedAt),
		UpdatedAt:    timeToPgTimestamptz(req.UpdatedAt),
		FinalizedAt:  timePtrToPgTimestamptz(req.FinalizedAt),
	})
}

// GetRequest retrieves a request with its full history.
func (r *ApprovalRepository) GetRequest(ctx context.Context, companyID, id string) (*domain.ApprovalRequest, error) {
	row, err := r.queries.GetApprovalRequest(ctx, generated.GetApprovalRequestParams{CompanyID: companyID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrApprovalNotFound
		}
		return nil, err
	}

	reqs, err := r.withHistory(ctx, r.queries, []generated.ApprovalRequest{row})
	if err != nil {
		return nil, err
	}

	return reqs[0], nil
}

// GetRequestForUpdate locks a request row for the rest of tx.
func (r *ApprovalRepository) GetRequestForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.ApprovalRequest, error) {
	queries := queriesFor(tx)

	row, err := queries.GetApprovalRequestForUpdate(ctx, generated.GetApprovalRequestForUpdateParams{CompanyID: companyID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrApprovalNotFound
		}
		return nil, err
	}

	reqs, err := r.withHistory(ctx, queries, []generated.ApprovalRequest{row})
	if err != nil {
		return nil, err
	}

	return reqs[0], nil
}

// UpdateRequest persists step, status and reason.
func (r *ApprovalRepository) UpdateRequest(ctx context.Context, tx usecase.Transaction, req *domain.ApprovalRequest) error {
	affected, err := queriesFor(tx).UpdateApprovalRequest(ctx, generated.UpdateApprovalRequestParams{
		ID:          req.ID,
		CurrentStep: int32(req.CurrentStep),
		Status:      string(req.Status),
		Reason:      req.Reason,
		UpdatedAt:   timeToPgTimestamptz(req.UpdatedAt),
		FinalizedAt: timePtrToPgTimestamptz(req.FinalizedAt),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrApprovalNotFound
	}

	return nil
}

// AppendHistory inserts one history row. Seq is the primary key together
// with the request, so two writers racing on one request cannot both win.
func (r *ApprovalRepository) AppendHistory(ctx context.Context, tx usecase.Transaction, entry domain.ApprovalHistory) error {
	return queriesFor(tx).InsertApprovalHistory(ctx, generated.InsertApprovalHistoryParams{
		RequestID: entry.RequestID,
		Seq:       int32(entry.Seq),
		Step:      int32(entry.Step),
		Action:    string(entry.Action),
		ActorID:   entry.ActorID,
		ActorRole: string(entry.ActorRole),
		Comment:   entry.Comment,
		CreatedAt: timeToPgTimestamptz(entry.CreatedAt),
	})
}

// ListPending returns open requests, oldest first. A non-empty role keeps
// only requests whose current step belongs to that role.
func (r *ApprovalRepository) ListPending(ctx context.Context, companyID string, role domain.Role, limit, offset int) ([]*domain.ApprovalRequest, error) {
	rows, err := r.queries.ListPendingApprovals(ctx, generated.ListPendingApprovalsParams{
		CompanyID: companyID,
		Role:      optionalText(string(role)),
		Limit:     pageLimit(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return r.withHistory(ctx, r.queries, rows)
}

func (r *ApprovalRepository) withHistory(ctx context.Context, queries *generated.Queries, rows []generated.ApprovalRequest) ([]*domain.ApprovalRequest, error) {
	reqs := make([]*domain.ApprovalRequest, len(rows))
	if len(rows) == 0 {
		return reqs, nil
	}

	ids := make([]string, len(rows))
	byID := make(map[string]*domain.ApprovalRequest, len(rows))
	for i, row := range rows {
		req, err := rowToApprovalRequest(row)
		if err != nil {
			return nil, err
		}
		reqs[i] = req
		ids[i] = row.ID
		byID[row.ID] = req
	}

	history, err := queries.ListApprovalHistory(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, h := range history {
		req, ok := byID[h.RequestID]
		if !ok {
			continue
		}
		req.History = append(req.History, domain.ApprovalHistory{
			RequestID: h.RequestID,
			Seq:       int(h.Seq),
			Step:      int(h.Step),
			Action:    domain.ApprovalAction(h.Action),
			ActorID:   h.ActorID,
			ActorRole: domain.Role(h.ActorRole),
			Comment:   h.Comment,
			CreatedAt: h.CreatedAt.Time,
		})
	}

	return reqs, nil
}

func rowToApprovalConfig(row generated.ApprovalConfig) (*domain.ApprovalConfig, error) {
	cfg := &domain.ApprovalConfig{
		ID:           row.ID,
		CompanyID:    row.CompanyID,
		Name:         row.Name,
		ResourceType: domain.ResourceType(row.ResourceType),
		Threshold:    numericToDecimal(row.Threshold),
		Active:       row.Active,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
	if err := unmarshalJSON(row.Steps, &cfg.Steps); err != nil {
		return nil, fmt.Errorf("approval config %s steps: %w", row.ID, err)
	}

	return cfg, nil
}

func rowToApprovalRequest(row generated.ApprovalRequest) (*domain.ApprovalRequest, error) {
	req := &domain.ApprovalRequest{
		ID:           row.ID,
		CompanyID:    row.CompanyID,
		ConfigID:     row.ConfigID,
		ResourceType: domain.ResourceType(row.ResourceType),
		ResourceID:   row.ResourceID,
		Amount:       numericToDecimal(row.Amount),
		RequestedBy:  row.RequestedBy,
		CurrentStep:  int(row.CurrentStep),
		TotalSteps:   int(row.TotalSteps),
		Status:       domain.ApprovalStatus(row.Status),
		Reason:       row.Reason,
		History:      []domain.ApprovalHistory{},
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
		FinalizedAt:  pgTimestamptzToPtr(row.FinalizedAt),
	}
	if err := unmarshalJSON(row.Steps, &req.Steps); err != nil {
		return nil, fmt.Errorf("approval request %s steps: %w", row.ID, err)
	}

	return req, nil
}
