package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/postgres/generated"
)

// AuditRepository implements audit log persistence
type AuditRepository struct {
	queries *generated.Queries
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db generated.DBTX) *AuditRepository {
	return &AuditRepository{queries: generated.New(db)}
}

// Create inserts a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	var before, after []byte
	var err error

	if log.BeforeState != nil {
		if before, err = marshalJSON(log.BeforeState); err != nil {
			return err
		}
	}
	if log.AfterState != nil {
		if after, err = marshalJSON(log.AfterState); err != nil {
			return err
		}
	}

	return r.queries.CreateAuditLog(ctx, generated.CreateAuditLogParams{
		ID:           log.ID,
		CompanyID:    log.CompanyID,
		ActorID:      log.ActorID,
		ActorRole:    string(log.ActorRole),
		Action:       string(log.Action),
		ResourceType: log.ResourceType,
		ResourceID:   log.ResourceID,
		BeforeState:  before,
		AfterState:   after,
		Status:       string(log.Status),
		ErrorMessage: log.ErrorMessage,
		CreatedAt:    timeToPgTimestamptz(log.CreatedAt),
	})
}

// List retrieves audit logs with filters, newest first
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	rows, err := r.queries.ListAuditLogs(ctx, generated.ListAuditLogsParams{
		CompanyID:    filter.CompanyID,
		ActorID:      optionalText(filter.ActorID),
		Action:       optionalText(string(filter.Action)),
		ResourceType: optionalText(filter.ResourceType),
		ResourceID:   optionalText(filter.ResourceID),
		Limit:        pageLimit(filter.Limit),
		Offset:       int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	logs := make([]*domain.AuditLog, 0, len(rows))
	for _, row := range rows {
		log := &domain.AuditLog{
			ID:           row.ID,
			CompanyID:    row.CompanyID,
			ActorID:      row.ActorID,
			ActorRole:    domain.Role(row.ActorRole),
			Action:       domain.AuditAction(row.Action),
			ResourceType: row.ResourceType,
			ResourceID:   row.ResourceID,
			Status:       domain.AuditStatus(row.Status),
			ErrorMessage: row.ErrorMessage,
			CreatedAt:    row.CreatedAt.Time,
		}
		if err := unmarshalJSON(row.BeforeState, &log.BeforeState); err != nil {
			return nil, fmt.Errorf("audit log %s before state: %w", row.ID, err)
		}
		if err := unmarshalJSON(row.AfterState, &log.AfterState); err != nil {
			return nil, fmt.Errorf("audit log %s after state: %w", row.ID, err)
		}
		logs = append(logs, log)
	}

	return logs, nil
}
