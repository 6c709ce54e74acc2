package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

// auditor writes audit logs after the audited transaction has committed.
// A failed write never fails the operation; it is logged and counted.
type auditor struct {
	repo    AuditRepository
	idGen   IDGenerator
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func newAuditor(repo AuditRepository, idGen IDGenerator, logger zerolog.Logger, m *metrics.Metrics) *auditor {
	return &auditor{repo: repo, idGen: idGen, logger: logger, metrics: m}
}

func (a *auditor) record(ctx context.Context, actor domain.Actor, action domain.AuditAction, resourceType, resourceID string, before, after any) {
	if a == nil || a.repo == nil {
		return
	}

	entry := &domain.AuditLog{
		ID:           a.idGen.Generate(),
		CompanyID:    actor.CompanyID,
		ActorID:      actor.UserID,
		ActorRole:    actor.Role,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    time.Now().UTC(),
	}

	status := domain.AuditStatusSuccess
	if err := a.repo.Create(ctx, entry); err != nil {
		status = domain.AuditStatusFailure
		a.logger.Warn().Err(err).
			Str("action", string(action)).
			Str("resource_id", resourceID).
			Msg("audit log write failed")
	}

	if a.metrics != nil {
		a.metrics.AuditLogs.WithLabelValues(string(action), string(status)).Inc()
	}
}
