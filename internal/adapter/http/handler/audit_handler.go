package handler

import (
	"context"
	"net/http"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
)

// AuditLister reads the audit trail. The postgres AuditRepository implements it.
type AuditLister interface {
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// AuditHandler serves the company's audit trail.
type AuditHandler struct {
	audit AuditLister
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audit AuditLister) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List lists audit logs, newest first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit, offset := domain.ValidatePagination(parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))

	logs, err := h.audit.List(r.Context(), domain.AuditFilter{
		CompanyID:    actor.CompanyID,
		ActorID:      q.Get("actor_id"),
		Action:       domain.AuditAction(q.Get("action")),
		ResourceType: q.Get("resource_type"),
		ResourceID:   q.Get("resource_id"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		writeDomainError(w, "failed to list audit logs", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAuditLogsResponse{Logs: logs, Total: int64(len(logs))})
}
