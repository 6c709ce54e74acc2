package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is one entry written to the audit sink.
type AuditLog struct {
	ID           string      `json:"id"`
	CompanyID    string      `json:"company_id"`
	ActorID      string      `json:"actor_id"`
	ActorRole    Role        `json:"actor_role"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id"`
	BeforeState  JSON        `json:"before_state,omitempty"`
	AfterState   JSON        `json:"after_state,omitempty"`
	Status       AuditStatus `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionAccountCreate AuditAction = "account.create"
	AuditActionAccountDelete AuditAction = "account.delete"

	AuditActionJournalRecord  AuditAction = "journal.record"
	AuditActionJournalDraft   AuditAction = "journal.draft"
	AuditActionJournalUpdate  AuditAction = "journal.update"
	AuditActionJournalPost    AuditAction = "journal.post"
	AuditActionJournalVoid    AuditAction = "journal.void"
	AuditActionJournalReverse AuditAction = "journal.reverse"

	AuditActionPayrollProcess AuditAction = "payroll.process"

	AuditActionApprovalConfigCreate     AuditAction = "approval_config.create"
	AuditActionApprovalConfigDeactivate AuditAction = "approval_config.deactivate"
	AuditActionApprovalSubmit           AuditAction = "approval.submit"
	AuditActionApprovalApprove          AuditAction = "approval.approve"
	AuditActionApprovalReject           AuditAction = "approval.reject"
	AuditActionApprovalCancel           AuditAction = "approval.cancel"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	CompanyID    string
	ActorID      string
	Action       AuditAction
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}
