package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ResourceType names the kind of business resource an approval gates.
type ResourceType string

const (
	ResourceTypeExpense ResourceType = "EXPENSE"
	ResourceTypeRevenue ResourceType = "REVENUE"
	ResourceTypeJournal ResourceType = "JOURNAL"
	ResourceTypePayroll ResourceType = "PAYROLL"
)

// Valid reports whether t is a known resource type.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTypeExpense, ResourceTypeRevenue, ResourceTypeJournal, ResourceTypePayroll:
		return true
	}
	return false
}

// ApprovalStatus is the state of an approval request.
type ApprovalStatus string

const (
	ApprovalStatusPending    ApprovalStatus = "PENDING"
	ApprovalStatusInProgress ApprovalStatus = "IN_PROGRESS"
	ApprovalStatusApproved   ApprovalStatus = "APPROVED"
	ApprovalStatusRejected   ApprovalStatus = "REJECTED"
	ApprovalStatusCancelled  ApprovalStatus = "CANCELLED"
)

// IsFinal reports whether no further action is accepted.
func (s ApprovalStatus) IsFinal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected || s == ApprovalStatusCancelled
}

// ApprovalAction is what an actor did to a request.
type ApprovalAction string

const (
	ApprovalActionSubmit  ApprovalAction = "SUBMIT"
	ApprovalActionApprove ApprovalAction = "APPROVE"
	ApprovalActionReject  ApprovalAction = "REJECT"
	ApprovalActionCancel  ApprovalAction = "CANCEL"
)

// ApprovalStep is one stage of a config. ApproverID pins the step to a
// single user in addition to the role.
type ApprovalStep struct {
	Order      int     `json:"order"`
	Role       Role    `json:"role"`
	ApproverID *string `json:"approver_id,omitempty"`
}

// ApprovalConfig routes requests of one resource type at or above Threshold.
type ApprovalConfig struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	Name         string          `json:"name"`
	ResourceType ResourceType    `json:"resource_type"`
	Threshold    decimal.Decimal `json:"threshold"`
	Steps        []ApprovalStep  `json:"steps"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Validate checks resource type, threshold and that steps are ordered 1..n
// with a role on each.
func (c *ApprovalConfig) Validate() error {
	if !c.ResourceType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidResourceType, c.ResourceType)
	}
	if c.Threshold.IsNegative() {
		return fmt.Errorf("%w: threshold cannot be negative", ErrInvalidApprovalConfig)
	}
	if len(c.Steps) == 0 {
		return fmt.Errorf("%w: at least one step is required", ErrInvalidApprovalConfig)
	}

	sort.SliceStable(c.Steps, func(i, j int) bool { return c.Steps[i].Order < c.Steps[j].Order })
	for i, step := range c.Steps {
		if step.Order != i+1 {
			return fmt.Errorf("%w: step orders must run 1..%d without gaps", ErrInvalidApprovalConfig, len(c.Steps))
		}
		if step.Role == "" {
			return fmt.Errorf("%w: step %d has no role", ErrInvalidApprovalConfig, step.Order)
		}
	}

	return nil
}

// SelectConfig picks the active config for rt with the highest threshold
// not above amount. A nil result means the action is implicitly approved.
func SelectConfig(configs []*ApprovalConfig, rt ResourceType, amount decimal.Decimal) *ApprovalConfig {
	var best *ApprovalConfig
	for _, c := range configs {
		if !c.Active || c.ResourceType != rt || c.Threshold.GreaterThan(amount) {
			continue
		}
		if best == nil || c.Threshold.GreaterThan(best.Threshold) {
			best = c
		}
	}
	return best
}

// ApprovalHistory is one append-only entry in a request's audit trail.
// Seq is the entry's position, starting at 1.
type ApprovalHistory struct {
	RequestID string         `json:"request_id"`
	Seq       int            `json:"seq"`
	Step      int            `json:"step"`
	Action    ApprovalAction `json:"action"`
	ActorID   string         `json:"actor_id"`
	ActorRole Role           `json:"actor_role"`
	Comment   string         `json:"comment,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ApprovalRequest tracks one resource through the steps of a config. Steps
// are copied from the config at submission so later config edits do not
// affect requests in flight.
type ApprovalRequest struct {
	ID           string            `json:"id"`
	CompanyID    string            `json:"company_id"`
	ConfigID     string            `json:"config_id"`
	ResourceType ResourceType      `json:"resource_type"`
	ResourceID   string            `json:"resource_id"`
	Amount       decimal.Decimal   `json:"amount"`
	RequestedBy  string            `json:"requested_by"`
	CurrentStep  int               `json:"current_step"`
	TotalSteps   int               `json:"total_steps"`
	Steps        []ApprovalStep    `json:"steps"`
	Status       ApprovalStatus    `json:"status"`
	Reason       string            `json:"reason,omitempty"`
	History      []ApprovalHistory `json:"history"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	FinalizedAt  *time.Time        `json:"finalized_at,omitempty"`
}

// NewApprovalRequest opens a request at step 1 of cfg.
func NewApprovalRequest(id string, cfg *ApprovalConfig, resourceID string, amount decimal.Decimal, requester Actor, now time.Time) *ApprovalRequest {
	steps := make([]ApprovalStep, len(cfg.Steps))
	copy(steps, cfg.Steps)

	req := &ApprovalRequest{
		ID:           id,
		CompanyID:    cfg.CompanyID,
		ConfigID:     cfg.ID,
		ResourceType: cfg.ResourceType,
		ResourceID:   resourceID,
		Amount:       amount,
		RequestedBy:  requester.UserID,
		CurrentStep:  1,
		TotalSteps:   len(steps),
		Steps:        steps,
		Status:       ApprovalStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	req.record(ApprovalActionSubmit, requester, "", now)

	return req
}

// CurrentStepDef returns the definition of the step awaiting action.
func (r *ApprovalRequest) CurrentStepDef() (ApprovalStep, error) {
	if r.CurrentStep < 1 || r.CurrentStep > len(r.Steps) {
		return ApprovalStep{}, fmt.Errorf("%w: request %s has no step %d", ErrInvalidApprovalConfig, r.ID, r.CurrentStep)
	}
	return r.Steps[r.CurrentStep-1], nil
}

// Authorize checks that actor may act on the current step.
func (r *ApprovalRequest) Authorize(actor Actor) error {
	if r.Status.IsFinal() {
		return fmt.Errorf("%w: status %s", ErrRequestFinalized, r.Status)
	}
	if actor.CompanyID != r.CompanyID {
		return ErrCompanyMismatch
	}

	step, err := r.CurrentStepDef()
	if err != nil {
		return err
	}
	if actor.Role != step.Role {
		return fmt.Errorf("%w: step %d requires role %s, got %s", ErrWrongRole, step.Order, step.Role, actor.Role)
	}
	if step.ApproverID != nil && *step.ApproverID != actor.UserID {
		return fmt.Errorf("%w: step %d is assigned to %s", ErrWrongApprover, step.Order, *step.ApproverID)
	}

	return nil
}

// Approve advances the request or, on the last step, approves it.
func (r *ApprovalRequest) Approve(actor Actor, comment string, now time.Time) error {
	if err := r.Authorize(actor); err != nil {
		return err
	}

	r.record(ApprovalActionApprove, actor, comment, now)

	if r.CurrentStep >= r.TotalSteps {
		r.finalize(ApprovalStatusApproved, now)
		return nil
	}

	r.CurrentStep++
	r.Status = ApprovalStatusInProgress
	r.UpdatedAt = now

	return nil
}

// Reject finalizes the request as rejected with reason.
func (r *ApprovalRequest) Reject(actor Actor, reason string, now time.Time) error {
	if err := r.Authorize(actor); err != nil {
		return err
	}

	r.record(ApprovalActionReject, actor, reason, now)
	r.Reason = reason
	r.finalize(ApprovalStatusRejected, now)

	return nil
}

// Cancel withdraws the request. Only the requester may cancel.
func (r *ApprovalRequest) Cancel(actor Actor, now time.Time) error {
	if r.Status.IsFinal() {
		return fmt.Errorf("%w: status %s", ErrRequestFinalized, r.Status)
	}
	if actor.CompanyID != r.CompanyID {
		return ErrCompanyMismatch
	}
	if actor.UserID != r.RequestedBy {
		return ErrNotRequester
	}

	r.record(ApprovalActionCancel, actor, "", now)
	r.finalize(ApprovalStatusCancelled, now)

	return nil
}

// LastHistory returns the most recent history entry.
func (r *ApprovalRequest) LastHistory() ApprovalHistory {
	return r.History[len(r.History)-1]
}

func (r *ApprovalRequest) record(action ApprovalAction, actor Actor, comment string, now time.Time) {
	r.History = append(r.History, ApprovalHistory{
		RequestID: r.ID,
		Seq:       len(r.History) + 1,
		Step:      r.CurrentStep,
		Action:    action,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Comment:   comment,
		CreatedAt: now,
	})
}

func (r *ApprovalRequest) finalize(status ApprovalStatus, now time.Time) {
	r.Status = status
	r.UpdatedAt = now
	r.FinalizedAt = &now
}
