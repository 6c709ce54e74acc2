package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func expenseConfig(threshold int64, roles ...Role) *ApprovalConfig {
	steps := make([]ApprovalStep, len(roles))
	for i, r := range roles {
		steps[i] = ApprovalStep{Order: i + 1, Role: r}
	}
	return &ApprovalConfig{
		ID:           "cfg-" + decimal.NewFromInt(threshold).String(),
		CompanyID:    "co-1",
		ResourceType: ResourceTypeExpense,
		Threshold:    decimal.NewFromInt(threshold),
		Steps:        steps,
		Active:       true,
	}
}

func TestSelectConfig(t *testing.T) {
	low := expenseConfig(1_000_000, RoleFinanceAdmin)
	mid := expenseConfig(10_000_000, RoleFinanceAdmin, RoleSuperAdmin)
	high := expenseConfig(100_000_000, RoleFinanceAdmin, RoleSuperAdmin, RoleSuperAdmin)
	inactive := expenseConfig(12_000_000, RoleAccountant)
	inactive.Active = false
	revenue := expenseConfig(0, RoleAccountant)
	revenue.ResourceType = ResourceTypeRevenue

	configs := []*ApprovalConfig{high, low, inactive, mid, revenue}

	tests := []struct {
		name   string
		amount int64
		want   *ApprovalConfig
	}{
		{"below every threshold", 500_000, nil},
		{"exactly at lowest", 1_000_000, low},
		{"between tiers", 15_000_000, mid},
		{"inactive tier skipped", 12_500_000, mid},
		{"top tier", 250_000_000, high},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectConfig(configs, ResourceTypeExpense, decimal.NewFromInt(tt.amount))
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApprovalConfig_Validate(t *testing.T) {
	valid := expenseConfig(0, RoleFinanceAdmin, RoleSuperAdmin)
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	unordered := expenseConfig(0, RoleFinanceAdmin, RoleSuperAdmin)
	unordered.Steps[0].Order, unordered.Steps[1].Order = 2, 1
	if err := unordered.Validate(); err != nil {
		t.Fatalf("steps given out of order should be sorted: %v", err)
	}
	if unordered.Steps[0].Role != RoleSuperAdmin {
		t.Errorf("steps not sorted by order")
	}

	cases := map[string]func(c *ApprovalConfig){
		"no steps":       func(c *ApprovalConfig) { c.Steps = nil },
		"gap in order":   func(c *ApprovalConfig) { c.Steps[1].Order = 3 },
		"empty role":     func(c *ApprovalConfig) { c.Steps[0].Role = "" },
		"negative limit": func(c *ApprovalConfig) { c.Threshold = decimal.NewFromInt(-1) },
		"bad resource":   func(c *ApprovalConfig) { c.ResourceType = "INVOICE" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := expenseConfig(0, RoleFinanceAdmin, RoleSuperAdmin)
			mutate(c)
			if err := c.Validate(); !IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestApprovalRequest_TwoStepFlow(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	cfg := expenseConfig(10_000_000, RoleFinanceAdmin, RoleSuperAdmin)
	requester := Actor{UserID: "u-req", CompanyID: "co-1", Role: RoleAccountant}

	req := NewApprovalRequest("req-1", cfg, "exp-1", decimal.NewFromInt(15_000_000), requester, now)
	if req.Status != ApprovalStatusPending || req.CurrentStep != 1 || req.TotalSteps != 2 {
		t.Fatalf("unexpected initial state: %+v", req)
	}
	if len(req.History) != 1 || req.History[0].Action != ApprovalActionSubmit {
		t.Fatalf("expected submit history, got %+v", req.History)
	}

	hr := Actor{UserID: "u-hr", CompanyID: "co-1", Role: RoleHRAdmin}
	err := req.Approve(hr, "", now)
	if !errors.Is(err, ErrForbidden) || !errors.Is(err, ErrWrongRole) {
		t.Fatalf("expected wrong role, got %v", err)
	}
	if req.CurrentStep != 1 || len(req.History) != 1 {
		t.Fatalf("state changed after forbidden approve: %+v", req)
	}

	finance := Actor{UserID: "u-fin", CompanyID: "co-1", Role: RoleFinanceAdmin}
	if err := req.Approve(finance, "ok", now.Add(time.Hour)); err != nil {
		t.Fatalf("finance approve: %v", err)
	}
	if req.Status != ApprovalStatusInProgress || req.CurrentStep != 2 {
		t.Fatalf("expected IN_PROGRESS at step 2, got %s at %d", req.Status, req.CurrentStep)
	}

	super := Actor{UserID: "u-sa", CompanyID: "co-1", Role: RoleSuperAdmin}
	if err := req.Approve(super, "", now.Add(2*time.Hour)); err != nil {
		t.Fatalf("super approve: %v", err)
	}
	if req.Status != ApprovalStatusApproved || req.FinalizedAt == nil {
		t.Fatalf("expected APPROVED, got %s", req.Status)
	}
	if len(req.History) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(req.History))
	}
	for i, h := range req.History {
		if h.Seq != i+1 {
			t.Errorf("history %d has seq %d", i, h.Seq)
		}
	}

	if err := req.Approve(super, "", now); !errors.Is(err, ErrRequestFinalized) {
		t.Errorf("expected finalized error, got %v", err)
	}
	if err := req.Cancel(requester, now); !errors.Is(err, ErrRequestFinalized) {
		t.Errorf("expected finalized error on cancel, got %v", err)
	}
}

func TestApprovalRequest_SpecificApprover(t *testing.T) {
	cfg := expenseConfig(0, RoleFinanceAdmin)
	approver := "u-cfo"
	cfg.Steps[0].ApproverID = &approver

	req := NewApprovalRequest("req-1", cfg, "exp-1", decimal.NewFromInt(1), Actor{UserID: "u-req", CompanyID: "co-1", Role: RoleAccountant}, time.Now())

	other := Actor{UserID: "u-other", CompanyID: "co-1", Role: RoleFinanceAdmin}
	if err := req.Approve(other, "", time.Now()); !errors.Is(err, ErrWrongApprover) {
		t.Fatalf("expected wrong approver, got %v", err)
	}

	cfo := Actor{UserID: approver, CompanyID: "co-1", Role: RoleFinanceAdmin}
	if err := req.Approve(cfo, "", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != ApprovalStatusApproved {
		t.Errorf("expected APPROVED, got %s", req.Status)
	}
}

func TestApprovalRequest_Reject(t *testing.T) {
	cfg := expenseConfig(0, RoleFinanceAdmin, RoleSuperAdmin)
	req := NewApprovalRequest("req-1", cfg, "exp-1", decimal.NewFromInt(1), Actor{UserID: "u-req", CompanyID: "co-1", Role: RoleAccountant}, time.Now())

	if err := req.Reject(Actor{UserID: "u-sa", CompanyID: "co-1", Role: RoleSuperAdmin}, "no", time.Now()); !errors.Is(err, ErrWrongRole) {
		t.Fatalf("step 1 reject by step 2 role should fail, got %v", err)
	}

	if err := req.Reject(Actor{UserID: "u-fin", CompanyID: "co-1", Role: RoleFinanceAdmin}, "missing receipt", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != ApprovalStatusRejected || req.Reason != "missing receipt" {
		t.Fatalf("unexpected state: %s %q", req.Status, req.Reason)
	}
	if req.LastHistory().Comment != "missing receipt" || req.LastHistory().Action != ApprovalActionReject {
		t.Errorf("reject not recorded in history: %+v", req.LastHistory())
	}
}

func TestApprovalRequest_Cancel(t *testing.T) {
	cfg := expenseConfig(0, RoleFinanceAdmin, RoleSuperAdmin)
	requester := Actor{UserID: "u-req", CompanyID: "co-1", Role: RoleAccountant}

	t.Run("only requester", func(t *testing.T) {
		req := NewApprovalRequest("req-1", cfg, "exp-1", decimal.NewFromInt(1), requester, time.Now())
		err := req.Cancel(Actor{UserID: "u-fin", CompanyID: "co-1", Role: RoleFinanceAdmin}, time.Now())
		if !errors.Is(err, ErrNotRequester) {
			t.Fatalf("expected ErrNotRequester, got %v", err)
		}
	})

	t.Run("while in progress", func(t *testing.T) {
		req := NewApprovalRequest("req-1", cfg, "exp-1", decimal.NewFromInt(1), requester, time.Now())
		if err := req.Approve(Actor{UserID: "u-fin", CompanyID: "co-1", Role: RoleFinanceAdmin}, "", time.Now()); err != nil {
			t.Fatal(err)
		}
		if err := req.Cancel(requester, time.Now()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Status != ApprovalStatusCancelled {
			t.Errorf("expected CANCELLED, got %s", req.Status)
		}
	})

	t.Run("other company", func(t *testing.T) {
		req := NewApprovalRequest("req-1", cfg, "exp-1", decimal.NewFromInt(1), requester, time.Now())
		outsider := requester
		outsider.CompanyID = "co-2"
		if err := req.Cancel(outsider, time.Now()); !errors.Is(err, ErrCompanyMismatch) {
			t.Fatalf("expected company mismatch, got %v", err)
		}
	})
}
