package domain

import (
	"context"
	"testing"
)

func TestRole_Capabilities(t *testing.T) {
	tests := []struct {
		role      Role
		valid     bool
		ledger    bool
		payroll   bool
		approvals bool
	}{
		{RoleSuperAdmin, true, true, true, true},
		{RoleFinanceAdmin, true, true, true, true},
		{RoleHRAdmin, true, false, true, false},
		{RoleAccountant, true, true, false, false},
		{RoleViewer, true, false, false, false},
		{RoleSystem, true, true, true, false},
		{Role("MANAGER"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.role.CanWriteLedger(); got != tt.ledger {
				t.Errorf("CanWriteLedger() = %v, want %v", got, tt.ledger)
			}
			if got := tt.role.CanRunPayroll(); got != tt.payroll {
				t.Errorf("CanRunPayroll() = %v, want %v", got, tt.payroll)
			}
			if got := tt.role.CanManageApprovals(); got != tt.approvals {
				t.Errorf("CanManageApprovals() = %v, want %v", got, tt.approvals)
			}
		})
	}
}

func TestActorContext(t *testing.T) {
	if _, ok := ActorFromContext(context.Background()); ok {
		t.Fatal("expected no actor on empty context")
	}

	actor := Actor{UserID: "u-1", CompanyID: "co-1", Role: RoleViewer}
	got, ok := ActorFromContext(ContextWithActor(context.Background(), actor))
	if !ok || got != actor {
		t.Fatalf("expected %+v, got %+v (ok=%v)", actor, got, ok)
	}
}

func TestActorValidate(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		ok    bool
	}{
		{"complete", Actor{UserID: "u", CompanyID: "c", Role: RoleAccountant}, true},
		{"missing user", Actor{CompanyID: "c", Role: RoleAccountant}, false},
		{"missing company", Actor{UserID: "u", Role: RoleAccountant}, false},
		{"unknown role", Actor{UserID: "u", CompanyID: "c", Role: "JANITOR"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.actor.Validate()
			if (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
