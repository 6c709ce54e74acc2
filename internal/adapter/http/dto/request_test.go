package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobooks/internal/domain"
)

var actor = domain.Actor{UserID: "u-1", CompanyID: "co-1", Role: domain.RoleAccountant}

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	parent := "acc-parent"
	req := &CreateAccountRequest{Code: "1110", Name: "Petty cash", Type: "ASSET", ParentID: &parent, IsCash: true}

	got := req.ToUseCaseInput(actor)

	assert.Equal(t, actor, got.Actor)
	assert.Equal(t, "1110", got.Code)
	assert.Equal(t, domain.AccountTypeAsset, got.Type)
	assert.Equal(t, &parent, got.ParentID)
	assert.True(t, got.IsCash)
}

func TestDate_JSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "date", input: `"2026-01-31"`, want: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
		{name: "null", input: `null`},
		{name: "timestamp", input: `"2026-01-31T10:00:00Z"`, wantErr: true},
		{name: "number", input: `20260131`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(d.Time), "got %s", d.Time)
		})
	}

	out, err := json.Marshal(Date{time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2026-02-01"`, string(out))
}

func TestRecordJournalRequest_ToUseCaseInput(t *testing.T) {
	var req RecordJournalRequest
	body := `{
		"date": "2026-01-15",
		"description": "Office rent",
		"lines": [
			{"account_id": "acc-rent", "debit": "1500000.00", "credit": "0"},
			{"account_id": "acc-bank", "debit": "0", "credit": "1500000.00"}
		]
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	got := req.ToUseCaseInput(actor)

	assert.Equal(t, "co-1", got.CompanyID)
	assert.Equal(t, domain.JournalSourceManual, got.Source, "source defaults to manual")
	require.Len(t, got.Lines, 2)
	assert.True(t, got.Lines[0].Debit.Equal(decimal.RequireFromString("1500000")))
	assert.True(t, got.Lines[1].Credit.Equal(decimal.RequireFromString("1500000")))
	assert.Equal(t, time.January, got.Date.Month())
}

func TestUpdateDraftRequest_ToUseCaseInput(t *testing.T) {
	req := &UpdateDraftRequest{
		Date:        Date{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		Description: "fixed",
		Lines:       []JournalLineRequest{{AccountID: "a", Debit: decimal.NewFromInt(1)}, {AccountID: "b", Credit: decimal.NewFromInt(1)}},
	}

	got := req.ToUseCaseInput(actor, "j-1")

	assert.Equal(t, "j-1", got.JournalID)
	assert.Equal(t, "fixed", got.Description)
	assert.Len(t, got.Lines, 2)
}

func TestCreateApprovalConfigRequest_ToUseCaseInput(t *testing.T) {
	approver := "u-cfo"
	req := &CreateApprovalConfigRequest{
		Name:         "Large expenses",
		ResourceType: "EXPENSE",
		Threshold:    decimal.NewFromInt(10_000_000),
		Steps: []ApprovalStepRequest{
			{Order: 1, Role: "FINANCE_ADMIN"},
			{Order: 2, Role: "SUPER_ADMIN", ApproverID: &approver},
		},
	}

	got := req.ToUseCaseInput(actor)

	assert.Equal(t, domain.ResourceTypeExpense, got.ResourceType)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, domain.RoleSuperAdmin, got.Steps[1].Role)
	assert.Equal(t, &approver, got.Steps[1].ApproverID)
}

func TestSubmitApprovalRequest_ToUseCaseInput(t *testing.T) {
	req := &SubmitApprovalRequest{ResourceType: "JOURNAL", ResourceID: "j-1", Amount: decimal.NewFromInt(5)}

	got := req.ToUseCaseInput(actor)

	assert.Equal(t, domain.ResourceTypeJournal, got.ResourceType)
	assert.Equal(t, "j-1", got.ResourceID)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(5)))
}
