package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobooks/internal/domain"
)

var auditColumns = []string{"id", "company_id", "actor_id", "actor_role", "action", "resource_type", "resource_id", "before_state", "after_state", "status", "error_message", "created_at"}

func TestAuditRepository_CreateAssignsID(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAuditRepository(pool)

	pool.ExpectExec("name: CreateAuditLog").
		WithArgs(pgxmock.AnyArg(), "co-1", "u-1", "ACCOUNTANT", "journal.void", "journal", "je-1",
			[]byte(nil), []byte(`{"status":"VOID"}`), "success", "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	log := &domain.AuditLog{
		CompanyID:    "co-1",
		ActorID:      "u-1",
		ActorRole:    domain.RoleAccountant,
		Action:       domain.AuditActionJournalVoid,
		ResourceType: "journal",
		ResourceID:   "je-1",
		AfterState:   domain.JSON{"status": "VOID"},
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), log))

	_, err := uuid.Parse(log.ID)
	assert.NoError(t, err)
	assertExpectations(t, pool)
}

func TestAuditRepository_List(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAuditRepository(pool)
	now := time.Now().UTC()

	pool.ExpectQuery("name: ListAuditLogs").
		WithArgs("co-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), int32(50), int32(0)).
		WillReturnRows(pgxmock.NewRows(auditColumns).
			AddRow("a1", "co-1", "u-1", "HR_ADMIN", "payroll.process", "payroll", "pr-1",
				nil, []byte(`{"employee_count":3}`), "success", "", now))

	logs, err := repo.List(context.Background(), domain.AuditFilter{CompanyID: "co-1", ResourceType: "payroll", Limit: 50})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditActionPayrollProcess, logs[0].Action)
	assert.Nil(t, logs[0].BeforeState)
	assert.EqualValues(t, 3, logs[0].AfterState["employee_count"])
}
