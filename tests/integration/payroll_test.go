package integration

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobooks/internal/adapter/repository/postgres"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
	"github.com/iho/gobooks/tests/testutil"
)

func defaultPayrollConfig() usecase.PayrollConfig {
	return usecase.PayrollConfig{
		Accounts: usecase.PayrollAccounts{
			SalaryExpense:     "6100",
			TaxPayable:        "2110",
			BPJSPayable:       "2120",
			NetSalaryPayable:  "2130",
			DeductionsPayable: "2140",
		},
		BPJSRates: domain.DefaultBPJSRates(),
	}
}

func TestPayrollProcessing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	db.TruncateAll(ctx)

	const company = "co-payroll"
	db.CreatePayrollAccounts(ctx, company)
	db.CreateTestEmployee(ctx, company, "E-001", decimal.NewFromInt(10000000), domain.PTKPTK0, true)
	db.CreateTestEmployee(ctx, company, "E-002", decimal.NewFromInt(6000000), domain.PTKPK1, false)

	stack := newLedgerStack(t, db, nil)
	idGen := postgres.NewULIDGenerator()
	payroll := usecase.NewPayrollUseCase(
		postgres.NewTxManager(db.Pool),
		postgres.NewEmployeeRepository(db.Pool),
		postgres.NewPayrollRepository(db.Pool),
		postgres.NewAccountRepository(db.Pool),
		stack.ledger,
		postgres.NewAuditRepository(db.Pool),
		idGen,
		defaultPayrollConfig(),
		zerolog.Nop(),
		nil,
	)
	actor := testutil.Actor(company, domain.RoleHRAdmin)

	preview, err := payroll.PreviewPayroll(ctx, actor, 3, 2026)
	require.NoError(t, err)
	require.Len(t, preview.Slips, 2)

	result, err := payroll.ProcessMonthlyPayroll(ctx, usecase.ProcessPayrollInput{Actor: actor, Month: 3, Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Totals.Employees)
	assert.True(t, result.Totals.Gross.Equal(decimal.NewFromInt(16000000)))
	assert.True(t, result.Totals.Gross.Equal(preview.Totals.Gross), "preview and run agree")
	assert.True(t, result.Totals.Net.Equal(
		result.Totals.Gross.Sub(result.Totals.Tax).Sub(result.Totals.BPJS).Sub(result.Totals.Deductions),
	))

	entry, err := stack.ledger.GetJournal(ctx, company, result.JournalID)
	require.NoError(t, err)
	assert.Equal(t, domain.JournalSourcePayroll, entry.Source)
	assert.Equal(t, domain.JournalStatusPosted, entry.Status)
	assert.True(t, entry.TotalDebit.Equal(entry.TotalCredit))
	assert.True(t, entry.TotalDebit.Equal(decimal.NewFromInt(16000000)))

	slips, err := payroll.ListSlips(ctx, company, result.BatchID)
	require.NoError(t, err)
	assert.Len(t, slips, 2)

	_, err = payroll.ProcessMonthlyPayroll(ctx, usecase.ProcessPayrollInput{Actor: actor, Month: 3, Year: 2026})
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)

	_, err = payroll.ProcessMonthlyPayroll(ctx, usecase.ProcessPayrollInput{
		Actor: testutil.Actor("co-empty", domain.RoleHRAdmin), Month: 3, Year: 2026,
	})
	assert.ErrorIs(t, err, domain.ErrNoActiveEmployees)
}

func TestPayrollMissingAccountsRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	db.TruncateAll(ctx)

	const company = "co-misconfigured"
	db.CreateTestEmployee(ctx, company, "E-001", decimal.NewFromInt(5000000), domain.PTKPTK0, false)

	stack := newLedgerStack(t, db, nil)
	payrollRepo := postgres.NewPayrollRepository(db.Pool)
	payroll := usecase.NewPayrollUseCase(
		postgres.NewTxManager(db.Pool),
		postgres.NewEmployeeRepository(db.Pool),
		payrollRepo,
		postgres.NewAccountRepository(db.Pool),
		stack.ledger,
		nil,
		postgres.NewULIDGenerator(),
		defaultPayrollConfig(),
		zerolog.Nop(),
		nil,
	)

	_, err := payroll.ProcessMonthlyPayroll(ctx, usecase.ProcessPayrollInput{
		Actor: testutil.Actor(company, domain.RoleHRAdmin), Month: 4, Year: 2026,
	})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	runs, err := payroll.ListPayrolls(ctx, company, 2026)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
