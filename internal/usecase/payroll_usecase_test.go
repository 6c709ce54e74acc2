package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
	"github.com/iho/gobooks/internal/usecase/mocks"
)

var testPayrollAccounts = usecase.PayrollAccounts{
	SalaryExpense:     "6100",
	TaxPayable:        "2110",
	BPJSPayable:       "2120",
	NetSalaryPayable:  "2130",
	DeductionsPayable: "2140",
}

type payrollFixture struct {
	*ledgerFixture
	employees *mocks.MockEmployeeRepository
	payrolls  *mocks.MockPayrollRepository
	payroll   *usecase.PayrollUseCase
}

func newPayrollFixture(accounts usecase.PayrollAccounts, employees ...*domain.Employee) *payrollFixture {
	lf := newLedgerFixture(nil, nil)
	f := &payrollFixture{
		ledgerFixture: lf,
		employees:     &mocks.MockEmployeeRepository{Employees: employees},
		payrolls:      mocks.NewMockPayrollRepository(),
	}
	f.payroll = usecase.NewPayrollUseCase(
		lf.txManager,
		f.employees,
		f.payrolls,
		lf.accounts,
		lf.ledger,
		nil,
		lf.idGen,
		usecase.PayrollConfig{Accounts: accounts, BPJSRates: domain.DefaultBPJSRates()},
		zerolog.Nop(),
		nil,
	)
	return f
}

func referenceEmployee() *domain.Employee {
	return &domain.Employee{
		ID:          "emp-1",
		CompanyID:   testCompany,
		EmployeeNo:  "E-001",
		Name:        "Reference Employee",
		Active:      true,
		BasicSalary: money(15_000_000),
		Allowances: []domain.SalaryComponent{
			{Name: "transport", Amount: money(1_500_000)},
		},
		BPJSKesehatan:       true,
		BPJSKetenagakerjaan: true,
		PTKPStatus:          domain.PTKPTK0,
	}
}

func TestPayrollUseCase_ProcessMonthlyPayroll(t *testing.T) {
	f := newPayrollFixture(testPayrollAccounts, referenceEmployee())
	ctx := context.Background()

	result, err := f.payroll.ProcessMonthlyPayroll(ctx, usecase.ProcessPayrollInput{Actor: hrAdmin, Month: 1, Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Totals.Employees)
	assert.True(t, result.Totals.Gross.Equal(money(16_500_000)), "gross %s", result.Totals.Gross)
	assert.True(t, result.Totals.BPJS.Equal(money(450_000)), "bpjs %s", result.Totals.BPJS)
	assert.True(t, result.Totals.Tax.Equal(money(1_155_000)), "tax %s", result.Totals.Tax)
	assert.True(t, result.Totals.Net.Equal(money(14_895_000)), "net %s", result.Totals.Net)

	payroll, err := f.payroll.GetPayroll(ctx, testCompany, result.BatchID)
	require.NoError(t, err)
	assert.Equal(t, domain.PayrollStatusPaid, payroll.Status)
	require.NotNil(t, payroll.JournalID)
	assert.Equal(t, result.JournalID, *payroll.JournalID)

	slips, err := f.payroll.ListSlips(ctx, testCompany, result.BatchID)
	require.NoError(t, err)
	require.Len(t, slips, 1)
	assert.True(t, slips[0].Net.Equal(money(14_895_000)))

	entry, err := f.ledger.GetJournal(ctx, testCompany, result.JournalID)
	require.NoError(t, err)
	assert.Equal(t, domain.JournalSourcePayroll, entry.Source)
	assert.Equal(t, domain.JournalStatusPosted, entry.Status)
	assert.Equal(t, "JV-202501-0001", entry.JournalNo)
	assert.Equal(t, domain.PeriodEnd(1, 2025), entry.Date)
	assert.True(t, entry.TotalDebit.Equal(money(16_500_000)))
	assert.True(t, entry.TotalCredit.Equal(entry.TotalDebit))
	assert.Len(t, entry.Lines, 4, "zero deductions produce no line")

	assert.True(t, f.txManager.Last().Committed)
}

func TestPayrollUseCase_SecondRunForSamePeriodFails(t *testing.T) {
	f := newPayrollFixture(testPayrollAccounts, referenceEmployee())
	ctx := context.Background()
	input := usecase.ProcessPayrollInput{Actor: hrAdmin, Month: 1, Year: 2025}

	_, err := f.payroll.ProcessMonthlyPayroll(ctx, input)
	require.NoError(t, err)

	_, err = f.payroll.ProcessMonthlyPayroll(ctx, input)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)

	payrolls, err := f.payroll.ListPayrolls(ctx, testCompany, 2025)
	require.NoError(t, err)
	assert.Len(t, payrolls, 1)
	slips, err := f.payroll.ListSlips(ctx, testCompany, payrolls[0].ID)
	require.NoError(t, err)
	assert.Len(t, slips, 1)
	assert.Len(t, f.journals.Entries(), 1)
}

func TestPayrollUseCase_ConcurrentRunMapsUniqueViolation(t *testing.T) {
	f := newPayrollFixture(testPayrollAccounts, referenceEmployee())
	f.payrolls.CreateFunc = func(ctx context.Context, tx usecase.Transaction, payroll *domain.Payroll) error {
		return domain.ErrAlreadyProcessed
	}

	_, err := f.payroll.ProcessMonthlyPayroll(context.Background(), usecase.ProcessPayrollInput{Actor: hrAdmin, Month: 1, Year: 2025})
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.True(t, f.txManager.Last().RolledBack)
}

func TestPayrollUseCase_Failures(t *testing.T) {
	missingTax := testPayrollAccounts
	missingTax.TaxPayable = "9999"

	badStatus := referenceEmployee()
	badStatus.PTKPStatus = "X/9"

	withDeductions := referenceEmployee()
	withDeductions.Deductions = []domain.SalaryComponent{{Name: "loan", Amount: money(100_000)}}
	noDeductionAccount := testPayrollAccounts
	noDeductionAccount.DeductionsPayable = ""

	tests := []struct {
		name        string
		accounts    usecase.PayrollAccounts
		employees   []*domain.Employee
		month, year int
		expectedErr error
	}{
		{
			name:        "invalid month",
			accounts:    testPayrollAccounts,
			employees:   []*domain.Employee{referenceEmployee()},
			month:       13,
			year:        2025,
			expectedErr: domain.ErrInvalidPeriod,
		},
		{
			name:        "no active employees",
			accounts:    testPayrollAccounts,
			month:       1,
			year:        2025,
			expectedErr: domain.ErrNoActiveEmployees,
		},
		{
			name:        "account code missing from chart",
			accounts:    missingTax,
			employees:   []*domain.Employee{referenceEmployee()},
			month:       1,
			year:        2025,
			expectedErr: domain.ErrConfiguration,
		},
		{
			name:        "deductions without a configured account",
			accounts:    noDeductionAccount,
			employees:   []*domain.Employee{withDeductions},
			month:       1,
			year:        2025,
			expectedErr: domain.ErrConfiguration,
		},
		{
			name:        "invalid PTKP status",
			accounts:    testPayrollAccounts,
			employees:   []*domain.Employee{badStatus},
			month:       1,
			year:        2025,
			expectedErr: domain.ErrInvalidPTKPStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPayrollFixture(tt.accounts, tt.employees...)

			result, err := f.payroll.ProcessMonthlyPayroll(context.Background(), usecase.ProcessPayrollInput{
				Actor: hrAdmin,
				Month: tt.month,
				Year:  tt.year,
			})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, result)
			assert.Empty(t, f.journals.Entries())

			payrolls, _ := f.payrolls.List(context.Background(), testCompany, 0)
			assert.Empty(t, payrolls)
		})
	}
}

func TestPayrollUseCase_DeductionsRouteToOtherPayable(t *testing.T) {
	emp := referenceEmployee()
	emp.Deductions = []domain.SalaryComponent{{Name: "loan", Amount: money(250_000)}}
	f := newPayrollFixture(testPayrollAccounts, emp)
	ctx := context.Background()

	result, err := f.payroll.ProcessMonthlyPayroll(ctx, usecase.ProcessPayrollInput{Actor: hrAdmin, Month: 2, Year: 2025})
	require.NoError(t, err)

	entry, err := f.ledger.GetJournal(ctx, testCompany, result.JournalID)
	require.NoError(t, err)
	require.Len(t, entry.Lines, 5)

	var otherPayable bool
	for _, l := range entry.Lines {
		if l.AccountID == "acc-other" {
			otherPayable = true
			assert.True(t, l.Credit.Equal(money(250_000)))
		}
	}
	assert.True(t, otherPayable)
	assert.True(t, entry.TotalDebit.Equal(entry.TotalCredit))
}

func TestPayrollUseCase_JournalFailureRollsBack(t *testing.T) {
	f := newPayrollFixture(testPayrollAccounts, referenceEmployee())
	f.journals.CreateFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
		return errors.New("insert failed")
	}

	_, err := f.payroll.ProcessMonthlyPayroll(context.Background(), usecase.ProcessPayrollInput{Actor: hrAdmin, Month: 1, Year: 2025})
	require.Error(t, err)

	tx := f.txManager.Last()
	assert.False(t, tx.Committed)
	assert.True(t, tx.RolledBack)
}

func TestPayrollUseCase_PreviewPayroll(t *testing.T) {
	f := newPayrollFixture(testPayrollAccounts, referenceEmployee())

	preview, err := f.payroll.PreviewPayroll(context.Background(), hrAdmin, 3, 2025)
	require.NoError(t, err)
	require.Len(t, preview.Slips, 1)
	assert.True(t, preview.Totals.Tax.Equal(money(1_155_000)))
	assert.Empty(t, f.journals.Entries())

	payrolls, err := f.payroll.ListPayrolls(context.Background(), testCompany, 0)
	require.NoError(t, err)
	assert.Empty(t, payrolls)
}

func TestPayrollUseCase_DecemberSettlesAnnualTax(t *testing.T) {
	f := newPayrollFixture(testPayrollAccounts, referenceEmployee())

	preview, err := f.payroll.PreviewPayroll(context.Background(), hrAdmin, 12, 2025)
	require.NoError(t, err)
	require.Len(t, preview.Slips, 1)
	assert.True(t, preview.Totals.Tax.Equal(money(2_895_000)), "tax %s", preview.Totals.Tax)
	assert.True(t, preview.Totals.Net.Equal(money(13_155_000)), "net %s", preview.Totals.Net)
}
