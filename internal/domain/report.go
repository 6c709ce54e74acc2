package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the aggregate of POSTED lines for one account.
// Balance is signed by the account type's normal side.
type AccountBalance struct {
	AccountID string          `json:"account_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Balance   decimal.Decimal `json:"balance"`
}

// TrialBalanceRow places one account's balance in a debit or credit column.
type TrialBalanceRow struct {
	AccountID string          `json:"account_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// TrialBalance lists every account with columns and totals. Variance is
// TotalDebit minus TotalCredit and is non-zero only when the ledger holds
// an unbalanced entry.
type TrialBalance struct {
	CompanyID   string            `json:"company_id"`
	AsOf        time.Time         `json:"as_of"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	Variance    decimal.Decimal   `json:"variance"`
	Balanced    bool              `json:"balanced"`
}

// BuildTrialBalance puts each balance in its normal-side column. A negative
// balance is shown as a positive amount in the opposite column.
func BuildTrialBalance(companyID string, asOf time.Time, balances []AccountBalance) *TrialBalance {
	tb := &TrialBalance{
		CompanyID:   companyID,
		AsOf:        asOf,
		Rows:        make([]TrialBalanceRow, 0, len(balances)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, b := range balances {
		row := TrialBalanceRow{
			AccountID: b.AccountID,
			Code:      b.Code,
			Name:      b.Name,
			Type:      b.Type,
			Debit:     decimal.Zero,
			Credit:    decimal.Zero,
		}

		debitSide := b.Type.NormalSide() == SideDebit
		if b.Balance.IsNegative() {
			debitSide = !debitSide
		}
		if debitSide {
			row.Debit = b.Balance.Abs()
		} else {
			row.Credit = b.Balance.Abs()
		}

		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		tb.Rows = append(tb.Rows, row)
	}

	tb.Variance = tb.TotalDebit.Sub(tb.TotalCredit)
	tb.Balanced = tb.Variance.IsZero()

	return tb
}

// StatementSection groups balances of one account type.
type StatementSection struct {
	Type     AccountType      `json:"type"`
	Accounts []AccountBalance `json:"accounts"`
	Total    decimal.Decimal  `json:"total"`
}

func buildSection(t AccountType, balances []AccountBalance) StatementSection {
	s := StatementSection{Type: t, Accounts: []AccountBalance{}, Total: decimal.Zero}
	for _, b := range balances {
		if b.Type != t {
			continue
		}
		s.Accounts = append(s.Accounts, b)
		s.Total = s.Total.Add(b.Balance)
	}
	return s
}

// ProfitAndLoss reports revenue and expense. Without period closing the
// figures are cumulative up to End, so Start only labels the report.
type ProfitAndLoss struct {
	CompanyID string           `json:"company_id"`
	Start     time.Time        `json:"start"`
	End       time.Time        `json:"end"`
	Revenue   StatementSection `json:"revenue"`
	Expense   StatementSection `json:"expense"`
	NetIncome decimal.Decimal  `json:"net_income"`
}

// BuildProfitAndLoss derives a P&L from cumulative balances at end.
func BuildProfitAndLoss(companyID string, start, end time.Time, balances []AccountBalance) *ProfitAndLoss {
	revenue := buildSection(AccountTypeRevenue, balances)
	expense := buildSection(AccountTypeExpense, balances)

	return &ProfitAndLoss{
		CompanyID: companyID,
		Start:     start,
		End:       end,
		Revenue:   revenue,
		Expense:   expense,
		NetIncome: revenue.Total.Sub(expense.Total),
	}
}

// BalanceSheet reports assets against liabilities and equity. CurrentEarnings
// is unclosed revenue minus expense, counted inside TotalEquity.
type BalanceSheet struct {
	CompanyID       string           `json:"company_id"`
	AsOf            time.Time        `json:"as_of"`
	Assets          StatementSection `json:"assets"`
	Liabilities     StatementSection `json:"liabilities"`
	Equity          StatementSection `json:"equity"`
	CurrentEarnings decimal.Decimal  `json:"current_earnings"`
	TotalEquity     decimal.Decimal  `json:"total_equity"`
	TotalLiabEquity decimal.Decimal  `json:"total_liabilities_and_equity"`
	Balanced        bool             `json:"balanced"`
}

// BuildBalanceSheet derives a balance sheet from balances of all types.
func BuildBalanceSheet(companyID string, asOf time.Time, balances []AccountBalance) *BalanceSheet {
	assets := buildSection(AccountTypeAsset, balances)
	liabilities := buildSection(AccountTypeLiability, balances)
	equity := buildSection(AccountTypeEquity, balances)
	earnings := buildSection(AccountTypeRevenue, balances).Total.Sub(buildSection(AccountTypeExpense, balances).Total)

	totalEquity := equity.Total.Add(earnings)
	totalLE := liabilities.Total.Add(totalEquity)

	return &BalanceSheet{
		CompanyID:       companyID,
		AsOf:            asOf,
		Assets:          assets,
		Liabilities:     liabilities,
		Equity:          equity,
		CurrentEarnings: earnings,
		TotalEquity:     totalEquity,
		TotalLiabEquity: totalLE,
		Balanced:        assets.Total.Equal(totalLE),
	}
}

// CashActivity is a cash-flow bucket.
type CashActivity string

const (
	CashActivityOperating CashActivity = "OPERATING"
	CashActivityInvesting CashActivity = "INVESTING"
	CashActivityFinancing CashActivity = "FINANCING"
)

// ActivityFor maps a journal source to its cash-flow bucket.
func ActivityFor(source JournalSource) CashActivity {
	switch source {
	case JournalSourceInvesting:
		return CashActivityInvesting
	case JournalSourceFinancing:
		return CashActivityFinancing
	default:
		return CashActivityOperating
	}
}

// CashMovement is the net change (debit minus credit) on cash accounts
// from journals with one source tag.
type CashMovement struct {
	Source JournalSource   `json:"source"`
	Amount decimal.Decimal `json:"amount"`
}

// CashFlowStatement reports the change in cash between Start and End.
type CashFlowStatement struct {
	CompanyID      string          `json:"company_id"`
	Start          time.Time       `json:"start"`
	End            time.Time       `json:"end"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Operating      decimal.Decimal `json:"operating"`
	Investing      decimal.Decimal `json:"investing"`
	Financing      decimal.Decimal `json:"financing"`
	NetChange      decimal.Decimal `json:"net_change"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Movements      []CashMovement  `json:"movements"`
}

// BuildCashFlow buckets movements and rolls opening into closing.
func BuildCashFlow(companyID string, start, end time.Time, opening decimal.Decimal, movements []CashMovement) *CashFlowStatement {
	cf := &CashFlowStatement{
		CompanyID:      companyID,
		Start:          start,
		End:            end,
		OpeningBalance: opening,
		Operating:      decimal.Zero,
		Investing:      decimal.Zero,
		Financing:      decimal.Zero,
		Movements:      movements,
	}
	if cf.Movements == nil {
		cf.Movements = []CashMovement{}
	}

	for _, m := range movements {
		switch ActivityFor(m.Source) {
		case CashActivityInvesting:
			cf.Investing = cf.Investing.Add(m.Amount)
		case CashActivityFinancing:
			cf.Financing = cf.Financing.Add(m.Amount)
		default:
			cf.Operating = cf.Operating.Add(m.Amount)
		}
	}

	cf.NetChange = cf.Operating.Add(cf.Investing).Add(cf.Financing)
	cf.ClosingBalance = opening.Add(cf.NetChange)

	return cf
}
