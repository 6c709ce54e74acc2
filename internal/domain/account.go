package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// AllAccountTypes lists every account type in statement order.
var AllAccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// Side is the debit or credit side of a posting.
type Side string

const (
	SideDebit  Side = "DEBIT"
	SideCredit Side = "CREDIT"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// NormalSide returns the side on which the account type increases.
func (t AccountType) NormalSide() Side {
	if t == AccountTypeAsset || t == AccountTypeExpense {
		return SideDebit
	}
	return SideCredit
}

// SignedBalance turns raw debit and credit totals into a balance that is
// positive when the account sits on its normal side.
func (t AccountType) SignedBalance(debit, credit decimal.Decimal) decimal.Decimal {
	if t.NormalSide() == SideDebit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// Account is a chart-of-accounts entry owned by one company.
type Account struct {
	ID        string      `json:"id"`
	CompanyID string      `json:"company_id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	ParentID  *string     `json:"parent_id,omitempty"`
	IsCash    bool        `json:"is_cash"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	DeletedAt *time.Time  `json:"deleted_at,omitempty"`
}

// Validate checks the static fields of an account.
func (a *Account) Validate() error {
	if err := ValidateAccountCode(a.Code); err != nil {
		return err
	}
	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}
	if !a.Type.Valid() {
		return ErrInvalidAccountType
	}
	return nil
}

// IsDeleted reports whether the account was soft-deleted.
func (a *Account) IsDeleted() bool {
	return a.DeletedAt != nil
}

// CanPost reports whether journal lines may reference this account.
func (a *Account) CanPost() error {
	if a.IsDeleted() {
		return ErrAccountNotFound
	}
	if !a.Active {
		return ErrAccountInactive
	}
	return nil
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	Type           AccountType
	IncludeDeleted bool
	Limit          int
	Offset         int
}
