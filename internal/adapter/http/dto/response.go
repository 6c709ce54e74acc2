package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	ParentID  *string    `json:"parent_id,omitempty"`
	IsCash    bool       `json:"is_cash"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Code:      a.Code,
		Name:      a.Name,
		Type:      string(a.Type),
		ParentID:  a.ParentID,
		IsCash:    a.IsCash,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		DeletedAt: a.DeletedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// JournalLineResponse represents a journal line in API responses.
type JournalLineResponse struct {
	LineNo      int             `json:"line_no"`
	AccountID   string          `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// JournalResponse represents a journal entry in API responses.
type JournalResponse struct {
	ID          string                `json:"id"`
	JournalNo   string                `json:"journal_no"`
	Date        Date                  `json:"date"`
	Description string                `json:"description"`
	Source      string                `json:"source"`
	Status      string                `json:"status"`
	Lines       []JournalLineResponse `json:"lines"`
	TotalDebit  decimal.Decimal       `json:"total_debit"`
	TotalCredit decimal.Decimal       `json:"total_credit"`
	CreatedBy   string                `json:"created_by"`
	PostedAt    *time.Time            `json:"posted_at,omitempty"`
	VoidedAt    *time.Time            `json:"voided_at,omitempty"`
	VoidedBy    *string               `json:"voided_by,omitempty"`
	VoidReason  string                `json:"void_reason,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// JournalFromDomain converts a domain journal entry to response.
func JournalFromDomain(e *domain.JournalEntry) *JournalResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineNo:      l.LineNo,
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}

	return &JournalResponse{
		ID:          e.ID,
		JournalNo:   e.JournalNo,
		Date:        Date{e.Date},
		Description: e.Description,
		Source:      string(e.Source),
		Status:      string(e.Status),
		Lines:       lines,
		TotalDebit:  e.TotalDebit,
		TotalCredit: e.TotalCredit,
		CreatedBy:   e.CreatedBy,
		PostedAt:    e.PostedAt,
		VoidedAt:    e.VoidedAt,
		VoidedBy:    e.VoidedBy,
		VoidReason:  e.VoidReason,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// JournalsFromDomain converts domain journal entries to responses.
func JournalsFromDomain(entries []*domain.JournalEntry) []*JournalResponse {
	result := make([]*JournalResponse, len(entries))
	for i, e := range entries {
		result[i] = JournalFromDomain(e)
	}
	return result
}

// ListJournalsResponse represents a page of journal entries.
type ListJournalsResponse struct {
	Journals []*JournalResponse `json:"journals"`
	Total    int64              `json:"total"`
}

// ListPayrollsResponse represents the payroll runs of a year.
type ListPayrollsResponse struct {
	Payrolls []*domain.Payroll `json:"payrolls"`
	Total    int64             `json:"total"`
}

// ListSlipsResponse represents the slips of one payroll run.
type ListSlipsResponse struct {
	Slips []*domain.PayrollSlip `json:"slips"`
	Total int64                 `json:"total"`
}

// ListApprovalConfigsResponse represents a list of approval configs.
type ListApprovalConfigsResponse struct {
	Configs []*domain.ApprovalConfig `json:"configs"`
	Total   int64                    `json:"total"`
}

// ListApprovalRequestsResponse represents a page of approval requests.
type ListApprovalRequestsResponse struct {
	Requests []*domain.ApprovalRequest `json:"requests"`
	Total    int64                     `json:"total"`
}

// ApprovalResponse wraps an approval request together with the outcome of
// finalizing its resource, when the decision was terminal.
type ApprovalResponse struct {
	Request       *domain.ApprovalRequest `json:"request,omitempty"`
	AutoApproved  bool                    `json:"auto_approved,omitempty"`
	Finalized     bool                    `json:"finalized"`
	FinalizeError string                  `json:"finalize_error,omitempty"`
}

// ListAuditLogsResponse represents a page of audit logs.
type ListAuditLogsResponse struct {
	Logs  []*domain.AuditLog `json:"logs"`
	Total int64              `json:"total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
