package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// Date is a calendar date carried as YYYY-MM-DD on the wire.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// UnmarshalJSON parses a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date must be a string")
	}
	t, err := time.Parse(dateLayout, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	d.Time = t
	return nil
}

// MarshalJSON renders the date as YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	ParentID *string `json:"parent_id,omitempty"`
	IsCash   bool    `json:"is_cash"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(actor domain.Actor) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Actor:    actor,
		Code:     r.Code,
		Name:     r.Name,
		Type:     domain.AccountType(r.Type),
		ParentID: r.ParentID,
		IsCash:   r.IsCash,
	}
}

// JournalLineRequest is one debit or credit line. Exactly one side is non-zero.
type JournalLineRequest struct {
	AccountID   string          `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

func toDomainLines(lines []JournalLineRequest) []domain.JournalLine {
	out := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		out[i] = domain.JournalLine{
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	return out
}

// RecordJournalRequest represents a request to post or draft a journal entry.
type RecordJournalRequest struct {
	Date        Date                 `json:"date"`
	Description string               `json:"description"`
	Source      string               `json:"source,omitempty"`
	Lines       []JournalLineRequest `json:"lines"`
}

// ToUseCaseInput converts to use case input. Source defaults to MANUAL.
func (r *RecordJournalRequest) ToUseCaseInput(actor domain.Actor) usecase.RecordTransactionInput {
	source := domain.JournalSource(r.Source)
	if source == "" {
		source = domain.JournalSourceManual
	}
	return usecase.RecordTransactionInput{
		Actor:       actor,
		CompanyID:   actor.CompanyID,
		Date:        r.Date.Time,
		Description: r.Description,
		Source:      source,
		Lines:       toDomainLines(r.Lines),
	}
}

// UpdateDraftRequest replaces a draft's editable fields.
type UpdateDraftRequest struct {
	Date        Date                 `json:"date"`
	Description string               `json:"description"`
	Lines       []JournalLineRequest `json:"lines"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateDraftRequest) ToUseCaseInput(actor domain.Actor, journalID string) usecase.UpdateDraftInput {
	return usecase.UpdateDraftInput{
		Actor:       actor,
		JournalID:   journalID,
		Date:        r.Date.Time,
		Description: r.Description,
		Lines:       toDomainLines(r.Lines),
	}
}

// VoidJournalRequest carries the mandatory void reason.
type VoidJournalRequest struct {
	Reason string `json:"reason"`
}

// ReverseJournalRequest dates the reversing entry. A zero date means today.
type ReverseJournalRequest struct {
	Date Date `json:"date"`
}

// PayrollPeriodRequest names the month to process or preview.
type PayrollPeriodRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// ToUseCaseInput converts to use case input.
func (r *PayrollPeriodRequest) ToUseCaseInput(actor domain.Actor) usecase.ProcessPayrollInput {
	return usecase.ProcessPayrollInput{Actor: actor, Month: r.Month, Year: r.Year}
}

// ApprovalStepRequest is one step of an approval config.
type ApprovalStepRequest struct {
	Order      int     `json:"order"`
	Role       string  `json:"role"`
	ApproverID *string `json:"approver_id,omitempty"`
}

// CreateApprovalConfigRequest represents a request to create an approval config.
type CreateApprovalConfigRequest struct {
	Name         string                `json:"name"`
	ResourceType string                `json:"resource_type"`
	Threshold    decimal.Decimal       `json:"threshold"`
	Steps        []ApprovalStepRequest `json:"steps"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateApprovalConfigRequest) ToUseCaseInput(actor domain.Actor) usecase.CreateConfigInput {
	steps := make([]domain.ApprovalStep, len(r.Steps))
	for i, s := range r.Steps {
		steps[i] = domain.ApprovalStep{Order: s.Order, Role: domain.Role(s.Role), ApproverID: s.ApproverID}
	}
	return usecase.CreateConfigInput{
		Actor:        actor,
		Name:         r.Name,
		ResourceType: domain.ResourceType(r.ResourceType),
		Threshold:    r.Threshold,
		Steps:        steps,
	}
}

// SubmitApprovalRequest represents a request to route a resource for approval.
type SubmitApprovalRequest struct {
	ResourceType string          `json:"resource_type"`
	ResourceID   string          `json:"resource_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *SubmitApprovalRequest) ToUseCaseInput(actor domain.Actor) usecase.SubmitInput {
	return usecase.SubmitInput{
		Actor:        actor,
		ResourceType: domain.ResourceType(r.ResourceType),
		ResourceID:   r.ResourceID,
		Amount:       r.Amount,
	}
}

// ApprovalDecisionRequest carries an approve comment or a reject reason.
type ApprovalDecisionRequest struct {
	Comment string `json:"comment,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
