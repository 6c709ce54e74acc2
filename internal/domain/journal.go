package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus is the lifecycle state of a journal entry.
type JournalStatus string

const (
	JournalStatusDraft  JournalStatus = "DRAFT"
	JournalStatusPosted JournalStatus = "POSTED"
	JournalStatusVoid   JournalStatus = "VOID"
)

// JournalSource tags where a journal entry came from. The cash-flow
// statement buckets cash postings by this tag.
type JournalSource string

const (
	JournalSourceManual    JournalSource = "MANUAL"
	JournalSourcePayroll   JournalSource = "PAYROLL"
	JournalSourceRevenue   JournalSource = "REVENUE"
	JournalSourceExpense   JournalSource = "EXPENSE"
	JournalSourceTax       JournalSource = "TAX"
	JournalSourceInvesting JournalSource = "INVESTING"
	JournalSourceFinancing JournalSource = "FINANCING"
)

// Valid reports whether s is a known source tag.
func (s JournalSource) Valid() bool {
	switch s {
	case JournalSourceManual, JournalSourcePayroll, JournalSourceRevenue, JournalSourceExpense,
		JournalSourceTax, JournalSourceInvesting, JournalSourceFinancing:
		return true
	}
	return false
}

// JournalLine is one debit or credit posting against an account.
type JournalLine struct {
	ID          string          `json:"id"`
	JournalID   string          `json:"journal_id"`
	LineNo      int             `json:"line_no"`
	AccountID   string          `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// JournalEntry is a balanced set of lines with a company-scoped number.
type JournalEntry struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	JournalNo   string          `json:"journal_no"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Source      JournalSource   `json:"source"`
	Status      JournalStatus   `json:"status"`
	Lines       []JournalLine   `json:"lines"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	CreatedBy   string          `json:"created_by"`
	PostedAt    *time.Time      `json:"posted_at,omitempty"`
	VoidedAt    *time.Time      `json:"voided_at,omitempty"`
	VoidedBy    *string         `json:"voided_by,omitempty"`
	VoidReason  string          `json:"void_reason,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ValidateLines checks line shape and the balance invariant. It returns the
// debit and credit totals when the lines are acceptable.
func ValidateLines(lines []JournalLine) (decimal.Decimal, decimal.Decimal, error) {
	if len(lines) < 2 {
		return decimal.Zero, decimal.Zero, ErrTooFewLines
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for i, line := range lines {
		if line.AccountID == "" {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: line %d has no account", ErrInvalidLine, i+1)
		}
		if err := ValidateMoney(line.Debit); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("line %d debit: %w", i+1, err)
		}
		if err := ValidateMoney(line.Credit); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("line %d credit: %w", i+1, err)
		}
		if line.Debit.IsPositive() == line.Credit.IsPositive() {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: line %d must have exactly one of debit or credit", ErrInvalidLine, i+1)
		}
		if err := ValidateDescription(line.Description); err != nil {
			return decimal.Zero, decimal.Zero, err
		}

		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return totalDebit, totalCredit, fmt.Errorf("%w: debit %s, credit %s", ErrUnbalanced, totalDebit.StringFixed(2), totalCredit.StringFixed(2))
	}

	return totalDebit, totalCredit, nil
}

// AccountIDs returns the distinct account IDs referenced by lines in first-seen order.
func AccountIDs(lines []JournalLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		ids = append(ids, line.AccountID)
	}
	return ids
}

// ReversedLines swaps debit and credit on every line.
func ReversedLines(lines []JournalLine) []JournalLine {
	out := make([]JournalLine, len(lines))
	for i, line := range lines {
		out[i] = JournalLine{
			AccountID:   line.AccountID,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Description: line.Description,
		}
	}
	return out
}

// JournalPrefix returns the numbering prefix for entries dated on date, e.g. "JV-202501-".
func JournalPrefix(date time.Time) string {
	return fmt.Sprintf("JV-%04d%02d-", date.Year(), int(date.Month()))
}

// FormatJournalNo renders a journal number from its date and sequence.
func FormatJournalNo(date time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", JournalPrefix(date), seq)
}

// ParseJournalSeq extracts the sequence from a journal number.
func ParseJournalSeq(journalNo string) (int, error) {
	idx := strings.LastIndex(journalNo, "-")
	if !strings.HasPrefix(journalNo, "JV-") || idx < 0 || idx == len(journalNo)-1 {
		return 0, fmt.Errorf("%w: malformed journal number %q", ErrValidation, journalNo)
	}
	return strconv.Atoi(journalNo[idx+1:])
}

// CanTransitionTo enforces DRAFT -> POSTED|VOID and POSTED -> VOID.
func (e *JournalEntry) CanTransitionTo(next JournalStatus) error {
	switch e.Status {
	case JournalStatusDraft:
		if next == JournalStatusPosted || next == JournalStatusVoid {
			return nil
		}
	case JournalStatusPosted:
		if next == JournalStatusVoid {
			return nil
		}
		return ErrImmutableEntry
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, next)
}

// CanEdit reports whether header or lines may still change.
func (e *JournalEntry) CanEdit() error {
	if e.Status != JournalStatusDraft {
		return ErrImmutableEntry
	}
	return nil
}

// JournalFilter narrows journal listings.
type JournalFilter struct {
	CompanyID string
	Status    JournalStatus
	Source    JournalSource
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}
