package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors wrap one of these so callers can classify
// them with errors.Is without knowing every sentinel.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrConfiguration = errors.New("configuration error")
)

var (
	// Chart of accounts
	ErrAccountNotFound      = fmt.Errorf("account %w", ErrNotFound)
	ErrAccountInactive      = fmt.Errorf("%w: account is inactive", ErrValidation)
	ErrDuplicateAccountCode = fmt.Errorf("%w: account code already exists", ErrConflict)
	ErrInvalidAccountType   = fmt.Errorf("%w: invalid account type", ErrValidation)

	// Journal
	ErrJournalNotFound     = fmt.Errorf("journal entry %w", ErrNotFound)
	ErrUnbalanced          = fmt.Errorf("%w: journal entry is not balanced", ErrValidation)
	ErrTooFewLines         = fmt.Errorf("%w: journal entry needs at least two lines", ErrValidation)
	ErrInvalidLine         = fmt.Errorf("%w: invalid journal line", ErrValidation)
	ErrInvalidSource       = fmt.Errorf("%w: invalid journal source", ErrValidation)
	ErrImmutableEntry      = fmt.Errorf("%w: journal entry is immutable", ErrConflict)
	ErrInvalidTransition   = fmt.Errorf("%w: invalid status transition", ErrConflict)
	ErrDuplicateJournalNo  = fmt.Errorf("%w: journal number already taken", ErrConflict)
	ErrInconsistentLedger  = errors.New("ledger is inconsistent: debits do not equal credits")
	ErrInvalidJournalRange = fmt.Errorf("%w: start date is after end date", ErrValidation)
	ErrAlreadyReversed     = fmt.Errorf("%w: journal entry was already reversed", ErrInvalidTransition)

	// Tax
	ErrInvalidPTKPStatus = fmt.Errorf("%w: invalid PTKP status", ErrValidation)

	// Payroll
	ErrAlreadyProcessed  = fmt.Errorf("%w: payroll already processed for this period", ErrConflict)
	ErrNoActiveEmployees = fmt.Errorf("%w: no active employees", ErrValidation)
	ErrInvalidPeriod     = fmt.Errorf("%w: invalid payroll period", ErrValidation)
	ErrPayrollNotFound   = fmt.Errorf("payroll %w", ErrNotFound)
	ErrEmployeeNotFound  = fmt.Errorf("employee %w", ErrNotFound)

	// Approval
	ErrApprovalNotFound       = fmt.Errorf("approval request %w", ErrNotFound)
	ErrApprovalConfigNotFound = fmt.Errorf("approval config %w", ErrNotFound)
	ErrInvalidApprovalConfig  = fmt.Errorf("%w: invalid approval config", ErrValidation)
	ErrInvalidResourceType    = fmt.Errorf("%w: invalid resource type", ErrValidation)
	ErrRequestFinalized       = fmt.Errorf("%w: approval request is already finalized", ErrConflict)
	ErrWrongRole              = fmt.Errorf("%w: role not allowed for current step", ErrForbidden)
	ErrWrongApprover          = fmt.Errorf("%w: not the designated approver", ErrForbidden)
	ErrNotRequester           = fmt.Errorf("%w: only the requester can cancel", ErrForbidden)
	ErrNoResourceUpdater      = errors.New("no resource updater registered")

	// Actor
	ErrInvalidActor    = fmt.Errorf("%w: actor must carry user, company and role", ErrValidation)
	ErrCompanyMismatch = fmt.Errorf("%w: resource belongs to another company", ErrForbidden)

	// Auth
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
