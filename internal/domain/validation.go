package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MaxAccountCodeLength = 32
	MaxDescriptionLength = 1000
	MaxMoneyAmount       = "1000000000000000" // 1 quadrillion
)

var accountCodeRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-]*$`)

// ValidateAccountCode validates a chart-of-accounts code such as "1101" or "2-100".
func ValidateAccountCode(code string) error {
	code = strings.TrimSpace(code)

	if code == "" {
		return fmt.Errorf("%w: account code cannot be empty", ErrValidation)
	}

	if len(code) > MaxAccountCodeLength {
		return fmt.Errorf("%w: account code exceeds %d characters", ErrValidation, MaxAccountCodeLength)
	}

	if !accountCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: account code %q has invalid characters", ErrValidation, code)
	}

	return nil
}

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: account name cannot be empty", ErrValidation)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: account name exceeds %d characters", ErrValidation, MaxAccountNameLength)
	}

	return nil
}

// ValidateDescription validates free-text descriptions on journals and lines.
func ValidateDescription(desc string) error {
	if len(desc) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxDescriptionLength)
	}
	return nil
}

// ValidateMoney validates a non-negative monetary amount with at most two decimals.
func ValidateMoney(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	}

	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("%w: amount %s has more than two decimal places", ErrValidation, amount)
	}

	maxAmount, _ := decimal.NewFromString(MaxMoneyAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrValidation, MaxMoneyAmount)
	}

	return nil
}

// ValidateDateRange checks that start is not after end.
func ValidateDateRange(start, end time.Time) error {
	if start.After(end) {
		return ErrInvalidJournalRange
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
