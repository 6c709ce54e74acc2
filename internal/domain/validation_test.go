package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateMoney(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{"zero", "0", false},
		{"whole", "1500000", false},
		{"two decimals", "10.25", false},
		{"negative", "-1", true},
		{"three decimals", "1.005", true},
		{"too large", "1000000000000000.01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMoney(decimal.RequireFromString(tt.amount))
			if tt.wantErr && !IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateAccountName(t *testing.T) {
	if err := ValidateAccountName("Salary Expense"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateAccountName("   "); err == nil {
		t.Error("expected error for blank name")
	}
	if err := ValidateAccountName(strings.Repeat("a", MaxAccountNameLength+1)); err == nil {
		t.Error("expected error for long name")
	}
}

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription(strings.Repeat("x", MaxDescriptionLength)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateDescription(strings.Repeat("x", MaxDescriptionLength+1)); err == nil {
		t.Error("expected error for long description")
	}
}

func TestValidateDateRange(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	if err := ValidateDateRange(jan, feb); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateDateRange(jan, jan); err != nil {
		t.Errorf("same day should be allowed: %v", err)
	}
	if err := ValidateDateRange(feb, jan); !errors.Is(err, ErrInvalidJournalRange) {
		t.Errorf("expected range error, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, 50, 0},
		{20, 10, 20, 10},
		{5000, -3, 1000, 0},
	}
	for _, tt := range tests {
		l, o := ValidatePagination(tt.limit, tt.offset)
		if l != tt.wantLimit || o != tt.wantOffset {
			t.Errorf("ValidatePagination(%d, %d) = %d, %d", tt.limit, tt.offset, l, o)
		}
	}
}

func TestActor_Validate(t *testing.T) {
	if err := (Actor{UserID: "u", CompanyID: "c", Role: RoleAccountant}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (Actor{UserID: "u", Role: RoleAccountant}).Validate(); !errors.Is(err, ErrInvalidActor) {
		t.Errorf("expected ErrInvalidActor, got %v", err)
	}
}
