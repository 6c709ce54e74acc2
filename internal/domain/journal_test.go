package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func line(account string, debit, credit int64) JournalLine {
	return JournalLine{AccountID: account, Debit: decimal.NewFromInt(debit), Credit: decimal.NewFromInt(credit)}
}

func TestValidateLines(t *testing.T) {
	tests := []struct {
		name    string
		lines   []JournalLine
		wantErr error
	}{
		{
			name:  "balanced two lines",
			lines: []JournalLine{line("bank", 1_000_000, 0), line("revenue", 0, 1_000_000)},
		},
		{
			name:  "balanced split credit",
			lines: []JournalLine{line("expense", 500, 0), line("tax", 0, 100), line("cash", 0, 400)},
		},
		{
			name:    "unbalanced",
			lines:   []JournalLine{line("bank", 1_000_000, 0), line("revenue", 0, 900_000)},
			wantErr: ErrUnbalanced,
		},
		{
			name:    "single line",
			lines:   []JournalLine{line("bank", 100, 0)},
			wantErr: ErrTooFewLines,
		},
		{
			name:    "both sides on one line",
			lines:   []JournalLine{line("bank", 100, 100), line("revenue", 0, 0)},
			wantErr: ErrInvalidLine,
		},
		{
			name:    "zero line",
			lines:   []JournalLine{line("bank", 100, 0), line("revenue", 0, 100), line("other", 0, 0)},
			wantErr: ErrInvalidLine,
		},
		{
			name:    "negative amount",
			lines:   []JournalLine{line("bank", -100, 0), line("revenue", 0, -100)},
			wantErr: ErrValidation,
		},
		{
			name:    "missing account",
			lines:   []JournalLine{line("", 100, 0), line("revenue", 0, 100)},
			wantErr: ErrInvalidLine,
		},
		{
			name: "sub-cent precision",
			lines: []JournalLine{
				{AccountID: "bank", Debit: decimal.RequireFromString("0.001"), Credit: decimal.Zero},
				{AccountID: "revenue", Debit: decimal.Zero, Credit: decimal.RequireFromString("0.001")},
			},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debit, credit, err := ValidateLines(tt.lines)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !debit.Equal(credit) {
				t.Errorf("totals differ: %s vs %s", debit, credit)
			}
		})
	}
}

func TestValidateLines_UnbalancedIsValidation(t *testing.T) {
	_, _, err := ValidateLines([]JournalLine{line("a", 10, 0), line("b", 0, 9)})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateLines_ExactDecimal(t *testing.T) {
	// 0.1 + 0.2 == 0.3 must hold exactly.
	lines := []JournalLine{
		{AccountID: "a", Debit: decimal.RequireFromString("0.10"), Credit: decimal.Zero},
		{AccountID: "b", Debit: decimal.RequireFromString("0.20"), Credit: decimal.Zero},
		{AccountID: "c", Debit: decimal.Zero, Credit: decimal.RequireFromString("0.30")},
	}
	if _, _, err := ValidateLines(lines); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJournalNumbering(t *testing.T) {
	date := time.Date(2025, time.January, 17, 0, 0, 0, 0, time.UTC)

	if got := JournalPrefix(date); got != "JV-202501-" {
		t.Errorf("prefix = %q", got)
	}
	if got := FormatJournalNo(date, 1); got != "JV-202501-0001" {
		t.Errorf("journal no = %q", got)
	}
	if got := FormatJournalNo(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), 123); got != "JV-202412-0123" {
		t.Errorf("journal no = %q", got)
	}

	seq, err := ParseJournalSeq("JV-202501-0042")
	if err != nil || seq != 42 {
		t.Errorf("ParseJournalSeq = %d, %v", seq, err)
	}
	if _, err := ParseJournalSeq("INV-1"); err == nil {
		t.Error("expected error for malformed number")
	}
}

func TestJournalEntry_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    JournalStatus
		to      JournalStatus
		wantErr error
	}{
		{JournalStatusDraft, JournalStatusPosted, nil},
		{JournalStatusDraft, JournalStatusVoid, nil},
		{JournalStatusPosted, JournalStatusVoid, nil},
		{JournalStatusPosted, JournalStatusDraft, ErrImmutableEntry},
		{JournalStatusPosted, JournalStatusPosted, ErrImmutableEntry},
		{JournalStatusVoid, JournalStatusPosted, ErrInvalidTransition},
		{JournalStatusVoid, JournalStatusVoid, ErrInvalidTransition},
		{JournalStatusDraft, JournalStatusDraft, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			e := &JournalEntry{Status: tt.from}
			err := e.CanTransitionTo(tt.to)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestJournalEntry_CanEdit(t *testing.T) {
	if err := (&JournalEntry{Status: JournalStatusDraft}).CanEdit(); err != nil {
		t.Errorf("draft should be editable: %v", err)
	}
	for _, s := range []JournalStatus{JournalStatusPosted, JournalStatusVoid} {
		if err := (&JournalEntry{Status: s}).CanEdit(); !errors.Is(err, ErrImmutableEntry) {
			t.Errorf("%s: expected ErrImmutableEntry, got %v", s, err)
		}
	}
}

func TestReversedLines(t *testing.T) {
	orig := []JournalLine{line("bank", 1_000, 0), line("revenue", 0, 1_000)}
	rev := ReversedLines(orig)

	if !rev[0].Credit.Equal(decimal.NewFromInt(1_000)) || !rev[0].Debit.IsZero() {
		t.Errorf("first line not swapped: %+v", rev[0])
	}
	if !rev[1].Debit.Equal(decimal.NewFromInt(1_000)) || !rev[1].Credit.IsZero() {
		t.Errorf("second line not swapped: %+v", rev[1])
	}
	if !orig[0].Debit.Equal(decimal.NewFromInt(1_000)) {
		t.Error("original lines were mutated")
	}
	if _, _, err := ValidateLines(rev); err != nil {
		t.Errorf("reversed lines should balance: %v", err)
	}
}

func TestAccountIDs_Distinct(t *testing.T) {
	ids := AccountIDs([]JournalLine{line("a", 1, 0), line("b", 0, 1), line("a", 1, 0), line("b", 0, 1)})
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("unexpected ids: %v", ids)
	}
}
