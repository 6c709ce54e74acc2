package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobooks/internal/domain"
)

var (
	journalColumns = []string{"id", "company_id", "journal_no", "date", "description", "source", "status", "total_debit", "total_credit", "created_by", "posted_at", "voided_at", "voided_by", "void_reason", "created_at", "updated_at"}
	lineColumns    = []string{"id", "journal_id", "line_no", "account_id", "debit", "credit", "description"}
	lineCopyCols   = []string{"id", "journal_id", "line_no", "account_id", "debit", "credit", "description"}
)

func num(s string) pgtype.Numeric {
	return decimalToNumeric(decimal.RequireFromString(s))
}

func sampleEntry() *domain.JournalEntry {
	now := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("1500000")
	return &domain.JournalEntry{
		ID:          "je-1",
		CompanyID:   "co-1",
		JournalNo:   "JV/2025/01/0001",
		Date:        now,
		Description: "Office rent",
		Source:      domain.JournalSourceExpense,
		Status:      domain.JournalStatusPosted,
		TotalDebit:  amount,
		TotalCredit: amount,
		CreatedBy:   "u-1",
		PostedAt:    &now,
		CreatedAt:   now,
		UpdatedAt:   now,
		Lines: []domain.JournalLine{
			{ID: "l1", JournalID: "je-1", LineNo: 1, AccountID: "rent", Debit: amount, Credit: decimal.Zero},
			{ID: "l2", JournalID: "je-1", LineNo: 2, AccountID: "bank", Debit: decimal.Zero, Credit: amount},
		},
	}
}

func TestJournalRepository_NextSequence(t *testing.T) {
	pool := newMockPool(t)
	repo := NewJournalRepository(pool)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery("name: NextJournalSequence").
		WithArgs("co-1", "JV/2025/01/").
		WillReturnRows(pgxmock.NewRows([]string{"last_seq"}).AddRow(int32(7)))

	seq, err := repo.NextSequence(context.Background(), tx, "co-1", "JV/2025/01/")
	require.NoError(t, err)
	assert.Equal(t, 7, seq)
}

func TestJournalRepository_Create(t *testing.T) {
	pool := newMockPool(t)
	repo := NewJournalRepository(pool)
	tx := beginMockTx(t, pool)
	entry := sampleEntry()

	pool.ExpectExec("name: CreateJournalEntry").
		WithArgs("je-1", "co-1", "JV/2025/01/0001", pgxmock.AnyArg(), "Office rent", "EXPENSE", "POSTED",
			pgxmock.AnyArg(), pgxmock.AnyArg(), "u-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCopyFrom(pgx.Identifier{"journal_lines"}, lineCopyCols).WillReturnResult(2)

	require.NoError(t, repo.Create(context.Background(), tx, entry))
	assertExpectations(t, pool)
}

func TestJournalRepository_CreateDuplicateNumber(t *testing.T) {
	pool := newMockPool(t)
	repo := NewJournalRepository(pool)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("name: CreateJournalEntry").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "journal_entries_company_no_key"})

	err := repo.Create(context.Background(), tx, sampleEntry())
	assert.ErrorIs(t, err, domain.ErrDuplicateJournalNo)
}

func TestJournalRepository_CreateShortCopy(t *testing.T) {
	pool := newMockPool(t)
	repo := NewJournalRepository(pool)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("name: CreateJournalEntry").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCopyFrom(pgx.Identifier{"journal_lines"}, lineCopyCols).WillReturnResult(1)

	err := repo.Create(context.Background(), tx, sampleEntry())
	assert.ErrorContains(t, err, "inserted 1 of 2 journal lines")
}

func TestJournalRepository_GetByID(t *testing.T) {
	pool := newMockPool(t)
	repo := NewJournalRepository(pool)
	now := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	pool.ExpectQuery("name: GetJournalEntry :one").
		WithArgs("co-1", "je-1").
		WillReturnRows(pgxmock.NewRows(journalColumns).AddRow(
			"je-1", "co-1", "JV/2025/01/0001", pgtype.Date{Time: now, Valid: true}, "Office rent", "EXPENSE", "VOID",
			num("1500000"), num("1500000"), "u-1", now, now, "u-2", "duplicate", now, now))
	pool.ExpectQuery("name: ListJournalLines").
		WithArgs([]string{"je-1"}).
		WillReturnRows(pgxmock.NewRows(lineColumns).
			AddRow("l1", "je-1", int32(1), "rent", num("1500000"), num("0"), "").
			AddRow("l2", "je-1", int32(2), "bank", num("0"), num("1500000"), "transfer"))

	entry, err := repo.GetByID(context.Background(), "co-1", "je-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JournalStatusVoid, entry.Status)
	require.NotNil(t, entry.VoidedBy)
	assert.Equal(t, "u-2", *entry.VoidedBy)
	assert.Equal(t, "duplicate", entry.VoidReason)
	require.Len(t, entry.Lines, 2)
	assert.Equal(t, 2, entry.Lines[1].LineNo)
	assert.True(t, entry.Lines[1].Credit.Equal(decimal.RequireFromString("1500000")))
}

func TestJournalRepository_GetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	repo := NewJournalRepository(pool)

	pool.ExpectQuery("name: GetJournalEntry :one").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "co-2", "je-1")
	assert.ErrorIs(t, err, domain.ErrJournalNotFound)
}

func TestJournalRepository_UpdateDraft(t *testing.T) {
	pool := newMockPool(t)
	repo := NewJournalRepository(pool)
	tx := beginMockTx(t, pool)
	entry := sampleEntry()
	entry.Status = domain.JournalStatusDraft

	pool.ExpectExec("name: UpdateDraftJournal").
		WithArgs("co-1", "je-1", "JV/2025/01/0001", pgxmock.AnyArg(), "Office rent", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec("name: DeleteJournalLines").WithArgs("je-1").WillReturnResult(pgxmock.NewResult("DELETE", 2))
	pool.ExpectCopyFrom(pgx.Identifier{"journal_lines"}, lineCopyCols).WillReturnResult(2)

	require.NoError(t, repo.UpdateDraft(context.Background(), tx, entry))
	assertExpectations(t, pool)
}

func TestJournalRepository_UpdateDraftNotDraft(t *testing.T) {
	pool := newMockPool(t)
	repo := NewJournalRepository(pool)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("name: UpdateDraftJournal").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateDraft(context.Background(), tx, sampleEntry())
	assert.ErrorIs(t, err, domain.ErrImmutableEntry)
	assertExpectations(t, pool)
}

func TestJournalRepository_UpdateStatus(t *testing.T) {
	pool := newMockPool(t)
	repo := NewJournalRepository(pool)
	tx := beginMockTx(t, pool)
	entry := sampleEntry()
	voidedBy := "u-2"
	entry.Status = domain.JournalStatusVoid
	entry.VoidedBy = &voidedBy
	entry.VoidReason = "duplicate"

	pool.ExpectExec("name: UpdateJournalStatus").
		WithArgs("co-1", "je-1", "VOID", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "duplicate", pgxmock.AnyArg(), "POSTED").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec("name: UpdateJournalStatus").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	pool.ExpectExec("name: UpdateJournalStatus").
		WillReturnError(&pgconn.PgError{Code: pgErrRaiseException, Message: "void journal entry is immutable"})

	require.NoError(t, repo.UpdateStatus(context.Background(), tx, entry, domain.JournalStatusPosted))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), tx, entry, domain.JournalStatusPosted), domain.ErrImmutableEntry)
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), tx, entry, domain.JournalStatusPosted), domain.ErrImmutableEntry)
}

func TestJournalRepository_LinkReversal(t *testing.T) {
	pool := newMockPool(t)
	repo := NewJournalRepository(pool)
	tx := beginMockTx(t, pool)
	at := time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC)

	pool.ExpectExec("name: CreateJournalReversal").
		WithArgs("je-1", "je-2", "co-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("name: CreateJournalReversal").
		WithArgs("je-1", "je-3", "co-1", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "journal_reversals_pkey"})

	require.NoError(t, repo.LinkReversal(context.Background(), tx, "co-1", "je-1", "je-2", at))
	err := repo.LinkReversal(context.Background(), tx, "co-1", "je-1", "je-3", at)
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assertExpectations(t, pool)
}

func TestJournalRepository_List(t *testing.T) {
	pool := newMockPool(t)
	repo := NewJournalRepository(pool)
	now := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	pool.ExpectQuery("name: ListJournalEntries").
		WithArgs("co-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), int32(10), int32(0)).
		WillReturnRows(pgxmock.NewRows(journalColumns).
			AddRow("je-2", "co-1", "JV/2025/01/0002", pgtype.Date{Time: now, Valid: true}, "b", "MANUAL", "POSTED",
				num("10"), num("10"), "u-1", now, nil, nil, "", now, now).
			AddRow("je-1", "co-1", "JV/2025/01/0001", pgtype.Date{Time: now, Valid: true}, "a", "MANUAL", "DRAFT",
				num("5"), num("5"), "u-1", nil, nil, nil, "", now, now))
	pool.ExpectQuery("name: ListJournalLines").
		WithArgs([]string{"je-2", "je-1"}).
		WillReturnRows(pgxmock.NewRows(lineColumns).
			AddRow("l1", "je-1", int32(1), "a", num("5"), num("0"), "").
			AddRow("l2", "je-1", int32(2), "b", num("0"), num("5"), "").
			AddRow("l3", "je-2", int32(1), "a", num("10"), num("0"), "").
			AddRow("l4", "je-2", int32(2), "b", num("0"), num("10"), ""))

	entries, err := repo.List(context.Background(), domain.JournalFilter{CompanyID: "co-1", From: &from, Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "je-2", entries[0].ID)
	assert.Len(t, entries[0].Lines, 2)
	assert.Nil(t, entries[1].PostedAt)
	assert.Len(t, entries[1].Lines, 2)
}

func TestJournalRepository_ListEmpty(t *testing.T) {
	pool := newMockPool(t)
	repo := NewJournalRepository(pool)

	pool.ExpectQuery("name: ListJournalEntries").WillReturnRows(pgxmock.NewRows(journalColumns))

	entries, err := repo.List(context.Background(), domain.JournalFilter{CompanyID: "co-1"})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assertExpectations(t, pool)
}

func TestJournalRepository_Totals(t *testing.T) {
	pool := newMockPool(t)
	repo := NewJournalRepository(pool)

	pool.ExpectQuery("name: SumPostedLines").
		WithArgs("co-1").
		WillReturnRows(pgxmock.NewRows([]string{"total_debit", "total_credit"}).AddRow(num("2500.50"), num("2500.50")))

	debit, credit, err := repo.Totals(context.Background(), "co-1")
	require.NoError(t, err)
	assert.True(t, debit.Equal(credit))
	assert.Equal(t, "2500.5", debit.String())
}
