package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const nextJournalSequence = `-- name: NextJournalSequence :one
INSERT INTO journal_sequences (company_id, prefix, last_seq)
VALUES (
    $1, $2,
    1 + COALESCE((
        SELECT MAX(CAST(substring(journal_no FROM length($2::text) + 1) AS INTEGER))
        FROM journal_entries
        WHERE company_id = $1 AND journal_no LIKE $2::text || '%'
    ), 0)
)
ON CONFLICT (company_id, prefix) DO UPDATE SET last_seq = journal_sequences.last_seq + 1
RETURNING last_seq
`

type NextJournalSequenceParams struct {
	CompanyID string `json:"company_id"`
	Prefix    string `json:"prefix"`
}

func (q *Queries) NextJournalSequence(ctx context.Context, arg NextJournalSequenceParams) (int32, error) {
	row := q.db.QueryRow(ctx, nextJournalSequence, arg.CompanyID, arg.Prefix)
	var last_seq int32
	err := row.Scan(&last_seq)
	return last_seq, err
}

const createJournalEntry = `-- name: CreateJournalEntry :exec
INSERT INTO journal_entries (
    id, company_id, journal_no, date, description, source, status,
    total_debit, total_credit, created_by, posted_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

type CreateJournalEntryParams struct {
	ID          string             `json:"id"`
	CompanyID   string             `json:"company_id"`
	JournalNo   string             `json:"journal_no"`
	Date        pgtype.Date        `json:"date"`
	Description string             `json:"description"`
	Source      string             `json:"source"`
	Status      string             `json:"status"`
	TotalDebit  pgtype.Numeric     `json:"total_debit"`
	TotalCredit pgtype.Numeric     `json:"total_credit"`
	CreatedBy   string             `json:"created_by"`
	PostedAt    pgtype.Timestamptz `json:"posted_at"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateJournalEntry(ctx context.Context, arg CreateJournalEntryParams) error {
	_, err := q.db.Exec(ctx, createJournalEntry,
		arg.ID,
		arg.CompanyID,
		arg.JournalNo,
		arg.Date,
		arg.Description,
		arg.Source,
		arg.Status,
		arg.TotalDebit,
		arg.TotalCredit,
		arg.CreatedBy,
		arg.PostedAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

type InsertJournalLinesParams struct {
	ID          string         `json:"id"`
	JournalID   string         `json:"journal_id"`
	LineNo      int32          `json:"line_no"`
	AccountID   string         `json:"account_id"`
	Debit       pgtype.Numeric `json:"debit"`
	Credit      pgtype.Numeric `json:"credit"`
	Description string         `json:"description"`
}

const getJournalEntry = `-- name: GetJournalEntry :one
SELECT id, company_id, journal_no, date, description, source, status, total_debit, total_credit, created_by, posted_at, voided_at, voided_by, void_reason, created_at, updated_at FROM journal_entries
WHERE company_id = $1 AND id = $2
`

type GetJournalEntryParams struct {
	CompanyID string `json:"company_id"`
	ID        string `json:"id"`
}

func (q *Queries) GetJournalEntry(ctx context.Context, arg GetJournalEntryParams) (JournalEntry, error) {
	row := q.db.QueryRow(ctx, getJournalEntry, arg.CompanyID, arg.ID)
	return scanJournalEntry(row)
}

const getJournalEntryForUpdate = `-- name: GetJournalEntryForUpdate :one
SELECT id, company_id, journal_no, date, description, source, status, total_debit, total_credit, created_by, posted_at, voided_at, voided_by, void_reason, created_at, updated_at FROM journal_entries
WHERE company_id = $1 AND id = $2
FOR UPDATE
`

type GetJournalEntryForUpdateParams struct {
	CompanyID string `json:"company_id"`
	ID        string `json:"id"`
}

func (q *Queries) GetJournalEntryForUpdate(ctx context.Context, arg GetJournalEntryForUpdateParams) (JournalEntry, error) {
	row := q.db.QueryRow(ctx, getJournalEntryForUpdate, arg.CompanyID, arg.ID)
	return scanJournalEntry(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJournalEntry(row rowScanner) (JournalEntry, error) {
	var i JournalEntry
	err := row.Scan(
		&i.ID,
		&i.CompanyID,
		&i.JournalNo,
		&i.Date,
		&i.Description,
		&i.Source,
		&i.Status,
		&i.TotalDebit,
		&i.TotalCredit,
		&i.CreatedBy,
		&i.PostedAt,
		&i.VoidedAt,
		&i.VoidedBy,
		&i.VoidReason,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listJournalLines = `-- name: ListJournalLines :many
SELECT id, journal_id, line_no, account_id, debit, credit, description FROM journal_lines
WHERE journal_id = ANY($1::text[])
ORDER BY journal_id, line_no
`

func (q *Queries) ListJournalLines(ctx context.Context, journalIds []string) ([]JournalLine, error) {
	rows, err := q.db.Query(ctx, listJournalLines, journalIds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []JournalLine
	for rows.Next() {
		var i JournalLine
		if err := rows.Scan(
			&i.ID,
			&i.JournalID,
			&i.LineNo,
			&i.AccountID,
			&i.Debit,
			&i.Credit,
			&i.Description,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateDraftJournal = `-- name: UpdateDraftJournal :execrows
UPDATE journal_entries
SET journal_no = $3, date = $4, description = $5, total_debit = $6, total_credit = $7, updated_at = $8
WHERE company_id = $1 AND id = $2 AND status = 'DRAFT'
`

type UpdateDraftJournalParams struct {
	CompanyID   string             `json:"company_id"`
	ID          string             `json:"id"`
	JournalNo   string             `json:"journal_no"`
	Date        pgtype.Date        `json:"date"`
	Description string             `json:"description"`
	TotalDebit  pgtype.Numeric     `json:"total_debit"`
	TotalCredit pgtype.Numeric     `json:"total_credit"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateDraftJournal(ctx context.Context, arg UpdateDraftJournalParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateDraftJournal,
		arg.CompanyID,
		arg.ID,
		arg.JournalNo,
		arg.Date,
		arg.Description,
		arg.TotalDebit,
		arg.TotalCredit,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteJournalLines = `-- name: DeleteJournalLines :exec
DELETE FROM journal_lines WHERE journal_id = $1
`

func (q *Queries) DeleteJournalLines(ctx context.Context, journalID string) error {
	_, err := q.db.Exec(ctx, deleteJournalLines, journalID)
	return err
}

const updateJournalStatus = `-- name: UpdateJournalStatus :execrows
UPDATE journal_entries
SET status = $3, posted_at = $4, voided_at = $5, voided_by = $6, void_reason = $7, updated_at = $8
WHERE company_id = $1 AND id = $2 AND status = $9
`

type UpdateJournalStatusParams struct {
	CompanyID  string             `json:"company_id"`
	ID         string             `json:"id"`
	Status     string             `json:"status"`
	PostedAt   pgtype.Timestamptz `json:"posted_at"`
	VoidedAt   pgtype.Timestamptz `json:"voided_at"`
	VoidedBy   pgtype.Text        `json:"voided_by"`
	VoidReason string             `json:"void_reason"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
	FromStatus string             `json:"from_status"`
}

func (q *Queries) UpdateJournalStatus(ctx context.Context, arg UpdateJournalStatusParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateJournalStatus,
		arg.CompanyID,
		arg.ID,
		arg.Status,
		arg.PostedAt,
		arg.VoidedAt,
		arg.VoidedBy,
		arg.VoidReason,
		arg.UpdatedAt,
		arg.FromStatus,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const createJournalReversal = `-- name: CreateJournalReversal :exec
INSERT INTO journal_reversals (original_id, reversal_id, company_id, created_at)
VALUES ($1, $2, $3, $4)
`

type CreateJournalReversalParams struct {
	OriginalID string             `json:"original_id"`
	ReversalID string             `json:"reversal_id"`
	CompanyID  string             `json:"company_id"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateJournalReversal(ctx context.Context, arg CreateJournalReversalParams) error {
	_, err := q.db.Exec(ctx, createJournalReversal,
		arg.OriginalID,
		arg.ReversalID,
		arg.CompanyID,
		arg.CreatedAt,
	)
	return err
}

const listJournalEntries = `-- name: ListJournalEntries :many
SELECT id, company_id, journal_no, date, description, source, status, total_debit, total_credit, created_by, posted_at, voided_at, voided_by, void_reason, created_at, updated_at FROM journal_entries
WHERE company_id = $1
  AND ($2::text IS NULL OR status = $2::text)
  AND ($3::text IS NULL OR source = $3::text)
  AND ($4::date IS NULL OR date >= $4::date)
  AND ($5::date IS NULL OR date <= $5::date)
ORDER BY date DESC, journal_no DESC
LIMIT $6 OFFSET $7
`

type ListJournalEntriesParams struct {
	CompanyID string      `json:"company_id"`
	Status    pgtype.Text `json:"status"`
	Source    pgtype.Text `json:"source"`
	FromDate  pgtype.Date `json:"from_date"`
	ToDate    pgtype.Date `json:"to_date"`
	Limit     int32       `json:"limit"`
	Offset    int32       `json:"offset"`
}

func (q *Queries) ListJournalEntries(ctx context.Context, arg ListJournalEntriesParams) ([]JournalEntry, error) {
	rows, err := q.db.Query(ctx, listJournalEntries,
		arg.CompanyID,
		arg.Status,
		arg.Source,
		arg.FromDate,
		arg.ToDate,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []JournalEntry
	for rows.Next() {
		i, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumPostedLines = `-- name: SumPostedLines :one
SELECT COALESCE(SUM(l.debit), 0)::numeric AS total_debit,
       COALESCE(SUM(l.credit), 0)::numeric AS total_credit
FROM journal_lines l
JOIN journal_entries e ON e.id = l.journal_id
WHERE e.company_id = $1 AND e.status = 'POSTED'
`

type SumPostedLinesRow struct {
	TotalDebit  pgtype.Numeric `json:"total_debit"`
	TotalCredit pgtype.Numeric `json:"total_credit"`
}

func (q *Queries) SumPostedLines(ctx context.Context, companyID string) (SumPostedLinesRow, error) {
	row := q.db.QueryRow(ctx, sumPostedLines, companyID)
	var i SumPostedLinesRow
	err := row.Scan(&i.TotalDebit, &i.TotalCredit)
	return i, err
}
