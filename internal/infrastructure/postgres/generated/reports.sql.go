package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const accountBalances = `-- name: AccountBalances :many
SELECT a.id, a.code, a.name, a.type,
       COALESCE(SUM(l.debit), 0)::numeric AS total_debit,
       COALESCE(SUM(l.credit), 0)::numeric AS total_credit
FROM accounts a
LEFT JOIN journal_lines l ON l.account_id = a.id
     AND EXISTS (
         SELECT 1 FROM journal_entries e
         WHERE e.id = l.journal_id AND e.status = 'POSTED' AND e.date <= $2
     )
WHERE a.company_id = $1
  AND ($3::text[] IS NULL OR a.type = ANY($3::text[]))
GROUP BY a.id, a.code, a.name, a.type, a.deleted_at
HAVING a.deleted_at IS NULL OR COUNT(l.id) > 0
ORDER BY a.code
`

type AccountBalancesParams struct {
	CompanyID string      `json:"company_id"`
	AsOf      pgtype.Date `json:"as_of"`
	Types     []string    `json:"types"`
}

type AccountBalancesRow struct {
	ID          string         `json:"id"`
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	TotalDebit  pgtype.Numeric `json:"total_debit"`
	TotalCredit pgtype.Numeric `json:"total_credit"`
}

func (q *Queries) AccountBalances(ctx context.Context, arg AccountBalancesParams) ([]AccountBalancesRow, error) {
	rows, err := q.db.Query(ctx, accountBalances, arg.CompanyID, arg.AsOf, arg.Types)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AccountBalancesRow
	for rows.Next() {
		var i AccountBalancesRow
		if err := rows.Scan(
			&i.ID,
			&i.Code,
			&i.Name,
			&i.Type,
			&i.TotalDebit,
			&i.TotalCredit,
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

const cashBalanceBefore = `-- name: CashBalanceBefore :one
SELECT COALESCE(SUM(l.debit - l.credit), 0)::numeric AS balance
FROM journal_lines l
JOIN journal_entries e ON e.id = l.journal_id
JOIN accounts a ON a.id = l.account_id
WHERE e.company_id = $1
  AND e.status = 'POSTED'
  AND e.date < $2
  AND a.is_cash
`

type CashBalanceBeforeParams struct {
	CompanyID string      `json:"company_id"`
	Before    pgtype.Date `json:"before"`
}

func (q *Queries) CashBalanceBefore(ctx context.Context, arg CashBalanceBeforeParams) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, cashBalanceBefore, arg.CompanyID, arg.Before)
	var balance pgtype.Numeric
	err := row.Scan(&balance)
	return balance, err
}

const cashMovements = `-- name: CashMovements :many
SELECT e.source, SUM(l.debit - l.credit)::numeric AS amount
FROM journal_lines l
JOIN journal_entries e ON e.id = l.journal_id
JOIN accounts a ON a.id = l.account_id
WHERE e.company_id = $1
  AND e.status = 'POSTED'
  AND e.date BETWEEN $2 AND $3
  AND a.is_cash
GROUP BY e.source
ORDER BY e.source
`

type CashMovementsParams struct {
	CompanyID string      `json:"company_id"`
	StartDate pgtype.Date `json:"start_date"`
	EndDate   pgtype.Date `json:"end_date"`
}

type CashMovementsRow struct {
	Source string         `json:"source"`
	Amount pgtype.Numeric `json:"amount"`
}

func (q *Queries) CashMovements(ctx context.Context, arg CashMovementsParams) ([]CashMovementsRow, error) {
	rows, err := q.db.Query(ctx, cashMovements, arg.CompanyID, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CashMovementsRow
	for rows.Next() {
		var i CashMovementsRow
		if err := rows.Scan(&i.Source, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
