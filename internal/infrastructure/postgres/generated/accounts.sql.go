package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createAccount = `-- name: CreateAccount :exec
INSERT INTO accounts (id, company_id, code, name, type, parent_id, is_cash, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

type CreateAccountParams struct {
	ID        string             `json:"id"`
	CompanyID string             `json:"company_id"`
	Code      string             `json:"code"`
	Name      string             `json:"name"`
	Type      string             `json:"type"`
	ParentID  pgtype.Text        `json:"parent_id"`
	IsCash    bool               `json:"is_cash"`
	Active    bool               `json:"active"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) error {
	_, err := q.db.Exec(ctx, createAccount,
		arg.ID,
		arg.CompanyID,
		arg.Code,
		arg.Name,
		arg.Type,
		arg.ParentID,
		arg.IsCash,
		arg.Active,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, company_id, code, name, type, parent_id, is_cash, active, created_at, updated_at, deleted_at FROM accounts
WHERE company_id = $1 AND id = $2 AND ($3::boolean OR deleted_at IS NULL)
`

type GetAccountByIDParams struct {
	CompanyID      string `json:"company_id"`
	ID             string `json:"id"`
	IncludeDeleted bool   `json:"include_deleted"`
}

func (q *Queries) GetAccountByID(ctx context.Context, arg GetAccountByIDParams) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, arg.CompanyID, arg.ID, arg.IncludeDeleted)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.CompanyID,
		&i.Code,
		&i.Name,
		&i.Type,
		&i.ParentID,
		&i.IsCash,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

const getAccountByCode = `-- name: GetAccountByCode :one
SELECT id, company_id, code, name, type, parent_id, is_cash, active, created_at, updated_at, deleted_at FROM accounts
WHERE company_id = $1 AND code = $2 AND ($3::boolean OR deleted_at IS NULL)
`

type GetAccountByCodeParams struct {
	CompanyID      string `json:"company_id"`
	Code           string `json:"code"`
	IncludeDeleted bool   `json:"include_deleted"`
}

func (q *Queries) GetAccountByCode(ctx context.Context, arg GetAccountByCodeParams) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByCode, arg.CompanyID, arg.Code, arg.IncludeDeleted)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.CompanyID,
		&i.Code,
		&i.Name,
		&i.Type,
		&i.ParentID,
		&i.IsCash,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

const getAccountsByIDsForShare = `-- name: GetAccountsByIDsForShare :many
SELECT id, company_id, code, name, type, parent_id, is_cash, active, created_at, updated_at, deleted_at FROM accounts
WHERE company_id = $1 AND id = ANY($2::text[]) AND deleted_at IS NULL
ORDER BY id
FOR SHARE
`

type GetAccountsByIDsForShareParams struct {
	CompanyID string   `json:"company_id"`
	Ids       []string `json:"ids"`
}

func (q *Queries) GetAccountsByIDsForShare(ctx context.Context, arg GetAccountsByIDsForShareParams) ([]Account, error) {
	rows, err := q.db.Query(ctx, getAccountsByIDsForShare, arg.CompanyID, arg.Ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.CompanyID,
			&i.Code,
			&i.Name,
			&i.Type,
			&i.ParentID,
			&i.IsCash,
			&i.Active,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.DeletedAt,
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

const listAccounts = `-- name: ListAccounts :many
SELECT id, company_id, code, name, type, parent_id, is_cash, active, created_at, updated_at, deleted_at FROM accounts
WHERE company_id = $1
  AND ($2::text IS NULL OR type = $2::text)
  AND ($3::boolean OR deleted_at IS NULL)
ORDER BY code
LIMIT $4 OFFSET $5
`

type ListAccountsParams struct {
	CompanyID      string      `json:"company_id"`
	Type           pgtype.Text `json:"type"`
	IncludeDeleted bool        `json:"include_deleted"`
	Limit          int32       `json:"limit"`
	Offset         int32       `json:"offset"`
}

func (q *Queries) ListAccounts(ctx context.Context, arg ListAccountsParams) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccounts,
		arg.CompanyID,
		arg.Type,
		arg.IncludeDeleted,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.CompanyID,
			&i.Code,
			&i.Name,
			&i.Type,
			&i.ParentID,
			&i.IsCash,
			&i.Active,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.DeletedAt,
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

const softDeleteAccount = `-- name: SoftDeleteAccount :execrows
UPDATE accounts SET deleted_at = $3, updated_at = $3
WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
`

type SoftDeleteAccountParams struct {
	CompanyID string             `json:"company_id"`
	ID        string             `json:"id"`
	DeletedAt pgtype.Timestamptz `json:"deleted_at"`
}

func (q *Queries) SoftDeleteAccount(ctx context.Context, arg SoftDeleteAccountParams) (int64, error) {
	result, err := q.db.Exec(ctx, softDeleteAccount, arg.CompanyID, arg.ID, arg.DeletedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
