package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createApprovalConfig = `-- name: CreateApprovalConfig :exec
INSERT INTO approval_configs (id, company_id, name, resource_type, threshold, steps, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type CreateApprovalConfigParams struct {
	ID           string             `json:"id"`
	CompanyID    string             `json:"company_id"`
	Name         string             `json:"name"`
	ResourceType string             `json:"resource_type"`
	Threshold    pgtype.Numeric     `json:"threshold"`
	Steps        []byte             `json:"steps"`
	Active       bool               `json:"active"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateApprovalConfig(ctx context.Context, arg CreateApprovalConfigParams) error {
	_, err := q.db.Exec(ctx, createApprovalConfig,
		arg.ID,
		arg.CompanyID,
		arg.Name,
		arg.ResourceType,
		arg.Threshold,
		arg.Steps,
		arg.Active,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getApprovalConfig = `-- name: GetApprovalConfig :one
SELECT id, company_id, name, resource_type, threshold, steps, active, created_at, updated_at FROM approval_configs
WHERE company_id = $1 AND id = $2
`

type GetApprovalConfigParams struct {
	CompanyID string `json:"company_id"`
	ID        string `json:"id"`
}

func (q *Queries) GetApprovalConfig(ctx context.Context, arg GetApprovalConfigParams) (ApprovalConfig, error) {
	row := q.db.QueryRow(ctx, getApprovalConfig, arg.CompanyID, arg.ID)
	return scanApprovalConfig(row)
}

const listApprovalConfigs = `-- name: ListApprovalConfigs :many
SELECT id, company_id, name, resource_type, threshold, steps, active, created_at, updated_at FROM approval_configs
WHERE company_id = $1
  AND ($2::text IS NULL OR resource_type = $2::text)
  AND ($3::boolean OR active)
ORDER BY resource_type, threshold DESC
`

type ListApprovalConfigsParams struct {
	CompanyID       string      `json:"company_id"`
	ResourceType    pgtype.Text `json:"resource_type"`
	IncludeInactive bool        `json:"include_inactive"`
}

func (q *Queries) ListApprovalConfigs(ctx context.Context, arg ListApprovalConfigsParams) ([]ApprovalConfig, error) {
	rows, err := q.db.Query(ctx, listApprovalConfigs, arg.CompanyID, arg.ResourceType, arg.IncludeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ApprovalConfig
	for rows.Next() {
		i, err := scanApprovalConfig(rows)
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

func scanApprovalConfig(row rowScanner) (ApprovalConfig, error) {
	var i ApprovalConfig
	err := row.Scan(
		&i.ID,
		&i.CompanyID,
		&i.Name,
		&i.ResourceType,
		&i.Threshold,
		&i.Steps,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deactivateApprovalConfig = `-- name: DeactivateApprovalConfig :execrows
UPDATE approval_configs SET active = FALSE, updated_at = $3
WHERE company_id = $1 AND id = $2
`

type DeactivateApprovalConfigParams struct {
	CompanyID string             `json:"company_id"`
	ID        string             `json:"id"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) DeactivateApprovalConfig(ctx context.Context, arg DeactivateApprovalConfigParams) (int64, error) {
	result, err := q.db.Exec(ctx, deactivateApprovalConfig, arg.CompanyID, arg.ID, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const approvalRequestColumns = `id, company_id, config_id, resource_type, resource_id, amount, requested_by, current_step, total_steps, steps, status, reason, created_at, updated_at, finalized_at`

const createApprovalRequest = `-- name: CreateApprovalRequest :exec
INSERT INTO approval_requests (` + approvalRequestColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

type CreateApprovalRequestParams struct {
	ID           string             `json:"id"`
	CompanyID    string             `json:"company_id"`
	ConfigID     string             `json:"config_id"`
	ResourceType string             `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	Amount       pgtype.Numeric     `json:"amount"`
	RequestedBy  string             `json:"requested_by"`
	CurrentStep  int32              `json:"current_step"`
	TotalSteps   int32              `json:"total_steps"`
	Steps        []byte             `json:"steps"`
	Status       string             `json:"status"`
	Reason       string             `json:"reason"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
	FinalizedAt  pgtype.Timestamptz `json:"finalized_at"`
}

func (q *Queries) CreateApprovalRequest(ctx context.Context, arg CreateApprovalRequestParams) error {
	_, err := q.db.Exec(ctx, createApprovalRequest,
		arg.ID,
		arg.CompanyID,
		arg.ConfigID,
		arg.ResourceType,
		arg.ResourceID,
		arg.Amount,
		arg.RequestedBy,
		arg.CurrentStep,
		arg.TotalSteps,
		arg.Steps,
		arg.Status,
		arg.Reason,
		arg.CreatedAt,
		arg.UpdatedAt,
		arg.FinalizedAt,
	)
	return err
}

const getApprovalRequest = `-- name: GetApprovalRequest :one
SELECT ` + approvalRequestColumns + ` FROM approval_requests
WHERE company_id = $1 AND id = $2
`

type GetApprovalRequestParams struct {
	CompanyID string `json:"company_id"`
	ID        string `json:"id"`
}

func (q *Queries) GetApprovalRequest(ctx context.Context, arg GetApprovalRequestParams) (ApprovalRequest, error) {
	row := q.db.QueryRow(ctx, getApprovalRequest, arg.CompanyID, arg.ID)
	return scanApprovalRequest(row)
}

const getApprovalRequestForUpdate = `-- name: GetApprovalRequestForUpdate :one
SELECT ` + approvalRequestColumns + ` FROM approval_requests
WHERE company_id = $1 AND id = $2
FOR UPDATE
`

type GetApprovalRequestForUpdateParams struct {
	CompanyID string `json:"company_id"`
	ID        string `json:"id"`
}

func (q *Queries) GetApprovalRequestForUpdate(ctx context.Context, arg GetApprovalRequestForUpdateParams) (ApprovalRequest, error) {
	row := q.db.QueryRow(ctx, getApprovalRequestForUpdate, arg.CompanyID, arg.ID)
	return scanApprovalRequest(row)
}

const updateApprovalRequest = `-- name: UpdateApprovalRequest :execrows
UPDATE approval_requests
SET current_step = $2, status = $3, reason = $4, updated_at = $5, finalized_at = $6
WHERE id = $1
`

type UpdateApprovalRequestParams struct {
	ID          string             `json:"id"`
	CurrentStep int32              `json:"current_step"`
	Status      string             `json:"status"`
	Reason      string             `json:"reason"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
	FinalizedAt pgtype.Timestamptz `json:"finalized_at"`
}

func (q *Queries) UpdateApprovalRequest(ctx context.Context, arg UpdateApprovalRequestParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateApprovalRequest,
		arg.ID,
		arg.CurrentStep,
		arg.Status,
		arg.Reason,
		arg.UpdatedAt,
		arg.FinalizedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listPendingApprovals = `-- name: ListPendingApprovals :many
SELECT ` + approvalRequestColumns + ` FROM approval_requests
WHERE company_id = $1
  AND status IN ('PENDING', 'IN_PROGRESS')
  AND ($2::text IS NULL OR steps -> (current_step - 1) ->> 'role' = $2::text)
ORDER BY created_at
LIMIT $3 OFFSET $4
`

type ListPendingApprovalsParams struct {
	CompanyID string      `json:"company_id"`
	Role      pgtype.Text `json:"role"`
	Limit     int32       `json:"limit"`
	Offset    int32       `json:"offset"`
}

func (q *Queries) ListPendingApprovals(ctx context.Context, arg ListPendingApprovalsParams) ([]ApprovalRequest, error) {
	rows, err := q.db.Query(ctx, listPendingApprovals,
		arg.CompanyID,
		arg.Role,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ApprovalRequest
	for rows.Next() {
		i, err := scanApprovalRequest(rows)
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

func scanApprovalRequest(row rowScanner) (ApprovalRequest, error) {
	var i ApprovalRequest
	err := row.Scan(
		&i.ID,
		&i.CompanyID,
		&i.ConfigID,
		&i.ResourceType,
		&i.ResourceID,
		&i.Amount,
		&i.RequestedBy,
		&i.CurrentStep,
		&i.TotalSteps,
		&i.Steps,
		&i.Status,
		&i.Reason,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.FinalizedAt,
	)
	return i, err
}

const insertApprovalHistory = `-- name: InsertApprovalHistory :exec
INSERT INTO approval_history (request_id, seq, step, action, actor_id, actor_role, comment, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type InsertApprovalHistoryParams struct {
	RequestID string             `json:"request_id"`
	Seq       int32              `json:"seq"`
	Step      int32              `json:"step"`
	Action    string             `json:"action"`
	ActorID   string             `json:"actor_id"`
	ActorRole string             `json:"actor_role"`
	Comment   string             `json:"comment"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) InsertApprovalHistory(ctx context.Context, arg InsertApprovalHistoryParams) error {
	_, err := q.db.Exec(ctx, insertApprovalHistory,
		arg.RequestID,
		arg.Seq,
		arg.Step,
		arg.Action,
		arg.ActorID,
		arg.ActorRole,
		arg.Comment,
		arg.CreatedAt,
	)
	return err
}

const listApprovalHistory = `-- name: ListApprovalHistory :many
SELECT request_id, seq, step, action, actor_id, actor_role, comment, created_at FROM approval_history
WHERE request_id = ANY($1::text[])
ORDER BY request_id, seq
`

func (q *Queries) ListApprovalHistory(ctx context.Context, requestIds []string) ([]ApprovalHistory, error) {
	rows, err := q.db.Query(ctx, listApprovalHistory, requestIds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ApprovalHistory
	for rows.Next() {
		var i ApprovalHistory
		if err := rows.Scan(
			&i.RequestID,
			&i.Seq,
			&i.Step,
			&i.Action,
			&i.ActorID,
			&i.ActorRole,
			&i.Comment,
			&i.CreatedAt,
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
