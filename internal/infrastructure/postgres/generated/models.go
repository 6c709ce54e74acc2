package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
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
	DeletedAt pgtype.Timestamptz `json:"deleted_at"`
}

type ApprovalConfig struct {
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

type ApprovalHistory struct {
	RequestID string             `json:"request_id"`
	Seq       int32              `json:"seq"`
	Step      int32              `json:"step"`
	Action    string             `json:"action"`
	ActorID   string             `json:"actor_id"`
	ActorRole string             `json:"actor_role"`
	Comment   string             `json:"comment"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type ApprovalRequest struct {
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

type AuditLog struct {
	ID           string             `json:"id"`
	CompanyID    string             `json:"company_id"`
	ActorID      string             `json:"actor_id"`
	ActorRole    string             `json:"actor_role"`
	Action       string             `json:"action"`
	ResourceType string             `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	BeforeState  []byte             `json:"before_state"`
	AfterState   []byte             `json:"after_state"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type Employee struct {
	ID                  string             `json:"id"`
	CompanyID           string             `json:"company_id"`
	EmployeeNo          string             `json:"employee_no"`
	Name                string             `json:"name"`
	Active              bool               `json:"active"`
	BasicSalary         pgtype.Numeric     `json:"basic_salary"`
	Allowances          []byte             `json:"allowances"`
	Deductions          []byte             `json:"deductions"`
	BpjsKesehatan       bool               `json:"bpjs_kesehatan"`
	BpjsKetenagakerjaan bool               `json:"bpjs_ketenagakerjaan"`
	PtkpStatus          string             `json:"ptkp_status"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
	UpdatedAt           pgtype.Timestamptz `json:"updated_at"`
	DeletedAt           pgtype.Timestamptz `json:"deleted_at"`
}

type JournalEntry struct {
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
	VoidedAt    pgtype.Timestamptz `json:"voided_at"`
	VoidedBy    pgtype.Text        `json:"voided_by"`
	VoidReason  string             `json:"void_reason"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

type JournalLine struct {
	ID          string         `json:"id"`
	JournalID   string         `json:"journal_id"`
	LineNo      int32          `json:"line_no"`
	AccountID   string         `json:"account_id"`
	Debit       pgtype.Numeric `json:"debit"`
	Credit      pgtype.Numeric `json:"credit"`
	Description string         `json:"description"`
}

type JournalReversal struct {
	OriginalID string             `json:"original_id"`
	ReversalID string             `json:"reversal_id"`
	CompanyID  string             `json:"company_id"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

type Payroll struct {
	ID              string             `json:"id"`
	CompanyID       string             `json:"company_id"`
	Month           int32              `json:"month"`
	Year            int32              `json:"year"`
	Status          string             `json:"status"`
	EmployeeCount   int32              `json:"employee_count"`
	TotalGross      pgtype.Numeric     `json:"total_gross"`
	TotalDeductions pgtype.Numeric     `json:"total_deductions"`
	TotalBpjs       pgtype.Numeric     `json:"total_bpjs"`
	TotalTax        pgtype.Numeric     `json:"total_tax"`
	TotalNet        pgtype.Numeric     `json:"total_net"`
	JournalID       pgtype.Text        `json:"journal_id"`
	ProcessedBy     string             `json:"processed_by"`
	ProcessedAt     pgtype.Timestamptz `json:"processed_at"`
	PaidAt          pgtype.Timestamptz `json:"paid_at"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type PayrollSlip struct {
	ID                  string             `json:"id"`
	PayrollID           string             `json:"payroll_id"`
	EmployeeID          string             `json:"employee_id"`
	EmployeeName        string             `json:"employee_name"`
	PtkpStatus          string             `json:"ptkp_status"`
	BasicSalary         pgtype.Numeric     `json:"basic_salary"`
	Allowances          []byte             `json:"allowances"`
	TotalAllowances     pgtype.Numeric     `json:"total_allowances"`
	Gross               pgtype.Numeric     `json:"gross"`
	Deductions          []byte             `json:"deductions"`
	TotalDeductions     pgtype.Numeric     `json:"total_deductions"`
	BpjsKesehatan       pgtype.Numeric     `json:"bpjs_kesehatan"`
	BpjsKetenagakerjaan pgtype.Numeric     `json:"bpjs_ketenagakerjaan"`
	Tax                 pgtype.Numeric     `json:"tax"`
	Net                 pgtype.Numeric     `json:"net"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
}
