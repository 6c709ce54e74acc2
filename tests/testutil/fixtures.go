package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/postgres"
	"github.com/iho/gobooks/internal/infrastructure/postgres/generated"
)

// TestDB provides a migrated database for integration tests.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB connects to DATABASE_URL and applies migrations. The test is
// skipped when DATABASE_URL is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := postgres.NewMigrator(dbURL, migrationsPath(), zerolog.Nop()).Up(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 10, 1)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &TestDB{Pool: pool, Queries: generated.New(pool), t: t}
	t.Cleanup(db.Cleanup)
	return db
}

// migrationsPath finds the migrations directory from the module root or a
// package directory below it.
func migrationsPath() string {
	for _, p := range []string{"migrations", "../migrations", "../../migrations"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "migrations"
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE
			audit_logs,
			approval_history,
			approval_requests,
			approval_configs,
			payroll_slips,
			payrolls,
			employees,
			journal_reversals,
			journal_lines,
			journal_entries,
			journal_sequences,
			accounts
		CASCADE
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateTestAccount inserts an active account.
func (db *TestDB) CreateTestAccount(ctx context.Context, companyID, code, name string, typ domain.AccountType, isCash bool) *domain.Account {
	db.t.Helper()

	now := time.Now().UTC()
	id := GenerateID()
	ts := pgtype.Timestamptz{Time: now, Valid: true}

	err := db.Queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:        id,
		CompanyID: companyID,
		Code:      code,
		Name:      name,
		Type:      string(typ),
		IsCash:    isCash,
		Active:    true,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		db.t.Fatalf("failed to create test account: %v", err)
	}

	return &domain.Account{
		ID:        id,
		CompanyID: companyID,
		Code:      code,
		Name:      name,
		Type:      typ,
		IsCash:    isCash,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreatePayrollAccounts inserts the default payroll chart (6100, 2110-2140)
// plus a bank account 1100 for companyID.
func (db *TestDB) CreatePayrollAccounts(ctx context.Context, companyID string) {
	db.t.Helper()

	db.CreateTestAccount(ctx, companyID, "1100", "Bank", domain.AccountTypeAsset, true)
	db.CreateTestAccount(ctx, companyID, "6100", "Salary expense", domain.AccountTypeExpense, false)
	db.CreateTestAccount(ctx, companyID, "2110", "Income tax payable", domain.AccountTypeLiability, false)
	db.CreateTestAccount(ctx, companyID, "2120", "BPJS payable", domain.AccountTypeLiability, false)
	db.CreateTestAccount(ctx, companyID, "2130", "Net salary payable", domain.AccountTypeLiability, false)
	db.CreateTestAccount(ctx, companyID, "2140", "Other deductions payable", domain.AccountTypeLiability, false)
}

// CreateTestEmployee inserts an active employee without allowances or deductions.
func (db *TestDB) CreateTestEmployee(ctx context.Context, companyID, employeeNo string, basic decimal.Decimal, ptkp domain.PTKPStatus, bpjs bool) string {
	db.t.Helper()

	id := GenerateID()
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO employees (id, company_id, employee_no, name, basic_salary, bpjs_kesehatan, bpjs_ketenagakerjaan, ptkp_status)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
	`, id, companyID, employeeNo, "Employee "+employeeNo, basic.String(), bpjs, string(ptkp))
	if err != nil {
		db.t.Fatalf("failed to create test employee: %v", err)
	}
	return id
}

// Actor returns an actor of role in companyID.
func Actor(companyID string, role domain.Role) domain.Actor {
	return domain.Actor{UserID: "user-" + string(role), CompanyID: companyID, Role: role}
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}
