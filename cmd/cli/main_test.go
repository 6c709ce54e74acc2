package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "lon...", truncate("longerstring", 6))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}))

	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestLedgerConsistency(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		want    string
	}{
		{name: "balanced", status: http.StatusOK, body: `{"company_id":"co-1","total_debit":"100","total_credit":"100","balanced":true}`, want: "PASSED"},
		{name: "unbalanced", status: http.StatusConflict, body: `{"balanced":false}`, wantErr: true, want: "FAILED"},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"INTERNAL_ERROR"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/ledger/consistency", r.URL.Path)
				assert.Equal(t, "co-1", r.Header.Get("X-Company-ID"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			out, err := execute(t, "--url", srv.URL, "--company", "co-1", "ledger", "consistency")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestPayrollRunSendsIdempotencyKey(t *testing.T) {
	var (
		gotKey  string
		gotBody map[string]int
		gotAuth string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"batch_id":"b-1","journal_id":"j-1","journal_no":"PAY-2026-03-0001"}`))
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "--token", "tok", "payroll", "run", "--month", "3", "--year", "2026")
	require.NoError(t, err)

	assert.Equal(t, "payroll-2026-03", gotKey)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, map[string]int{"month": 3, "year": 2026}, gotBody)
	assert.Contains(t, out, "PAY-2026-03-0001")
}

func TestPayrollRunRejectsBadPeriod(t *testing.T) {
	_, err := execute(t, "--url", "http://127.0.0.1:0", "payroll", "run", "--month", "13", "--year", "2026")
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestTaxWithholding(t *testing.T) {
	out, err := execute(t, "tax", "withholding", "--ptkp", "k/1", "--gross", "10000000")
	require.NoError(t, err)

	var w domain.Withholding
	require.NoError(t, json.Unmarshal([]byte(out), &w))
	assert.Equal(t, domain.PTKPK1, w.Status)
	assert.Equal(t, domain.TERCategoryB, w.Category)
	assert.True(t, w.MonthlyTax.Equal(decimal.NewFromInt(150_000)), "tax %s", w.MonthlyTax)

	out, err = execute(t, "tax", "withholding", "--ptkp", "TK/0", "--gross", "16500000", "--month", "12")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &w))
	assert.Equal(t, domain.MethodAnnualized, w.Method)
	assert.True(t, w.MonthlyTax.Equal(decimal.NewFromInt(2_895_000)), "tax %s", w.MonthlyTax)

	_, err = execute(t, "tax", "withholding", "--ptkp", "X/9", "--gross", "100")
	assert.ErrorIs(t, err, domain.ErrInvalidPTKPStatus)

	_, err = execute(t, "tax", "withholding", "--gross", "100", "--month", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestTokenCmd(t *testing.T) {
	out, err := execute(t, "token", "--secret", "s3cret", "--user", "u-1", "--company", "co-1", "--role", "ACCOUNTANT", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := auth.NewJWTManager("s3cret", time.Hour).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{UserID: "u-1", CompanyID: "co-1", Role: domain.RoleAccountant}, claims.Actor())

	_, err = execute(t, "token", "--secret", "s3cret", "--user", "u-1", "--company", "co-1", "--role", "JANITOR")
	assert.Error(t, err)
}

type fakeMigrator struct {
	calls   []string
	version uint
	err     error
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	return f.err
}

func (f *fakeMigrator) Down() error {
	f.calls = append(f.calls, "down")
	return f.err
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	f.calls = append(f.calls, "version")
	return f.version, false, f.err
}

func TestMigrateCmd(t *testing.T) {
	fake := &fakeMigrator{version: 7}
	orig := newMigrator
	newMigrator = func(zerolog.Logger) (migrator, error) { return fake, nil }
	t.Cleanup(func() { newMigrator = orig })

	_, err := execute(t, "migrate", "up")
	require.NoError(t, err)

	out, err := execute(t, "migrate", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version: 7 dirty: false")

	fake.err = errors.New("dirty database")
	_, err = execute(t, "migrate", "down")
	assert.EqualError(t, err, "dirty database")

	assert.Equal(t, []string{"up", "version", "down"}, fake.calls)
}
