package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/auth"
	"github.com/iho/gobooks/internal/infrastructure/config"
	"github.com/iho/gobooks/internal/infrastructure/postgres"
	"github.com/iho/gobooks/internal/usecase"
)

func newLedgerCmd(opts *options) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check that posted debits equal posted credits",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report usecase.ConsistencyReport
			err := newAPIClient(opts).do(http.MethodGet, "/api/v1/ledger/consistency", nil, nil, nil, &report)

			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
				fmt.Fprintf(cmd.OutOrStdout(), "Consistency check FAILED\n%s\n", apiErr.Body)
				return errors.New("ledger is inconsistent")
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Consistency check PASSED\n")
			fmt.Fprintf(cmd.OutOrStdout(), "Debits:  %s\nCredits: %s\n", report.TotalDebit, report.TotalCredit)
			return nil
		},
	})

	return ledgerCmd
}

func newReportCmd(opts *options) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports",
	}

	var asOf string
	trialCmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print the trial balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if asOf != "" {
				q.Set("as_of", asOf)
			}

			var tb domain.TrialBalance
			if err := newAPIClient(opts).do(http.MethodGet, "/api/v1/reports/trial-balance", q, nil, nil, &tb); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tb)
		},
	}
	trialCmd.Flags().StringVar(&asOf, "as-of", "", "Report date (YYYY-MM-DD), defaults to today")

	reportCmd.AddCommand(trialCmd)
	return reportCmd
}

func newPayrollCmd(opts *options) *cobra.Command {
	payrollCmd := &cobra.Command{
		Use:   "payroll",
		Short: "Payroll operations",
	}

	now := time.Now()
	var (
		month   int
		year    int
		preview bool
	)
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Process monthly payroll",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.ValidatePeriod(month, year); err != nil {
				return err
			}

			body := map[string]int{"month": month, "year": year}
			client := newAPIClient(opts)

			if preview {
				var p usecase.PayrollPreview
				if err := client.do(http.MethodPost, "/api/v1/payroll/preview", nil, body, nil, &p); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), p)
			}

			// A rerun of the same period replays the first result instead of failing.
			key := fmt.Sprintf("payroll-%04d-%02d", year, month)
			var result usecase.PayrollResult
			if err := client.do(http.MethodPost, "/api/v1/payroll/runs", nil, body, map[string]string{"Idempotency-Key": key}, &result); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	runCmd.Flags().IntVar(&month, "month", int(now.Month()), "Payroll month (1-12)")
	runCmd.Flags().IntVar(&year, "year", now.Year(), "Payroll year")
	runCmd.Flags().BoolVar(&preview, "preview", false, "Compute without persisting")

	payrollCmd.AddCommand(runCmd)
	return payrollCmd
}

func newTaxCmd() *cobra.Command {
	taxCmd := &cobra.Command{
		Use:   "tax",
		Short: "Tax calculations",
	}

	var (
		ptkp, gross string
		month       int
	)
	withholdingCmd := &cobra.Command{
		Use:   "withholding",
		Short: "Compute monthly income tax withholding",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParsePTKPStatus(ptkp)
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(gross)
			if err != nil {
				return fmt.Errorf("invalid gross %q: %w", gross, err)
			}
			if err := domain.ValidateMoney(amount); err != nil {
				return err
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("%w: month %d", domain.ErrInvalidPeriod, month)
			}
			return printJSON(cmd.OutOrStdout(), domain.ComputeWithholdingForMonth(status, amount, month))
		},
	}
	withholdingCmd.Flags().StringVar(&ptkp, "ptkp", "TK/0", "PTKP status, e.g. TK/0 or K/2")
	withholdingCmd.Flags().StringVar(&gross, "gross", "", "Gross monthly salary")
	withholdingCmd.Flags().IntVar(&month, "month", 1, "Payroll month; 12 settles the tax year")
	_ = withholdingCmd.MarkFlagRequired("gross")

	taxCmd.AddCommand(withholdingCmd)
	return taxCmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret   string
		userID   string
		company  string
		role     string
		lifetime time.Duration
	)

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				secret = cfg.JWTSecret
			}
			if secret == "" {
				return errors.New("a signing secret is required (--secret or JWT_SECRET)")
			}

			token, err := auth.NewJWTManager(secret, lifetime).Generate(domain.Actor{
				UserID:    userID,
				CompanyID: company,
				Role:      domain.Role(role),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&secret, "secret", "", "Signing secret, defaults to JWT_SECRET")
	tokenCmd.Flags().StringVar(&userID, "user", "", "User ID")
	tokenCmd.Flags().StringVar(&company, "company", "", "Company ID")
	tokenCmd.Flags().StringVar(&role, "role", string(domain.RoleViewer), "Role")
	tokenCmd.Flags().DurationVar(&lifetime, "ttl", 24*time.Hour, "Token lifetime")

	return tokenCmd
}

// migrator is the slice of postgres.Migrator the migrate commands use.
type migrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
}

var newMigrator = func(log zerolog.Logger) (migrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log), nil
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	withMigrator := func(fn func(cmd *cobra.Command, m migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
			m, err := newMigrator(log)
			if err != nil {
				return err
			}
			return fn(cmd, m)
		}
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withMigrator(func(cmd *cobra.Command, m migrator) error {
				return m.Up()
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: withMigrator(func(cmd *cobra.Command, m migrator) error {
				return m.Down()
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: withMigrator(func(cmd *cobra.Command, m migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %v\n", version, dirty)
				return nil
			}),
		},
	)

	return migrateCmd
}
