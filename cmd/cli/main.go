package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	baseURL string
	timeout time.Duration
	token   string
	userID  string
	company string
	role    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "gobooks-cli",
		Short:         "GoBooks CLI tool",
		Long:          `A command line interface for operating a GoBooks deployment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the GoBooks API")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	flags.StringVar(&opts.token, "token", os.Getenv("GOBOOKS_TOKEN"), "Bearer token; actor headers are sent when empty")
	flags.StringVar(&opts.userID, "user", "cli", "Actor user ID for header authentication")
	flags.StringVar(&opts.company, "company", "", "Actor company ID for header authentication")
	flags.StringVar(&opts.role, "role", "SYSTEM", "Actor role for header authentication")

	rootCmd.AddCommand(
		newLedgerCmd(opts),
		newReportCmd(opts),
		newPayrollCmd(opts),
		newTaxCmd(),
		newTokenCmd(),
		newMigrateCmd(),
	)

	return rootCmd
}
