package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// PayrollTransactionTimeout bounds a whole payroll batch, which writes
	// one slip per employee inside a single transaction.
	PayrollTransactionTimeout = 60 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultReportCacheTTL is how long a rendered report is served from cache.
	DefaultReportCacheTTL = 5 * time.Minute
)
