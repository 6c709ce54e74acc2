package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

// ReportUseCase derives financial statements from POSTED journal lines.
type ReportUseCase struct {
	reportRepo ReportRepository
	cache      ReportCache
	cacheTTL   time.Duration
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// NewReportUseCase creates a new ReportUseCase. cache may be nil.
func NewReportUseCase(reportRepo ReportRepository, cache ReportCache, cacheTTL time.Duration, logger zerolog.Logger, metrics *metrics.Metrics) *ReportUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultReportCacheTTL
	}
	return &ReportUseCase{
		reportRepo: reportRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
		metrics:    metrics,
	}
}

// LedgerBalances returns per-account balances as of asOf, signed by each
// account's normal side. An empty types slice means all account types.
func (uc *ReportUseCase) LedgerBalances(ctx context.Context, companyID string, asOf time.Time, types []domain.AccountType) ([]domain.AccountBalance, error) {
	for _, t := range types {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAccountType, t)
		}
	}

	typeNames := make([]string, len(types))
	for i, t := range types {
		typeNames[i] = string(t)
	}

	params := dateOf(asOf).Format(time.DateOnly) + ":" + strings.Join(typeNames, ",")
	balances, err := cachedReport(ctx, uc, "balances", companyID, params, func() (*[]domain.AccountBalance, error) {
		b, err := uc.reportRepo.AccountBalances(ctx, companyID, dateOf(asOf), types)
		return &b, err
	})
	if err != nil {
		return nil, err
	}
	return *balances, nil
}

// TrialBalance lists every account's balance as of asOf in debit and credit
// columns. An unbalanced result is returned, not rejected, and logged.
func (uc *ReportUseCase) TrialBalance(ctx context.Context, companyID string, asOf time.Time) (*domain.TrialBalance, error) {
	tb, err := cachedReport(ctx, uc, "trial_balance", companyID, dateOf(asOf).Format(time.DateOnly), func() (*domain.TrialBalance, error) {
		balances, err := uc.reportRepo.AccountBalances(ctx, companyID, dateOf(asOf), nil)
		if err != nil {
			return nil, err
		}
		return domain.BuildTrialBalance(companyID, dateOf(asOf), balances), nil
	})
	if err != nil {
		return nil, err
	}

	if !tb.Balanced {
		uc.logger.Warn().
			Str("company_id", companyID).
			Str("variance", tb.Variance.StringFixed(2)).
			Time("as_of", tb.AsOf).
			Msg("trial balance does not balance")
	}

	return tb, nil
}

// ProfitAndLoss reports revenue, expense and net income. Balances are
// cumulative up to end because periods are never closed.
func (uc *ReportUseCase) ProfitAndLoss(ctx context.Context, companyID string, start, end time.Time) (*domain.ProfitAndLoss, error) {
	if err := domain.ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	params := dateOf(start).Format(time.DateOnly) + ":" + dateOf(end).Format(time.DateOnly)
	return cachedReport(ctx, uc, "profit_and_loss", companyID, params, func() (*domain.ProfitAndLoss, error) {
		balances, err := uc.reportRepo.AccountBalances(ctx, companyID, dateOf(end),
			[]domain.AccountType{domain.AccountTypeRevenue, domain.AccountTypeExpense})
		if err != nil {
			return nil, err
		}
		return domain.BuildProfitAndLoss(companyID, dateOf(start), dateOf(end), balances), nil
	})
}

// BalanceSheet reports assets, liabilities and equity as of asOf.
func (uc *ReportUseCase) BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheet, error) {
	return cachedReport(ctx, uc, "balance_sheet", companyID, dateOf(asOf).Format(time.DateOnly), func() (*domain.BalanceSheet, error) {
		balances, err := uc.reportRepo.AccountBalances(ctx, companyID, dateOf(asOf), nil)
		if err != nil {
			return nil, err
		}
		return domain.BuildBalanceSheet(companyID, dateOf(asOf), balances), nil
	})
}

// CashFlowStatement buckets movements on cash accounts between start and
// end by journal source.
func (uc *ReportUseCase) CashFlowStatement(ctx context.Context, companyID string, start, end time.Time) (*domain.CashFlowStatement, error) {
	if err := domain.ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	params := dateOf(start).Format(time.DateOnly) + ":" + dateOf(end).Format(time.DateOnly)
	return cachedReport(ctx, uc, "cash_flow", companyID, params, func() (*domain.CashFlowStatement, error) {
		opening, err := uc.reportRepo.CashBalance(ctx, companyID, dateOf(start))
		if err != nil {
			return nil, err
		}
		movements, err := uc.reportRepo.CashMovements(ctx, companyID, dateOf(start), dateOf(end))
		if err != nil {
			return nil, err
		}
		return domain.BuildCashFlow(companyID, dateOf(start), dateOf(end), opening, movements), nil
	})
}

// cachedReport serves a report from the cache when the company's ledger
// generation is unchanged, and builds and stores it otherwise. Cache
// failures fall through to build.
func cachedReport[T any](ctx context.Context, uc *ReportUseCase, report, companyID, params string, build func() (*T, error)) (*T, error) {
	start := time.Now()
	defer func() {
		if uc.metrics != nil {
			uc.metrics.ReportDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
		}
	}()

	if uc.cache == nil {
		return build()
	}

	log := uc.logger.With().Str("report", report).Str("company_id", companyID).Logger()

	gen, err := uc.cache.Generation(ctx, companyID)
	if err != nil {
		log.Warn().Err(err).Msg("report cache generation lookup failed")
		uc.countCache("error")
		return build()
	}

	key := fmt.Sprintf("report:%s:%d:%s:%s", companyID, gen, report, params)

	data, err := uc.cache.Get(ctx, key)
	switch {
	case err == nil:
		var out T
		if jsonErr := json.Unmarshal(data, &out); jsonErr == nil {
			uc.countCache("hit")
			return &out, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cached report")
	case errors.Is(err, ErrCacheMiss):
	default:
		log.Warn().Err(err).Msg("report cache read failed")
	}
	uc.countCache("miss")

	out, err := build()
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(out)
	if err == nil {
		err = uc.cache.Set(ctx, key, data, uc.cacheTTL)
	}
	if err != nil {
		log.Warn().Err(err).Msg("report cache write failed")
	}

	return out, nil
}

func (uc *ReportUseCase) countCache(result string) {
	if uc.metrics != nil {
		uc.metrics.ReportCache.WithLabelValues(result).Inc()
	}
}

// dateOf truncates t to its UTC calendar date. Journal dates carry no time
// of day, so date bounds are inclusive.
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
