package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Journal metrics
	JournalsPosted  *prometheus.CounterVec
	JournalsVoided  prometheus.Counter
	JournalErrors   *prometheus.CounterVec
	JournalDuration prometheus.Histogram

	// Payroll metrics
	PayrollRuns      *prometheus.CounterVec
	PayrollEmployees prometheus.Counter
	PayrollDuration  prometheus.Histogram
	PayrollGross     prometheus.Counter

	// Approval metrics
	ApprovalActions *prometheus.CounterVec

	// Report metrics
	ReportDuration *prometheus.HistogramVec
	ReportCache    *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Audit metrics
	AuditLogs *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		JournalsPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_journals_posted_total",
				Help: "Total number of journal entries posted, by source",
			},
			[]string{"source"},
		),
		JournalsVoided: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_journals_voided_total",
			Help: "Total number of journal entries voided",
		}),
		JournalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_journal_errors_total",
				Help: "Total number of rejected journal operations by error type",
			},
			[]string{"error_type"},
		),
		JournalDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobooks_journal_duration_seconds",
			Help:    "Duration of journal posting transactions",
			Buckets: prometheus.DefBuckets,
		}),

		PayrollRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_payroll_runs_total",
				Help: "Total payroll runs by outcome",
			},
			[]string{"status"},
		),
		PayrollEmployees: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_payroll_employees_total",
			Help: "Total payroll slips produced",
		}),
		PayrollDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobooks_payroll_duration_seconds",
			Help:    "Duration of payroll batch processing",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		PayrollGross: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_payroll_gross_total",
			Help: "Sum of gross salary processed",
		}),

		ApprovalActions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_approval_actions_total",
				Help: "Approval workflow actions by action and resource type",
			},
			[]string{"action", "resource_type"},
		),

		ReportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobooks_report_duration_seconds",
				Help:    "Duration of report generation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"report"},
		),
		ReportCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_report_cache_total",
				Help: "Report cache lookups by result",
			},
			[]string{"result"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),

		AuditLogs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_audit_logs_total",
				Help: "Total audit logs written by action and status",
			},
			[]string{"action", "status"},
		),
	}
}
