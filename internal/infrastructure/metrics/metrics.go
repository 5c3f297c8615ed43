package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/okri/splitbook/internal/domain"
)

// Metrics holds the service's Prometheus metrics.
type Metrics struct {
	TransactionsRecorded *prometheus.CounterVec
	TransactionsUpdated  prometheus.Counter
	TransactionsDeleted  prometheus.Counter

	TransfersCompleted prometheus.Counter
	TransferDuration   prometheus.Histogram
	TransferAmount     prometheus.Histogram

	AccountsCreated prometheus.Counter
	AccountsShared  *prometheus.CounterVec

	ScopesAborted *prometheus.CounterVec
	AccessDenied  *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TransactionsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitbook_transactions_recorded_total",
				Help: "Total number of transactions recorded by type",
			},
			[]string{"type"},
		),
		TransactionsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitbook_transactions_updated_total",
			Help: "Total number of transaction updates",
		}),
		TransactionsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitbook_transactions_deleted_total",
			Help: "Total number of transaction deletions",
		}),

		TransfersCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitbook_transfers_completed_total",
			Help: "Total number of completed transfers",
		}),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitbook_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitbook_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitbook_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountsShared: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitbook_accounts_shared_total",
				Help: "Total share operations by kind",
			},
			[]string{"operation"},
		),

		ScopesAborted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitbook_scopes_aborted_total",
				Help: "Total number of aborted atomic scopes by operation",
			},
			[]string{"operation"},
		),
		AccessDenied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitbook_access_denied_total",
				Help: "Total number of capability check failures by operation",
			},
			[]string{"operation"},
		),
	}
}

// RecordError counts aborted scopes and capability failures for the given
// operation. Other errors are client mistakes and stay out of the
// error-budget metrics.
func (m *Metrics) RecordError(operation string, err error) {
	switch {
	case errors.Is(err, domain.ErrScopeAborted):
		m.ScopesAborted.WithLabelValues(operation).Inc()
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrAccountNotFound):
		m.AccessDenied.WithLabelValues(operation).Inc()
	}
}
