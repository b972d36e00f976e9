package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "company_backend"

const (
	LabelOperation = "operation"
	LabelOutcome   = "outcome"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var OperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:      "operation_duration_seconds",
		Help:      "Duration of guarded service operations",
		Namespace: Namespace,
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	},
	[]string{LabelOperation, LabelOutcome},
)

var SlowOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      "slow_operations_total",
		Help:      "Guarded operations slower than the configured threshold",
		Namespace: Namespace,
	},
	[]string{LabelOperation},
)

var Problems = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      "problems_total",
		Help:      "Problem documents rendered, by error code",
		Namespace: Namespace,
	},
	[]string{"code"},
)
