package aggregate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dependentFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "dependent_fetches_total",
			Help:      "Dependent fetches issued after key deduplication.",
		},
		[]string{"aggregation"},
	)

	dependentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "dependent_fetch_failures_total",
			Help:      "Dependent fetches that failed and were omitted from the result.",
		},
		[]string{"aggregation"},
	)
)
