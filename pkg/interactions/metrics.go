package interactions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricPicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kinetic",
		Name:      "process_picks_total",
		Help:      "Total number of processes picked.",
	})

	metricTotalRate = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "kinetic",
		Name:      "total_rate",
		Help:      "Total rate of the system at the last probability table update.",
	})

	metricRateCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kinetic",
		Name:      "rate_cache_hits_total",
		Help:      "Custom rate lookups answered from the rate table.",
	})

	metricRateCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kinetic",
		Name:      "rate_cache_misses_total",
		Help:      "Custom rate lookups that missed the rate table.",
	})

	metricRateEvaluations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kinetic",
		Name:      "rate_evaluations_total",
		Help:      "Calls into the rate calculator.",
	})
)
