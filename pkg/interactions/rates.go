package interactions

import "github.com/latticelabs/kinetic/pkg/lattice"

// SiteRate evaluates one process's rate at one site through the
// string-typed calculator callback, consulting the rate table when the
// calculator allows it. key is the host's fingerprint of the local
// environment and is treated as opaque. Without a calculator the rate
// constant is returned unchanged.
func (n *Interactions) SiteRate(key uint64, processID int, coords []float64, typesBefore, typesAfter []string, global lattice.Coordinate) float64 {
	rateConstant := n.processes[processID].RateConstant()
	if n.calculator == nil {
		return rateConstant
	}
	return n.cachedRate(key, processID, func() float64 {
		return n.calculator.Rate(coords, typesBefore, typesAfter, rateConstant, processID, global)
	})
}

// BucketSiteRate is SiteRate through the bucket-typed callback.
func (n *Interactions) BucketSiteRate(key uint64, processID int, coords []float64, occupation, update []lattice.TypeBucket, typeMap []string, global lattice.Coordinate) float64 {
	rateConstant := n.processes[processID].RateConstant()
	if n.calculator == nil {
		return rateConstant
	}
	return n.cachedRate(key, processID, func() float64 {
		return n.calculator.BucketRate(coords, occupation, update, typeMap, rateConstant, processID, global)
	})
}

func (n *Interactions) cachedRate(key uint64, processID int, compute func() float64) float64 {
	if !n.calculator.CacheRates() {
		metricRateEvaluations.Inc()
		return compute()
	}
	if _, skip := n.excluded[processID]; skip {
		metricRateEvaluations.Inc()
		return compute()
	}

	if n.rateTable.Stored(key) != -1 {
		if v, err := n.rateTable.Retrieve(key); err == nil {
			metricRateCacheHits.Inc()
			return v
		}
	}

	metricRateCacheMisses.Inc()
	metricRateEvaluations.Inc()
	v := compute()
	n.rateTable.Store(key, v)
	return v
}
