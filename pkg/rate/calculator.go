package rate

import "github.com/latticelabs/kinetic/pkg/lattice"

// Calculator computes the rate of one process firing at one site from
// the local environment around that site. Hosts supply an
// implementation to get environment-dependent kinetics; the
// DefaultCalculator leaves every rate constant unchanged.
type Calculator interface {
	// Rate is the string-typed callback. coords holds the local
	// geometry as 3*n packed values relative to the central site, and
	// typesBefore/typesAfter name the species at each of the n
	// positions before and after the event. global is the central
	// site's position on the lattice.
	Rate(coords []float64, typesBefore, typesAfter []string, rateConstant float64, processID int, global lattice.Coordinate) float64

	// BucketRate is the bucket-typed callback used by multi-occupation
	// models: occupation and update carry per-species counts for each
	// local position, and typeMap names the species slots.
	BucketRate(coords []float64, occupation, update []lattice.TypeBucket, typeMap []string, rateConstant float64, processID int, global lattice.Coordinate) float64

	// Cutoff is the interaction radius the host must enumerate
	// neighborhoods out to when building the local environment.
	Cutoff() float64

	// CacheRates enables the rate table in front of the callbacks.
	CacheRates() bool

	// ExcludeFromCaching lists process ids whose rates bypass the
	// table even when caching is enabled.
	ExcludeFromCaching() []int
}

// DefaultCalculator returns every rate constant unmodified and disables
// caching.
type DefaultCalculator struct{}

var _ Calculator = DefaultCalculator{}

func (DefaultCalculator) Rate(_ []float64, _, _ []string, rateConstant float64, _ int, _ lattice.Coordinate) float64 {
	return rateConstant
}

func (DefaultCalculator) BucketRate(_ []float64, _, _ []lattice.TypeBucket, _ []string, rateConstant float64, _ int, _ lattice.Coordinate) float64 {
	return rateConstant
}

func (DefaultCalculator) Cutoff() float64 { return 1.0 }

func (DefaultCalculator) CacheRates() bool { return false }

func (DefaultCalculator) ExcludeFromCaching() []int { return nil }
