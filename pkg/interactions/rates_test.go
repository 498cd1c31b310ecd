package interactions

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticelabs/kinetic/pkg/lattice"
	"github.com/latticelabs/kinetic/pkg/process"
	"github.com/latticelabs/kinetic/pkg/rate"
)

// countingCalculator doubles the rate constant and counts callback
// invocations so tests can observe cache behavior.
type countingCalculator struct {
	calls    *int
	cache    bool
	excluded []int
}

var _ rate.Calculator = countingCalculator{}

func (c countingCalculator) Rate(_ []float64, _, _ []string, rateConstant float64, _ int, _ lattice.Coordinate) float64 {
	if c.calls != nil {
		*c.calls++
	}
	return 2 * rateConstant
}

func (c countingCalculator) BucketRate(_ []float64, _, _ []lattice.TypeBucket, _ []string, rateConstant float64, _ int, _ lattice.Coordinate) float64 {
	if c.calls != nil {
		*c.calls++
	}
	return 2 * rateConstant
}

func (c countingCalculator) Cutoff() float64 { return 1.0 }

func (c countingCalculator) CacheRates() bool { return c.cache }

func (c countingCalculator) ExcludeFromCaching() []int { return c.excluded }

func twoCustomProcesses() []*process.Process {
	return []*process.Process{
		process.NewCustomRate(originPattern(), 3.0, []int{0}),
		process.NewCustomRate(originPattern(), 5.0, []int{0}),
	}
}

func TestSiteRateCaching(t *testing.T) {
	calls := 0
	calc := countingCalculator{calls: &calls, cache: true}
	n := NewWithCustomRates(twoCustomProcesses(), false, calc, rand.New(rand.NewSource(1)))

	types := []string{"A", "B"}
	after := []string{"B", "A"}

	v := n.SiteRate(100, 0, nil, types, after, lattice.Coordinate{})
	assert.Equal(t, 6.0, v)
	assert.Equal(t, 1, calls)

	// Same key hits the table; the callback is not consulted again.
	v = n.SiteRate(100, 0, nil, types, after, lattice.Coordinate{})
	assert.Equal(t, 6.0, v)
	assert.Equal(t, 1, calls)

	// A new environment key evaluates again.
	v = n.SiteRate(101, 1, nil, types, after, lattice.Coordinate{})
	assert.Equal(t, 10.0, v)
	assert.Equal(t, 2, calls)
}

func TestSiteRateCachingDisabled(t *testing.T) {
	calls := 0
	calc := countingCalculator{calls: &calls, cache: false}
	n := NewWithCustomRates(twoCustomProcesses(), false, calc, rand.New(rand.NewSource(1)))

	n.SiteRate(100, 0, nil, nil, nil, lattice.Coordinate{})
	n.SiteRate(100, 0, nil, nil, nil, lattice.Coordinate{})
	assert.Equal(t, 2, calls)
}

func TestSiteRateExcludedProcess(t *testing.T) {
	calls := 0
	calc := countingCalculator{calls: &calls, cache: true, excluded: []int{1}}
	n := NewWithCustomRates(twoCustomProcesses(), false, calc, rand.New(rand.NewSource(1)))

	// Process 1 bypasses the table even with caching enabled.
	n.SiteRate(200, 1, nil, nil, nil, lattice.Coordinate{})
	n.SiteRate(200, 1, nil, nil, nil, lattice.Coordinate{})
	assert.Equal(t, 2, calls)

	// Process 0 still caches.
	n.SiteRate(201, 0, nil, nil, nil, lattice.Coordinate{})
	n.SiteRate(201, 0, nil, nil, nil, lattice.Coordinate{})
	assert.Equal(t, 3, calls)
}

func TestBucketSiteRateCaching(t *testing.T) {
	calls := 0
	calc := countingCalculator{calls: &calls, cache: true}
	n := NewWithCustomRates(twoCustomProcesses(), false, calc, rand.New(rand.NewSource(1)))

	occ := []lattice.TypeBucket{lattice.NewOneHot(2, 0)}
	key := rate.BucketFingerprint(0, occ)

	v := n.BucketSiteRate(key, 0, nil, occ, nil, []string{"A", "B"}, lattice.Coordinate{})
	assert.Equal(t, 6.0, v)
	require.Equal(t, 1, calls)

	v = n.BucketSiteRate(key, 0, nil, occ, nil, []string{"A", "B"}, lattice.Coordinate{})
	assert.Equal(t, 6.0, v)
	assert.Equal(t, 1, calls)
}

func TestSiteRateWithoutCalculator(t *testing.T) {
	procs := []*process.Process{process.New(originPattern(), 3.5, []int{0})}
	n := New(procs, false, rand.New(rand.NewSource(1)))

	assert.Equal(t, 3.5, n.SiteRate(1, 0, nil, nil, nil, lattice.Coordinate{}))
	assert.Equal(t, 3.5, n.BucketSiteRate(1, 0, nil, nil, nil, nil, lattice.Coordinate{}))
}
