package process

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticelabs/kinetic/pkg/lattice"
)

func testPattern() []lattice.MatchListEntry {
	return []lattice.MatchListEntry{
		{Coordinate: lattice.Coordinate{X: -1}, MatchType: 3, Index: -1},
		{Coordinate: lattice.Coordinate{}, MatchType: 1, Index: -1},
		{Coordinate: lattice.Coordinate{X: 0.3, Y: 0.3, Z: 0.3}, MatchType: 2, Index: -1},
	}
}

func TestNewSortsPattern(t *testing.T) {
	p := New(testPattern(), 13.7, []int{0})

	pattern := p.MatchList()
	require.Len(t, pattern, 3)
	assert.True(t, pattern[0].Coordinate.CloseTo(lattice.Coordinate{}))
	assert.True(t, pattern[1].Coordinate.CloseTo(lattice.Coordinate{X: 0.3, Y: 0.3, Z: 0.3}))
	assert.True(t, pattern[2].Coordinate.CloseTo(lattice.Coordinate{X: -1}))

	assert.Equal(t, 13.7, p.RateConstant())
	assert.Equal(t, []int{0}, p.BasisSites())
	assert.False(t, p.CustomRates())
	assert.Equal(t, 0, p.NSites())
}

func TestPlainTotalRate(t *testing.T) {
	p := New(testPattern(), 0.5, []int{0})
	p.AddSite(12)
	p.AddSite(123)
	p.AddSite(332)

	assert.Equal(t, 3, p.NSites())
	assert.InDelta(t, 1.5, p.TotalRate(), 1e-14)
	assert.Nil(t, p.SiteRates())
}

func TestCustomTotalRate(t *testing.T) {
	p := NewCustomRate(testPattern(), 0.5, []int{0})
	p.AddSiteWithRate(12, 4.0, 1.0)
	p.AddSiteWithRate(123, 7.0, 1.0)
	p.AddSiteWithRate(332, 1.0, 1.0)

	assert.Equal(t, 3, p.NSites())
	assert.InDelta(t, 12.0, p.TotalRate(), 1e-14)
	assert.Equal(t, []float64{4.0, 7.0, 1.0}, p.SiteRates())
	assert.Equal(t, []float64{1.0, 1.0, 1.0}, p.SiteMultiplicities())
}

func TestAddSiteOnCustomUsesRateConstant(t *testing.T) {
	p := NewCustomRate(testPattern(), 2.5, []int{0})
	p.AddSite(7)

	assert.Equal(t, []float64{2.5}, p.SiteRates())
	assert.InDelta(t, 2.5, p.TotalRate(), 1e-14)
}

func TestRemoveSite(t *testing.T) {
	p := NewCustomRate(testPattern(), 1.0, []int{0})
	p.AddSiteWithRate(10, 1.0, 1.0)
	p.AddSiteWithRate(20, 2.0, 1.0)
	p.AddSiteWithRate(30, 3.0, 1.0)

	require.NoError(t, p.RemoveSite(10))

	// Swap-remove: the last site takes the vacated slot.
	assert.Equal(t, []int{30, 20}, p.Sites())
	assert.Equal(t, []float64{3.0, 2.0}, p.SiteRates())
	assert.InDelta(t, 5.0, p.TotalRate(), 1e-14)

	err := p.RemoveSite(10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSiteNotFound)
}

func TestRemoveThenReAdd(t *testing.T) {
	p := NewCustomRate(testPattern(), 1.0, []int{0})
	p.AddSiteWithRate(992, 12.0, 1.0)

	require.NoError(t, p.RemoveSite(992))
	p.AddSiteWithRate(992, 24.0, 1.0)

	assert.Equal(t, 1, p.NSites())
	assert.InDelta(t, 24.0, p.TotalRate(), 1e-14)
}

func TestPickSiteUniform(t *testing.T) {
	p := New(testPattern(), 1.0, []int{0})
	p.AddSite(5)
	p.AddSite(6)
	p.AddSite(7)

	rng := rand.New(rand.NewSource(41))
	counts := map[int]int{}
	const n = 30000
	for i := 0; i < n; i++ {
		counts[p.PickSite(rng)]++
	}

	for _, site := range []int{5, 6, 7} {
		assert.InDelta(t, 1.0/3.0, float64(counts[site])/n, 1e-2)
	}
}

func TestPickSiteWeighted(t *testing.T) {
	p := NewCustomRate(testPattern(), 1.0, []int{0})
	p.AddSiteWithRate(1, 0.0, 1.0)
	p.AddSiteWithRate(2, 3.0, 1.0)
	p.AddSiteWithRate(3, 1.0, 1.0)

	rng := rand.New(rand.NewSource(41))
	counts := map[int]int{}
	const n = 40000
	for i := 0; i < n; i++ {
		counts[p.PickSite(rng)]++
	}

	assert.Zero(t, counts[1])
	assert.InDelta(t, 0.75, float64(counts[2])/n, 1e-2)
	assert.InDelta(t, 0.25, float64(counts[3])/n, 1e-2)
}

func TestClearSites(t *testing.T) {
	p := NewCustomRate(testPattern(), 1.0, []int{0})
	p.AddSiteWithRate(1, 2.0, 1.0)
	p.AddSiteWithRate(2, 3.0, 1.0)

	p.ClearSites()

	assert.Equal(t, 0, p.NSites())
	assert.Zero(t, p.TotalRate())
}

func TestSetMatchListAndIDMoves(t *testing.T) {
	p := New(testPattern(), 1.0, []int{0})
	p.SetIDMoves([][2]int{{0, 2}, {2, 0}})

	assert.Equal(t, [][2]int{{0, 2}, {2, 0}}, p.IDMoves())

	extended := append(p.MatchList(), lattice.MatchListEntry{Coordinate: lattice.Coordinate{X: 2}})
	p.SetMatchList(extended)
	assert.Len(t, p.MatchList(), 4)
}
