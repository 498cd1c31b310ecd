package process

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/latticelabs/kinetic/pkg/lattice"
)

// ErrSiteNotFound is returned when removing a site the process does not
// currently list.
var ErrSiteNotFound = errors.New("site not listed on process")

// Process is one elementary event: an immutable local pattern, a rate
// constant, the lattice basis sites the pattern applies at, and the
// mutable set of site indices the pattern currently matches.
//
// A process built with NewCustomRate carries an explicit rate per
// matched site and its total rate is the sum of those rates. A plain
// process contributes nSites * rateConstant.
type Process struct {
	matchList    []lattice.MatchListEntry
	rateConstant float64
	basisSites   []int
	idMoves      [][2]int

	customRates    bool
	sites          []int
	siteRates      []float64
	multiplicities []float64
}

// New creates a plain process. The pattern entries are copied and
// sorted by distance from the origin; entry 0 is always the origin.
func New(entries []lattice.MatchListEntry, rateConstant float64, basisSites []int) *Process {
	return &Process{
		matchList:    sortedPattern(entries),
		rateConstant: rateConstant,
		basisSites:   append([]int(nil), basisSites...),
	}
}

// NewCustomRate creates a process whose per-site rates are supplied
// when sites are added, overriding the nSites * rateConstant total.
func NewCustomRate(entries []lattice.MatchListEntry, rateConstant float64, basisSites []int) *Process {
	p := New(entries, rateConstant, basisSites)
	p.customRates = true
	return p
}

func sortedPattern(entries []lattice.MatchListEntry) []lattice.MatchListEntry {
	pattern := append([]lattice.MatchListEntry(nil), entries...)
	lattice.SortMatchList(pattern)
	return pattern
}

// RateConstant returns the base rate constant.
func (p *Process) RateConstant() float64 { return p.rateConstant }

// CustomRates reports whether the process carries per-site rates.
func (p *Process) CustomRates() bool { return p.customRates }

// NSites returns the number of sites the process currently matches.
func (p *Process) NSites() int { return len(p.sites) }

// Sites returns the indices of the currently matched sites.
func (p *Process) Sites() []int { return p.sites }

// MatchList returns the pattern entries. The engine may extend the
// pattern with implicit wildcards through SetMatchList.
func (p *Process) MatchList() []lattice.MatchListEntry { return p.matchList }

// SetMatchList replaces the pattern entries.
func (p *Process) SetMatchList(entries []lattice.MatchListEntry) { p.matchList = entries }

// BasisSites returns the basis-site indices the process applies at.
func (p *Process) BasisSites() []int { return p.basisSites }

// IDMoves returns the pairs of pattern indices that swap identities
// when the process fires.
func (p *Process) IDMoves() [][2]int { return p.idMoves }

// SetIDMoves replaces the id-move pairs. The engine rewrites them when
// wildcard insertion shifts pattern indices.
func (p *Process) SetIDMoves(moves [][2]int) { p.idMoves = moves }

// AddSite marks the process applicable at the given site index. On a
// custom-rate process the site gets the rate constant as its rate and a
// multiplicity of one.
func (p *Process) AddSite(index int) {
	p.AddSiteWithRate(index, p.rateConstant, 1.0)
}

// AddSiteWithRate marks the process applicable at the given site index
// with an explicit rate and multiplicity. The rate and multiplicity are
// retained only on custom-rate processes.
func (p *Process) AddSiteWithRate(index int, rate, multiplicity float64) {
	p.sites = append(p.sites, index)
	if p.customRates {
		p.siteRates = append(p.siteRates, rate)
		p.multiplicities = append(p.multiplicities, multiplicity)
	}
}

// RemoveSite drops the given site index. The last site takes its slot,
// so ordering of the site list is not preserved.
func (p *Process) RemoveSite(index int) error {
	for i, s := range p.sites {
		if s != index {
			continue
		}
		last := len(p.sites) - 1
		p.sites[i] = p.sites[last]
		p.sites = p.sites[:last]
		if p.customRates {
			p.siteRates[i] = p.siteRates[last]
			p.siteRates = p.siteRates[:last]
			p.multiplicities[i] = p.multiplicities[last]
			p.multiplicities = p.multiplicities[:last]
		}
		return nil
	}
	return errors.Wrapf(ErrSiteNotFound, "site %d", index)
}

// SiteRates returns the per-site rates of a custom-rate process, in the
// same order as Sites. Nil on plain processes.
func (p *Process) SiteRates() []float64 { return p.siteRates }

// SiteMultiplicities returns the per-site multiplicities of a
// custom-rate process, in the same order as Sites. Nil on plain
// processes.
func (p *Process) SiteMultiplicities() []float64 { return p.multiplicities }

// TotalRate returns the process's contribution to the system rate: the
// sum of the per-site rates on a custom-rate process, otherwise
// nSites * rateConstant.
func (p *Process) TotalRate() float64 {
	if !p.customRates {
		return float64(len(p.sites)) * p.rateConstant
	}
	total := 0.0
	for _, r := range p.siteRates {
		total += r
	}
	return total
}

// PickSite selects one of the matched sites: uniformly on a plain
// process, proportionally to the per-site rates on a custom-rate
// process. The process must have at least one site.
func (p *Process) PickSite(rng *rand.Rand) int {
	if !p.customRates {
		return p.sites[rng.Intn(len(p.sites))]
	}

	target := rng.Float64() * p.TotalRate()
	accum := 0.0
	for i, r := range p.siteRates {
		accum += r
		if accum >= target && r > 0 {
			return p.sites[i]
		}
	}
	// Guard against accumulated floating point drift.
	return p.sites[len(p.sites)-1]
}

// ClearSites removes all matched sites and their rates.
func (p *Process) ClearSites() {
	p.sites = nil
	p.siteRates = nil
	p.multiplicities = nil
}
