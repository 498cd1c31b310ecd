package interactions

import (
	"math/rand"
	"sort"

	"github.com/go-kit/log/level"

	"github.com/latticelabs/kinetic/pkg/lattice"
	"github.com/latticelabs/kinetic/pkg/process"
	"github.com/latticelabs/kinetic/pkg/rate"
	"github.com/latticelabs/kinetic/pkg/util/log"
)

// Configuration is the surface the engine needs from the host's site
// configuration: the longest neighborhood enumeration around a basis
// position, sorted by the shared match-list ordering.
type Configuration interface {
	MinimalMatchList(basisPosition int) []lattice.MatchListEntry
}

// ProbabilityEntry is one row of the cumulative rate table.
type ProbabilityEntry struct {
	// AccumulatedRate is the sum of this process's total rate and every
	// earlier process's. The last row holds the system total.
	AccumulatedRate float64

	// NSites is the process's applicable-site count at the time of the
	// last table update; rows with zero sites are skipped by the picker.
	NSites int
}

// Interactions owns the process registry and implements process
// selection: it keeps the cumulative-rate table over all processes and
// picks the next event to fire with probability proportional to each
// process's share of the total rate.
type Interactions struct {
	processes         []*process.Process
	probabilityTable  []ProbabilityEntry
	implicitWildcards bool
	useCustomRates    bool

	calculator rate.Calculator
	rateTable  *rate.Table
	excluded   map[int]struct{}

	rng *rand.Rand
}

// New creates the engine for processes whose site rates are their rate
// constants. The RNG is the engine's only source of randomness; two
// engines built over the same processes with identically seeded RNGs
// produce identical pick sequences.
func New(processes []*process.Process, implicitWildcards bool, rng *rand.Rand) *Interactions {
	return &Interactions{
		processes:         processes,
		probabilityTable:  make([]ProbabilityEntry, len(processes)),
		implicitWildcards: implicitWildcards,
		rng:               rng,
	}
}

// NewWithCustomRates creates the engine with per-site rates evaluated
// through calc and cached in a rate table when the calculator asks for
// it.
func NewWithCustomRates(processes []*process.Process, implicitWildcards bool, calc rate.Calculator, rng *rand.Rand) *Interactions {
	n := New(processes, implicitWildcards, rng)
	n.useCustomRates = true
	n.calculator = calc
	n.rateTable = rate.NewTable()
	n.excluded = make(map[int]struct{})
	for _, id := range calc.ExcludeFromCaching() {
		n.excluded[id] = struct{}{}
	}
	return n
}

// UseCustomRates reports whether per-site rates are in use.
func (n *Interactions) UseCustomRates() bool { return n.useCustomRates }

// Processes returns the process registry. The slice index is the
// process id used everywhere else.
func (n *Interactions) Processes() []*process.Process { return n.processes }

// Process returns the process with the given id.
func (n *Interactions) Process(id int) *process.Process { return n.processes[id] }

// RateCalculator returns the attached calculator, nil without custom
// rates.
func (n *Interactions) RateCalculator() rate.Calculator { return n.calculator }

// MaxRange returns the largest integer shell radius needed to cover
// every process's pattern, never less than one. An entry at -1.5 on an
// axis needs two shells outward, so negative values round away from
// zero while positive values truncate; the 0.99999 offset keeps exact
// integers from counting an extra shell.
func (n *Interactions) MaxRange() int {
	maxRange := 1
	for _, p := range n.processes {
		for _, entry := range p.MatchList() {
			for _, c := range []float64{entry.Coordinate.X, entry.Coordinate.Y, entry.Coordinate.Z} {
				maxRange = max(maxRange, shellRange(c))
			}
		}
	}
	return maxRange
}

func shellRange(c float64) int {
	if c < 0 {
		return int(-c + 0.99999)
	}
	return int(c)
}

// TotalAvailableSites returns the applicable-site count summed over all
// processes.
func (n *Interactions) TotalAvailableSites() int {
	sum := 0
	for _, p := range n.processes {
		sum += p.NSites()
	}
	return sum
}

// ProbabilityTable returns the cumulative rate table as of the last
// UpdateProbabilityTable call.
func (n *Interactions) ProbabilityTable() []ProbabilityEntry { return n.probabilityTable }

// TotalRate returns the total rate of the system as of the last
// UpdateProbabilityTable call.
func (n *Interactions) TotalRate() float64 {
	if len(n.probabilityTable) == 0 {
		return 0
	}
	return n.probabilityTable[len(n.probabilityTable)-1].AccumulatedRate
}

// UpdateProbabilityTable recomputes the cumulative rate table from the
// current applicable-site counts and rates. It must run after any site
// or rate mutation and before the next pick.
func (n *Interactions) UpdateProbabilityTable() {
	accum := 0.0
	for k, p := range n.processes {
		total := p.TotalRate()
		n.probabilityTable[k] = ProbabilityEntry{
			AccumulatedRate: accum + total,
			NSites:          p.NSites(),
		}
		accum += total
	}
	metricTotalRate.Set(accum)
}

// PickProcessIndex draws one process id with probability proportional
// to its share of the total rate. The caller must ensure the total rate
// is positive. Ties at rate boundaries resolve to the lowest-indexed
// process with at least one site.
//
// This is the O(N)-table SSA; the table sweep dominates and an O(logN)
// grouped or O(1) composition-rejection scheme is a known upgrade path,
// but re-matching after an event is what actually bounds scaling in the
// number of processes.
func (n *Interactions) PickProcessIndex() int {
	target := n.rng.Float64() * n.TotalRate()

	// First row whose accumulated rate reaches the target, then past
	// any zero-site rows sharing that accumulated rate.
	k := sort.Search(len(n.probabilityTable), func(i int) bool {
		return n.probabilityTable[i].AccumulatedRate >= target
	})
	for k < len(n.probabilityTable) && n.probabilityTable[k].NSites == 0 {
		k++
	}

	metricPicks.Inc()
	return k
}

// PickProcess draws one process with probability proportional to its
// share of the total rate.
func (n *Interactions) PickProcess() *process.Process {
	return n.processes[n.PickProcessIndex()]
}

// ClearMatching removes every applicable site from every process. The
// probability table is left untouched; callers must run
// UpdateProbabilityTable before the next pick.
func (n *Interactions) ClearMatching() {
	for _, p := range n.processes {
		p.ClearSites()
	}
}

// UpdateProcessMatchLists aligns each process pattern with the
// configuration's neighborhood enumeration by inserting implicit
// wildcard entries at the positions the pattern does not mention. A
// no-op unless the engine was built with implicit wildcards. Only
// processes applicable at exactly one basis site can be specialized to
// that site's neighborhood; the rest are left unchanged.
func (n *Interactions) UpdateProcessMatchLists(cfg Configuration) {
	if !n.implicitWildcards {
		return
	}

	for id, p := range n.processes {
		if len(p.BasisSites()) != 1 {
			continue
		}

		configList := cfg.MinimalMatchList(p.BasisSites()[0])
		pattern := p.MatchList()

		// Walk both sorted lists in lockstep. Every configuration
		// position the pattern skips becomes a wildcard entry, so the
		// merged pattern indexes positionally into the configuration
		// list. The walk ends with the pattern; trailing configuration
		// entries are not appended.
		merged := make([]lattice.MatchListEntry, 0, len(configList))
		remap := make([]int, len(pattern))
		pi := 0
		for ci := 0; ci < len(configList) && pi < len(pattern); ci++ {
			if pattern[pi].SamePosition(configList[ci]) {
				remap[pi] = len(merged)
				merged = append(merged, pattern[pi])
				pi++
			} else {
				merged = append(merged, configList[ci].AsWildcard())
			}
		}
		for ; pi < len(pattern); pi++ {
			remap[pi] = len(merged)
			merged = append(merged, pattern[pi])
		}

		if len(merged) == len(pattern) {
			continue
		}

		// Insertions shifted pattern indices; id-move pairs keep
		// referencing the entries they named before the merge.
		if moves := p.IDMoves(); len(moves) > 0 {
			shifted := make([][2]int, len(moves))
			for m, mv := range moves {
				shifted[m] = [2]int{remap[mv[0]], remap[mv[1]]}
			}
			p.SetIDMoves(shifted)
		}

		level.Debug(log.Logger).Log(
			"msg", "extended process match list with implicit wildcards",
			"process", id,
			"pattern", len(pattern),
			"extended", len(merged),
		)
		p.SetMatchList(merged)
	}
}
