// kinetic-sim runs a kinetic Monte Carlo simulation of a periodic 1D
// Ising spin ring using the interactions engine with custom cached
// rates: process 0 flips up spins down, process 1 flips down spins up,
// and the flip rates follow the nearest-neighbour spin configuration.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/latticelabs/kinetic/pkg/interactions"
	"github.com/latticelabs/kinetic/pkg/lattice"
	"github.com/latticelabs/kinetic/pkg/process"
	"github.com/latticelabs/kinetic/pkg/rate"
	"github.com/latticelabs/kinetic/pkg/util/log"
)

var (
	configFile  string
	ringSize    int
	steps       int
	seed        int64
	reportEvery time.Duration
	logLevel    string
)

func init() {
	flag.StringVar(&configFile, "config", "", "optional yaml config file, flags override it")
	flag.IntVar(&ringSize, "size", 0, "number of spins on the ring")
	flag.IntVar(&steps, "steps", 0, "number of KMC steps to run")
	flag.Int64Var(&seed, "seed", 0, "random number generator seed")
	flag.DurationVar(&reportEvery, "report-every", 0, "interval between progress reports")
	flag.StringVar(&logLevel, "log-level", "", "log level (debug/info/warn/error)")
}

const (
	flipDown = 0 // up -> down
	flipUp   = 1 // down -> up
)

// simulation holds the spin state and the per-site bookkeeping that
// keeps the two flip processes in sync with it.
type simulation struct {
	spins  []bool // true = up
	procs  []*process.Process
	engine *interactions.Interactions
	rng    *rand.Rand

	stepsDone atomic.Int64
	upFlips   atomic.Int64
	downFlips atomic.Int64
}

func newSimulation(size int, seed int64) *simulation {
	pattern := []lattice.MatchListEntry{
		{Coordinate: lattice.Coordinate{}, MatchType: 1, UpdateType: 2, Index: -1},
		{Coordinate: lattice.Coordinate{X: -1}, MatchType: 1, Index: -1},
		{Coordinate: lattice.Coordinate{X: 1}, MatchType: 1, Index: -1},
	}

	procs := []*process.Process{
		process.NewCustomRate(pattern, 1.0, []int{0}),
		process.NewCustomRate(pattern, 1.0, []int{0}),
	}

	rng := rand.New(rand.NewSource(seed))
	s := &simulation{
		spins:  make([]bool, size),
		procs:  procs,
		engine: interactions.NewWithCustomRates(procs, false, rate.IsingCalculator{Neighbors: 2}, rng),
		rng:    rng,
	}

	// Random initial spins, then register every site with its process.
	for i := range s.spins {
		s.spins[i] = rng.Intn(2) == 0
	}
	for i := range s.spins {
		s.addSite(i)
	}

	return s
}

func (s *simulation) spin(i int) string {
	if s.spins[(i+len(s.spins))%len(s.spins)] {
		return rate.SpinUp
	}
	return rate.SpinDown
}

// localTypes is the environment the rate calculator sees: the central
// site followed by its two ring neighbours.
func (s *simulation) localTypes(site int) []string {
	return []string{s.spin(site), s.spin(site - 1), s.spin(site + 1)}
}

func (s *simulation) processFor(site int) int {
	if s.spins[site] {
		return flipDown
	}
	return flipUp
}

func (s *simulation) addSite(site int) {
	id := s.processFor(site)
	types := s.localTypes(site)
	key := rate.Fingerprint(id, types)
	r := s.engine.SiteRate(key, id, nil, types, nil, lattice.Coordinate{X: float64(site)})
	s.procs[id].AddSiteWithRate(site, r, 1.0)
}

func (s *simulation) removeSite(site int) {
	if err := s.procs[s.processFor(site)].RemoveSite(site); err != nil {
		level.Error(log.Logger).Log("msg", "site bookkeeping out of sync", "site", site, "err", err)
		os.Exit(1)
	}
}

// step fires one event: pick a process, pick one of its sites, flip the
// spin there and refresh the rates of the site and its neighbours.
func (s *simulation) step() {
	s.engine.UpdateProbabilityTable()

	id := s.engine.PickProcessIndex()
	site := s.procs[id].PickSite(s.rng)

	s.removeSite(site)
	s.removeSite((site - 1 + len(s.spins)) % len(s.spins))
	s.removeSite((site + 1) % len(s.spins))

	s.spins[site] = id == flipUp

	s.addSite(site)
	s.addSite((site - 1 + len(s.spins)) % len(s.spins))
	s.addSite((site + 1) % len(s.spins))

	if id == flipUp {
		s.upFlips.Inc()
	} else {
		s.downFlips.Inc()
	}
	s.stepsDone.Inc()
}

func (s *simulation) magnetization() float64 {
	up := 0
	for _, v := range s.spins {
		if v {
			up++
		}
	}
	return float64(2*up-len(s.spins)) / float64(len(s.spins))
}

func main() {
	flag.Parse()

	cfg, err := loadConfig(configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if ringSize > 0 {
		cfg.Size = ringSize
	}
	if steps > 0 {
		cfg.Steps = steps
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if reportEvery > 0 {
		cfg.ReportEvery = reportEvery.String()
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	interval, err := time.ParseDuration(cfg.ReportEvery)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid report interval:", err)
		os.Exit(1)
	}

	logger := kitlog.With(log.New(cfg.LogLevel), "run", uuid.New().String())
	log.Logger = logger

	level.Info(logger).Log(
		"msg", "starting simulation",
		"size", cfg.Size,
		"steps", cfg.Steps,
		"seed", cfg.Seed,
	)

	sim := newSimulation(cfg.Size, cfg.Seed)

	stop := make(chan struct{})
	go reportLoop(logger, sim, interval, stop)

	start := time.Now()
	for i := 0; i < cfg.Steps; i++ {
		sim.step()
	}
	elapsed := time.Since(start)
	close(stop)

	level.Info(logger).Log(
		"msg", "simulation finished",
		"steps", humanize.Comma(sim.stepsDone.Load()),
		"up_flips", humanize.Comma(sim.upFlips.Load()),
		"down_flips", humanize.Comma(sim.downFlips.Load()),
		"magnetization", fmt.Sprintf("%.4f", sim.magnetization()),
		"elapsed", elapsed.Round(time.Millisecond),
		"steps_per_sec", fmt.Sprintf("%.0f", float64(sim.stepsDone.Load())/elapsed.Seconds()),
	)
}

// reportLoop periodically logs the counters the simulation loop keeps
// updated.
func reportLoop(logger kitlog.Logger, sim *simulation, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			level.Info(logger).Log(
				"msg", "progress",
				"steps", humanize.Comma(sim.stepsDone.Load()),
				"up_flips", humanize.Comma(sim.upFlips.Load()),
				"down_flips", humanize.Comma(sim.downFlips.Load()),
			)
		case <-stop:
			return
		}
	}
}
