package rate

import (
	"math"

	"github.com/latticelabs/kinetic/pkg/lattice"
)

// Species names used by the Ising calculator.
const (
	SpinUp   = "U"
	SpinDown = "D"
)

// IsingCalculator implements nearest-neighbour spin-flip kinetics for a
// lattice of up/down spins. Process 0 flips up to down, every other
// process id flips down to up. The flip rate is min(1, exp(-dE)) with
// the energy difference read off the neighbour spins.
type IsingCalculator struct {
	// Neighbors is the number of neighbour positions following the
	// central site in the local environment: 2 on a ring, 4 on the
	// square lattice. Zero means 4.
	Neighbors int
}

var _ Calculator = IsingCalculator{}

func (c IsingCalculator) neighbors() int {
	if c.Neighbors == 0 {
		return 4
	}
	return c.Neighbors
}

func (c IsingCalculator) Rate(_ []float64, typesBefore, _ []string, _ float64, processID int, _ lattice.Coordinate) float64 {
	n := c.neighbors()
	nUp := 0
	for i := 1; i <= n && i < len(typesBefore); i++ {
		if typesBefore[i] == SpinUp {
			nUp++
		}
	}
	return flipRate(nUp, n-nUp, processID)
}

func (c IsingCalculator) BucketRate(_ []float64, occupation, _ []lattice.TypeBucket, typeMap []string, _ float64, processID int, _ lattice.Coordinate) float64 {
	upSlot := -1
	for i, name := range typeMap {
		if name == SpinUp {
			upSlot = i
			break
		}
	}

	n := c.neighbors()
	nUp := 0
	for i := 1; i <= n && i < len(occupation); i++ {
		if upSlot >= 0 && upSlot < occupation[i].Size() && occupation[i].Get(upSlot) > 0 {
			nUp++
		}
	}
	return flipRate(nUp, n-nUp, processID)
}

func flipRate(nUp, nDown, processID int) float64 {
	negDiff := nDown - nUp
	if processID != 0 {
		negDiff = nUp - nDown
	}
	return math.Min(1.0, math.Exp(float64(negDiff)))
}

func (c IsingCalculator) Cutoff() float64 { return 1.0 }

func (c IsingCalculator) CacheRates() bool { return true }

func (c IsingCalculator) ExcludeFromCaching() []int { return nil }
