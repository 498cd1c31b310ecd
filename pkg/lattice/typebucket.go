package lattice

import (
	"fmt"
	"strings"
)

// TypeBucket holds the per-species occupation counts of one lattice
// site. The zero value has size zero. Comparisons and arithmetic
// require equal sizes; mixing sizes is a programming error and panics.
type TypeBucket struct {
	slots []int
}

// NewTypeBucket returns a bucket of the given size with all slots empty.
func NewTypeBucket(size int) TypeBucket {
	return TypeBucket{slots: make([]int, size)}
}

// NewOneHot returns a bucket of the given size holding a single atom in
// slot i.
func NewOneHot(size, i int) TypeBucket {
	b := NewTypeBucket(size)
	b.AssignOneHot(i)
	return b
}

// Size returns the number of slots.
func (b TypeBucket) Size() int { return len(b.slots) }

// Get returns the count in slot i.
func (b TypeBucket) Get(i int) int { return b.slots[i] }

// Set stores the count v in slot i.
func (b *TypeBucket) Set(i, v int) { b.slots[i] = v }

// Clone returns a bucket with its own copy of the slots.
func (b TypeBucket) Clone() TypeBucket {
	c := make([]int, len(b.slots))
	copy(c, b.slots)
	return TypeBucket{slots: c}
}

// Identical reports elementwise equality. Buckets of different sizes
// compare unequal.
func (b TypeBucket) Identical(other TypeBucket) bool {
	if len(b.slots) != len(other.slots) {
		return false
	}
	for i, v := range b.slots {
		if v != other.slots[i] {
			return false
		}
	}
	return true
}

// EqualsOneHot reports whether slot i holds exactly one atom and every
// other slot is empty.
func (b TypeBucket) EqualsOneHot(i int) bool {
	if i >= len(b.slots) {
		panic(fmt.Sprintf("lattice: one-hot comparison out of bounds, slot %d of %d", i, len(b.slots)))
	}
	for j, v := range b.slots {
		if j == i && v != 1 {
			return false
		}
		if j != i && v != 0 {
			return false
		}
	}
	return true
}

func (b TypeBucket) sizeCheck(other TypeBucket, op string) {
	if len(b.slots) != len(other.slots) {
		panic(fmt.Sprintf("lattice: bucket %s requires equal sizes, got %d and %d", op, len(b.slots), len(other.slots)))
	}
}

// GreaterOrEqual is the lexicographic ordering over slots: the first
// differing slot decides and equal buckets compare true.
func (b TypeBucket) GreaterOrEqual(other TypeBucket) bool {
	b.sizeCheck(other, "comparison")
	for i, v := range b.slots {
		if v < other.slots[i] {
			return false
		}
		if v > other.slots[i] {
			return true
		}
	}
	return true
}

// LessThan is the strict complement of GreaterOrEqual.
func (b TypeBucket) LessThan(other TypeBucket) bool {
	b.sizeCheck(other, "comparison")
	return !b.GreaterOrEqual(other)
}

// Match reports whether every count required by b is covered by the
// observed counts in other.
func (b TypeBucket) Match(other TypeBucket) bool {
	b.sizeCheck(other, "match")
	for i, v := range b.slots {
		if v > other.slots[i] {
			return false
		}
	}
	return true
}

// Add returns the elementwise sum of both buckets.
func (b TypeBucket) Add(other TypeBucket) TypeBucket {
	b.sizeCheck(other, "addition")
	sum := NewTypeBucket(len(b.slots))
	for i, v := range b.slots {
		sum.slots[i] = v + other.slots[i]
	}
	return sum
}

// AssignOneHot empties the bucket and puts a single atom in slot i.
func (b *TypeBucket) AssignOneHot(i int) {
	if i >= len(b.slots) {
		panic(fmt.Sprintf("lattice: one-hot assignment out of bounds, slot %d of %d", i, len(b.slots)))
	}
	for j := range b.slots {
		b.slots[j] = 0
	}
	b.slots[i] = 1
}

func (b TypeBucket) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for _, v := range b.slots {
		fmt.Fprintf(&sb, " %d ", v)
	}
	sb.WriteString("]")
	return sb.String()
}
