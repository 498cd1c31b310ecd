package lattice

import "sort"

// WildcardType is the match type of an always-matching entry.
const WildcardType = 0

// MatchListEntry is one position of a process or configuration pattern:
// a relative coordinate plus the match content required there and the
// update applied when the process fires. Plain models carry a single
// integer species code in MatchType/UpdateType; bucket models carry
// per-species counts in MatchTypes/UpdateTypes and use the integer
// fields only for wildcard marking.
type MatchListEntry struct {
	Coordinate Coordinate

	// Distance caches Coordinate.Distance, filled in by SortMatchList.
	Distance float64

	MatchType  int
	UpdateType int

	MatchTypes  TypeBucket
	UpdateTypes TypeBucket

	// Index is the global site index an entry maps to on configuration
	// match lists. Process patterns use -1.
	Index int
}

// SamePosition reports coordinate agreement within the per-axis
// match-list tolerance.
func (e MatchListEntry) SamePosition(other MatchListEntry) bool {
	return e.Coordinate.CloseTo(other.Coordinate)
}

// EqualMatch reports position and match-content equality. Update
// content never participates.
func (e MatchListEntry) EqualMatch(other MatchListEntry) bool {
	if !e.SamePosition(other) {
		return false
	}
	if e.MatchType != other.MatchType {
		return false
	}
	if e.MatchTypes.Size() != other.MatchTypes.Size() {
		return false
	}
	return e.MatchTypes.Size() == 0 || e.MatchTypes.Identical(other.MatchTypes)
}

// Wildcard reports whether the entry matches any occupation.
func (e MatchListEntry) Wildcard() bool {
	if e.MatchTypes.Size() > 0 {
		return e.MatchTypes.EqualsOneHot(WildcardType)
	}
	return e.MatchType == WildcardType
}

// AsWildcard returns a copy of the entry with its match content
// replaced by the always-matching type and its update content cleared.
func (e MatchListEntry) AsWildcard() MatchListEntry {
	w := e
	w.MatchType = WildcardType
	w.UpdateType = 0
	if e.MatchTypes.Size() > 0 {
		w.MatchTypes = NewOneHot(e.MatchTypes.Size(), WildcardType)
		w.UpdateTypes = NewTypeBucket(e.UpdateTypes.Size())
	}
	return w
}

// SortMatchList orders entries by increasing distance from the origin
// with stable (x, y, z) tie-breaks and refreshes the cached distances.
// The origin entry always ends up first.
func SortMatchList(entries []MatchListEntry) {
	for i := range entries {
		entries[i].Distance = entries[i].Coordinate.Distance()
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Coordinate.Less(entries[j].Coordinate)
	})
}
