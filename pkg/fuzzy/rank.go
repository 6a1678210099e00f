package fuzzy

import "sort"

// Less orders occurrences by start offset, then by span length.
func Less(a, b Occurrence) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.Length < b.Length
}

// Rank sorts occs in place, best first. Occurrences with equal start and
// length keep their input order.
func Rank(occs []Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		return Less(occs[i], occs[j])
	})
}
