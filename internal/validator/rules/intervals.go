package rules

import (
	"cmp"
	"slices"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/table"
)

// interval is a closed-open time span taken from one row.
type interval struct {
	start table.Time
	end   table.Time
	row   int
	id    string
}

// sortIntervals orders by start, then end, then the tiebreaker given.
func sortIntervals(iv []interval, tie func(a, b interval) int) {
	slices.SortStableFunc(iv, func(a, b interval) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		if c := cmp.Compare(a.end, b.end); c != 0 {
			return c
		}
		return tie(a, b)
	})
}

func byRow(a, b interval) int { return cmp.Compare(a.row, b.row) }

func byID(a, b interval) int {
	if c := cmp.Compare(a.id, b.id); c != 0 {
		return c
	}
	return byRow(a, b)
}

// eachOverlap calls fn for every adjacent pair of sorted intervals where the
// second starts before the first ends. Touching intervals do not overlap.
func eachOverlap(iv []interval, fn func(prev, curr interval)) {
	for i := 1; i < len(iv); i++ {
		if iv[i].start < iv[i-1].end {
			fn(iv[i-1], iv[i])
		}
	}
}

// grouped collects values under a key and remembers first-seen key order so
// output does not depend on map iteration.
type grouped[K comparable, V any] struct {
	keys []K
	m    map[K][]V
}

func newGrouped[K comparable, V any]() *grouped[K, V] {
	return &grouped[K, V]{m: make(map[K][]V)}
}

func (g *grouped[K, V]) add(k K, v V) {
	if _, ok := g.m[k]; !ok {
		g.keys = append(g.keys, k)
	}
	g.m[k] = append(g.m[k], v)
}

func (g *grouped[K, V]) each(fn func(k K, vs []V)) {
	for _, k := range g.keys {
		fn(k, g.m[k])
	}
}
