package catalog

import (
	"sort"

	"github.com/fulmenhq/icondex/pkg/natsort"
)

// Sort puts entries into the final deterministic order. The order is a pure
// function of the entry set: enumeration order, OS, and locale never leak
// into it, which is why this runs even when the walker already sorted.
//
// Comparator, applied lexicographically:
//  1. the default group sorts before all other groups
//  2. display names under natural collation
//  3. ordering index, absent sorting before any present index
//  4. relative path under natural collation as final tiebreak
func (c *Catalog) Sort(entries []Entry) {
	SortEntries(entries, c.cfg.DefaultGroup)
}

// SortEntries is Sort with an explicit default group name.
func SortEntries(entries []Entry, defaultGroup string) {
	sort.Slice(entries, func(i, j int) bool {
		return lessEntry(entries[i], entries[j], defaultGroup)
	})
}

func lessEntry(a, b Entry, defaultGroup string) bool {
	aDefault := a.DisplayName == defaultGroup
	bDefault := b.DisplayName == defaultGroup
	if aDefault != bDefault {
		return aDefault
	}

	if c := natsort.Compare(a.DisplayName, b.DisplayName); c != 0 {
		return c < 0
	}

	if a.Indexed != b.Indexed {
		return !a.Indexed
	}
	if a.Indexed && a.Index != b.Index {
		return a.Index < b.Index
	}

	return natsort.Compare(a.RelPath, b.RelPath) < 0
}
