// Package natsort implements locale-independent natural collation:
// case-insensitive base comparison with embedded numeric substrings compared
// by value, so "icon9" sorts before "icon10". The comparator is explicit
// rather than delegating to platform collation, keeping ordering identical
// across machines and locales.
package natsort

import (
	"strings"

	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// Compare returns -1, 0, or 1 ordering a before, equal to, or after b.
func Compare(a, b string) int {
	fa := fold.String(a)
	fb := fold.String(b)

	if c := compareChunked(fa, fb); c != 0 {
		return c
	}
	// Case-fold equivalence: fall back to the raw strings so the order
	// stays total and deterministic.
	return strings.Compare(a, b)
}

// Less reports whether a orders before b, for use with sort.Slice.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

func compareChunked(a, b string) int {
	for a != "" && b != "" {
		ca, restA := nextChunk(a)
		cb, restB := nextChunk(b)

		var c int
		if ca.numeric && cb.numeric {
			c = compareNumeric(ca.text, cb.text)
		} else {
			c = strings.Compare(ca.text, cb.text)
		}
		if c != 0 {
			return c
		}
		a, b = restA, restB
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

type chunk struct {
	text    string
	numeric bool
}

// nextChunk splits off the leading run of digits or non-digits.
func nextChunk(s string) (chunk, string) {
	isDigit := func(r byte) bool { return r >= '0' && r <= '9' }
	numeric := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == numeric {
		i++
	}
	return chunk{text: s[:i], numeric: numeric}, s[i:]
}

// compareNumeric compares two digit runs by value: shorter runs (after
// leading zeros) are smaller, equal-length runs compare lexically. Leading
// zeros break ties so "007" and "7" stay distinct but adjacent.
func compareNumeric(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	// Same value: fewer leading zeros first.
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
