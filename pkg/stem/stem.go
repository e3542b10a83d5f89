// Package stem decomposes filename stems into a display name and an
// optional numeric ordering index.
package stem

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Parsed is the decomposition of a stem. Index is meaningful only when
// Indexed is true; it orders entries within a display-name group and is
// never written to the manifest.
type Parsed struct {
	Base    string
	Index   int
	Indexed bool
}

var (
	allDigits = regexp.MustCompile(`^[0-9]+$`)
	// <text> ( <digits> ) with ASCII or fullwidth parentheses.
	parenIndex = regexp.MustCompile(`^(.*?)\s*[(（]\s*([0-9]+)\s*[)）]$`)
	// <text><separator><digits> where the separator is spaces, underscores
	// or hyphens.
	sepIndex = regexp.MustCompile(`^(.*?)[ _-]+([0-9]+)$`)
	// <text><digits> glued together.
	gluedIndex = regexp.MustCompile(`^(.*?)([0-9]+)$`)
)

// zeroWidth strips zero-width characters that survive NFKC.
var zeroWidth = strings.NewReplacer(
	"​", "", // zero width space
	"‌", "", // zero width non-joiner
	"‍", "", // zero width joiner
	"⁠", "", // word joiner
	"\uFEFF", "", // BOM / zero width no-break space
)

// Normalize applies NFKC normalization (which also folds fullwidth digits
// to ASCII), folds remaining width variants, strips zero-width characters,
// and trims surrounding whitespace.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = width.Fold.String(s)
	s = zeroWidth.Replace(s)
	return strings.TrimSpace(s)
}

// Parse decomposes a stem into a display name and optional index. The
// grammar is tried in order, first match wins:
//
//  1. all ASCII digits: the stem is an ordinal marker inside its group, so
//     the fallback name (derived from the containing directory) becomes the
//     display name and the digits become the index
//  2. <text>(<digits>) with ASCII or fullwidth parentheses
//  3. <text><separator><digits> with space/underscore/hyphen separators
//  4. <text><digits> glued, provided <text> is non-empty after trimming
//  5. anything else: the whole stem is the display name, no index
//
// The stem is normalized before matching; a stem that normalizes to the
// empty string yields an empty Base, which callers treat as unparseable.
func Parse(raw, fallback string) Parsed {
	s := Normalize(raw)
	if s == "" {
		return Parsed{}
	}

	if allDigits.MatchString(s) {
		if idx, ok := parseIndex(s); ok {
			return Parsed{Base: fallback, Index: idx, Indexed: true}
		}
		return Parsed{Base: s}
	}

	for _, re := range []*regexp.Regexp{parenIndex, sepIndex, gluedIndex} {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		base := strings.TrimSpace(m[1])
		if base == "" {
			continue
		}
		if idx, ok := parseIndex(m[2]); ok {
			return Parsed{Base: base, Index: idx, Indexed: true}
		}
	}

	return Parsed{Base: s}
}

// parseIndex converts a digit run to an int. Runs too large for an int are
// treated as unparseable rather than silently wrapping.
func parseIndex(digits string) (int, bool) {
	idx, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return idx, true
}
