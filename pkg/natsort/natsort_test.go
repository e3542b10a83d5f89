package natsort

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareNumericRuns(t *testing.T) {
	assert.Negative(t, Compare("icon9", "icon10"))
	assert.Negative(t, Compare("icon10", "icon11"))
	assert.Negative(t, Compare("2", "10"))
	assert.Positive(t, Compare("100", "99"))
	assert.Zero(t, Compare("icon7", "icon7"))
}

func TestCompareCaseInsensitiveBase(t *testing.T) {
	assert.Negative(t, Compare("Apple", "banana"))
	assert.Negative(t, Compare("apple", "Banana"))
	// Fold-equal strings still order deterministically.
	assert.NotZero(t, Compare("Icon", "icon"))
	assert.Zero(t, Compare("icon", "icon"))
}

func TestCompareLeadingZeros(t *testing.T) {
	assert.Negative(t, Compare("icon7", "icon007"))
	assert.Negative(t, Compare("icon007", "icon8"))
}

func TestCompareMixedChunks(t *testing.T) {
	assert.Negative(t, Compare("a1b2", "a1b10"))
	assert.Negative(t, Compare("a1", "a1b"))
	assert.Negative(t, Compare("", "a"))
}

func TestSortOrderIsTotal(t *testing.T) {
	want := []string{"2", "10", "Apple", "apple10", "apple12", "banana", "默认"}

	got := make([]string, len(want))
	copy(got, want)
	rand.New(rand.NewSource(1)).Shuffle(len(got), func(i, j int) {
		got[i], got[j] = got[j], got[i]
	})
	sort.Slice(got, func(i, j int) bool { return Less(got[i], got[j]) })
	assert.Equal(t, want, got)
}
