package catalog

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// pngBytes returns valid-looking PNG content with a distinguishing tail so
// content hashes differ per file unless told otherwise.
func pngBytes(tail string) []byte {
	return append(append([]byte{}, pngMagic...), tail...)
}

type fakeSource map[string][]byte

func (f fakeSource) ReadPrefix(rel string, limit int) ([]byte, error) {
	b, ok := f[rel]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", rel)
	}
	if len(b) > limit {
		b = b[:limit]
	}
	return b, nil
}

func (f fakeSource) ReadAll(rel string) ([]byte, error) {
	b, ok := f[rel]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", rel)
	}
	return b, nil
}

func scanned(src fakeSource) []ScannedFile {
	var files []ScannedFile
	for rel, content := range src {
		files = append(files, ScannedFile{
			RelPath: rel,
			Ext:     extOf(rel),
			Size:    int64(len(content)),
		})
	}
	return files
}

func extOf(rel string) string {
	for i := len(rel) - 1; i >= 0; i-- {
		if rel[i] == '.' {
			return rel[i:]
		}
		if rel[i] == '/' {
			break
		}
	}
	return ""
}

func newTestCatalog(src fakeSource, defaultGroup string) *Catalog {
	return New(src, Config{
		DefaultGroup: defaultGroup,
		URLFor:       func(rel string) string { return "https://icons.example/" + rel },
	})
}

func TestBuildAcceptsValidSet(t *testing.T) {
	src := fakeSource{
		"logo.png":      pngBytes("a"),
		"brand/app.png": pngBytes("b"),
	}
	entries, report := newTestCatalog(src, "icons").Build(scanned(src))
	require.False(t, report.Failed(), "fatal issues: %v", report.Fatal)
	require.Len(t, entries, 2)
	assert.Equal(t, "https://icons.example/brand/app.png", entries[0].URL)
	assert.NotEmpty(t, entries[0].ContentHash)
	assert.NotEqual(t, entries[0].ContentHash, entries[1].ContentHash)
}

func TestBuildOrderingScenario(t *testing.T) {
	src := fakeSource{
		"默认/1.png":    pngBytes("a"),
		"默认/2.png":    pngBytes("b"),
		"logo(2).png": pngBytes("c"),
		"logo(1).png": pngBytes("d"),
	}
	files := scanned(src)

	wantNames := []string{"默认", "默认", "logo", "logo"}
	wantPaths := []string{"默认/1.png", "默认/2.png", "logo(1).png", "logo(2).png"}

	// The final ordering must be invariant under any permutation of the
	// enumeration order.
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 10; trial++ {
		rng.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })

		entries, report := newTestCatalog(src, "默认").Build(files)
		require.False(t, report.Failed(), "fatal issues: %v", report.Fatal)
		require.Len(t, entries, 4)
		for i, e := range entries {
			assert.Equal(t, wantNames[i], e.DisplayName)
			assert.Equal(t, wantPaths[i], e.RelPath)
		}
	}
}

func TestBuildIndexConflictIsFatalRegardlessOfOrder(t *testing.T) {
	src := fakeSource{
		"a/icon(1).png": pngBytes("x"),
		"b/icon_1.png":  pngBytes("y"),
	}
	files := scanned(src)

	for trial := 0; trial < 2; trial++ {
		files[0], files[1] = files[1], files[0]
		entries, report := newTestCatalog(src, "icons").Build(files)
		assert.Nil(t, entries)
		require.True(t, report.Failed())
		require.Len(t, report.Fatal, 1)
		issue := report.Fatal[0]
		assert.Equal(t, IndexConflict, issue.Kind)
		assert.Contains(t, issue.Path, "a/icon(1).png")
		assert.Contains(t, issue.Path, "b/icon_1.png")
		assert.Contains(t, issue.Detail, "icon#1")
	}
}

func TestBuildContentMismatchIsFatal(t *testing.T) {
	src := fakeSource{
		"sneaky.jpg": pngBytes("z"),
	}
	entries, report := newTestCatalog(src, "icons").Build(scanned(src))
	assert.Nil(t, entries)
	require.True(t, report.Failed())
	issue := report.Fatal[0]
	assert.Equal(t, ContentMismatch, issue.Kind)
	assert.Contains(t, issue.Detail, "expected jpeg")
	assert.Contains(t, issue.Detail, "detected png")
}

func TestBuildCollectsEveryBadPathBeforeAborting(t *testing.T) {
	src := fakeSource{
		"ok.png":       pngBytes("a"),
		"bad name.png": pngBytes("b"),
		"CON.png":      pngBytes("c"),
		"x#y.png":      pngBytes("d"),
	}
	entries, report := newTestCatalog(src, "icons").Build(scanned(src))
	assert.Nil(t, entries)
	require.Len(t, report.Fatal, 3)
	for _, issue := range report.Fatal {
		assert.Equal(t, PathRejected, issue.Kind)
	}
}

func TestBuildReservedNameNeverReachesSniffing(t *testing.T) {
	// CON.png carries JPEG bytes under a .png name; if sniffing ran it
	// would report a content mismatch, but path validation must win.
	src := fakeSource{
		"CON.png": {0xFF, 0xD8, 0xFF, 0x00},
	}
	_, report := newTestCatalog(src, "icons").Build(scanned(src))
	require.Len(t, report.Fatal, 1)
	assert.Equal(t, PathRejected, report.Fatal[0].Kind)
	assert.Contains(t, report.Fatal[0].Detail, "reserved device name")
}

func TestBuildSymlinkIsFatal(t *testing.T) {
	src := fakeSource{"link.png": pngBytes("a")}
	files := scanned(src)
	files[0].Symlink = true

	entries, report := newTestCatalog(src, "icons").Build(files)
	assert.Nil(t, entries)
	require.True(t, report.Failed())
	assert.Equal(t, SymlinkRejected, report.Fatal[0].Kind)
}

func TestBuildEmptyFileIsFatal(t *testing.T) {
	src := fakeSource{"hollow.png": {}}
	entries, report := newTestCatalog(src, "icons").Build(scanned(src))
	assert.Nil(t, entries)
	require.True(t, report.Failed())
	assert.Equal(t, EmptyFile, report.Fatal[0].Kind)
}

func TestBuildEmptyResultIsFatal(t *testing.T) {
	entries, report := newTestCatalog(fakeSource{}, "icons").Build(nil)
	assert.Nil(t, entries)
	require.True(t, report.Failed())
	assert.Equal(t, EmptyResult, report.Fatal[0].Kind)
}

func TestBuildDuplicateContentIsWarningOnly(t *testing.T) {
	src := fakeSource{
		"one.png":      pngBytes("same"),
		"deep/two.png": pngBytes("same"),
	}
	entries, report := newTestCatalog(src, "icons").Build(scanned(src))
	require.False(t, report.Failed())
	assert.Len(t, entries, 2)
	require.Len(t, report.Warnings, 1)
	issue := report.Warnings[0]
	assert.Equal(t, DuplicateContent, issue.Kind)
	assert.Contains(t, issue.Path, "one.png")
	assert.Contains(t, issue.Path, "deep/two.png")
}

func TestBuildIndexlessCrowdingIsWarningOnly(t *testing.T) {
	src := fakeSource{
		"a/logo.png": pngBytes("a"),
		"b/logo.png": pngBytes("b"),
	}
	entries, report := newTestCatalog(src, "icons").Build(scanned(src))
	require.False(t, report.Failed())
	assert.Len(t, entries, 2)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, IndexlessGroup, report.Warnings[0].Kind)
}

func TestBuildUnparseableNameSkipsFileAndContinues(t *testing.T) {
	src := fakeSource{
		"​‍.png": pngBytes("a"),
		"kept.png":         pngBytes("b"),
	}
	entries, report := newTestCatalog(src, "icons").Build(scanned(src))
	require.False(t, report.Failed(), "fatal issues: %v", report.Fatal)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].DisplayName)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, NameUnparseable, report.Warnings[0].Kind)
}

func TestBuildPureNumericStemUsesParentGroup(t *testing.T) {
	src := fakeSource{
		"logos/42.png": pngBytes("a"),
		"7.png":        pngBytes("b"),
	}
	entries, report := newTestCatalog(src, "icons").Build(scanned(src))
	require.False(t, report.Failed())
	require.Len(t, entries, 2)
	// Root-level numeric file lands in the default group, which sorts first.
	assert.Equal(t, "icons", entries[0].DisplayName)
	assert.Equal(t, 7, entries[0].Index)
	assert.Equal(t, "logos", entries[1].DisplayName)
	assert.Equal(t, 42, entries[1].Index)
}

func TestBuildEmittedURLsAreUnique(t *testing.T) {
	src := fakeSource{
		"a/1.png": pngBytes("a"),
		"a/2.png": pngBytes("b"),
		"b/1.png": pngBytes("c"),
	}
	entries, report := newTestCatalog(src, "icons").Build(scanned(src))
	require.False(t, report.Failed())
	seen := map[string]bool{}
	for _, e := range entries {
		assert.False(t, seen[e.URL], "duplicate URL %s", e.URL)
		seen[e.URL] = true
	}
}

func TestParentFallback(t *testing.T) {
	assert.Equal(t, "icons", ParentFallback("7.png", "icons"))
	assert.Equal(t, "logos", ParentFallback("logos/7.png", "icons"))
	assert.Equal(t, "默认", ParentFallback("图标库/默认/1.png", "icons"))
}
