// Package catalog owns the validated icon set. It drives per-file
// validation, signature checking, and stem parsing, then performs the
// whole-set conflict and duplicate checks no single-file validator can.
package catalog

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/fulmenhq/icondex/pkg/pathsafe"
	"github.com/fulmenhq/icondex/pkg/sniff"
	"github.com/fulmenhq/icondex/pkg/stem"
)

// ScannedFile is one candidate produced by tree enumeration. RelPath is
// forward-slash separated and root-relative; Ext is lowercased and includes
// the dot.
type ScannedFile struct {
	RelPath string
	Ext     string
	Size    int64
	Symlink bool
}

// Entry is one accepted icon. Entries are created once and never mutated.
type Entry struct {
	DisplayName string
	Index       int
	Indexed     bool
	RelPath     string
	URL         string
	ContentHash string
}

// key is the conflict key: at most one entry may claim a (name, index) pair
// when the index is present. This keeps the output ordering unambiguous.
func (e Entry) key() string {
	return fmt.Sprintf("%s#%d", e.DisplayName, e.Index)
}

// Source supplies file bytes. The two methods are deliberately narrow so
// buffered, in-memory, or mmap implementations can be substituted without
// touching validation logic.
type Source interface {
	// ReadPrefix returns up to limit leading bytes of the file.
	ReadPrefix(rel string, limit int) ([]byte, error)
	// ReadAll returns the complete file contents.
	ReadAll(rel string) ([]byte, error)
}

// Hasher produces the content hash used for duplicate detection.
type Hasher interface {
	Sum(data []byte) string
}

// XXHasher hashes with xxhash64. Duplicate detection needs speed, not
// cryptographic strength.
type XXHasher struct{}

func (XXHasher) Sum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Config carries the run-scoped settings the pipeline needs. No package
// state is consulted.
type Config struct {
	// DefaultGroup names the group for files at the scan root and sorts
	// before every other group.
	DefaultGroup string
	// URLFor renders the literal published URL for a relative path.
	URLFor func(rel string) string
	// FallbackFor names the group for a pure-numeric stem. When nil, the
	// immediate parent directory name is used, or DefaultGroup at the root.
	FallbackFor func(rel string) string
}

// Catalog runs the validation pipeline and owns the accepted entries.
type Catalog struct {
	cfg    Config
	src    Source
	hasher Hasher
}

// New creates a catalog over the given byte source.
func New(src Source, cfg Config) *Catalog {
	if cfg.URLFor == nil {
		cfg.URLFor = func(rel string) string { return rel }
	}
	if cfg.FallbackFor == nil {
		group := cfg.DefaultGroup
		cfg.FallbackFor = func(rel string) string {
			return ParentFallback(rel, group)
		}
	}
	return &Catalog{cfg: cfg, src: src, hasher: XXHasher{}}
}

// SetHasher overrides the content hasher.
func (c *Catalog) SetHasher(h Hasher) {
	if h != nil {
		c.hasher = h
	}
}

// ParentFallback derives a group name from the immediate parent directory,
// normalized the same way stems are, or defaultGroup at the scan root.
func ParentFallback(rel, defaultGroup string) string {
	dir := path.Dir(rel)
	if dir == "." || dir == "/" {
		return defaultGroup
	}
	if name := stem.Normalize(path.Base(dir)); name != "" {
		return name
	}
	return defaultGroup
}

// Build runs the whole pipeline over the scanned set and returns the
// accepted entries in final deterministic order. When the report carries
// fatal issues the entry slice is nil: the run produces no partial output.
//
// Path validation and conflict detection are whole-set checks that always
// run to completion and report every violation. Symlink, empty-file, and
// content-mismatch checks are sequential and stop at the first hit.
func (c *Catalog) Build(files []ScannedFile) ([]Entry, *Report) {
	report := &Report{}

	// Whole-set path validation: collect every offending path before
	// aborting, so diagnostics cover the full tree in one run.
	for _, f := range files {
		if err := pathsafe.Validate(f.RelPath); err != nil {
			report.fatal(PathRejected, f.RelPath, err.Error())
		}
	}
	if report.Failed() {
		return nil, report
	}

	var entries []Entry
	for _, f := range files {
		entry, ok := c.admit(f, report)
		if report.Failed() {
			return nil, report
		}
		if ok {
			entries = append(entries, entry)
		}
	}

	c.checkConflicts(entries, report)
	c.checkDuplicates(entries, report)
	c.checkIndexlessGroups(entries, report)

	if len(entries) == 0 {
		report.fatal(EmptyResult, "", "no files survived the pipeline; refusing to emit an empty manifest")
	}
	if report.Failed() {
		return nil, report
	}

	c.Sort(entries)
	return entries, report
}

// admit runs the per-file sequential checks. A false return with no fatal
// issue recorded means the file was skipped with a warning.
func (c *Catalog) admit(f ScannedFile, report *Report) (Entry, bool) {
	if f.Symlink {
		report.fatal(SymlinkRejected, f.RelPath, "resolves through a symbolic link")
		return Entry{}, false
	}
	if f.Size == 0 {
		report.fatal(EmptyFile, f.RelPath, "file is empty")
		return Entry{}, false
	}

	prefix, err := c.src.ReadPrefix(f.RelPath, sniff.MaxPrefix)
	if err != nil {
		report.fatal(ReadFailed, f.RelPath, err.Error())
		return Entry{}, false
	}
	if err := sniff.MatchExtension(f.Ext, sniff.Detect(prefix)); err != nil {
		report.fatal(ContentMismatch, f.RelPath, err.Error())
		return Entry{}, false
	}

	base := path.Base(f.RelPath)
	parsed := stem.Parse(strings.TrimSuffix(base, path.Ext(base)), c.cfg.FallbackFor(f.RelPath))
	if parsed.Base == "" {
		report.warn(NameUnparseable, f.RelPath, "stem normalizes to an empty name; file skipped")
		return Entry{}, false
	}

	content, err := c.src.ReadAll(f.RelPath)
	if err != nil {
		report.fatal(ReadFailed, f.RelPath, err.Error())
		return Entry{}, false
	}

	return Entry{
		DisplayName: parsed.Base,
		Index:       parsed.Index,
		Indexed:     parsed.Indexed,
		RelPath:     f.RelPath,
		URL:         c.cfg.URLFor(f.RelPath),
		ContentHash: c.hasher.Sum(content),
	}, true
}

// checkConflicts reports every (displayName, index) group claimed by more
// than one entry. Ordering would otherwise be ambiguous, so this is fatal.
func (c *Catalog) checkConflicts(entries []Entry, report *Report) {
	groups := make(map[string][]string)
	for _, e := range entries {
		if !e.Indexed {
			continue
		}
		groups[e.key()] = append(groups[e.key()], e.RelPath)
	}

	keys := make([]string, 0, len(groups))
	for k, paths := range groups {
		if len(paths) > 1 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		paths := groups[k]
		sort.Strings(paths)
		report.fatal(IndexConflict, strings.Join(paths, ", "),
			fmt.Sprintf("%d files claim name#index %s", len(paths), k))
	}
}

// checkDuplicates flags entries sharing identical content bytes. Duplicate
// bytes under different names are legal but worth surfacing.
func (c *Catalog) checkDuplicates(entries []Entry, report *Report) {
	byHash := make(map[string][]string)
	for _, e := range entries {
		byHash[e.ContentHash] = append(byHash[e.ContentHash], e.RelPath)
	}

	hashes := make([]string, 0, len(byHash))
	for h, paths := range byHash {
		if len(paths) > 1 {
			hashes = append(hashes, h)
		}
	}
	sort.Strings(hashes)

	for _, h := range hashes {
		paths := byHash[h]
		sort.Strings(paths)
		report.warn(DuplicateContent, strings.Join(paths, ", "),
			fmt.Sprintf("%d files share content hash %s", len(paths), h))
	}
}

// checkIndexlessGroups warns when a display-name group holds two or more
// files without an index; their relative order then rests on the path
// tiebreak alone.
func (c *Catalog) checkIndexlessGroups(entries []Entry, report *Report) {
	byName := make(map[string][]string)
	for _, e := range entries {
		if e.Indexed {
			continue
		}
		byName[e.DisplayName] = append(byName[e.DisplayName], e.RelPath)
	}

	names := make([]string, 0, len(byName))
	for name, paths := range byName {
		if len(paths) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		paths := byName[name]
		sort.Strings(paths)
		report.warn(IndexlessGroup, strings.Join(paths, ", "),
			fmt.Sprintf("group %q has %d files without an ordering index", name, len(paths)))
	}
}
