// Package scan enumerates a directory tree into scanned-file candidates for
// the catalog pipeline. Enumeration order is an implementation detail; the
// catalog re-sorts regardless.
package scan

import (
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/fulmenhq/icondex/pkg/catalog"
)

// ignoreFile is read from the scan root for gitignore-style excludes.
const ignoreFile = ".icondexignore"

// Result holds the walked candidates plus how many files the extension
// filter skipped.
type Result struct {
	Files   []catalog.ScannedFile
	Skipped int
}

// Walker enumerates files under a billy filesystem root.
type Walker struct {
	fs       billy.Filesystem
	patterns []string
	matcher  gitignore.Matcher
}

// New creates a walker over fs, keeping only files whose lowercased path
// matches one of the doublestar patterns derived from the extensions.
func New(fs billy.Filesystem, extensions []string) *Walker {
	patterns := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		patterns = append(patterns, "**/*"+strings.ToLower(ext))
	}
	return &Walker{
		fs:       fs,
		patterns: patterns,
		matcher:  loadIgnoreMatcher(fs),
	}
}

// NewOS creates a walker rooted at an OS directory.
func NewOS(root string, extensions []string) *Walker {
	return New(osfs.New(root), extensions)
}

// loadIgnoreMatcher reads gitignore-style patterns from the root ignore
// file. A missing file means nothing is excluded.
func loadIgnoreMatcher(fs billy.Filesystem) gitignore.Matcher {
	var patterns []gitignore.Pattern
	f, err := fs.Open(ignoreFile)
	if err != nil {
		return gitignore.NewMatcher(nil)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return gitignore.NewMatcher(nil)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return gitignore.NewMatcher(patterns)
}

// Walk enumerates the tree. Symbolic links are never followed: a symlink is
// reported as a candidate marked Symlink so the catalog can reject it.
func (w *Walker) Walk() (*Result, error) {
	res := &Result{}
	if err := w.walkDir("", res); err != nil {
		return nil, err
	}
	return res, nil
}

func (w *Walker) walkDir(dir string, res *Result) error {
	name := dir
	if name == "" {
		name = "."
	}
	infos, err := w.fs.ReadDir(name)
	if err != nil {
		return fmt.Errorf("failed to read directory %q: %w", name, err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	for _, info := range infos {
		rel := path.Join(dir, info.Name())
		if rel == ignoreFile {
			continue
		}
		if w.ignored(rel, info.IsDir()) {
			continue
		}

		symlink, err := w.isSymlink(rel)
		if err != nil {
			return err
		}
		if symlink {
			// Fail-safe: surfaced regardless of extension so the catalog
			// rejects the run instead of silently skipping the link.
			res.Files = append(res.Files, catalog.ScannedFile{
				RelPath: rel,
				Ext:     strings.ToLower(path.Ext(rel)),
				Size:    info.Size(),
				Symlink: true,
			})
			continue
		}

		if info.IsDir() {
			if err := w.walkDir(rel, res); err != nil {
				return err
			}
			continue
		}

		if !w.wanted(rel) {
			res.Skipped++
			continue
		}
		res.Files = append(res.Files, catalog.ScannedFile{
			RelPath: rel,
			Ext:     strings.ToLower(path.Ext(rel)),
			Size:    info.Size(),
		})
	}
	return nil
}

func (w *Walker) ignored(rel string, isDir bool) bool {
	return w.matcher.Match(strings.Split(rel, "/"), isDir)
}

func (w *Walker) wanted(rel string) bool {
	lower := strings.ToLower(rel)
	for _, pattern := range w.patterns {
		if ok, _ := doublestar.Match(pattern, lower); ok {
			return true
		}
	}
	return false
}

func (w *Walker) isSymlink(rel string) (bool, error) {
	info, err := w.fs.Lstat(rel)
	if err != nil {
		return false, fmt.Errorf("failed to lstat %q: %w", rel, err)
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// Source adapts a billy filesystem to the catalog's byte-source interface.
type Source struct {
	fs billy.Filesystem
}

// NewSource creates a Source over fs.
func NewSource(fs billy.Filesystem) *Source {
	return &Source{fs: fs}
}

// ReadPrefix returns up to limit leading bytes of the file.
func (s *Source) ReadPrefix(rel string, limit int) ([]byte, error) {
	f, err := s.fs.Open(rel)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", rel, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", rel, err)
	}
	return data, nil
}

// ReadAll returns the complete file contents.
func (s *Source) ReadAll(rel string) ([]byte, error) {
	f, err := s.fs.Open(rel)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", rel, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", rel, err)
	}
	return data, nil
}

var _ catalog.Source = (*Source)(nil)
