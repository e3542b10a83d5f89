package catalog

import "fmt"

// IssueKind classifies a pipeline failure or warning.
type IssueKind string

const (
	// Fatal kinds: any occurrence aborts the run before output.
	PathRejected    IssueKind = "path-rejected"
	ContentMismatch IssueKind = "content-mismatch"
	SymlinkRejected IssueKind = "symlink-rejected"
	EmptyFile       IssueKind = "empty-file"
	ReadFailed      IssueKind = "read-failed"
	IndexConflict   IssueKind = "index-conflict"
	EmptyResult     IssueKind = "empty-result"

	// Warning kinds: surfaced but never block output.
	NameUnparseable  IssueKind = "name-unparseable"
	DuplicateContent IssueKind = "duplicate-content"
	IndexlessGroup   IssueKind = "indexless-group"
)

// Issue is a single failure or warning tied to a path (or a group of paths
// for whole-set checks).
type Issue struct {
	Kind   IssueKind
	Path   string
	Detail string
}

func (i Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", i.Kind, i.Path, i.Detail)
}

// Report collects every issue a run produced. Fatal issues abort the run;
// warnings never do.
type Report struct {
	Fatal    []Issue
	Warnings []Issue
}

// Failed reports whether the run must abort without producing output.
func (r *Report) Failed() bool {
	return len(r.Fatal) > 0
}

func (r *Report) fatal(kind IssueKind, path, detail string) {
	r.Fatal = append(r.Fatal, Issue{Kind: kind, Path: path, Detail: detail})
}

func (r *Report) warn(kind IssueKind, path, detail string) {
	r.Warnings = append(r.Warnings, Issue{Kind: kind, Path: path, Detail: detail})
}
