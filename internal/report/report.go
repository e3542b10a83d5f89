// Package report renders the human-readable run summary.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/fulmenhq/icondex/pkg/catalog"
)

// Summary renders a per-group count table for the accepted entries plus a
// warnings section. Group names are padded by display width so CJK names
// keep the columns aligned.
func Summary(entries []catalog.Entry, rep *catalog.Report) string {
	var b strings.Builder

	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		if counts[e.DisplayName] == 0 {
			order = append(order, e.DisplayName)
		}
		counts[e.DisplayName]++
	}

	width := len("group")
	for _, name := range order {
		if w := runewidth.StringWidth(name); w > width {
			width = w
		}
	}

	b.WriteString(fmt.Sprintf("%s  icons\n", pad("group", width)))
	for _, name := range order {
		b.WriteString(fmt.Sprintf("%s  %d\n", pad(name, width), counts[name]))
	}
	b.WriteString(fmt.Sprintf("total: %d icons in %d groups\n", len(entries), len(order)))

	if len(rep.Warnings) > 0 {
		b.WriteString(fmt.Sprintf("\n%d warning(s):\n", len(rep.Warnings)))
		for _, w := range rep.Warnings {
			b.WriteString("  " + w.String() + "\n")
		}
	}
	return b.String()
}

// Failures renders every fatal issue, grouped by kind for readability.
func Failures(rep *catalog.Report) string {
	byKind := make(map[catalog.IssueKind][]catalog.Issue)
	var kinds []catalog.IssueKind
	for _, issue := range rep.Fatal {
		if len(byKind[issue.Kind]) == 0 {
			kinds = append(kinds, issue.Kind)
		}
		byKind[issue.Kind] = append(byKind[issue.Kind], issue)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d fatal issue(s); no manifest written\n", len(rep.Fatal)))
	for _, kind := range kinds {
		for _, issue := range byKind[kind] {
			b.WriteString("  " + issue.String() + "\n")
		}
	}
	return b.String()
}

// pad right-pads s to the given display width.
func pad(s string, width int) string {
	return s + strings.Repeat(" ", width-runewidth.StringWidth(s))
}
