// Package urltmpl renders published icon URLs from a handlebars template.
package urltmpl

import (
	"fmt"

	"github.com/aymerick/raymond"
)

// Builder renders the literal published URL for a relative path. The path
// placeholder must use triple braces ({{{path}}}) so the bytes pass through
// without HTML escaping; the path validator already constrained them.
type Builder struct {
	tpl    *raymond.Template
	owner  string
	repo   string
	branch string
}

// New parses the template and renders a probe so template errors surface at
// construction time, not per file.
func New(template, owner, repo, branch string) (*Builder, error) {
	tpl, err := raymond.Parse(template)
	if err != nil {
		return nil, fmt.Errorf("invalid URL template: %w", err)
	}
	b := &Builder{tpl: tpl, owner: owner, repo: repo, branch: branch}
	if _, err := b.render("probe.png"); err != nil {
		return nil, fmt.Errorf("URL template failed to render: %w", err)
	}
	return b, nil
}

// For renders the URL for a relative path.
func (b *Builder) For(rel string) string {
	out, err := b.render(rel)
	if err != nil {
		// The probe in New renders the same template with the same static
		// context, so this cannot fail per file.
		return rel
	}
	return out
}

func (b *Builder) render(rel string) (string, error) {
	return b.tpl.Exec(map[string]interface{}{
		"owner":  b.owner,
		"repo":   b.repo,
		"branch": b.branch,
		"path":   rel,
	})
}
