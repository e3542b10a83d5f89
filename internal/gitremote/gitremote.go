// Package gitremote infers repository coordinates from the local git
// checkout so configuration can omit owner/repo/branch.
package gitremote

import (
	"strings"

	git "github.com/go-git/go-git/v5"
)

// Remote holds the coordinates inferred from the origin remote and HEAD.
type Remote struct {
	Owner  string
	Repo   string
	Branch string
}

// Infer opens the repository containing root and derives owner/repo from
// the origin URL and the branch from HEAD. A missing repository, remote, or
// unparseable URL is not an error; the caller falls back to explicit
// configuration.
func Infer(root string) (Remote, bool) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Remote{}, false
	}

	origin, err := repo.Remote("origin")
	if err != nil || len(origin.Config().URLs) == 0 {
		return Remote{}, false
	}
	owner, name, ok := ParseURL(origin.Config().URLs[0])
	if !ok {
		return Remote{}, false
	}

	out := Remote{Owner: owner, Repo: name}
	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		out.Branch = head.Name().Short()
	}
	return out, true
}

// ParseURL extracts owner and repository name from the common git remote
// URL shapes:
//
//	https://github.com/owner/repo.git
//	git@github.com:owner/repo.git
//	ssh://git@github.com/owner/repo
func ParseURL(url string) (owner, repo string, ok bool) {
	u := strings.TrimSuffix(strings.TrimSpace(url), "/")
	u = strings.TrimSuffix(u, ".git")

	var rest string
	switch {
	case strings.Contains(u, "://"):
		parts := strings.SplitN(u, "://", 2)
		segs := strings.Split(parts[1], "/")
		if len(segs) < 3 {
			return "", "", false
		}
		rest = strings.Join(segs[1:], "/")
	case strings.Contains(u, "@") && strings.Contains(u, ":"):
		parts := strings.SplitN(u, ":", 2)
		rest = parts[1]
	default:
		return "", "", false
	}

	segs := strings.Split(rest, "/")
	if len(segs) < 2 || segs[0] == "" || segs[1] == "" {
		return "", "", false
	}
	// Deep paths (e.g. self-hosted instances with groups) keep the last
	// segment as the repo and everything before it as the owner.
	repo = segs[len(segs)-1]
	owner = strings.Join(segs[:len(segs)-1], "/")
	return owner, repo, true
}
