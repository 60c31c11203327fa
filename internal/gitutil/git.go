// Package gitutil wraps the git queries the release tools need. Everything
// goes through a runner.Commander so it can be tested without a repository.
package gitutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/zinc-sig/fluttertools/internal/runner"
)

// ErrNoCommits is returned when HEAD does not point at a commit yet.
var ErrNoCommits = errors.New("repository has no commits yet")

// Commit is a single line of history.
type Commit struct {
	Hash    string
	Subject string
}

// Short returns the 7-character abbreviated hash.
func (c Commit) Short() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// VersionTag is a tag whose name, minus an optional "v", is strict semver.
type VersionTag struct {
	Name    string
	Version *semver.Version
}

type Repo struct {
	cmd runner.Commander
	dir string
}

// Open returns the repository containing dir, or an error when dir is not
// inside a work tree or git is unavailable.
func Open(ctx context.Context, cmd runner.Commander, dir string) (*Repo, error) {
	r := &Repo{cmd: cmd, dir: dir}
	out, err := r.git(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	if strings.TrimSpace(string(out)) != "true" {
		return nil, fmt.Errorf("not a git repository: %s", dir)
	}
	return r, nil
}

func (r *Repo) git(ctx context.Context, args ...string) ([]byte, error) {
	return r.cmd.Output(ctx, r.dir, "git", args...)
}

// Head returns the full hash of HEAD, or ErrNoCommits for an unborn branch.
func (r *Repo) Head(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--verify", "--quiet", "HEAD^{commit}")
	if err != nil {
		return "", ErrNoCommits
	}
	return strings.TrimSpace(string(out)), nil
}

// TagExists reports whether refs/tags/<name> exists.
func (r *Repo) TagExists(ctx context.Context, name string) (bool, error) {
	out, err := r.git(ctx, "tag", "--list", name)
	if err != nil {
		return false, fmt.Errorf("failed to list tags: %w", err)
	}
	for _, line := range lines(out) {
		if line == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateTag creates a lightweight tag at commit. It fails if the tag exists.
func (r *Repo) CreateTag(ctx context.Context, name, commit string) error {
	if _, err := r.git(ctx, "tag", name, commit); err != nil {
		return fmt.Errorf("failed to create lightweight tag '%s': %w", name, err)
	}
	return nil
}

// TagAtHead returns the first tag (in name order) whose commit is HEAD.
// Annotated tags are peeled.
func (r *Repo) TagAtHead(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "tag", "--points-at", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to list tags at HEAD: %w", err)
	}
	tags := lines(out)
	if len(tags) == 0 {
		return "", errors.New("no tag found on HEAD, use --tag to specify one")
	}
	sort.Strings(tags)
	return tags[0], nil
}

// VersionTags returns the semver tags sorted from highest to lowest.
func (r *Repo) VersionTags(ctx context.Context) ([]VersionTag, error) {
	out, err := r.git(ctx, "tag", "--list")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var tags []VersionTag
	for _, name := range lines(out) {
		v, err := semver.StrictNewVersion(strings.TrimPrefix(name, "v"))
		if err != nil {
			continue
		}
		tags = append(tags, VersionTag{Name: name, Version: v})
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Version.GreaterThan(tags[j].Version)
	})
	return tags, nil
}

// PreviousTag returns the highest version tag that is not current, or "".
func (r *Repo) PreviousTag(ctx context.Context, current string) (string, error) {
	tags, err := r.VersionTags(ctx)
	if err != nil {
		return "", err
	}
	for _, t := range tags {
		if t.Name != current {
			return t.Name, nil
		}
	}
	return "", nil
}

// FirstParentLog walks first parents from HEAD and stops before the commit
// that stopTag points at (or at the root when stopTag is ""). Commits whose
// subject starts with "Merge " are skipped and do not count towards max.
func (r *Repo) FirstParentLog(ctx context.Context, stopTag string, max int) ([]Commit, error) {
	var stop string
	if stopTag != "" {
		out, err := r.git(ctx, "rev-parse", "--verify", "--quiet", "refs/tags/"+stopTag+"^{commit}")
		if err != nil {
			return nil, fmt.Errorf("tag '%s' not found", stopTag)
		}
		stop = strings.TrimSpace(string(out))
	}

	out, err := r.git(ctx, "log", "--first-parent", "--format=%H%x09%s", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to read git log: %w", err)
	}

	var commits []Commit
	for _, line := range lines(out) {
		hash, subject, _ := strings.Cut(line, "\t")
		if hash == stop {
			break
		}
		if len(commits) >= max {
			break
		}
		if strings.HasPrefix(subject, "Merge ") {
			continue
		}
		commits = append(commits, Commit{Hash: hash, Subject: subject})
	}
	return commits, nil
}

func lines(out []byte) []string {
	var result []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}
