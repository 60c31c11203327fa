package gitutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// TagOutcome reports what EnsureVersionTag did.
type TagOutcome struct {
	Plain     string // X.Y.Z[-pre]
	Prefixed  string // vX.Y.Z[-pre]
	Created   string // tag created, empty when nothing was created
	Existed   bool   // either form was already present
	NoCommits bool   // HEAD is unborn, nothing to tag
}

// VersionTagNames returns the plain and v-prefixed tag names for v.
// Build metadata is not part of a tag name.
func VersionTagNames(v *semver.Version) (plain, prefixed string) {
	plain = fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
	if pre := v.Prerelease(); pre != "" {
		plain += "-" + pre
	}
	return plain, "v" + plain
}

// EnsureVersionTag creates a lightweight tag at HEAD for v unless a tag
// exists in either naming convention. preferV selects the form created.
func (r *Repo) EnsureVersionTag(ctx context.Context, v *semver.Version, preferV bool) (TagOutcome, error) {
	plain, prefixed := VersionTagNames(v)
	outcome := TagOutcome{Plain: plain, Prefixed: prefixed}

	for _, name := range []string{plain, prefixed} {
		exists, err := r.TagExists(ctx, name)
		if err != nil {
			return outcome, err
		}
		if exists {
			outcome.Existed = true
			return outcome, nil
		}
	}

	head, err := r.Head(ctx)
	if errors.Is(err, ErrNoCommits) {
		outcome.NoCommits = true
		return outcome, nil
	}
	if err != nil {
		return outcome, err
	}

	preferred := plain
	if preferV {
		preferred = prefixed
	}
	if err := r.CreateTag(ctx, preferred, head); err != nil {
		return outcome, err
	}
	outcome.Created = preferred
	return outcome, nil
}
