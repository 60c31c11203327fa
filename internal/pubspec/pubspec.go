// Package pubspec reads and bumps the version line of a Flutter pubspec.yaml.
package pubspec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Part names the component of a version to bump.
type Part string

const (
	Major Part = "major"
	Minor Part = "minor"
	Patch Part = "patch"
	Build Part = "build"
)

// ParsePart validates a part name.
func ParsePart(s string) (Part, error) {
	switch p := Part(strings.ToLower(s)); p {
	case Major, Minor, Patch, Build:
		return p, nil
	}
	return "", fmt.Errorf("invalid version part %q (want major, minor, patch or build)", s)
}

var versionLine = regexp.MustCompile(`(?m)^version:\s*(.+)$`)

// ReadVersion returns the version string, preferring a YAML parse and
// falling back to the first version: line for files that are not valid YAML.
// It returns "" when there is no version.
func ReadVersion(content []byte) string {
	var doc struct {
		Version *string `yaml:"version"`
	}
	if err := yaml.Unmarshal(content, &doc); err == nil && doc.Version != nil {
		if v := strings.TrimSpace(*doc.Version); v != "" {
			return v
		}
	}

	if m := versionLine.FindSubmatch(content); m != nil {
		return strings.TrimSpace(string(m[1]))
	}
	return ""
}

// ParseVersion parses a pubspec version as strict semver.
func ParseVersion(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("invalid semver format in pubspec.yaml '%s': %w", s, err)
	}
	return v, nil
}

// Bump returns the next version. major, minor and patch reset the lower
// parts, drop the prerelease and restart the build number at 1. build
// increments a numeric build number, treating anything else as 0.
func Bump(v *semver.Version, part Part) *semver.Version {
	switch part {
	case Major:
		return semver.New(v.Major()+1, 0, 0, "", "1")
	case Minor:
		return semver.New(v.Major(), v.Minor()+1, 0, "", "1")
	case Patch:
		return semver.New(v.Major(), v.Minor(), v.Patch()+1, "", "1")
	default:
		build, err := strconv.ParseUint(v.Metadata(), 10, 64)
		if err != nil {
			build = 0
		}
		return semver.New(v.Major(), v.Minor(), v.Patch(), v.Prerelease(), strconv.FormatUint(build+1, 10))
	}
}

// Rewrite bumps the first version: line in content and returns the new
// content and version. Everything else in the file is preserved. ok is
// false when there is no version line.
func Rewrite(content []byte, part Part) (out []byte, next *semver.Version, ok bool, err error) {
	loc := versionLine.FindSubmatchIndex(content)
	if loc == nil {
		return content, nil, false, nil
	}

	raw := string(content[loc[2]:loc[3]])
	current, err := ParseVersion(strings.TrimSpace(raw))
	if err != nil {
		return nil, nil, true, err
	}
	next = Bump(current, part)

	line := "version: " + next.String()
	if strings.HasSuffix(raw, "\r") {
		line += "\r"
	}

	out = make([]byte, 0, len(content)+8)
	out = append(out, content[:loc[0]]...)
	out = append(out, line...)
	out = append(out, content[loc[1]:]...)
	return out, next, true, nil
}
