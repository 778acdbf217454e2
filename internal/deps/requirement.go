// Package deps resolves declared library requirements into one flat,
// conflict-free dependency set for a single variant.
//
// Requirements come in two kinds. A free request names a version the
// application would like; the last declared free request for a library
// wins. A forced pin names the exact version that must be bundled and wins
// over every free request for the same library. Two pins that disagree are
// a configuration error and are never arbitrated.
package deps

import (
	"fmt"
	"slices"
	"strings"

	"deps.dev/util/maven"
	"deps.dev/util/semver"
)

// Requirement is a single declared (library, version) pair.
type Requirement struct {
	// Name is the library coordinate in group:artifact form.
	Name    string
	Version string
	// Forced marks the requirement as a pin that always wins.
	Forced bool
	// Only restricts the requirement to variants carrying every listed
	// dimension value. Empty means every variant.
	Only []string
	// NativeLibs lists the native binary paths the library contributes.
	NativeLibs []string
	// Source is a human readable declaration site, used in error messages.
	Source string
}

// AppliesTo reports whether the requirement is active for a variant with
// the given dimension values.
func (r Requirement) AppliesTo(values []string) bool {
	for _, v := range r.Only {
		if !slices.Contains(values, v) {
			return false
		}
	}
	return true
}

func (r Requirement) String() string {
	s := r.Name + ":" + r.Version
	if r.Source != "" {
		s += " (" + r.Source + ")"
	}
	return s
}

// ForVariant returns the requirements active for a variant, keeping the
// declaration order.
func ForVariant(reqs []Requirement, values []string) []Requirement {
	var out []Requirement
	for _, r := range reqs {
		if r.AppliesTo(values) {
			out = append(out, r)
		}
	}
	return out
}

// ParseCoordinate splits a Maven coordinate of the form group:artifact or
// group:artifact:version.
func ParseCoordinate(s string) (maven.Dependency, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return maven.Dependency{}, fmt.Errorf("invalid coordinate %q: want group:artifact[:version]", s)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return maven.Dependency{}, fmt.Errorf("invalid coordinate %q: empty segment", s)
		}
	}
	d := maven.Dependency{
		GroupID:    maven.String(parts[0]),
		ArtifactID: maven.String(parts[1]),
	}
	if len(parts) == 3 {
		d.Version = maven.String(parts[2])
	}
	return d, nil
}

// ValidateVersion checks that v is a valid Maven version string.
func ValidateVersion(v string) error {
	if v == "" {
		return fmt.Errorf("version must not be empty")
	}
	if _, err := semver.Maven.Parse(v); err != nil {
		return fmt.Errorf("invalid version %q: %w", v, err)
	}
	return nil
}
