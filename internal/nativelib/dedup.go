// Package nativelib decides which native binaries end up in a packaging
// plan when several resolved dependencies ship a file at the same path.
package nativelib

import (
	"fmt"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Artifact is one native binary contributed by a dependency.
type Artifact struct {
	Path       string
	Dependency string
}

// Rule is one entry of the precedence list. Pattern is matched against the
// artifact path; Prefer optionally orders the contributing dependencies.
type Rule struct {
	Pattern string
	Prefer  []string
}

// UnresolvedConflictError is returned when a path has several contributors
// and no precedence rule matches it.
type UnresolvedConflictError struct {
	Path         string
	Contributors []string
}

func (e *UnresolvedConflictError) Error() string {
	return fmt.Sprintf("native library %s is contributed by %s and no precedence rule matches it",
		e.Path, strings.Join(e.Contributors, ", "))
}

// ValidatePattern reports whether a rule pattern is well formed.
func ValidatePattern(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid native library pattern %q", pattern)
	}
	return nil
}

// Deduplicate returns at most one artifact per path, ordered by path.
// Input order is the contributor order used by "first wins".
func Deduplicate(artifacts []Artifact, rules []Rule) ([]Artifact, error) {
	byPath := make(map[string][]string)
	var paths []string
	for _, a := range artifacts {
		contributors, seen := byPath[a.Path]
		if !seen {
			paths = append(paths, a.Path)
		}
		if !slices.Contains(contributors, a.Dependency) {
			byPath[a.Path] = append(contributors, a.Dependency)
		}
	}
	sort.Strings(paths)

	out := make([]Artifact, 0, len(paths))
	for _, p := range paths {
		contributors := byPath[p]
		if len(contributors) == 1 {
			out = append(out, Artifact{Path: p, Dependency: contributors[0]})
			continue
		}
		rule, ok := match(rules, p)
		if !ok {
			return nil, &UnresolvedConflictError{Path: p, Contributors: contributors}
		}
		out = append(out, Artifact{Path: p, Dependency: pick(rule, contributors)})
	}
	return out, nil
}

func match(rules []Rule, p string) (Rule, bool) {
	for _, r := range rules {
		// ValidatePattern ran at load time, so a match error cannot happen here.
		if ok, _ := doublestar.Match(r.Pattern, p); ok {
			return r, true
		}
	}
	return Rule{}, false
}

func pick(r Rule, contributors []string) string {
	for _, preferred := range r.Prefer {
		if slices.Contains(contributors, preferred) {
			return preferred
		}
	}
	return contributors[0]
}

// ABI returns the ABI directory of a path such as lib/arm64-v8a/libfoo.so,
// or "" when the path is not ABI specific.
func ABI(p string) string {
	parts := strings.Split(path.Clean(p), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "lib" || parts[i] == "jni" {
			return parts[i+1]
		}
	}
	return ""
}

// FilterABIs drops artifacts built for ABIs outside the filter list. An
// empty filter keeps everything. Artifacts without an ABI are always kept.
func FilterABIs(artifacts []Artifact, abis []string) (kept, discarded []Artifact) {
	if len(abis) == 0 {
		return artifacts, nil
	}
	for _, a := range artifacts {
		abi := ABI(a.Path)
		if abi == "" || slices.Contains(abis, abi) {
			kept = append(kept, a)
			continue
		}
		discarded = append(discarded, a)
	}
	return kept, discarded
}
