package deps

import (
	"fmt"
	"sort"

	"deps.dev/util/semver"
)

// Resolved is the single version chosen for one library.
type Resolved struct {
	Name    string
	Version string
	Forced  bool
	// NativeLibs is carried over from the free requests for the library,
	// since a pin only changes the version that gets bundled.
	NativeLibs []string
}

// Override records a free request that a forced pin replaced.
type Override struct {
	Name      string
	Requested string
	Forced    string
	// Downgrade is true when the pinned version orders below the request.
	Downgrade bool
}

// Set is a ResolvedDependencySet: one entry per library name.
type Set struct {
	entries map[string]Resolved
	// order holds library names by first declaration.
	order     []string
	overrides []Override
}

// Get returns the resolved entry for a library.
func (s *Set) Get(name string) (Resolved, bool) {
	r, ok := s.entries[name]
	return r, ok
}

// Len returns the number of resolved libraries.
func (s *Set) Len() int { return len(s.entries) }

// All returns every resolved entry ordered by name.
func (s *Set) All() []Resolved {
	out := make([]Resolved, 0, len(s.entries))
	for _, r := range s.entries {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// InDeclarationOrder returns every resolved entry in the order its library
// was first declared. Native library contributors are ranked by it.
func (s *Set) InDeclarationOrder() []Resolved {
	out := make([]Resolved, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.entries[name])
	}
	return out
}

// Overrides returns the free requests replaced by pins, ordered by name.
func (s *Set) Overrides() []Override {
	return append([]Override(nil), s.overrides...)
}

// ConflictError is returned when two forced pins for the same library ask
// for different versions.
type ConflictError struct {
	Name   string
	First  Requirement
	Second Requirement
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting forced pins for %s: %s and %s", e.Name, e.First, e.Second)
}

type group struct {
	pin  *Requirement
	free []Requirement
}

// Resolve computes the dependency set for an ordered list of requirements.
// It is a pure function of its input.
func Resolve(reqs []Requirement) (*Set, error) {
	groups := make(map[string]*group)
	var order []string
	for _, r := range reqs {
		g, ok := groups[r.Name]
		if !ok {
			g = &group{}
			groups[r.Name] = g
			order = append(order, r.Name)
		}
		if !r.Forced {
			g.free = append(g.free, r)
			continue
		}
		if g.pin != nil && g.pin.Version != r.Version {
			return nil, &ConflictError{Name: r.Name, First: *g.pin, Second: r}
		}
		if g.pin == nil {
			pin := r
			g.pin = &pin
		}
	}

	set := &Set{entries: make(map[string]Resolved, len(groups)), order: order}
	for name, g := range groups {
		res := Resolved{Name: name}
		for _, f := range g.free {
			if len(f.NativeLibs) > 0 {
				res.NativeLibs = append([]string(nil), f.NativeLibs...)
			}
		}
		switch {
		case g.pin != nil:
			res.Version = g.pin.Version
			res.Forced = true
			for _, f := range g.free {
				if f.Version == g.pin.Version {
					continue
				}
				set.overrides = append(set.overrides, Override{
					Name:      name,
					Requested: f.Version,
					Forced:    g.pin.Version,
					Downgrade: semver.Maven.Compare(g.pin.Version, f.Version) < 0,
				})
			}
		default:
			res.Version = g.free[len(g.free)-1].Version
		}
		set.entries[name] = res
	}
	sort.SliceStable(set.overrides, func(i, j int) bool { return set.overrides[i].Name < set.overrides[j].Name })
	return set, nil
}
