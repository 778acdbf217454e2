// Package variant enumerates the build variants of an application by taking
// the cross product of its declared dimensions.
//
// Dimensions are ordered. The cross product walks them in declaration
// order, and the override fragments of the chosen values are merged in the
// same order, so a later dimension (conventionally the build type) wins over
// an earlier one (the product flavor) when both set the same field.
package variant

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Value is one named value of a dimension together with its overrides.
type Value struct {
	Name     string
	Fragment Fragment
}

// Dimension is a named axis of variation.
type Dimension struct {
	Name string
	// BuildType marks the dimension whose values gate shrinking and pick
	// the signing identity. If no dimension is marked, the last one is used.
	BuildType bool
	Values    []Value
}

// Choice is the value picked for one dimension.
type Choice struct {
	Dimension string
	Value     string
}

// Spec is one enumerated variant.
type Spec struct {
	ID      string
	Choices []Choice
	// BuildType is the value chosen on the build-type dimension.
	BuildType string
	// Fragments holds the chosen values' fragments in dimension order.
	Fragments []Fragment
	Settings  Settings
}

// Values returns the chosen value names in dimension order.
func (s Spec) Values() []string {
	out := make([]string, len(s.Choices))
	for i, c := range s.Choices {
		out[i] = c.Value
	}
	return out
}

// EmptyDimensionError is returned when a dimension declares no values.
type EmptyDimensionError struct {
	Dimension string
}

func (e *EmptyDimensionError) Error() string {
	return fmt.Sprintf("dimension %q declares no values, the variant matrix would be empty", e.Dimension)
}

// ErrNoDimensions is returned when no dimension is declared at all.
var ErrNoDimensions = errors.New("no dimensions declared")

// Build enumerates every variant. The result has exactly the product of the
// per-dimension value counts, ordered with the first dimension varying
// slowest.
func Build(dims []Dimension) ([]Spec, error) {
	if len(dims) == 0 {
		return nil, ErrNoDimensions
	}
	buildType, err := buildTypeIndex(dims)
	if err != nil {
		return nil, err
	}
	seenDims := make(map[string]struct{}, len(dims))
	for i, d := range dims {
		if _, dup := seenDims[d.Name]; dup {
			return nil, fmt.Errorf("dimension %q is declared more than once", d.Name)
		}
		seenDims[d.Name] = struct{}{}
		if len(d.Values) == 0 {
			return nil, &EmptyDimensionError{Dimension: d.Name}
		}
		seenValues := make(map[string]struct{}, len(d.Values))
		for _, v := range d.Values {
			if _, dup := seenValues[v.Name]; dup {
				return nil, fmt.Errorf("dimension %q declares value %q more than once", d.Name, v.Name)
			}
			seenValues[v.Name] = struct{}{}
			if i != buildType && v.Fragment.setsShrink() {
				return nil, fmt.Errorf("value %q of dimension %q sets a shrink toggle; only the build-type dimension %q may", v.Name, d.Name, dims[buildType].Name)
			}
		}
	}

	combos := [][]int{{}}
	for _, d := range dims {
		next := make([][]int, 0, len(combos)*len(d.Values))
		for _, c := range combos {
			for vi := range d.Values {
				combo := append(append(make([]int, 0, len(c)+1), c...), vi)
				next = append(next, combo)
			}
		}
		combos = next
	}

	specs := make([]Spec, 0, len(combos))
	ids := make(map[string]struct{}, len(combos))
	for _, combo := range combos {
		spec := Spec{
			Choices:   make([]Choice, len(dims)),
			Fragments: make([]Fragment, len(dims)),
		}
		names := make([]string, len(dims))
		for di, vi := range combo {
			v := dims[di].Values[vi]
			spec.Choices[di] = Choice{Dimension: dims[di].Name, Value: v.Name}
			spec.Fragments[di] = v.Fragment
			names[di] = v.Name
		}
		spec.ID = Identifier(names...)
		spec.BuildType = spec.Choices[buildType].Value
		spec.Settings = Merge(spec.Fragments...)
		if _, dup := ids[spec.ID]; dup {
			return nil, fmt.Errorf("variant identifier %q is produced by more than one combination", spec.ID)
		}
		ids[spec.ID] = struct{}{}
		specs = append(specs, spec)
	}
	return specs, nil
}

func buildTypeIndex(dims []Dimension) (int, error) {
	idx := -1
	for i, d := range dims {
		if !d.BuildType {
			continue
		}
		if idx >= 0 {
			return 0, fmt.Errorf("dimensions %q and %q are both marked as build type", dims[idx].Name, d.Name)
		}
		idx = i
	}
	if idx < 0 {
		idx = len(dims) - 1
	}
	return idx, nil
}

// Identifier joins value names in lower camel case: the first name is kept
// as is, later names get an upper-cased first letter.
func Identifier(names ...string) string {
	var b strings.Builder
	for i, n := range names {
		if i == 0 || n == "" {
			b.WriteString(n)
			continue
		}
		r, size := utf8.DecodeRuneInString(n)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(n[size:])
	}
	return b.String()
}
