// Package split partitions resource units into the artifact splits of a
// variant. Each axis is toggled independently; content on a disabled axis
// stays in the universal artifact.
package split

import (
	"sort"
	"strings"
)

// Axis is a device attribute resources can be split by.
type Axis string

const (
	Density  Axis = "density"
	ABI      Axis = "abi"
	Language Axis = "language"
)

// Axes lists every axis in the fixed order used for output keys.
var Axes = []Axis{ABI, Density, Language}

// UniversalKey names the output unit holding resources that are not split.
const UniversalKey = "universal"

// Toggles holds the enabled flag for each axis.
type Toggles map[Axis]bool

// Enabled returns the enabled axes in key order.
func (t Toggles) Enabled() []Axis {
	var out []Axis
	for _, a := range Axes {
		if t[a] {
			out = append(out, a)
		}
	}
	return out
}

// Unit is one resource unit with its device attributes. An empty attribute
// means the unit applies to every device on that axis.
type Unit struct {
	Name     string
	Density  string
	ABI      string
	Language string
}

func (u Unit) attr(a Axis) string {
	switch a {
	case Density:
		return u.Density
	case ABI:
		return u.ABI
	case Language:
		return u.Language
	}
	return ""
}

// Output is one emitted artifact unit.
type Output struct {
	Key string
	// Attributes holds the axis values this output is specific to.
	Attributes map[Axis]string
	Resources  []string
}

// Plan is the split decision for one variant.
type Plan struct {
	Enabled []Axis
	Outputs []Output
}

// Partition assigns every unit to exactly one output. The output key is the
// tuple of the unit's attributes on the enabled axes; units without any such
// attribute land in the universal output. Outputs are sorted by key with the
// universal output first, and resources keep their input order. A unit name
// seen again is ignored; the first unit with that name decides its output.
func Partition(toggles Toggles, units []Unit) Plan {
	enabled := toggles.Enabled()
	byKey := make(map[string]*Output)
	seen := make(map[string]struct{}, len(units))
	for _, u := range units {
		if _, dup := seen[u.Name]; dup {
			continue
		}
		seen[u.Name] = struct{}{}
		attrs := make(map[Axis]string)
		var parts []string
		for _, a := range enabled {
			if v := u.attr(a); v != "" {
				attrs[a] = v
				parts = append(parts, string(a)+"="+v)
			}
		}
		key := UniversalKey
		if len(parts) > 0 {
			key = strings.Join(parts, ",")
		}
		out, ok := byKey[key]
		if !ok {
			out = &Output{Key: key, Attributes: attrs}
			byKey[key] = out
		}
		out.Resources = append(out.Resources, u.Name)
	}
	if len(byKey) == 0 {
		byKey[UniversalKey] = &Output{Key: UniversalKey, Attributes: map[Axis]string{}}
	}

	plan := Plan{Enabled: enabled, Outputs: make([]Output, 0, len(byKey))}
	for _, o := range byKey {
		plan.Outputs = append(plan.Outputs, *o)
	}
	sort.Slice(plan.Outputs, func(i, j int) bool {
		a, b := plan.Outputs[i].Key, plan.Outputs[j].Key
		if a == UniversalKey || b == UniversalKey {
			return a == UniversalKey && b != UniversalKey
		}
		return a < b
	})
	return plan
}

// Languages returns the sorted distinct languages across units.
func Languages(units []Unit) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, u := range units {
		if u.Language == "" {
			continue
		}
		if _, ok := seen[u.Language]; ok {
			continue
		}
		seen[u.Language] = struct{}{}
		out = append(out, u.Language)
	}
	sort.Strings(out)
	return out
}
