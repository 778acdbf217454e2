// Package shrink decides whether code shrinking and obfuscation run for a
// variant and which rule files drive it.
package shrink

import (
	"errors"
	"slices"
)

// Rule references one shrink rule file.
type Rule struct {
	File string
}

// Gate carries the build-type switches. Flavors never set these.
type Gate struct {
	BuildType       string
	Minify          bool
	ShrinkResources bool
}

// Plan is the shrink decision. A disabled plan has no rules.
type Plan struct {
	Enabled         bool
	ShrinkResources bool
	// Rules apply in order; later files refine earlier ones.
	Rules []Rule
}

// ErrResourcesWithoutCode is returned when resource shrinking is requested
// without code shrinking.
var ErrResourcesWithoutCode = errors.New("resource shrinking requires code shrinking to be enabled")

// Decide builds the shrink plan. Rule files are used only when the gate
// enables shrinking; duplicates keep their first position.
func Decide(gate Gate, files []string) (Plan, error) {
	if gate.ShrinkResources && !gate.Minify {
		return Plan{}, ErrResourcesWithoutCode
	}
	if !gate.Minify {
		return Plan{}, nil
	}
	plan := Plan{Enabled: true, ShrinkResources: gate.ShrinkResources}
	var seen []string
	for _, f := range files {
		if f == "" || slices.Contains(seen, f) {
			continue
		}
		seen = append(seen, f)
		plan.Rules = append(plan.Rules, Rule{File: f})
	}
	return plan, nil
}
