package variant

import (
	"fmt"
	"strings"
)

// Selector names the variants a build request wants.
type Selector struct {
	All bool
	IDs []string
}

// ParseSelector reads "all" (or an empty string) as every variant and
// anything else as a comma separated identifier list.
func ParseSelector(s string) Selector {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return Selector{All: true}
	}
	var sel Selector
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			sel.IDs = append(sel.IDs, id)
		}
	}
	if len(sel.IDs) == 0 {
		sel.All = true
	}
	return sel
}

func (s Selector) String() string {
	if s.All {
		return "all"
	}
	return strings.Join(s.IDs, ",")
}

// UnknownVariantError is reported for a selector identifier that matches no
// enumerated variant.
type UnknownVariantError struct {
	ID string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("variant %q does not exist", e.ID)
}

// Select keeps the specs named by the selector in matrix order and returns
// the identifiers that matched nothing.
func Select(specs []Spec, sel Selector) (matched []Spec, unknown []string) {
	if sel.All {
		return specs, nil
	}
	wanted := make(map[string]bool, len(sel.IDs))
	for _, id := range sel.IDs {
		wanted[id] = false
	}
	for _, s := range specs {
		if _, ok := wanted[s.ID]; ok {
			wanted[s.ID] = true
			matched = append(matched, s)
		}
	}
	for _, id := range sel.IDs {
		if found := wanted[id]; !found {
			unknown = append(unknown, id)
			wanted[id] = true
		}
	}
	return matched, unknown
}
