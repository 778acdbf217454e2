package config

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/variantplan/internal/deps"
	"github.com/specialistvlad/variantplan/internal/nativelib"
)

// Validate checks the parts of the model that do not depend on a variant.
// Variant scoped problems, such as conflicting pins that only meet in some
// variants, are left to resolution.
func (m *Model) Validate() error {
	var errs []error
	if m.Application.ID == "" {
		errs = append(errs, errors.New("application id is required"))
	}
	if m.Application.MinSDK > 0 && m.Application.TargetSDK > 0 && m.Application.MinSDK > m.Application.TargetSDK {
		errs = append(errs, fmt.Errorf("min_sdk %d is above target_sdk %d", m.Application.MinSDK, m.Application.TargetSDK))
	}
	for _, r := range m.Requirements {
		if _, err := deps.ParseCoordinate(r.Name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Source, err))
		}
		if err := deps.ValidateVersion(r.Version); err != nil {
			errs = append(errs, fmt.Errorf("%s: dependency %s: %w", r.Source, r.Name, err))
		}
		if r.Forced && len(r.NativeLibs) > 0 {
			errs = append(errs, fmt.Errorf("%s: forced pin %s cannot declare native libraries", r.Source, r.Name))
		}
	}
	seenResources := make(map[string]struct{}, len(m.Resources))
	for _, u := range m.Resources {
		if _, dup := seenResources[u.Name]; dup {
			errs = append(errs, fmt.Errorf("resource %q is declared more than once", u.Name))
		}
		seenResources[u.Name] = struct{}{}
	}
	for _, rule := range m.Precedence {
		if err := nativelib.ValidatePattern(rule.Pattern); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := m.Selector(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
