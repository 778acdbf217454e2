package variant

import (
	"maps"
	"slices"
)

// Fragment is the set of overrides one dimension value contributes to a
// variant. Nil scalars leave the field untouched.
type Fragment struct {
	ApplicationIDSuffix *string
	VersionNameSuffix   *string
	Debuggable          *bool
	MinifyEnabled       *bool
	ShrinkResources     *bool
	ProguardFiles       []string
	BuildConfig         map[string]string
}

// Settings is the result of merging every fragment of a variant.
type Settings struct {
	ApplicationIDSuffix string
	VersionNameSuffix   string
	Debuggable          bool
	MinifyEnabled       bool
	ShrinkResources     bool
	ProguardFiles       []string
	BuildConfig         map[string]string
}

// Merge folds fragments in order. Scalars set by a later fragment replace
// earlier values; proguard files accumulate without duplicates; build
// config keys are overwritten key by key.
func Merge(fragments ...Fragment) Settings {
	var s Settings
	for _, f := range fragments {
		if f.ApplicationIDSuffix != nil {
			s.ApplicationIDSuffix = *f.ApplicationIDSuffix
		}
		if f.VersionNameSuffix != nil {
			s.VersionNameSuffix = *f.VersionNameSuffix
		}
		if f.Debuggable != nil {
			s.Debuggable = *f.Debuggable
		}
		if f.MinifyEnabled != nil {
			s.MinifyEnabled = *f.MinifyEnabled
		}
		if f.ShrinkResources != nil {
			s.ShrinkResources = *f.ShrinkResources
		}
		for _, file := range f.ProguardFiles {
			if !slices.Contains(s.ProguardFiles, file) {
				s.ProguardFiles = append(s.ProguardFiles, file)
			}
		}
		if len(f.BuildConfig) > 0 {
			if s.BuildConfig == nil {
				s.BuildConfig = make(map[string]string, len(f.BuildConfig))
			}
			maps.Copy(s.BuildConfig, f.BuildConfig)
		}
	}
	return s
}

// setsShrink reports whether the fragment touches a shrink toggle.
func (f Fragment) setsShrink() bool {
	return f.MinifyEnabled != nil || f.ShrinkResources != nil
}
