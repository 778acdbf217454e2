// Package plan assembles the per-variant packaging plan, the only output of
// a build request, from the decisions of every resolution stage.
package plan

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/variantplan/internal/config"
	"github.com/specialistvlad/variantplan/internal/deps"
	"github.com/specialistvlad/variantplan/internal/nativelib"
	"github.com/specialistvlad/variantplan/internal/shrink"
	"github.com/specialistvlad/variantplan/internal/signing"
	"github.com/specialistvlad/variantplan/internal/split"
	"github.com/specialistvlad/variantplan/internal/variant"
)

// PackagingPlan is the concrete recipe the external packager executes for
// one variant. It is not modified after Assemble returns it.
type PackagingPlan struct {
	Variant       string
	BuildType     string
	Choices       []variant.Choice
	ApplicationID string
	VersionName   string
	VersionCode   int
	MinSDK        int
	TargetSDK     int
	Debuggable    bool
	Multidex      bool
	BuildConfig   map[string]string

	Dependencies []deps.Resolved
	Overrides    []deps.Override

	NativeLibraries  []nativelib.Artifact
	DiscardedNatives []nativelib.Artifact
	Splits           split.Plan
	Locales          []string
	Shrink           shrink.Plan
	Signing          signing.Selection
}

// Names of the stages that can fail. Split planning and signing selection
// always succeed.
const (
	StageDependencies = "dependencies"
	StageNative       = "native-libraries"
	StageShrink       = "shrink"
)

// Inputs carries the outcome of every stage for one variant. A stage that
// failed leaves its value zero and sets its error.
type Inputs struct {
	Dependencies    *deps.Set
	DependenciesErr error

	Natives          []nativelib.Artifact
	DiscardedNatives []nativelib.Artifact
	NativesErr       error

	Splits  split.Plan
	Locales []string

	Shrink    shrink.Plan
	ShrinkErr error

	Signing signing.Selection
}

// StageError is one failed stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

// AssemblyError is returned when a variant cannot be assembled because an
// upstream stage already failed for it.
type AssemblyError struct {
	Variant string
	Stages  []*StageError
}

func (e *AssemblyError) Error() string {
	if len(e.Stages) == 1 {
		return fmt.Sprintf("variant %s: %s", e.Variant, e.Stages[0])
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "variant %s: %d stages failed:", e.Variant, len(e.Stages))
	for _, s := range e.Stages {
		sb.WriteString("\n  - ")
		sb.WriteString(s.Error())
	}
	return sb.String()
}

// Unwrap exposes the stage errors to errors.Is and errors.As.
func (e *AssemblyError) Unwrap() []error {
	out := make([]error, len(e.Stages))
	for i, s := range e.Stages {
		out[i] = s
	}
	return out
}

// Assemble joins the stage outputs into a plan. It only fails when a stage
// failed, and then reports every failed stage.
func Assemble(app config.Application, spec variant.Spec, in Inputs) (*PackagingPlan, error) {
	var failed []*StageError
	for _, s := range []struct {
		name string
		err  error
	}{
		{StageDependencies, in.DependenciesErr},
		{StageNative, in.NativesErr},
		{StageShrink, in.ShrinkErr},
	} {
		if s.err != nil {
			failed = append(failed, &StageError{Stage: s.name, Err: s.err})
		}
	}
	if in.DependenciesErr == nil && in.Dependencies == nil {
		failed = append(failed, &StageError{Stage: StageDependencies, Err: errors.New("stage did not run")})
	}
	if len(failed) > 0 {
		return nil, &AssemblyError{Variant: spec.ID, Stages: failed}
	}

	p := &PackagingPlan{
		Variant:       spec.ID,
		BuildType:     spec.BuildType,
		Choices:       slices.Clone(spec.Choices),
		ApplicationID: app.ID + spec.Settings.ApplicationIDSuffix,
		VersionName:   app.VersionName + spec.Settings.VersionNameSuffix,
		VersionCode:   app.VersionCode,
		MinSDK:        app.MinSDK,
		TargetSDK:     app.TargetSDK,
		Debuggable:    spec.Settings.Debuggable,
		Multidex:      app.Multidex,
		BuildConfig:   maps.Clone(spec.Settings.BuildConfig),

		Dependencies: in.Dependencies.All(),
		Overrides:    in.Dependencies.Overrides(),

		NativeLibraries:  slices.Clone(in.Natives),
		DiscardedNatives: slices.Clone(in.DiscardedNatives),
		Splits:           in.Splits,
		Locales:          slices.Clone(in.Locales),
		Shrink:           in.Shrink,
		Signing:          in.Signing,
	}
	return p, nil
}

// Distributable reports whether the plan is signed with a mapped identity
// rather than the default fallback.
func (p *PackagingPlan) Distributable() bool {
	return !p.Signing.Fallback
}

// Dependency returns the resolved version of a library in the plan.
func (p *PackagingPlan) Dependency(name string) (string, bool) {
	for _, d := range p.Dependencies {
		if d.Name == name {
			return d.Version, true
		}
	}
	return "", false
}
