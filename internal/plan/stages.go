package plan

import (
	"context"

	"github.com/specialistvlad/variantplan/internal/config"
	"github.com/specialistvlad/variantplan/internal/ctxlog"
	"github.com/specialistvlad/variantplan/internal/deps"
	"github.com/specialistvlad/variantplan/internal/nativelib"
	"github.com/specialistvlad/variantplan/internal/shrink"
	"github.com/specialistvlad/variantplan/internal/signing"
	"github.com/specialistvlad/variantplan/internal/split"
	"github.com/specialistvlad/variantplan/internal/variant"
)

// Resolve runs every stage for one variant against the shared, read-only
// model and assembles the result. Stages keep running after a failure so
// the AssemblyError lists every problem of the variant at once.
func Resolve(ctx context.Context, model *config.Model, signer *signing.Selector, spec variant.Spec) (*PackagingPlan, error) {
	logger := ctxlog.FromContext(ctx).With("variant", spec.ID)
	var in Inputs

	reqs := deps.ForVariant(model.Requirements, spec.Values())
	in.Dependencies, in.DependenciesErr = deps.Resolve(reqs)
	if in.DependenciesErr == nil {
		logger.Debug("Dependencies resolved.", "count", in.Dependencies.Len(), "requirements", len(reqs))
		for _, o := range in.Dependencies.Overrides() {
			if o.Downgrade {
				logger.Warn("Forced pin downgrades a requested version.", "library", o.Name, "requested", o.Requested, "forced", o.Forced)
			} else {
				logger.Info("Forced pin overrides a requested version.", "library", o.Name, "requested", o.Requested, "forced", o.Forced)
			}
		}
	}

	var units []split.Unit
	if in.Dependencies != nil {
		var artifacts []nativelib.Artifact
		for _, d := range in.Dependencies.InDeclarationOrder() {
			for _, p := range d.NativeLibs {
				artifacts = append(artifacts, nativelib.Artifact{Path: p, Dependency: d.Name})
			}
		}
		kept, discarded := nativelib.FilterABIs(artifacts, model.Application.ABIFilters)
		in.DiscardedNatives = discarded
		in.Natives, in.NativesErr = nativelib.Deduplicate(kept, model.Precedence)
		if in.NativesErr == nil {
			logger.Debug("Native libraries deduplicated.", "kept", len(in.Natives), "discarded", len(discarded))
		}
		for _, a := range in.Natives {
			units = append(units, split.Unit{Name: a.Path, ABI: nativelib.ABI(a.Path)})
		}
	}

	units = append(units, model.Resources...)
	in.Splits = split.Partition(model.Splits, units)
	if model.Application.GenerateLocaleConfig {
		in.Locales = split.Languages(units)
	}
	logger.Debug("Splits planned.", "outputs", len(in.Splits.Outputs), "enabled_axes", in.Splits.Enabled)

	in.Shrink, in.ShrinkErr = shrink.Decide(shrink.Gate{
		BuildType:       spec.BuildType,
		Minify:          spec.Settings.MinifyEnabled,
		ShrinkResources: spec.Settings.ShrinkResources,
	}, spec.Settings.ProguardFiles)
	if in.ShrinkErr == nil {
		logger.Debug("Shrink decided.", "enabled", in.Shrink.Enabled, "rules", len(in.Shrink.Rules))
	}

	in.Signing = signer.Select(spec.BuildType)
	if in.Signing.Fallback {
		logger.Warn("No signing identity mapped for build type, using default.", "build_type", spec.BuildType, "identity", in.Signing.Identity.Name)
	}

	return Assemble(model.Application, spec, in)
}
