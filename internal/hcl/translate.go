package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/variantplan/internal/config"
	"github.com/specialistvlad/variantplan/internal/ctxlog"
	"github.com/specialistvlad/variantplan/internal/deps"
	"github.com/specialistvlad/variantplan/internal/nativelib"
	"github.com/specialistvlad/variantplan/internal/signing"
	"github.com/specialistvlad/variantplan/internal/split"
	"github.com/specialistvlad/variantplan/internal/variant"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// translate turns the raw blocks of every file into a model. The
// application block is handled first because its values are visible to
// expressions in every other block.
func (l *Loader) translate(ctx context.Context, blocks hcl.Blocks) (*config.Model, hcl.Diagnostics) {
	model := config.NewModel()
	var diags hcl.Diagnostics

	for _, typ := range []string{"application", "bundle", "signing"} {
		diags = append(diags, checkSingleton(blocks, typ)...)
	}
	if diags.HasErrors() {
		return nil, diags
	}

	if app := blocks.OfType("application"); len(app) == 1 {
		var ab applicationBlock
		if d := gohcl.DecodeBody(app[0].Body, nil, &ab); d.HasErrors() {
			return nil, d
		}
		model.Application = config.Application{
			ID:                   ab.ID,
			VersionName:          ab.VersionName,
			VersionCode:          ab.VersionCode,
			MinSDK:               ab.MinSDK,
			TargetSDK:            ab.TargetSDK,
			Multidex:             ab.Multidex,
			ABIFilters:           ab.ABIFilters,
			GenerateLocaleConfig: ab.GenerateLocaleConfig,
		}
	}
	evalCtx := applicationEvalContext(model.Application)

	identities := make(map[string]hcl.Range)
	for _, b := range blocks {
		switch b.Type {
		case "dimension":
			dim, d := l.translateDimension(ctx, b, evalCtx)
			diags = append(diags, d...)
			if !d.HasErrors() {
				model.Dimensions = append(model.Dimensions, dim)
			}
		case "dependency":
			var db dependencyBlock
			if d := gohcl.DecodeBody(b.Body, evalCtx, &db); d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			req, d := requirement(b, db.Version, db.Only, false)
			diags = append(diags, d...)
			req.NativeLibs = db.NativeLibs
			model.Requirements = append(model.Requirements, req)
		case "force":
			var fb forceBlock
			if d := gohcl.DecodeBody(b.Body, evalCtx, &fb); d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			req, d := requirement(b, fb.Version, fb.Only, true)
			diags = append(diags, d...)
			model.Requirements = append(model.Requirements, req)
		case "packaging":
			var pb packagingBlock
			if d := gohcl.DecodeBody(b.Body, evalCtx, &pb); d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			for _, pf := range pb.PickFirst {
				model.Precedence = append(model.Precedence, nativelib.Rule{Pattern: pf.Pattern, Prefer: pf.Prefer})
			}
		case "bundle":
			var bb bundleBlock
			if d := gohcl.DecodeBody(b.Body, evalCtx, &bb); d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			applyToggle(model.Splits, split.Language, bb.Language)
			applyToggle(model.Splits, split.Density, bb.Density)
			applyToggle(model.Splits, split.ABI, bb.ABI)
		case "resource":
			var rb resourceBlock
			if d := gohcl.DecodeBody(b.Body, evalCtx, &rb); d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			model.Resources = append(model.Resources, split.Unit{
				Name:     b.Labels[0],
				Density:  rb.Density,
				ABI:      rb.ABI,
				Language: rb.Language,
			})
		case "signing_identity":
			name := b.Labels[0]
			if prev, ok := identities[name]; ok {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate signing identity",
					Detail:   fmt.Sprintf("Signing identity %q was already declared at %s.", name, prev),
					Subject:  b.DefRange.Ptr(),
				})
				continue
			}
			identities[name] = b.DefRange
			var ib identityBlock
			if d := gohcl.DecodeBody(b.Body, evalCtx, &ib); d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			model.Signing.Identities[name] = signing.Identity{Name: name, StoreFile: ib.StoreFile, KeyAlias: ib.KeyAlias}
		case "signing":
			var sb signingBlock
			if d := gohcl.DecodeBody(b.Body, evalCtx, &sb); d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			if sb.Default != nil {
				model.Signing.Default = *sb.Default
			}
			for bt, id := range sb.BuildTypes {
				model.Signing.ByBuildType[bt] = id
			}
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return model, diags
}

func (l *Loader) translateDimension(ctx context.Context, b *hcl.Block, evalCtx *hcl.EvalContext) (variant.Dimension, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)

	var db dimensionBlock
	if diags := gohcl.DecodeBody(b.Body, evalCtx, &db); diags.HasErrors() {
		return variant.Dimension{}, diags
	}

	dim := variant.Dimension{Name: b.Labels[0], BuildType: db.BuildType}
	var diags hcl.Diagnostics
	for _, vb := range db.Values {
		buildConfig, d := decodeStringMap(ctx, vb.BuildConfig, evalCtx, "build_config")
		diags = append(diags, d...)
		dim.Values = append(dim.Values, variant.Value{
			Name: vb.Name,
			Fragment: variant.Fragment{
				ApplicationIDSuffix: vb.ApplicationIDSuffix,
				VersionNameSuffix:   vb.VersionNameSuffix,
				Debuggable:          vb.Debuggable,
				MinifyEnabled:       vb.MinifyEnabled,
				ShrinkResources:     vb.ShrinkResources,
				ProguardFiles:       vb.ProguardFiles,
				BuildConfig:         buildConfig,
			},
		})
	}
	logger.Debug("Translated dimension.", "dimension", dim.Name, "values", len(dim.Values), "build_type", dim.BuildType)
	return dim, diags
}

// requirement builds a requirement from a dependency or force block. The
// version comes from the coordinate label or the version attribute, never
// both.
func requirement(b *hcl.Block, version *string, only []string, forced bool) (deps.Requirement, hcl.Diagnostics) {
	req := deps.Requirement{
		Name:   b.Labels[0],
		Forced: forced,
		Only:   only,
		Source: fmt.Sprintf("%s:%d", b.DefRange.Filename, b.DefRange.Start.Line),
	}

	coord, err := deps.ParseCoordinate(b.Labels[0])
	if err != nil {
		return req, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid coordinate",
			Detail:   err.Error(),
			Subject:  b.LabelRanges[0].Ptr(),
		}}
	}
	req.Name = coord.Name()
	req.Version = string(coord.Version)

	if version != nil {
		if req.Version != "" && req.Version != *version {
			return req, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Conflicting versions",
				Detail:   fmt.Sprintf("%s %q sets version %q in its coordinate and %q in its body.", b.Type, b.Labels[0], req.Version, *version),
				Subject:  b.DefRange.Ptr(),
			}}
		}
		req.Version = *version
	}
	if req.Version == "" {
		return req, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing version",
			Detail:   fmt.Sprintf("%s %q needs a version, either in the coordinate or as a version attribute.", b.Type, b.Labels[0]),
			Subject:  b.DefRange.Ptr(),
		}}
	}
	return req, nil
}

func applyToggle(t split.Toggles, axis split.Axis, b *splitBlock) {
	if b != nil && b.EnableSplit != nil {
		t[axis] = *b.EnableSplit
	}
}

func checkSingleton(blocks hcl.Blocks, typ string) hcl.Diagnostics {
	found := blocks.OfType(typ)
	var diags hcl.Diagnostics
	for _, dup := range found[min(1, len(found)):] {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  fmt.Sprintf("Duplicate %s block", typ),
			Detail:   fmt.Sprintf("Only one %s block is allowed; the first was declared at %s.", typ, found[0].DefRange),
			Subject:  dup.DefRange.Ptr(),
		})
	}
	return diags
}

// applicationEvalContext exposes the application defaults as the
// "application" variable.
func applicationEvalContext(app config.Application) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"application": cty.ObjectVal(map[string]cty.Value{
				"id":           cty.StringVal(app.ID),
				"version_name": cty.StringVal(app.VersionName),
				"version_code": cty.NumberIntVal(int64(app.VersionCode)),
				"min_sdk":      cty.NumberIntVal(int64(app.MinSDK)),
				"target_sdk":   cty.NumberIntVal(int64(app.TargetSDK)),
			}),
		},
	}
}

// decodeStringMap evaluates expr into a map of strings. Numbers and bools
// are converted; an absent or null expression yields nil.
func decodeStringMap(ctx context.Context, expr hcl.Expression, evalCtx *hcl.EvalContext, attrName string) (map[string]string, hcl.Diagnostics) {
	if !isExprDefined(ctx, expr, attrName) {
		return nil, nil
	}
	if diags := checkReferences(expr); diags.HasErrors() {
		return nil, diags
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}

	invalid := func(err error) hcl.Diagnostics {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  fmt.Sprintf("Invalid %s", attrName),
			Detail:   fmt.Sprintf("%s must be a map of strings: %s.", attrName, err),
			Subject:  expr.Range().Ptr(),
		}}
	}
	conv, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, invalid(err)
	}
	out := make(map[string]string)
	if err := gocty.FromCtyValue(conv, &out); err != nil {
		return nil, invalid(err)
	}
	return out, nil
}

// isExprDefined checks if an HCL expression was actually present in the
// source. The decoder fills omitted optional expressions with zero-width
// placeholders, so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	defined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", r.String(),
		"is_defined", defined,
	)
	return defined
}
