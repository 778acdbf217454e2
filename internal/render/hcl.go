package render

import (
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/variantplan/internal/plan"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// HCL renders the batch in the same syntax the configuration is written
// in: one variant block per plan, one failure block per failed variant.
type HCL struct{}

func (HCL) Render(w io.Writer, b *plan.Batch) error {
	doc := newDocument(b)
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	for i, p := range doc.Plans {
		if i > 0 {
			root.AppendNewline()
		}
		writePlan(root.AppendNewBlock("variant", []string{p.Variant}).Body(), p)
	}
	for _, fd := range doc.Failures {
		root.AppendNewline()
		fb := root.AppendNewBlock("failure", []string{fd.Variant}).Body()
		fb.SetAttributeValue("error", cty.StringVal(fd.Error))
	}
	if len(doc.Skipped) > 0 {
		root.AppendNewline()
		root.SetAttributeValue("skipped", stringList(doc.Skipped))
	}

	_, err := f.WriteTo(w)
	return err
}

func writePlan(body *hclwrite.Body, p planDoc) {
	body.SetAttributeValue("build_type", cty.StringVal(p.BuildType))
	body.SetAttributeValue("choices", stringMap(p.Choices))
	body.SetAttributeValue("application_id", cty.StringVal(p.ApplicationID))
	body.SetAttributeValue("version_name", cty.StringVal(p.VersionName))
	body.SetAttributeValue("version_code", cty.NumberIntVal(int64(p.VersionCode)))
	if p.MinSDK > 0 {
		body.SetAttributeValue("min_sdk", cty.NumberIntVal(int64(p.MinSDK)))
	}
	if p.TargetSDK > 0 {
		body.SetAttributeValue("target_sdk", cty.NumberIntVal(int64(p.TargetSDK)))
	}
	body.SetAttributeValue("debuggable", cty.BoolVal(p.Debuggable))
	body.SetAttributeValue("multidex", cty.BoolVal(p.Multidex))
	body.SetAttributeValue("distributable", cty.BoolVal(p.Distributable))
	if len(p.BuildConfig) > 0 {
		body.SetAttributeValue("build_config", stringMap(p.BuildConfig))
	}
	if len(p.Locales) > 0 {
		body.SetAttributeValue("locales", stringList(p.Locales))
	}

	for _, d := range p.Dependencies {
		db := body.AppendNewBlock("dependency", []string{d.Name}).Body()
		db.SetAttributeValue("version", cty.StringVal(d.Version))
		if d.Forced {
			db.SetAttributeValue("forced", cty.True)
		}
	}
	for _, o := range p.Overrides {
		ob := body.AppendNewBlock("override", []string{o.Name}).Body()
		ob.SetAttributeValue("requested", cty.StringVal(o.Requested))
		ob.SetAttributeValue("forced", cty.StringVal(o.Forced))
		ob.SetAttributeValue("downgrade", cty.BoolVal(o.Downgrade))
	}
	for _, n := range p.NativeLibraries {
		body.AppendNewBlock("native_library", []string{n.Path}).Body().
			SetAttributeValue("dependency", cty.StringVal(n.Dependency))
	}
	for _, n := range p.DiscardedNatives {
		body.AppendNewBlock("discarded_native_library", []string{n.Path}).Body().
			SetAttributeValue("dependency", cty.StringVal(n.Dependency))
	}
	for _, o := range p.Splits.Outputs {
		sb := body.AppendNewBlock("split", []string{o.Key}).Body()
		sb.SetAttributeValue("resources", stringList(o.Resources))
	}

	shrink := body.AppendNewBlock("shrink", nil).Body()
	shrink.SetAttributeValue("enabled", cty.BoolVal(p.Shrink.Enabled))
	shrink.SetAttributeValue("shrink_resources", cty.BoolVal(p.Shrink.ShrinkResources))
	shrink.SetAttributeValue("rules", stringList(p.Shrink.Rules))

	sign := body.AppendNewBlock("signing", nil).Body()
	sign.SetAttributeValue("identity", cty.StringVal(p.Signing.Identity))
	sign.SetAttributeValue("store_file", cty.StringVal(p.Signing.StoreFile))
	sign.SetAttributeValue("key_alias", cty.StringVal(p.Signing.KeyAlias))
	sign.SetAttributeValue("fallback", cty.BoolVal(p.Signing.Fallback))
}

// stringList converts ss to a cty list. cty.ListVal rejects empty input, so
// the empty case is spelled out.
func stringList(ss []string) cty.Value {
	if len(ss) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	v, err := gocty.ToCtyValue(ss, cty.List(cty.String))
	if err != nil {
		panic(err) // []string always converts
	}
	return v
}

func stringMap(m map[string]string) cty.Value {
	if len(m) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	v, err := gocty.ToCtyValue(m, cty.Map(cty.String))
	if err != nil {
		panic(err)
	}
	return v
}
