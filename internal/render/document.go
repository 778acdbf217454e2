package render

import (
	"github.com/specialistvlad/variantplan/internal/plan"
	"github.com/specialistvlad/variantplan/internal/split"
)

// document is the serialized view of a batch. It decouples the output
// schema from the in-memory plan types.
type document struct {
	Plans    []planDoc    `json:"plans"`
	Failures []failureDoc `json:"failures"`
	Skipped  []string     `json:"skipped"`
}

type planDoc struct {
	Variant       string            `json:"variant"`
	BuildType     string            `json:"build_type"`
	Choices       map[string]string `json:"choices"`
	ApplicationID string            `json:"application_id"`
	VersionName   string            `json:"version_name"`
	VersionCode   int               `json:"version_code"`
	MinSDK        int               `json:"min_sdk,omitempty"`
	TargetSDK     int               `json:"target_sdk,omitempty"`
	Debuggable    bool              `json:"debuggable"`
	Multidex      bool              `json:"multidex"`
	Distributable bool              `json:"distributable"`
	BuildConfig   map[string]string `json:"build_config,omitempty"`

	Dependencies     []dependencyDoc `json:"dependencies"`
	Overrides        []overrideDoc   `json:"overrides,omitempty"`
	NativeLibraries  []nativeDoc     `json:"native_libraries"`
	DiscardedNatives []nativeDoc     `json:"discarded_native_libraries,omitempty"`
	Splits           splitsDoc       `json:"splits"`
	Locales          []string        `json:"locales,omitempty"`
	Shrink           shrinkDoc       `json:"shrink"`
	Signing          signingDoc      `json:"signing"`
}

type dependencyDoc struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Forced  bool   `json:"forced,omitempty"`
}

type overrideDoc struct {
	Name      string `json:"name"`
	Requested string `json:"requested"`
	Forced    string `json:"forced"`
	Downgrade bool   `json:"downgrade,omitempty"`
}

type nativeDoc struct {
	Path       string `json:"path"`
	Dependency string `json:"dependency"`
}

type splitsDoc struct {
	Enabled []string    `json:"enabled"`
	Outputs []outputDoc `json:"outputs"`
}

type outputDoc struct {
	Key        string            `json:"key"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Resources  []string          `json:"resources"`
}

type shrinkDoc struct {
	Enabled         bool     `json:"enabled"`
	ShrinkResources bool     `json:"shrink_resources"`
	Rules           []string `json:"rules"`
}

type signingDoc struct {
	Identity  string `json:"identity"`
	StoreFile string `json:"store_file"`
	KeyAlias  string `json:"key_alias"`
	Fallback  bool   `json:"fallback,omitempty"`
}

type failureDoc struct {
	Variant string `json:"variant"`
	Error   string `json:"error"`
}

func newDocument(b *plan.Batch) document {
	doc := document{
		Plans:    make([]planDoc, 0, len(b.Plans)),
		Failures: make([]failureDoc, 0, len(b.Failures)),
		Skipped:  append([]string{}, b.Skipped...),
	}
	for _, p := range b.Plans {
		doc.Plans = append(doc.Plans, newPlanDoc(p))
	}
	for _, f := range b.Failures {
		doc.Failures = append(doc.Failures, failureDoc{Variant: f.Variant, Error: f.Err.Error()})
	}
	return doc
}

func newPlanDoc(p *plan.PackagingPlan) planDoc {
	d := planDoc{
		Variant:       p.Variant,
		BuildType:     p.BuildType,
		Choices:       make(map[string]string, len(p.Choices)),
		ApplicationID: p.ApplicationID,
		VersionName:   p.VersionName,
		VersionCode:   p.VersionCode,
		MinSDK:        p.MinSDK,
		TargetSDK:     p.TargetSDK,
		Debuggable:    p.Debuggable,
		Multidex:      p.Multidex,
		Distributable: p.Distributable(),
		BuildConfig:   p.BuildConfig,
		Locales:       p.Locales,

		Dependencies:    make([]dependencyDoc, 0, len(p.Dependencies)),
		NativeLibraries: make([]nativeDoc, 0, len(p.NativeLibraries)),
		Shrink: shrinkDoc{
			Enabled:         p.Shrink.Enabled,
			ShrinkResources: p.Shrink.ShrinkResources,
			Rules:           make([]string, 0, len(p.Shrink.Rules)),
		},
		Signing: signingDoc{
			Identity:  p.Signing.Identity.Name,
			StoreFile: p.Signing.Identity.StoreFile,
			KeyAlias:  p.Signing.Identity.KeyAlias,
			Fallback:  p.Signing.Fallback,
		},
	}
	for _, c := range p.Choices {
		d.Choices[c.Dimension] = c.Value
	}
	for _, r := range p.Dependencies {
		d.Dependencies = append(d.Dependencies, dependencyDoc{Name: r.Name, Version: r.Version, Forced: r.Forced})
	}
	for _, o := range p.Overrides {
		d.Overrides = append(d.Overrides, overrideDoc{Name: o.Name, Requested: o.Requested, Forced: o.Forced, Downgrade: o.Downgrade})
	}
	for _, a := range p.NativeLibraries {
		d.NativeLibraries = append(d.NativeLibraries, nativeDoc{Path: a.Path, Dependency: a.Dependency})
	}
	for _, a := range p.DiscardedNatives {
		d.DiscardedNatives = append(d.DiscardedNatives, nativeDoc{Path: a.Path, Dependency: a.Dependency})
	}
	d.Splits = newSplitsDoc(p.Splits)
	for _, r := range p.Shrink.Rules {
		d.Shrink.Rules = append(d.Shrink.Rules, r.File)
	}
	return d
}

func newSplitsDoc(sp split.Plan) splitsDoc {
	d := splitsDoc{
		Enabled: make([]string, 0, len(sp.Enabled)),
		Outputs: make([]outputDoc, 0, len(sp.Outputs)),
	}
	for _, a := range sp.Enabled {
		d.Enabled = append(d.Enabled, string(a))
	}
	for _, o := range sp.Outputs {
		od := outputDoc{Key: o.Key, Resources: append([]string{}, o.Resources...)}
		if len(o.Attributes) > 0 {
			od.Attributes = make(map[string]string, len(o.Attributes))
			for a, v := range o.Attributes {
				od.Attributes[string(a)] = v
			}
		}
		d.Outputs = append(d.Outputs, od)
	}
	return d
}
