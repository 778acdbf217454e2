package hcl

import "github.com/hashicorp/hcl/v2"

// rootSchema lists every top-level block a configuration file may contain.
// Blocks are extracted with their definition ranges so translated values can
// point back to the declaration site.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "application"},
		{Type: "dimension", LabelNames: []string{"name"}},
		{Type: "dependency", LabelNames: []string{"coordinate"}},
		{Type: "force", LabelNames: []string{"coordinate"}},
		{Type: "packaging"},
		{Type: "bundle"},
		{Type: "resource", LabelNames: []string{"name"}},
		{Type: "signing_identity", LabelNames: []string{"name"}},
		{Type: "signing"},
	},
}

// applicationBlock holds the defaults every variant starts from.
type applicationBlock struct {
	ID                   string   `hcl:"id"`
	VersionName          string   `hcl:"version_name,optional"`
	VersionCode          int      `hcl:"version_code,optional"`
	MinSDK               int      `hcl:"min_sdk,optional"`
	TargetSDK            int      `hcl:"target_sdk,optional"`
	Multidex             bool     `hcl:"multidex,optional"`
	ABIFilters           []string `hcl:"abi_filters,optional"`
	GenerateLocaleConfig bool     `hcl:"generate_locale_config,optional"`
}

type dimensionBlock struct {
	BuildType bool          `hcl:"build_type,optional"`
	Values    []*valueBlock `hcl:"value,block"`
}

// valueBlock is one dimension value and the fragment it contributes.
type valueBlock struct {
	Name                string   `hcl:"name,label"`
	ApplicationIDSuffix *string  `hcl:"application_id_suffix,optional"`
	VersionNameSuffix   *string  `hcl:"version_name_suffix,optional"`
	Debuggable          *bool    `hcl:"debuggable,optional"`
	MinifyEnabled       *bool    `hcl:"minify_enabled,optional"`
	ShrinkResources     *bool    `hcl:"shrink_resources,optional"`
	ProguardFiles       []string `hcl:"proguard_files,optional"`
	// BuildConfig is evaluated late, against the application variables.
	BuildConfig hcl.Expression `hcl:"build_config,optional"`
}

type dependencyBlock struct {
	Version    *string  `hcl:"version,optional"`
	Only       []string `hcl:"only,optional"`
	NativeLibs []string `hcl:"native_libs,optional"`
}

type forceBlock struct {
	Version *string  `hcl:"version,optional"`
	Only    []string `hcl:"only,optional"`
}

type packagingBlock struct {
	PickFirst []*pickFirstBlock `hcl:"pick_first,block"`
}

type pickFirstBlock struct {
	Pattern string   `hcl:"pattern,label"`
	Prefer  []string `hcl:"prefer,optional"`
}

type bundleBlock struct {
	Language *splitBlock `hcl:"language,block"`
	Density  *splitBlock `hcl:"density,block"`
	ABI      *splitBlock `hcl:"abi,block"`
}

type splitBlock struct {
	EnableSplit *bool `hcl:"enable_split,optional"`
}

type resourceBlock struct {
	Density  string `hcl:"density,optional"`
	ABI      string `hcl:"abi,optional"`
	Language string `hcl:"language,optional"`
}

type identityBlock struct {
	StoreFile string `hcl:"store_file"`
	KeyAlias  string `hcl:"key_alias"`
}

type signingBlock struct {
	Default    *string           `hcl:"default,optional"`
	BuildTypes map[string]string `hcl:"build_types,optional"`
}
