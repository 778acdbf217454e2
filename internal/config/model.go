package config

import (
	"github.com/specialistvlad/variantplan/internal/deps"
	"github.com/specialistvlad/variantplan/internal/nativelib"
	"github.com/specialistvlad/variantplan/internal/signing"
	"github.com/specialistvlad/variantplan/internal/split"
	"github.com/specialistvlad/variantplan/internal/variant"
)

// Model is the unified representation of one application's variant
// configuration. It is read only once loaded and shared by every variant
// resolution.
type Model struct {
	Application  Application
	Dimensions   []variant.Dimension
	Requirements []deps.Requirement
	// Precedence is the ordered pick-first list for native libraries.
	Precedence []nativelib.Rule
	Splits     split.Toggles
	Resources  []split.Unit
	Signing    Signing
}

// Application holds the defaults every variant starts from.
type Application struct {
	ID                   string
	VersionName          string
	VersionCode          int
	MinSDK               int
	TargetSDK            int
	Multidex             bool
	ABIFilters           []string
	GenerateLocaleConfig bool
}

// Signing holds the declared identities and the build-type mapping.
type Signing struct {
	Identities  map[string]signing.Identity
	Default     string
	ByBuildType map[string]string
}

// NewModel returns an empty model with every split axis enabled, which is
// the bundle default.
func NewModel() *Model {
	return &Model{
		Splits: split.Toggles{
			split.Density:  true,
			split.ABI:      true,
			split.Language: true,
		},
		Signing: Signing{
			Identities:  make(map[string]signing.Identity),
			ByBuildType: make(map[string]string),
		},
	}
}

// Selector builds the signing selector for the model.
func (m *Model) Selector() (*signing.Selector, error) {
	return signing.NewSelector(m.Signing.Identities, m.Signing.Default, m.Signing.ByBuildType)
}
