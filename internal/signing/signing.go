// Package signing maps variants to the identity that signs their artifact.
package signing

import (
	"fmt"
	"sort"
)

// DefaultName is the identity used when the configuration declares no
// default of its own.
const DefaultName = "debug"

// Identity is an opaque reference to a signing credential. The packager
// resolves it; nothing here reads key material.
type Identity struct {
	Name      string
	StoreFile string
	KeyAlias  string
}

// BuiltinDefault is the conventional debug keystore identity.
var BuiltinDefault = Identity{
	Name:      DefaultName,
	StoreFile: "~/.android/debug.keystore",
	KeyAlias:  "androiddebugkey",
}

// Selection is the identity chosen for one variant.
type Selection struct {
	Identity Identity
	// Fallback is true when the build type had no mapping and the default
	// identity was used. Such artifacts are not meant for distribution.
	Fallback bool
}

// Selector holds the build-type mapping. It is read only after creation.
type Selector struct {
	def         Identity
	byBuildType map[string]Identity
}

// NewSelector validates the mapping against the declared identities.
// defaultName may be empty, in which case an identity named DefaultName is
// used if declared, else BuiltinDefault.
func NewSelector(identities map[string]Identity, defaultName string, byBuildType map[string]string) (*Selector, error) {
	s := &Selector{byBuildType: make(map[string]Identity, len(byBuildType))}
	switch {
	case defaultName != "":
		id, ok := identities[defaultName]
		if !ok {
			return nil, fmt.Errorf("default signing identity %q is not declared", defaultName)
		}
		s.def = id
	default:
		if id, ok := identities[DefaultName]; ok {
			s.def = id
		} else {
			s.def = BuiltinDefault
		}
	}

	buildTypes := make([]string, 0, len(byBuildType))
	for bt := range byBuildType {
		buildTypes = append(buildTypes, bt)
	}
	sort.Strings(buildTypes)
	for _, bt := range buildTypes {
		name := byBuildType[bt]
		id, ok := identities[name]
		if !ok && name == s.def.Name {
			id, ok = s.def, true
		}
		if !ok {
			return nil, fmt.Errorf("build type %q maps to undeclared signing identity %q", bt, name)
		}
		s.byBuildType[bt] = id
	}
	return s, nil
}

// Default returns the fallback identity.
func (s *Selector) Default() Identity { return s.def }

// Select returns the identity for a build type. It never fails: unmapped
// build types get the default identity.
func (s *Selector) Select(buildType string) Selection {
	if id, ok := s.byBuildType[buildType]; ok {
		return Selection{Identity: id}
	}
	return Selection{Identity: s.def, Fallback: true}
}
