package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/variantplan/internal/config"
	"github.com/specialistvlad/variantplan/internal/deps"
	"github.com/specialistvlad/variantplan/internal/nativelib"
	"github.com/specialistvlad/variantplan/internal/shrink"
	"github.com/specialistvlad/variantplan/internal/signing"
	"github.com/specialistvlad/variantplan/internal/split"
	"github.com/specialistvlad/variantplan/internal/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }
func yes() *bool          { b := true; return &b }

// scenarioModel is production/staging × debug/release with a forced
// core-lib pin, release shrinking with rule R, and no debug signing.
func scenarioModel() *config.Model {
	m := config.NewModel()
	m.Application = config.Application{
		ID:          "com.example.dotanimecam",
		VersionName: "1.0.0",
		VersionCode: 7,
		MinSDK:      21,
		TargetSDK:   34,
		Multidex:    true,
		ABIFilters:  []string{"armeabi-v7a", "arm64-v8a", "x86", "x86_64"},
	}
	m.Dimensions = []variant.Dimension{
		{Name: "flavor", Values: []variant.Value{
			{Name: "production", Fragment: variant.Fragment{ApplicationIDSuffix: str("")}},
			{Name: "staging", Fragment: variant.Fragment{ApplicationIDSuffix: str(".staging"), VersionNameSuffix: str("-staging")}},
		}},
		{Name: "build_type", BuildType: true, Values: []variant.Value{
			{Name: "debug", Fragment: variant.Fragment{Debuggable: yes(), ApplicationIDSuffix: str(".debug"), VersionNameSuffix: str("-debug")}},
			{Name: "release", Fragment: variant.Fragment{MinifyEnabled: yes(), ProguardFiles: []string{"R"}}},
		}},
	}
	m.Requirements = []deps.Requirement{
		{Name: "androidx.core:core-lib", Version: "1.12.0"},
		{Name: "androidx.camera:camera-core", Version: "1.2.3", NativeLibs: []string{
			"lib/arm64-v8a/libc++_shared.so",
			"lib/mips/libc++_shared.so",
		}},
		{Name: "com.facebook:jsc", Version: "2.0.0", NativeLibs: []string{
			"lib/arm64-v8a/libc++_shared.so",
			"lib/arm64-v8a/libjsc.so",
		}},
		{Name: "androidx.core:core-lib", Version: "1.10.1", Forced: true},
	}
	m.Precedence = []nativelib.Rule{{Pattern: "**/libc++_shared.so"}, {Pattern: "**/libjsc.so"}}
	m.Splits = split.Toggles{split.Density: true, split.ABI: true, split.Language: false}
	m.Resources = []split.Unit{
		{Name: "res/values/strings.xml"},
		{Name: "res/values-ja/strings.xml", Language: "ja"},
		{Name: "res/drawable-hdpi/icon.png", Density: "hdpi"},
	}
	m.Signing.Identities["upload"] = signing.Identity{Name: "upload", StoreFile: "upload.jks", KeyAlias: "upload"}
	m.Signing.ByBuildType["release"] = "upload"
	return m
}

func resolveAll(t *testing.T, m *config.Model) (map[string]*PackagingPlan, map[string]error) {
	t.Helper()
	specs, err := variant.Build(m.Dimensions)
	require.NoError(t, err)
	signer, err := m.Selector()
	require.NoError(t, err)

	plans := make(map[string]*PackagingPlan)
	errs := make(map[string]error)
	for _, s := range specs {
		p, err := Resolve(context.Background(), m, signer, s)
		if err != nil {
			errs[s.ID] = err
			continue
		}
		plans[s.ID] = p
	}
	return plans, errs
}

func TestResolve_EndToEndScenario(t *testing.T) {
	t.Parallel()
	plans, errs := resolveAll(t, scenarioModel())
	require.Empty(t, errs)
	require.Len(t, plans, 4)

	for id, p := range plans {
		v, ok := p.Dependency("androidx.core:core-lib")
		require.True(t, ok, id)
		assert.Equal(t, "1.10.1", v, id)
	}
	for _, id := range []string{"productionRelease", "stagingRelease"} {
		assert.Equal(t, shrink.Plan{Enabled: true, Rules: []shrink.Rule{{File: "R"}}}, plans[id].Shrink, id)
		assert.Equal(t, "upload", plans[id].Signing.Identity.Name, id)
		assert.True(t, plans[id].Distributable(), id)
	}
	for _, id := range []string{"productionDebug", "stagingDebug"} {
		assert.False(t, plans[id].Shrink.Enabled, id)
		assert.Empty(t, plans[id].Shrink.Rules, id)
		assert.Equal(t, signing.BuiltinDefault, plans[id].Signing.Identity, id)
		assert.True(t, plans[id].Signing.Fallback, id)
		assert.False(t, plans[id].Distributable(), id)
	}
}

func TestResolve_PlanContents(t *testing.T) {
	t.Parallel()
	plans, errs := resolveAll(t, scenarioModel())
	require.Empty(t, errs)

	p := plans["stagingDebug"]
	assert.Equal(t, "com.example.dotanimecam.debug", p.ApplicationID)
	assert.Equal(t, "1.0.0-debug", p.VersionName)
	assert.Equal(t, 7, p.VersionCode)
	assert.True(t, p.Debuggable)
	assert.True(t, p.Multidex)
	assert.Equal(t, "debug", p.BuildType)

	wantNatives := []nativelib.Artifact{
		{Path: "lib/arm64-v8a/libc++_shared.so", Dependency: "androidx.camera:camera-core"},
		{Path: "lib/arm64-v8a/libjsc.so", Dependency: "com.facebook:jsc"},
	}
	if diff := cmp.Diff(wantNatives, p.NativeLibraries); diff != "" {
		t.Errorf("natives mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []nativelib.Artifact{{Path: "lib/mips/libc++_shared.so", Dependency: "androidx.camera:camera-core"}}, p.DiscardedNatives)

	assert.Equal(t, []deps.Override{{Name: "androidx.core:core-lib", Requested: "1.12.0", Forced: "1.10.1", Downgrade: true}}, p.Overrides)

	var keys []string
	for _, o := range p.Splits.Outputs {
		keys = append(keys, o.Key)
	}
	assert.Equal(t, []string{"universal", "abi=arm64-v8a", "density=hdpi"}, keys)
	assert.Nil(t, p.Locales)
}

func TestResolve_LocaleConfig(t *testing.T) {
	t.Parallel()
	m := scenarioModel()
	m.Application.GenerateLocaleConfig = true
	plans, errs := resolveAll(t, m)
	require.Empty(t, errs)
	assert.Equal(t, []string{"ja"}, plans["productionRelease"].Locales)
}

func TestResolve_FailuresAreVariantScoped(t *testing.T) {
	t.Parallel()
	m := scenarioModel()
	// A second, disagreeing pin only active for staging.
	m.Requirements = append(m.Requirements, deps.Requirement{
		Name: "androidx.core:core-lib", Version: "1.12.0", Forced: true, Only: []string{"staging"},
	})

	plans, errs := resolveAll(t, m)
	assert.Len(t, plans, 2)
	require.Len(t, errs, 2)
	for _, id := range []string{"stagingDebug", "stagingRelease"} {
		err := errs[id]
		require.Error(t, err, id)

		var asm *AssemblyError
		require.True(t, errors.As(err, &asm), id)
		assert.Equal(t, id, asm.Variant)

		var conflict *deps.ConflictError
		require.True(t, errors.As(err, &conflict), id)
		assert.Equal(t, "androidx.core:core-lib", conflict.Name)
	}
	assert.Contains(t, plans, "productionDebug")
	assert.Contains(t, plans, "productionRelease")
}

func TestResolve_FirstDeclaredNativeContributorWins(t *testing.T) {
	t.Parallel()
	m := scenarioModel()
	// Declaration order is the reverse of name order.
	m.Requirements = []deps.Requirement{
		{Name: "z.group:zlib", Version: "1.0", NativeLibs: []string{"lib/arm64-v8a/libc++_shared.so"}},
		{Name: "a.group:alib", Version: "1.0", NativeLibs: []string{"lib/arm64-v8a/libc++_shared.so"}},
	}
	m.Precedence = []nativelib.Rule{{Pattern: "**/libc++_shared.so"}}

	plans, errs := resolveAll(t, m)
	require.Empty(t, errs)
	for id, p := range plans {
		require.Len(t, p.NativeLibraries, 1, id)
		assert.Equal(t, "z.group:zlib", p.NativeLibraries[0].Dependency, id)
	}
}

func TestResolve_UnresolvedNativeConflict(t *testing.T) {
	t.Parallel()
	m := scenarioModel()
	m.Precedence = nil

	_, errs := resolveAll(t, m)
	require.Len(t, errs, 4)
	var unresolved *nativelib.UnresolvedConflictError
	require.True(t, errors.As(errs["productionDebug"], &unresolved))
	assert.Equal(t, "lib/arm64-v8a/libc++_shared.so", unresolved.Path)
}

func TestAssemble_ReportsEveryFailedStage(t *testing.T) {
	t.Parallel()
	spec := variant.Spec{ID: "stagingRelease"}
	_, err := Assemble(config.Application{}, spec, Inputs{
		DependenciesErr: errors.New("boom"),
		ShrinkErr:       shrink.ErrResourcesWithoutCode,
	})
	require.Error(t, err)

	var asm *AssemblyError
	require.True(t, errors.As(err, &asm))
	require.Len(t, asm.Stages, 2)
	assert.Equal(t, StageDependencies, asm.Stages[0].Stage)
	assert.Equal(t, StageShrink, asm.Stages[1].Stage)
	assert.ErrorIs(t, err, shrink.ErrResourcesWithoutCode)
	assert.Contains(t, err.Error(), "2 stages failed")
}

func TestAssemble_MissingStage(t *testing.T) {
	t.Parallel()
	_, err := Assemble(config.Application{}, variant.Spec{ID: "x"}, Inputs{})
	assert.ErrorContains(t, err, "stage did not run")
}

func TestAssemble_PlanDoesNotAliasInputs(t *testing.T) {
	t.Parallel()
	set, err := deps.Resolve(nil)
	require.NoError(t, err)
	natives := []nativelib.Artifact{{Path: "lib/x86/a.so", Dependency: "a:a"}}
	spec := variant.Spec{ID: "x", Settings: variant.Settings{BuildConfig: map[string]string{"K": "v"}}}

	p, err := Assemble(config.Application{}, spec, Inputs{Dependencies: set, Natives: natives})
	require.NoError(t, err)

	natives[0].Dependency = "changed"
	spec.Settings.BuildConfig["K"] = "changed"
	assert.Equal(t, "a:a", p.NativeLibraries[0].Dependency)
	assert.Equal(t, "v", p.BuildConfig["K"])
}

func TestSink_ConcurrentAdd(t *testing.T) {
	t.Parallel()
	var sink Sink
	done := make(chan struct{})
	const n = 64
	for i := 0; i < n; i++ {
		go func() {
			sink.Add("v", errors.New("e"))
			done <- struct{}{}
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}
	assert.Equal(t, n, sink.Len())
	assert.Len(t, sink.Failures(), n)
}
