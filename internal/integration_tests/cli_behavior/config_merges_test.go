package integration_tests

import (
	"testing"

	"github.com/specialistvlad/variantplan/internal/app"
	"github.com/specialistvlad/variantplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCLI_MergesHCL_FromDirectoryPath validates that the loader discovers
// and merges every HCL file below the configuration directory.
func TestCLI_MergesHCL_FromDirectoryPath(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"app.hcl": `
			application {
				id = "com.example.app"
			}
		`,
		"dimensions/flavor.hcl": `
			dimension "flavor" {
				value "free" {}
				value "paid" {}
			}
		`,
		"dimensions/type.hcl": `
			dimension "build_type" {
				build_type = true
				value "debug" {}
			}
		`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{})

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Len(t, result.Batch.Plans, 2)
	assert.Equal(t, "freeDebug", result.Batch.Plans[0].Variant)
	assert.Equal(t, "paidDebug", result.Batch.Plans[1].Variant)
}
