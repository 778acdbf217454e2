package testutil

import (
	"testing"

	"github.com/specialistvlad/variantplan/internal/plan"
	"github.com/stretchr/testify/require"
)

// RequirePlan returns the plan for variantID from the batch, failing the
// test if the variant has none.
func RequirePlan(t *testing.T, result *HarnessResult, variantID string) *plan.PackagingPlan {
	t.Helper()
	require.NoError(t, result.Err)
	require.NotNil(t, result.Batch)
	for _, p := range result.Batch.Plans {
		if p.Variant == variantID {
			return p
		}
	}
	require.Failf(t, "variant not planned", "no plan for %q; failures: %v", variantID, result.Batch.Failures)
	return nil
}

// RequireFailure returns the error recorded for variantID.
func RequireFailure(t *testing.T, result *HarnessResult, variantID string) error {
	t.Helper()
	require.NotNil(t, result.Batch)
	for _, f := range result.Batch.Failures {
		if f.Variant == variantID {
			return f.Err
		}
	}
	require.Failf(t, "variant did not fail", "no failure for %q", variantID)
	return nil
}
