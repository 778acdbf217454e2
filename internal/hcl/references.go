package hcl

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// applicationRefs are the attributes of the "application" variable.
var applicationRefs = []string{"id", "version_name", "version_code", "min_sdk", "target_sdk"}

// traversalKey renders a traversal as it would appear in source, e.g.
// application.id.
func traversalKey(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// checkReferences rejects every variable reference in expr other than an
// attribute of the application variable.
func checkReferences(expr hcl.Expression) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, t := range expr.Variables() {
		if t.RootName() == "application" && len(t) > 1 {
			if attr, ok := t[1].(hcl.TraverseAttr); ok && slices.Contains(applicationRefs, attr.Name) {
				continue
			}
		}
		allowed := make([]string, len(applicationRefs))
		for i, name := range applicationRefs {
			allowed[i] = "application." + name
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported reference",
			Detail:   fmt.Sprintf("%s cannot be referenced here. Available references: %s.", traversalKey(t), strings.Join(allowed, ", ")),
			Subject:  t.SourceRange().Ptr(),
		})
	}
	return diags
}
