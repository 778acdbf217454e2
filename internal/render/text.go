package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/specialistvlad/variantplan/internal/plan"
)

// Text renders a human readable summary. Color adds terminal styling.
type Text struct {
	Color bool
}

func (t Text) paint(c color.Color, s string) string {
	if !t.Color {
		return s
	}
	return c.Render(s)
}

func (t Text) Render(w io.Writer, b *plan.Batch) error {
	doc := newDocument(b)
	var sb strings.Builder

	for _, p := range doc.Plans {
		status := t.paint(color.Yellow, "local only")
		if p.Distributable {
			status = t.paint(color.Green, "distributable")
		}
		fmt.Fprintf(&sb, "%s (%s)\n", t.paint(color.Bold, p.Variant), status)
		fmt.Fprintf(&sb, "  application: %s %s (%d)\n", p.ApplicationID, p.VersionName, p.VersionCode)
		fmt.Fprintf(&sb, "  debuggable: %t  multidex: %t\n", p.Debuggable, p.Multidex)

		fmt.Fprintf(&sb, "  dependencies: %d\n", len(p.Dependencies))
		for _, d := range p.Dependencies {
			mark := ""
			if d.Forced {
				mark = " " + t.paint(color.Cyan, "(forced)")
			}
			fmt.Fprintf(&sb, "    %s:%s%s\n", d.Name, d.Version, mark)
		}
		for _, o := range p.Overrides {
			line := fmt.Sprintf("    override %s: %s -> %s", o.Name, o.Requested, o.Forced)
			if o.Downgrade {
				line = t.paint(color.Yellow, line+" (downgrade)")
			}
			sb.WriteString(line + "\n")
		}

		fmt.Fprintf(&sb, "  native libraries: %d\n", len(p.NativeLibraries))
		for _, n := range p.NativeLibraries {
			fmt.Fprintf(&sb, "    %s <- %s\n", n.Path, n.Dependency)
		}

		keys := make([]string, 0, len(p.Splits.Outputs))
		for _, o := range p.Splits.Outputs {
			keys = append(keys, o.Key)
		}
		fmt.Fprintf(&sb, "  splits: %s\n", strings.Join(keys, " | "))

		if p.Shrink.Enabled {
			fmt.Fprintf(&sb, "  shrink: on (resources: %t, rules: %s)\n", p.Shrink.ShrinkResources, strings.Join(p.Shrink.Rules, ", "))
		} else {
			sb.WriteString("  shrink: off\n")
		}

		signing := p.Signing.Identity
		if p.Signing.Fallback {
			signing += " " + t.paint(color.Yellow, "(default)")
		}
		fmt.Fprintf(&sb, "  signing: %s\n", signing)
	}

	for _, f := range doc.Failures {
		fmt.Fprintf(&sb, "%s %s: %s\n", t.paint(color.Red, "FAILED"), f.Variant, f.Error)
	}
	for _, s := range doc.Skipped {
		fmt.Fprintf(&sb, "%s %s\n", t.paint(color.Gray, "SKIPPED"), s)
	}
	fmt.Fprintf(&sb, "%d planned, %d failed, %d skipped\n", len(doc.Plans), len(doc.Failures), len(doc.Skipped))

	_, err := io.WriteString(w, sb.String())
	return err
}
