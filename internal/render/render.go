// Package render writes a batch of packaging plans in one of the supported
// output formats.
package render

import (
	"fmt"
	"io"
	"slices"

	"github.com/specialistvlad/variantplan/internal/plan"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatHCL  = "hcl"
	FormatText = "text"
)

// Formats lists every supported format.
var Formats = []string{FormatJSON, FormatHCL, FormatText}

// Renderer writes a batch to w.
type Renderer interface {
	Render(w io.Writer, b *plan.Batch) error
}

// New returns the renderer for format. color only affects the text format.
func New(format string, color bool) (Renderer, error) {
	switch format {
	case FormatJSON:
		return JSON{}, nil
	case FormatHCL:
		return HCL{}, nil
	case FormatText:
		return Text{Color: color}, nil
	}
	return nil, fmt.Errorf("unknown output format %q: must be one of %v", format, Formats)
}

// IsFormat reports whether format names a supported renderer.
func IsFormat(format string) bool {
	return slices.Contains(Formats, format)
}
