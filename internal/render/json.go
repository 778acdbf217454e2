package render

import (
	"encoding/json"
	"io"

	"github.com/specialistvlad/variantplan/internal/plan"
)

// JSON renders the batch as one indented JSON document.
type JSON struct{}

func (JSON) Render(w io.Writer, b *plan.Batch) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(b))
}
