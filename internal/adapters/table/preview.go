package table

import (
	"fmt"
	"io"

	"seqfeat/internal/services/features/domain"
)

// previewWidth is how many one-hot values the preview shows
const previewWidth = 10

// Preview prints the first n records of b with a truncated one-hot vector and the full composition
func Preview(w io.Writer, b domain.Batch, n int) error {
	for _, r := range b.Head(n).Records {
		oh := r.OneHotEncoded
		if len(oh) > previewWidth {
			oh = oh[:previewWidth]
		}
		if _, err := fmt.Fprintf(w, "ID: %s\nOneHotEncoded: %s... (truncated for display)\nComposition: %s\n\n",
			r.ID, FormatInts(oh), FormatFloats(r.Composition)); err != nil {
			return err
		}
	}
	return nil
}
