// Package composition computes per-residue relative frequencies over the standard alphabet
package composition

import (
	"seqfeat/internal/core/alphabet"
	perr "seqfeat/internal/platform/errors"
)

// Of returns count(residue)/length for each alphabet residue in order.
// Characters outside the alphabet count toward length only, so the result may sum below 1.
func Of(seq string) ([]float64, error) {
	var counts [128]int
	n := 0
	for _, r := range seq {
		if r >= 0 && r < 128 {
			counts[r]++
		}
		n++
	}
	if n == 0 {
		return nil, perr.InvalidArgf("zero-length sequence")
	}

	syms := alphabet.Standard.Symbols()
	out := make([]float64, len(syms))
	total := float64(n)
	for i, s := range syms {
		out[i] = float64(counts[s]) / total
	}
	return out, nil
}
