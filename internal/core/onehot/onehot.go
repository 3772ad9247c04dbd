// Package onehot turns residue sequences into fixed-width positional one-hot vectors.
// Each position is a block of Width values; members of the alphabet set a single 1,
// unknown characters leave the block zero, and positions past the sequence end
// carry the padding block (1 at the sentinel index).
package onehot

import (
	"math"
	"unicode/utf8"

	"seqfeat/internal/core/alphabet"
	perr "seqfeat/internal/platform/errors"
)

// Width is the block size per sequence position, equal to alphabet.Standard.Len()
const Width = 21

// MaxLength is the largest padded length whose vector length fits in an int
const MaxLength = math.MaxInt / Width

// PaddingBlock returns a fresh copy of the block used past the sequence end
func PaddingBlock() []int32 {
	b := make([]int32, Width)
	b[alphabet.Standard.PaddingIndex()] = 1
	return b
}

// Encode returns the one-hot vector for seq padded to paddedLength positions.
// Length is measured in characters, not bytes.
func Encode(seq string, paddedLength int) ([]int32, error) {
	n := utf8.RuneCountInString(seq)
	if paddedLength < n {
		return nil, perr.InvalidArgf("padded length %d is shorter than sequence length %d", paddedLength, n)
	}
	if paddedLength > MaxLength {
		return nil, perr.InvalidArgf("padded length %d exceeds %d", paddedLength, MaxLength)
	}

	// zero-initialized, so unknown characters need no write
	out := make([]int32, paddedLength*Width)
	pos := 0
	for _, r := range seq {
		if i, ok := alphabet.Standard.Index(r); ok {
			out[pos*Width+i] = 1
		}
		pos++
	}
	pad := alphabet.Standard.PaddingIndex()
	for ; pos < paddedLength; pos++ {
		out[pos*Width+pad] = 1
	}
	return out, nil
}
