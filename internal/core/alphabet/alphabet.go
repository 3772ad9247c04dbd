// Package alphabet defines the fixed ordered residue set used by every encoder
package alphabet

// Residue is a single symbol of the alphabet
type Residue rune

// Alphabet is an ordered, immutable residue set; position defines vector index
type Alphabet struct {
	residues []Residue
	index    [128]int8 // ASCII lookup, -1 when absent
}

const standardLetters = "ACDEFGHIKLMNPQRSTVWYX"

// Standard is the 20 amino acids followed by the X sentinel
var Standard = New(residuesOf(standardLetters)...)

// New builds an alphabet from residues in order; duplicates and non-ASCII residues panic
func New(residues ...Residue) *Alphabet {
	a := &Alphabet{residues: append([]Residue(nil), residues...)}
	for i := range a.index {
		a.index[i] = -1
	}
	for i, r := range a.residues {
		if r < 0 || r >= 128 {
			panic("alphabet: non-ASCII residue " + string(rune(r)))
		}
		if a.index[r] != -1 {
			panic("alphabet: duplicate residue " + string(rune(r)))
		}
		a.index[r] = int8(i)
	}
	return a
}

// Len is the number of residues, and the width of one encoded block
func (a *Alphabet) Len() int { return len(a.residues) }

// Symbols returns a copy of the ordered residues
func (a *Alphabet) Symbols() []Residue {
	return append([]Residue(nil), a.residues...)
}

// Index returns the position of r and whether r is a member
func (a *Alphabet) Index(r rune) (int, bool) {
	if r < 0 || r >= 128 {
		return 0, false
	}
	i := a.index[r]
	if i < 0 {
		return 0, false
	}
	return int(i), true
}

// PaddingIndex is the position of the trailing sentinel
func (a *Alphabet) PaddingIndex() int { return len(a.residues) - 1 }

// String renders the residues in order
func (a *Alphabet) String() string {
	out := make([]rune, len(a.residues))
	for i, r := range a.residues {
		out[i] = rune(r)
	}
	return string(out)
}

func residuesOf(s string) []Residue {
	out := make([]Residue, 0, len(s))
	for _, r := range s {
		out = append(out, Residue(r))
	}
	return out
}
