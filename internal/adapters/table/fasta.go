package table

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode"

	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/services/features/domain"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// ReadFASTA reads records from FASTA text. The ID is the first whitespace
// delimited token of each '>' header and wrapped sequence lines are joined.
func ReadFASTA(r io.Reader) ([]domain.Record, error) {
	br := bufio.NewReader(r)
	if err := atHeader(br); err != nil {
		return nil, err
	}

	template := linear.NewSeq("", nil, alphabet.Protein)
	sc := seqio.NewScanner(fasta.NewReader(br, template))

	var out []domain.Record
	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			return nil, perr.IOf("unexpected FASTA sequence type %T", sc.Seq())
		}
		fields := strings.Fields(s.Name() + " " + s.Description())
		if len(fields) == 0 {
			return nil, perr.IOf("empty FASTA header for record %d", len(out)+1)
		}
		out = append(out, domain.Record{ID: fields[0], Sequence: residues(s.Seq)})
	}
	if err := sc.Error(); err != nil {
		return nil, perr.WrapIOf(err, "read FASTA record %d", len(out)+1)
	}
	if len(out) == 0 {
		return nil, perr.IOf("no FASTA records found")
	}
	return out, nil
}

// atHeader skips leading whitespace and requires the first record to open with '>'
func atHeader(br *bufio.Reader) error {
	for {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return perr.IOf("no FASTA records found")
		}
		if err != nil {
			return perr.WrapIOf(err, "read FASTA")
		}
		if unicode.IsSpace(rune(b)) {
			continue
		}
		if b != '>' {
			return perr.IOf("sequence data before first header")
		}
		return br.UnreadByte()
	}
}

func residues(ls alphabet.Letters) string {
	var sb strings.Builder
	sb.Grow(len(ls))
	for _, l := range ls {
		if !unicode.IsSpace(rune(l)) {
			sb.WriteByte(byte(l))
		}
	}
	return sb.String()
}
