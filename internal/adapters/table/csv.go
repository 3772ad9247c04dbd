package table

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/services/features/domain"
)

// ReadCSV reads records from a header-driven CSV; column order and extra columns do not matter
func ReadCSV(r io.Reader) ([]domain.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, perr.IOf("input file must contain %q and %q columns", ColID, ColSequence)
	}
	if err != nil {
		return nil, perr.WrapIOf(err, "error loading file")
	}
	idCol, seqCol := -1, -1
	for i, h := range header {
		switch strings.TrimPrefix(h, "\ufeff") {
		case ColID:
			idCol = i
		case ColSequence:
			seqCol = i
		}
	}
	if idCol < 0 || seqCol < 0 {
		return nil, perr.IOf("input file must contain %q and %q columns", ColID, ColSequence)
	}

	var out []domain.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, perr.WrapIOf(err, "error loading file")
		}
		out = append(out, domain.Record{ID: field(row, idCol), Sequence: field(row, seqCol)})
	}
}

func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// CSVWriter writes ID, OneHotEncoded and Composition columns with list-literal vectors
type CSVWriter struct{ Path string }

// Write implements domain.SinkPort
func (w CSVWriter) Write(_ context.Context, b domain.Batch) error {
	f, err := create(w.Path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, b); err != nil {
		_ = f.Close()
		return perr.WithField(err, w.Path)
	}
	return perr.WithField(perr.WrapIf(f.Close(), perr.ErrorCodeIOFailure, "close "+w.Path), w.Path)
}

// WriteCSV renders b as CSV to w
func WriteCSV(w io.Writer, b domain.Batch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColID, ColOneHot, ColComposition}); err != nil {
		return perr.WrapIOf(err, "write csv header")
	}
	for _, r := range b.Records {
		if err := cw.Write([]string{r.ID, FormatInts(r.OneHotEncoded), FormatFloats(r.Composition)}); err != nil {
			return perr.WrapIOf(err, "write csv row %q", r.ID)
		}
	}
	cw.Flush()
	return perr.WrapIf(cw.Error(), perr.ErrorCodeIOFailure, "flush csv")
}

// ReadFeaturesCSV reads a file produced by CSVWriter back into annotated records
func ReadFeaturesCSV(r io.Reader) ([]domain.Annotated, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, perr.WrapIOf(err, "read features header")
	}
	if strings.Join(header, ",") != ColID+","+ColOneHot+","+ColComposition {
		return nil, perr.IOf("unexpected features header %v", header)
	}
	var out []domain.Annotated
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, perr.WrapIOf(err, "read features row")
		}
		oh, err := ParseInts(row[1])
		if err != nil {
			return nil, perr.WithField(err, row[0])
		}
		comp, err := ParseFloats(row[2])
		if err != nil {
			return nil, perr.WithField(err, row[0])
		}
		out = append(out, domain.Annotated{Record: domain.Record{ID: row[0]}, OneHotEncoded: oh, Composition: comp})
	}
}
