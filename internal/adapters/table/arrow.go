package table

import (
	"context"
	"os"
	"strconv"

	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/services/features/domain"

	"github.com/apache/arrow/go/arrow"
	"github.com/apache/arrow/go/arrow/array"
	"github.com/apache/arrow/go/arrow/ipc"
	"github.com/apache/arrow/go/arrow/memory"
	"github.com/google/uuid"
)

// arrowSchema is the IPC stream layout; run metadata rides on the schema
func arrowSchema(b domain.Batch) *arrow.Schema {
	md := arrow.NewMetadata(
		[]string{"run_id", "padded_length"},
		[]string{b.RunID.String(), strconv.Itoa(b.PaddedLength)},
	)
	return arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.BinaryTypes.String, Nullable: false},
		{Name: "one_hot_encoded", Type: arrow.ListOf(arrow.PrimitiveTypes.Int32), Nullable: false},
		{Name: "composition", Type: arrow.ListOf(arrow.PrimitiveTypes.Float64), Nullable: false},
	}, &md)
}

// ArrowWriter writes batches as an Arrow IPC stream
type ArrowWriter struct{ Path string }

// Write implements domain.SinkPort
func (w ArrowWriter) Write(_ context.Context, b domain.Batch) error {
	f, err := create(w.Path)
	if err != nil {
		return err
	}

	schema := arrowSchema(b)
	iw := ipc.NewWriter(f, ipc.WithSchema(schema))

	rec := toArrow(schema, b, memory.NewGoAllocator())
	defer rec.Release()

	if err := iw.Write(rec); err != nil {
		_ = iw.Close()
		_ = f.Close()
		return perr.WithField(perr.WrapIOf(err, "write arrow record"), w.Path)
	}
	if err := iw.Close(); err != nil {
		_ = f.Close()
		return perr.WithField(perr.WrapIOf(err, "finish arrow stream"), w.Path)
	}
	return perr.WithField(perr.WrapIf(f.Close(), perr.ErrorCodeIOFailure, "close "+w.Path), w.Path)
}

func toArrow(schema *arrow.Schema, b domain.Batch, mem memory.Allocator) array.Record {
	idB := array.NewStringBuilder(mem)
	defer idB.Release()

	ohB := array.NewListBuilder(mem, arrow.PrimitiveTypes.Int32)
	defer ohB.Release()

	compB := array.NewListBuilder(mem, arrow.PrimitiveTypes.Float64)
	defer compB.Release()

	for _, r := range b.Records {
		idB.Append(r.ID)

		ohB.Append(true)
		ohB.ValueBuilder().(*array.Int32Builder).AppendValues(r.OneHotEncoded, nil)

		compB.Append(true)
		compB.ValueBuilder().(*array.Float64Builder).AppendValues(r.Composition, nil)
	}

	idArr := idB.NewArray()
	defer idArr.Release()

	ohArr := ohB.NewArray()
	defer ohArr.Release()

	compArr := compB.NewArray()
	defer compArr.Release()

	return array.NewRecord(schema, []array.Interface{idArr, ohArr, compArr}, int64(len(b.Records)))
}

// ReadArrow reads a stream produced by ArrowWriter
func ReadArrow(path string) (domain.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Batch{}, perr.WithField(perr.WrapIOf(err, "open %q", path), path)
	}
	defer func() { _ = f.Close() }()

	r, err := ipc.NewReader(f)
	if err != nil {
		return domain.Batch{}, perr.WithField(perr.WrapIOf(err, "create arrow reader"), path)
	}
	defer r.Release()

	var b domain.Batch
	md := r.Schema().Metadata()
	if i := md.FindKey("run_id"); i >= 0 {
		b.RunID, _ = uuid.Parse(md.Values()[i])
	}
	if i := md.FindKey("padded_length"); i >= 0 {
		b.PaddedLength, _ = strconv.Atoi(md.Values()[i])
	}

	for r.Next() {
		b.Records = append(b.Records, fromArrow(r.Record())...)
	}
	if err := r.Err(); err != nil {
		return domain.Batch{}, perr.WithField(perr.WrapIOf(err, "read arrow stream"), path)
	}
	return b, nil
}

func fromArrow(rec array.Record) []domain.Annotated {
	ids := rec.Column(0).(*array.String)
	oh := rec.Column(1).(*array.List)
	comp := rec.Column(2).(*array.List)

	ohVals := oh.ListValues().(*array.Int32).Int32Values()
	compVals := comp.ListValues().(*array.Float64).Float64Values()
	ohOff, compOff := oh.Offsets(), comp.Offsets()

	out := make([]domain.Annotated, int(rec.NumRows()))
	for i := range out {
		out[i] = domain.Annotated{
			Record:        domain.Record{ID: ids.Value(i)},
			OneHotEncoded: append([]int32(nil), ohVals[ohOff[i]:ohOff[i+1]]...),
			Composition:   append([]float64(nil), compVals[compOff[i]:compOff[i+1]]...),
		}
	}
	return out
}
