package table

import (
	"context"

	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/services/features/domain"

	"github.com/google/uuid"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// parquetRow is the on-disk row layout
type parquetRow struct {
	RunID        string    `parquet:"name=run_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ID           string    `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	PaddedLength int32     `parquet:"name=padded_length, type=INT32"`
	OneHot       []int32   `parquet:"name=one_hot_encoded, type=LIST, valuetype=INT32"`
	Composition  []float64 `parquet:"name=composition, type=LIST, valuetype=DOUBLE"`
}

// parquetParallel is the writer and reader goroutine count
const parquetParallel = 2

// ParquetWriter writes batches as SNAPPY compressed parquet
type ParquetWriter struct{ Path string }

// Write implements domain.SinkPort
func (w ParquetWriter) Write(_ context.Context, b domain.Batch) error {
	fw, err := local.NewLocalFileWriter(w.Path)
	if err != nil {
		return perr.WithField(perr.WrapIOf(err, "create %q", w.Path), w.Path)
	}
	defer func() { _ = fw.Close() }()

	pw, err := writer.NewParquetWriter(fw, new(parquetRow), parquetParallel)
	if err != nil {
		return perr.WithField(perr.WrapIOf(err, "create parquet writer"), w.Path)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	run := b.RunID.String()
	for _, r := range b.Records {
		row := parquetRow{
			RunID:        run,
			ID:           r.ID,
			PaddedLength: int32(b.PaddedLength),
			OneHot:       r.OneHotEncoded,
			Composition:  r.Composition,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return perr.WithField(perr.WrapIOf(err, "write parquet row %q", r.ID), w.Path)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return perr.WithField(perr.WrapIOf(err, "finish parquet file"), w.Path)
	}
	return nil
}

// ReadParquet reads a file produced by ParquetWriter
func ReadParquet(path string) (domain.Batch, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return domain.Batch{}, perr.WithField(perr.WrapIOf(err, "open %q", path), path)
	}
	defer func() { _ = fr.Close() }()

	pr, err := reader.NewParquetReader(fr, new(parquetRow), parquetParallel)
	if err != nil {
		return domain.Batch{}, perr.WithField(perr.WrapIOf(err, "create parquet reader"), path)
	}
	defer pr.ReadStop()

	rows := make([]parquetRow, pr.GetNumRows())
	if err := pr.Read(&rows); err != nil {
		return domain.Batch{}, perr.WithField(perr.WrapIOf(err, "read parquet rows"), path)
	}

	var b domain.Batch
	for i, row := range rows {
		if i == 0 {
			b.PaddedLength = int(row.PaddedLength)
			if id, err := uuid.Parse(row.RunID); err == nil {
				b.RunID = id
			}
		}
		b.Records = append(b.Records, domain.Annotated{
			Record:        domain.Record{ID: row.ID},
			OneHotEncoded: row.OneHot,
			Composition:   row.Composition,
		})
	}
	return b, nil
}
