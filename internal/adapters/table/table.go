// Package table reads sequence records from tabular files and writes processed batches back out
package table

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/platform/logger"
	"seqfeat/internal/services/features/domain"
)

// Column names shared by every format
const (
	ColID          = "ID"
	ColSequence    = "Sequence"
	ColOneHot      = "OneHotEncoded"
	ColComposition = "Composition"
)

// Format names accepted by Sink
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
	FormatArrow   = "arrow"
)

// File is a SourcePort over a path on disk
type File struct{ Path string }

// Load implements domain.SourcePort
func (f File) Load(_ context.Context) ([]domain.Record, error) { return Load(f.Path) }

// Load reads records from path, choosing the parser by extension.
// A trailing .gz is decompressed transparently.
func Load(path string) ([]domain.Record, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var recs []domain.Record
	switch ext := inputExt(path); ext {
	case ".csv":
		recs, err = ReadCSV(rc)
	case ".fa", ".fasta", ".faa":
		recs, err = ReadFASTA(rc)
	default:
		return nil, perr.WithField(perr.IOf("unsupported input extension %q", ext), path)
	}
	if err != nil {
		return nil, perr.WithField(err, path)
	}
	logger.Named("table").Debug().Str("path", path).Int("records", len(recs)).Msg("records loaded")
	return recs, nil
}

// LoadCSV reads a CSV file with ID and Sequence columns
func LoadCSV(path string) ([]domain.Record, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ReadCSV(rc)
}

// LoadFASTA reads a FASTA file
func LoadFASTA(path string) ([]domain.Record, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ReadFASTA(rc)
}

// Sink returns the file sink for format writing to path
func Sink(format, path string) (domain.SinkPort, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return CSVWriter{Path: path}, nil
	case FormatParquet:
		return ParquetWriter{Path: path}, nil
	case FormatArrow:
		return ArrowWriter{Path: path}, nil
	}
	return nil, perr.InvalidArgf("unknown output format %q", format)
}

func inputExt(path string) string {
	return strings.ToLower(filepath.Ext(strings.TrimSuffix(strings.ToLower(path), ".gz")))
}

type gzFile struct {
	*gzip.Reader
	f *os.File
}

func (g gzFile) Close() error {
	return errors.Join(g.Reader.Close(), g.f.Close())
}

func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perr.WithField(perr.WrapIOf(err, "file %q not found", path), path)
		}
		return nil, perr.WithField(perr.WrapIOf(err, "error loading file %q", path), path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, perr.WithField(perr.WrapIOf(err, "error opening gzip %q", path), path)
	}
	return gzFile{Reader: gz, f: f}, nil
}

// create opens path for writing, creating parent directories
func create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, perr.WithField(perr.WrapIOf(err, "create directory for %q", path), path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, perr.WithField(perr.WrapIOf(err, "create %q", path), path)
	}
	return f, nil
}
