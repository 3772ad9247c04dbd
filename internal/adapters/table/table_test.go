package table

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	perr "seqfeat/internal/platform/errors"
	kit "seqfeat/internal/platform/testkit"
	"seqfeat/internal/services/features/domain"
	"seqfeat/internal/services/features/service"
)

const sampleCSV = "ID,Sequence\n1,ACDEFGHIKLMNPQRSTVWY\n2,ACDXFGHI\n3,MNPQRSTVWY\n"

func processed(t *testing.T) domain.Batch {
	t.Helper()
	recs, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	b, err := service.New(service.Config{Workers: 2}).Process(context.Background(), recs)
	if err != nil {
		t.Fatalf("process sample: %v", err)
	}
	return b
}

func mustIO(t *testing.T, err error, input string) {
	t.Helper()
	if !perr.IsCode(err, perr.ErrorCodeIOFailure) {
		t.Fatalf("%q: want io_failure, got %v", input, err)
	}
}

func sameFeatures(t *testing.T, got, want domain.Batch) {
	t.Helper()
	if len(got.Records) != len(want.Records) {
		t.Fatalf("records = %d, want %d", len(got.Records), len(want.Records))
	}
	for i := range want.Records {
		g, w := got.Records[i], want.Records[i]
		if g.ID != w.ID || !reflect.DeepEqual(g.OneHotEncoded, w.OneHotEncoded) || !reflect.DeepEqual(g.Composition, w.Composition) {
			t.Fatalf("record %d differs: %+v vs %+v", i, g.ID, w.ID)
		}
	}
}

func TestReadCSV(t *testing.T) {
	recs, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil || len(recs) != 3 {
		t.Fatalf("ReadCSV = %d records, %v", len(recs), err)
	}
	if want := (domain.Record{ID: "2", Sequence: "ACDXFGHI"}); recs[1] != want {
		t.Fatalf("recs[1] = %+v, want %+v", recs[1], want)
	}
}

func TestReadCSV_ColumnOrderAndExtras(t *testing.T) {
	in := "\ufeffName,Sequence,ID\nfoo,AC,a\nbar,MN,b\n"
	recs, err := ReadCSV(strings.NewReader(in))
	want := []domain.Record{{ID: "a", Sequence: "AC"}, {ID: "b", Sequence: "MN"}}
	if err != nil || !reflect.DeepEqual(recs, want) {
		t.Fatalf("ReadCSV = %+v, %v", recs, err)
	}
}

func TestReadCSV_MissingColumns(t *testing.T) {
	for _, in := range []string{"ID,Seq\n1,A\n", "Sequence\nA\n", ""} {
		_, err := ReadCSV(strings.NewReader(in))
		mustIO(t, err, in)
	}
}

func TestReadCSV_ShortRowsFillEmpty(t *testing.T) {
	recs, err := ReadCSV(strings.NewReader("ID,Sequence\n1\n"))
	if err != nil || !reflect.DeepEqual(recs, []domain.Record{{ID: "1"}}) {
		t.Fatalf("ReadCSV = %+v, %v", recs, err)
	}
}

func TestReadFASTA(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []domain.Record
	}{
		{
			name: "wrapped with description",
			in:   ">sp|P1|A desc here\nACDE\nFGHI\n\n>P2\nMNPQ\n",
			want: []domain.Record{{ID: "sp|P1|A", Sequence: "ACDEFGHI"}, {ID: "P2", Sequence: "MNPQ"}},
		},
		{
			name: "crlf and leading blank lines",
			in:   "\n\r\n>P1\r\nAC\r\nDE\r\n",
			want: []domain.Record{{ID: "P1", Sequence: "ACDE"}},
		},
		{
			name: "space after marker",
			in:   "> P1 first\nAC\n",
			want: []domain.Record{{ID: "P1", Sequence: "AC"}},
		},
		{
			name: "tab separated description",
			in:   ">P1\tfirst\nAC\n>P2\nMN",
			want: []domain.Record{{ID: "P1", Sequence: "AC"}, {ID: "P2", Sequence: "MN"}},
		},
	}
	for _, c := range cases {
		recs, err := ReadFASTA(strings.NewReader(c.in))
		if err != nil || !reflect.DeepEqual(recs, c.want) {
			t.Fatalf("%s: ReadFASTA = %+v, %v; want %+v", c.name, recs, err, c.want)
		}
	}
}

func TestReadFASTA_Errors(t *testing.T) {
	for _, in := range []string{"ACDE\n>x\nA\n", ">\nACD\n", "", "\n\n"} {
		_, err := ReadFASTA(strings.NewReader(in))
		mustIO(t, err, in)
	}
	_, err := ReadFASTA(strings.NewReader("ACDE\n>x\nA\n"))
	kit.MustContain(t, err.Error(), "before first header")
}

func TestLoad_Dispatch(t *testing.T) {
	csvPath := kit.WriteFile(t, "seqs.csv", sampleCSV)
	if recs, err := Load(csvPath); err != nil || len(recs) != 3 {
		t.Fatalf("Load csv = %d, %v", len(recs), err)
	}

	faPath := kit.WriteFile(t, "seqs.FASTA", ">a\nAC\n>b\nMN\n")
	if recs, err := (File{Path: faPath}).Load(context.Background()); err != nil || len(recs) != 2 {
		t.Fatalf("File.Load fasta = %d, %v", len(recs), err)
	}
	if recs, err := LoadFASTA(faPath); err != nil || recs[1].ID != "b" {
		t.Fatalf("LoadFASTA = %+v, %v", recs, err)
	}
	if recs, err := LoadCSV(csvPath); err != nil || recs[2].ID != "3" {
		t.Fatalf("LoadCSV = %+v, %v", recs, err)
	}
}

func TestLoad_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(sampleCSV)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	path := filepath.Join(t.TempDir(), "seqs.csv.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if recs, err := Load(path); err != nil || len(recs) != 3 {
		t.Fatalf("Load gz = %d, %v", len(recs), err)
	}
}

func TestLoad_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	_, err := Load(missing)
	mustIO(t, err, missing)
	kit.MustContain(t, err.Error(), "not found")

	_, err = Load(kit.WriteFile(t, "seqs.txt", sampleCSV))
	mustIO(t, err, "seqs.txt")
	kit.MustContain(t, err.Error(), "unsupported input extension")

	bad := kit.WriteFile(t, "bad.csv", "ID,Seq\n1,A\n")
	_, err = Load(bad)
	e, ok := perr.As(err)
	if !ok || e.Field() != bad {
		t.Fatalf("bad columns: field should name the file, got %v", err)
	}

	_, err = Load(kit.WriteFile(t, "bad.csv.gz", "not gzip"))
	mustIO(t, err, "bad.csv.gz")
}

func TestCSVWriter_RoundTrip(t *testing.T) {
	b := processed(t)
	path := filepath.Join(t.TempDir(), "out", "processed.csv")
	if err := (CSVWriter{Path: path}).Write(context.Background(), b.Head(2)); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(raw), "ID,OneHotEncoded,Composition\n") {
		t.Fatalf("header = %q", strings.SplitN(string(raw), "\n", 2)[0])
	}
	kit.MustContain(t, string(raw), `"[1, 0, 0,`)

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	got, err := ReadFeaturesCSV(f)
	if err != nil || len(got) != 2 {
		t.Fatalf("ReadFeaturesCSV = %d, %v", len(got), err)
	}
	if !reflect.DeepEqual(got[1].OneHotEncoded, b.Records[1].OneHotEncoded) || !reflect.DeepEqual(got[1].Composition, b.Records[1].Composition) {
		t.Fatalf("row 1 did not round trip")
	}
}

func TestParquet_RoundTrip(t *testing.T) {
	b := processed(t)
	path := filepath.Join(t.TempDir(), "features.parquet")
	if err := (ParquetWriter{Path: path}).Write(context.Background(), b); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.RunID != b.RunID || got.PaddedLength != b.PaddedLength {
		t.Fatalf("run = %v/%d, want %v/%d", got.RunID, got.PaddedLength, b.RunID, b.PaddedLength)
	}
	sameFeatures(t, got, b)
}

func TestArrow_RoundTrip(t *testing.T) {
	b := processed(t)
	path := filepath.Join(t.TempDir(), "features.arrow")
	if err := (ArrowWriter{Path: path}).Write(context.Background(), b); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadArrow(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.RunID != b.RunID || got.PaddedLength != 20 {
		t.Fatalf("run = %v/%d, want %v/20", got.RunID, got.PaddedLength, b.RunID)
	}
	sameFeatures(t, got, b)
}

func TestSink(t *testing.T) {
	for _, f := range []string{"csv", "PARQUET", "arrow"} {
		if s, err := Sink(f, "x"); err != nil || s == nil {
			t.Fatalf("Sink(%q) = %v, %v", f, s, err)
		}
	}
	if _, err := Sink("xlsx", "x"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("xlsx: want invalid_argument, got %v", err)
	}
}

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		0:                 "0.0",
		0.25:              "0.25",
		1:                 "1.0",
		0.1:               "0.1",
		1.0 / 3:           "0.3333333333333333",
		0.05:              "0.05",
		0.00001:           "1e-05",
		1e16:              "1e+16",
		-2.5:              "-2.5",
		123456789012345.0: "123456789012345.0",
		0.0001:            "0.0001",
	}
	for in, want := range cases {
		if got := FormatFloat(in); got != want {
			t.Fatalf("FormatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatAndParseLists(t *testing.T) {
	if got := FormatInts([]int32{1, 0, 0}); got != "[1, 0, 0]" {
		t.Fatalf("FormatInts = %q", got)
	}
	if got := FormatInts(nil); got != "[]" {
		t.Fatalf("FormatInts(nil) = %q", got)
	}
	if got := FormatFloats([]float64{0.25, 0}); got != "[0.25, 0.0]" {
		t.Fatalf("FormatFloats = %q", got)
	}

	ints, err := ParseInts(" [1, 0,0] ")
	if err != nil || !reflect.DeepEqual(ints, []int32{1, 0, 0}) {
		t.Fatalf("ParseInts = %v, %v", ints, err)
	}
	floats, err := ParseFloats("[0.25, 0.0, 1e-05]")
	if err != nil || !reflect.DeepEqual(floats, []float64{0.25, 0, 0.00001}) {
		t.Fatalf("ParseFloats = %v, %v", floats, err)
	}
	if empty, err := ParseInts("[]"); err != nil || len(empty) != 0 {
		t.Fatalf("ParseInts([]) = %v, %v", empty, err)
	}

	if _, err := ParseInts("1, 2"); err == nil {
		t.Fatalf("unbracketed list should fail")
	}
	if _, err := ParseFloats("[a]"); err == nil {
		t.Fatalf("non-numeric list should fail")
	}
}

func TestPreview(t *testing.T) {
	b := processed(t)
	var buf bytes.Buffer
	if err := Preview(&buf, b, 2); err != nil {
		t.Fatalf("preview: %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, "ID: "); n != 2 {
		t.Fatalf("previewed %d rows, want 2", n)
	}
	kit.MustContain(t, out, "ID: 1\nOneHotEncoded: [1, 0, 0, 0, 0, 0, 0, 0, 0, 0]... (truncated for display)\n")
	kit.MustContain(t, out, "Composition: [0.125, 0.125, 0.125, 0.0,")
	if strings.Contains(out, "ID: 3") {
		t.Fatalf("preview went past the cap:\n%s", out)
	}
}
