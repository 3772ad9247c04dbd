package service

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"seqfeat/internal/core/onehot"
	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/services/features/domain"

	"github.com/google/uuid"
)

func sample() []domain.Record {
	return []domain.Record{
		{ID: "1", Sequence: "ACDEFGHIKLMNPQRSTVWY"},
		{ID: "2", Sequence: "ACDXFGHI"},
		{ID: "3", Sequence: "MNPQRSTVWY"},
	}
}

func TestProcess_PreservesOrderAndPadsToLongest(t *testing.T) {
	for _, workers := range []int{0, 1, 2, 8} {
		s := New(Config{Workers: workers})
		b, err := s.Process(context.Background(), sample())
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if b.PaddedLength != 20 {
			t.Fatalf("padded length = %d, want 20", b.PaddedLength)
		}
		if len(b.Records) != 3 {
			t.Fatalf("records = %d, want 3", len(b.Records))
		}
		for i, r := range b.Records {
			if r.ID != sample()[i].ID {
				t.Fatalf("order broken at %d: %s", i, r.ID)
			}
			if len(r.OneHotEncoded) != 20*onehot.Width {
				t.Fatalf("record %s one-hot len = %d", r.ID, len(r.OneHotEncoded))
			}
			if len(r.Composition) != onehot.Width {
				t.Fatalf("record %s composition len = %d", r.ID, len(r.Composition))
			}
		}
		if b.RunID == uuid.Nil {
			t.Fatalf("run id not stamped")
		}
	}
}

func TestProcess_SameResultForAnyWorkerCount(t *testing.T) {
	recs := make([]domain.Record, 0, 64)
	for i := range 64 {
		recs = append(recs, domain.Record{ID: string(rune('a' + i%26)), Sequence: strings.Repeat("ACDX", i%7+1)})
	}
	one, err := New(Config{Workers: 1}).Process(context.Background(), recs)
	if err != nil {
		t.Fatalf("workers=1: %v", err)
	}
	many, err := New(Config{Workers: 16}).Process(context.Background(), recs)
	if err != nil {
		t.Fatalf("workers=16: %v", err)
	}
	if !reflect.DeepEqual(one.Records, many.Records) || one.PaddedLength != many.PaddedLength {
		t.Fatalf("results differ across worker counts")
	}
}

func TestProcess_EmptySequenceFailsWholeBatch(t *testing.T) {
	recs := []domain.Record{
		{ID: "ok", Sequence: "ACD"},
		{ID: "bad-1", Sequence: ""},
		{ID: "ok-2", Sequence: "MN"},
		{ID: "bad-2", Sequence: ""},
	}
	b, err := New(Config{Workers: 4}).Process(context.Background(), recs)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
	if e, _ := perr.As(err); e.Field() != "bad-1" {
		t.Fatalf("field = %q, want lowest index failure bad-1", e.Field())
	}
	if !strings.Contains(err.Error(), "position 1") {
		t.Fatalf("error should name the position: %v", err)
	}
	if b.Records != nil {
		t.Fatalf("no partial results expected")
	}
}

func TestProcess_EmptyCollection(t *testing.T) {
	_, err := New(Config{}).Process(context.Background(), nil)
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{}).Process(ctx, sample())
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestProcess_StampsClockAndRunID(t *testing.T) {
	s := New(Config{Workers: 2})
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	id := uuid.MustParse("6f1c1f0e-0d5e-4e0b-9a43-5b2f0f3b9d11")
	s.now = func() time.Time { return fixed }
	s.newID = func() uuid.UUID { return id }

	b, err := s.Process(context.Background(), sample()[:1])
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if b.RunID != id || !b.CreatedAt.Equal(fixed) {
		t.Fatalf("stamp = %v %v", b.RunID, b.CreatedAt)
	}
}

func TestSingle(t *testing.T) {
	s := New(Config{})
	a, err := s.Single("ACDX", 6)
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	if len(a.OneHotEncoded) != 6*onehot.Width {
		t.Fatalf("len = %d", len(a.OneHotEncoded))
	}
	if !reflect.DeepEqual(a.OneHotEncoded[len(a.OneHotEncoded)-onehot.Width:], onehot.PaddingBlock()) {
		t.Fatalf("tail is not padding")
	}

	a, err = s.Single("ACDX", 0)
	if err != nil || len(a.OneHotEncoded) != 4*onehot.Width {
		t.Fatalf("unpadded single: len=%d err=%v", len(a.OneHotEncoded), err)
	}

	if _, err := s.Single("ACDX", 3); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("short padding err = %v", err)
	}
	if _, err := s.Single("", 0); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("empty err = %v", err)
	}
}

func TestPaddedLength_CountsRunes(t *testing.T) {
	got := PaddedLength([]domain.Record{{Sequence: "AC"}, {Sequence: "Aé漢"}})
	if got != 3 {
		t.Fatalf("padded length = %d, want 3", got)
	}
}

func TestPartitionEmpty(t *testing.T) {
	keep, empty := PartitionEmpty([]domain.Record{
		{ID: "a", Sequence: "A"}, {ID: "b"}, {ID: "c", Sequence: "C"}, {ID: "d"},
	})
	if len(keep) != 2 || keep[0].ID != "a" || keep[1].ID != "c" {
		t.Fatalf("keep = %+v", keep)
	}
	if len(empty) != 2 || empty[0].ID != "b" || empty[1].ID != "d" {
		t.Fatalf("empty = %+v", empty)
	}
}

func TestValidateRowCount(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want int
		ok   bool
	}{
		{"2", 3, 2, true},
		{" 3\n", 3, 3, true},
		{"1", 1, 1, true},
		{"0", 3, 0, false},
		{"-1", 3, 0, false},
		{"4", 3, 0, false},
		{"two", 3, 0, false},
		{"2.5", 3, 0, false},
		{"", 3, 0, false},
		{"1", 0, 0, false},
	}
	for _, c := range cases {
		got, err := ValidateRowCount(c.in, c.max)
		if c.ok {
			if err != nil || got != c.want {
				t.Fatalf("ValidateRowCount(%q,%d) = %d, %v", c.in, c.max, got, err)
			}
			continue
		}
		if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("ValidateRowCount(%q,%d) err = %v", c.in, c.max, err)
		}
	}
}
