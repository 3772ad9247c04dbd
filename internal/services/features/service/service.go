// Package service implements the features batch processor
package service

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"seqfeat/internal/core/composition"
	"seqfeat/internal/core/onehot"
	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/platform/logger"
	"seqfeat/internal/services/features/domain"

	"github.com/google/uuid"
)

// Config for the features service
type Config struct {
	Workers int
}

// Service implements domain.ProcessorPort
type Service struct {
	Cfg Config

	now   func() time.Time
	newID func() uuid.UUID
}

// New constructs a new features service
func New(cfg Config) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Service{Cfg: cfg, now: time.Now, newID: uuid.New}
}

// Process annotates every record with its one-hot encoding and composition.
// The padded length is the longest sequence in records; any failing record fails the call.
func (s *Service) Process(ctx context.Context, records []domain.Record) (domain.Batch, error) {
	if len(records) == 0 {
		return domain.Batch{}, perr.InvalidArgf("empty record collection")
	}
	start := s.now()
	runID := s.newID()
	ctx = logger.WithRun(ctx, runID.String())

	padded := PaddedLength(records)

	out := make([]domain.Annotated, len(records))
	errs := make([]error, len(records))

	sem := make(chan struct{}, s.Cfg.Workers)
	wg := sync.WaitGroup{}

	for i := range records {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			out[i], errs[i] = annotate(i, records[i], padded)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return domain.Batch{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "processing cancelled")
	}
	// lowest index wins so the error does not depend on scheduling
	for _, err := range errs {
		if err != nil {
			return domain.Batch{}, err
		}
	}

	logger.C(ctx).Info().
		Int("records", len(out)).
		Int("padded_length", padded).
		Int("workers", s.Cfg.Workers).
		Dur("elapsed", time.Since(start)).
		Msg("batch processed")

	return domain.Batch{
		RunID:        runID,
		PaddedLength: padded,
		CreatedAt:    start.UTC(),
		Records:      out,
	}, nil
}

// Single annotates one sequence; paddedLength 0 means no padding
func (s *Service) Single(seq string, paddedLength int) (domain.Annotated, error) {
	if paddedLength == 0 {
		paddedLength = utf8.RuneCountInString(seq)
	}
	return annotate(0, domain.Record{Sequence: seq}, paddedLength)
}

func annotate(i int, r domain.Record, padded int) (domain.Annotated, error) {
	comp, err := composition.Of(r.Sequence)
	if err != nil {
		return domain.Annotated{}, perr.WithField(
			perr.Wrapf(err, perr.CodeOf(err), "record %q at position %d", r.ID, i), r.ID)
	}
	enc, err := onehot.Encode(r.Sequence, padded)
	if err != nil {
		return domain.Annotated{}, perr.WithField(
			perr.Wrapf(err, perr.CodeOf(err), "record %q at position %d", r.ID, i), r.ID)
	}
	return domain.Annotated{Record: r, OneHotEncoded: enc, Composition: comp}, nil
}

// PaddedLength is the longest sequence in records measured in runes
func PaddedLength(records []domain.Record) int {
	m := 0
	for _, r := range records {
		m = max(m, utf8.RuneCountInString(r.Sequence))
	}
	return m
}

// PartitionEmpty splits records into those with a sequence and those without, keeping order
func PartitionEmpty(records []domain.Record) (keep, empty []domain.Record) {
	keep = make([]domain.Record, 0, len(records))
	for _, r := range records {
		if r.Sequence == "" {
			empty = append(empty, r)
			continue
		}
		keep = append(keep, r)
	}
	return keep, empty
}
