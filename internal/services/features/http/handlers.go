// Package http provides the features endpoints
package http

import (
	"context"
	"fmt"
	"net/http"
	"unicode/utf8"

	"seqfeat/internal/core/alphabet"
	"seqfeat/internal/core/onehot"
	"seqfeat/internal/modkit/httpkit"
	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/platform/logger"
	"seqfeat/internal/services/features/domain"

	"github.com/google/uuid"
)

// Processor is the service surface the handlers need
type Processor interface {
	domain.ProcessorPort
	Single(seq string, paddedLength int) (domain.Annotated, error)
}

// RunReader loads a persisted batch
type RunReader interface {
	Run(ctx context.Context, runID uuid.UUID) (domain.Batch, error)
}

// Deps are the handler dependencies; Sink and Runs may be nil
type Deps struct {
	Service    Processor
	Sink       domain.SinkPort
	Runs       RunReader
	MaxRecords int

	// MaxPaddedLength caps the vector length a request can ask for; 0 leaves only MaxPaddedLengthCeiling
	MaxPaddedLength int
}

// MaxPaddedLengthCeiling is the hard bound on padded_length, whatever the configured cap
const MaxPaddedLengthCeiling = 1_000_000

type handlers struct {
	deps Deps
}

// Register mounts the features routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/alphabet", h.alphabet)
	httpkit.PostJSON(r, "/features", h.features)
	httpkit.PostJSON(r, "/encode", h.encode)
	httpkit.Get(r, "/runs", h.run)
}

// AlphabetResponse describes the vector layout
type AlphabetResponse struct {
	Symbols      []string `json:"symbols"`
	PaddingIndex int      `json:"padding_index"`
	Width        int      `json:"width"`
}

// FeaturesRequest is a batch of records
type FeaturesRequest struct {
	Records []domain.Record `json:"records" validate:"dive"`
	Persist bool            `json:"persist"`
}

// EncodeRequest is a single sequence with optional padding
type EncodeRequest struct {
	Sequence     string `json:"sequence"`
	PaddedLength int    `json:"padded_length" validate:"min=0,max=1000000"`
}

// EncodeResponse carries the vectors for one sequence
type EncodeResponse struct {
	PaddedLength  int       `json:"padded_length"`
	OneHotEncoded []int32   `json:"one_hot_encoded"`
	Composition   []float64 `json:"composition"`
}

func (h *handlers) alphabet(_ *http.Request) (any, error) {
	syms := alphabet.Standard.Symbols()
	out := AlphabetResponse{
		Symbols:      make([]string, len(syms)),
		PaddingIndex: alphabet.Standard.PaddingIndex(),
		Width:        onehot.Width,
	}
	for i, s := range syms {
		out.Symbols[i] = string(rune(s))
	}
	return out, nil
}

func (h *handlers) features(r *http.Request, in FeaturesRequest) (any, error) {
	if h.deps.MaxRecords > 0 && len(in.Records) > h.deps.MaxRecords {
		return nil, perr.WithField(perr.InvalidArgf("at most %d records per request", h.deps.MaxRecords), "records")
	}
	for i, rec := range in.Records {
		if err := h.checkLength(utf8.RuneCountInString(rec.Sequence), fmt.Sprintf("records[%d].sequence", i)); err != nil {
			return nil, err
		}
	}
	if in.Persist && h.deps.Sink == nil {
		return nil, perr.Unavailablef("no database sink configured")
	}
	b, err := h.deps.Service.Process(r.Context(), in.Records)
	if err != nil {
		return nil, err
	}
	if in.Persist {
		if err := h.deps.Sink.Write(r.Context(), b); err != nil {
			return nil, err
		}
		logger.C(logger.WithRun(r.Context(), b.RunID.String())).Info().
			Int("records", len(b.Records)).Msg("batch persisted")
	}
	return b, nil
}

func (h *handlers) encode(_ *http.Request, in EncodeRequest) (any, error) {
	if err := h.checkLength(max(in.PaddedLength, utf8.RuneCountInString(in.Sequence)), "padded_length"); err != nil {
		return nil, err
	}
	a, err := h.deps.Service.Single(in.Sequence, in.PaddedLength)
	if err != nil {
		return nil, err
	}
	return EncodeResponse{
		PaddedLength:  len(a.OneHotEncoded) / onehot.Width,
		OneHotEncoded: a.OneHotEncoded,
		Composition:   a.Composition,
	}, nil
}

// checkLength rejects a padded length above the configured cap before anything is allocated
func (h *handlers) checkLength(n int, field string) error {
	limit := MaxPaddedLengthCeiling
	if h.deps.MaxPaddedLength > 0 {
		limit = min(limit, h.deps.MaxPaddedLength)
	}
	if n > limit {
		return perr.WithField(perr.InvalidArgf("padded length %d exceeds the limit of %d", n, limit), field)
	}
	return nil
}

func (h *handlers) run(r *http.Request) (any, error) {
	if h.deps.Runs == nil {
		return nil, perr.Unavailablef("no run store configured")
	}
	raw := r.URL.Query().Get("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, perr.WithField(perr.InvalidArgf("invalid run id %q", raw), "id")
	}
	return h.deps.Runs.Run(r.Context(), id)
}
