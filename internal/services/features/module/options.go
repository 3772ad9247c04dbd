package module

import (
	"seqfeat/internal/platform/config"
	"seqfeat/internal/platform/net/http/bind"
)

// Sink names accepted by CORE_FEATURES_SINK
const (
	SinkCSV     = "csv"
	SinkParquet = "parquet"
	SinkArrow   = "arrow"
	SinkPG      = "pg"
	SinkCH      = "ch"
)

// Options holds configuration settings for the features module
type Options struct {
	Workers    int    `validate:"min=1,max=256"`
	Preview    int    `validate:"min=0"`
	Sink       string `validate:"oneof=csv parquet arrow pg ch"`
	Output     string `validate:"required"`
	SkipEmpty  bool
	MaxRecords int `validate:"min=1"`

	// MaxPaddedLength caps padded_length on the HTTP routes
	MaxPaddedLength int `validate:"min=1,max=1000000"`
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	fc := cfg.Prefix("CORE_FEATURES_")
	return Options{
		Workers:    fc.MayInt("WORKERS", 2),
		Preview:    fc.MayInt("PREVIEW", 10),
		Sink:       fc.MayEnum("SINK", SinkCSV, SinkCSV, SinkParquet, SinkArrow, SinkPG, SinkCH),
		Output:     fc.MayString("OUTPUT", "processed_sequences.csv"),
		SkipEmpty:  fc.MayBool("SKIP_EMPTY", false),
		MaxRecords: fc.MayInt("MAX_RECORDS", 10000),

		MaxPaddedLength: fc.MayInt("MAX_PADDED_LENGTH", 100_000),
	}
}

// Validate checks option ranges
func (o Options) Validate() error { return bind.Validate(o) }
