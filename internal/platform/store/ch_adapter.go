package store

import (
	"context"

	"seqfeat/internal/platform/store/ch"
)

// chAdapter exposes *ch.CH as the Clickhouse seam; only Query needs converting
type chAdapter struct{ *ch.CH }

var (
	_ Clickhouse = chAdapter{}
	_ Pinger     = chAdapter{}
)

func newCHAdapter(c *ch.CH) Clickhouse { return chAdapter{c} }

func (a chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.CH.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

// chRows adapts ch.Rows to Rows, whose Close returns nothing
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
