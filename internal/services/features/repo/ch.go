package repo

import (
	"context"
	"time"

	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/platform/store"
	"seqfeat/internal/services/features/domain"
)

var chColumns = []string{"run_id", "record_id", "position", "padded_length", "one_hot", "composition", "created_at"}

// CH writes batches to ClickHouse through the store seam
type CH struct {
	db    store.Clickhouse
	table string
}

// NewCH constructs a ClickHouse sink over db
func NewCH(db store.Clickhouse) *CH { return &CH{db: db, table: Table} }

// EnsureSchema creates the features table when missing
func (c *CH) EnsureSchema(ctx context.Context) error {
	err := c.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+c.table+` (
		run_id        UUID,
		record_id     String,
		position      UInt32,
		padded_length UInt32,
		one_hot       Array(Int32),
		composition   Array(Float64),
		created_at    DateTime64(3, 'UTC')
	) ENGINE = ReplacingMergeTree
	ORDER BY (run_id, position)`)
	return perr.WrapIf(err, perr.ErrorCodeDB, "ensure "+c.table+" schema")
}

// Write implements domain.SinkPort as one columnar batch
func (c *CH) Write(ctx context.Context, b domain.Batch) error {
	if len(b.Records) == 0 {
		return nil
	}
	created := b.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	rows := make([][]any, len(b.Records))
	for i, r := range b.Records {
		rows[i] = []any{
			b.RunID, r.ID, uint32(i), uint32(b.PaddedLength),
			r.OneHotEncoded, r.Composition, created,
		}
	}
	if err := c.db.Insert(ctx, c.table, chColumns, rows); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "write run %s", b.RunID)
	}
	return nil
}
