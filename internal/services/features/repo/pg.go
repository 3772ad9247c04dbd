// Package repo provides the database sinks for processed feature batches
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/platform/store"
	"seqfeat/internal/services/features/domain"

	"github.com/google/uuid"
)

// Table is the default table name in both backends
const Table = "sequence_features"

// pgColumns is the number of bind parameters per row
const pgColumns = 7

// pgChunk bounds one INSERT to stay well under the 65535 bind parameter limit
const pgChunk = 1000

// PG writes batches to Postgres through the store seam
type PG struct {
	db    store.TxRunner
	table string
}

// NewPG constructs a Postgres sink over db
func NewPG(db store.TxRunner) *PG { return &PG{db: db, table: Table} }

// EnsureSchema creates the features table when missing
func (p *PG) EnsureSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+p.table+` (
		run_id        uuid        NOT NULL,
		record_id     text        NOT NULL,
		position      int         NOT NULL,
		padded_length int         NOT NULL,
		one_hot       int4[]      NOT NULL,
		composition   float8[]    NOT NULL,
		created_at    timestamptz NOT NULL DEFAULT now(),
		PRIMARY KEY (run_id, position)
	)`)
	return perr.FromPostgresf(err, "ensure %s schema", p.table)
}

// Write implements domain.SinkPort; all chunks commit together
func (p *PG) Write(ctx context.Context, b domain.Batch) error {
	if len(b.Records) == 0 {
		return nil
	}
	err := p.db.Tx(ctx, func(q store.RowQuerier) error {
		for lo := 0; lo < len(b.Records); lo += pgChunk {
			hi := min(lo+pgChunk, len(b.Records))
			sql, args := p.insert(b, lo, hi)
			if _, err := q.Exec(ctx, sql, args...); err != nil {
				return err
			}
		}
		return nil
	})
	return perr.FromPostgresf(err, "write run %s", b.RunID)
}

func (p *PG) insert(b domain.Batch, lo, hi int) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO ` + p.table + `
		(run_id, record_id, position, padded_length, one_hot, composition, created_at) VALUES `)

	created := b.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	args := make([]any, 0, (hi-lo)*pgColumns)
	for i := lo; i < hi; i++ {
		if i > lo {
			sb.WriteByte(',')
		}
		base := len(args) + 1
		fmt.Fprintf(&sb, "($%d::uuid,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5, base+6)
		r := b.Records[i]
		args = append(args,
			b.RunID.String(), r.ID, i, b.PaddedLength,
			r.OneHotEncoded, r.Composition, created,
		)
	}
	// reruns of the same run id are idempotent
	sb.WriteString(` ON CONFLICT (run_id, position) DO NOTHING`)
	return sb.String(), args
}

// Run reads a stored batch back in its original order
func (p *PG) Run(ctx context.Context, runID uuid.UUID) (domain.Batch, error) {
	rows, err := p.db.Query(ctx, `
		SELECT record_id, padded_length, one_hot, composition, created_at
		FROM `+p.table+`
		WHERE run_id = $1::uuid
		ORDER BY position`, runID.String())
	if err != nil {
		return domain.Batch{}, perr.FromPostgresf(err, "read run %s", runID)
	}
	defer rows.Close()

	b := domain.Batch{RunID: runID}
	for rows.Next() {
		var a domain.Annotated
		if err := rows.Scan(&a.ID, &b.PaddedLength, &a.OneHotEncoded, &a.Composition, &b.CreatedAt); err != nil {
			return domain.Batch{}, perr.FromPostgresf(err, "scan run %s", runID)
		}
		b.Records = append(b.Records, a)
	}
	if err := rows.Err(); err != nil {
		return domain.Batch{}, perr.FromPostgresf(err, "read run %s", runID)
	}
	if len(b.Records) == 0 {
		return domain.Batch{}, perr.NotFoundf("run %s not found", runID)
	}
	return b, nil
}
