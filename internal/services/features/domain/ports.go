package domain

import "context"

// ProcessorPort turns a collection of records into annotated records
type ProcessorPort interface {
	Process(ctx context.Context, records []Record) (Batch, error)
}

// SourcePort loads records from an external table
type SourcePort interface {
	Load(ctx context.Context) ([]Record, error)
}

// SinkPort persists a processed batch
type SinkPort interface {
	Write(ctx context.Context, b Batch) error
}

// SinkFunc adapts a function to SinkPort
type SinkFunc func(ctx context.Context, b Batch) error

// Write implements SinkPort
func (f SinkFunc) Write(ctx context.Context, b Batch) error { return f(ctx, b) }

// MultiSink fans a batch out to every sink in order, stopping at the first error
type MultiSink []SinkPort

// Write implements SinkPort
func (m MultiSink) Write(ctx context.Context, b Batch) error {
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Write(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
