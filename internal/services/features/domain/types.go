// Package domain defines the core types and interfaces for the features service
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Record is one input row; Sequence length is counted in runes
type Record struct {
	ID       string `json:"id"       validate:"required"`
	Sequence string `json:"sequence"`
}

// Annotated is a record plus its feature vectors
type Annotated struct {
	Record
	OneHotEncoded []int32   `json:"one_hot_encoded"`
	Composition   []float64 `json:"composition"`
}

// Batch is the result of one processing call
// every OneHotEncoded has length PaddedLength*21
type Batch struct {
	RunID        uuid.UUID   `json:"run_id"`
	PaddedLength int         `json:"padded_length"`
	CreatedAt    time.Time   `json:"created_at"`
	Records      []Annotated `json:"records"`
}

// Head returns a shallow copy of b limited to the first n records
func (b Batch) Head(n int) Batch {
	if n < 0 {
		n = 0
	}
	if n < len(b.Records) {
		b.Records = b.Records[:n]
	}
	return b
}
