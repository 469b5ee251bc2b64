package models

import "time"

// OperationKind classifies a queued mutation.
type OperationKind string

const (
	OperationCreate OperationKind = "CREATE"
	OperationUpdate OperationKind = "UPDATE"
	OperationDelete OperationKind = "DELETE"
)

// DefaultMaxRetries is the number of drain attempts an operation gets before
// it is dropped and recorded as a sync error.
const DefaultMaxRetries = 3

// PendingOperation is a mutation that could not reach the remote store when
// it was made and is waiting in the local queue for the next drain pass.
//
// CollectionKey is the remote-store target path: a bare collection for
// CREATE ("expenses"), or a full "<collection>/<id>" key for operations
// addressed at a specific record. The record services are the only
// components that construct these paths; the sync coordinator dispatches
// them verbatim.
//
// RetryCount is mutated only by the sync coordinator. The operation is
// removed either after a successful remote application or once RetryCount
// reaches MaxRetries.
type PendingOperation struct {
	OperationID   string        `json:"operation_id"`
	Kind          OperationKind `json:"kind"`
	CollectionKey string        `json:"collection_key"`
	Payload       Payload       `json:"payload,omitempty"`
	EnqueuedAt    time.Time     `json:"enqueued_at"`
	RetryCount    int           `json:"retry_count"`
	MaxRetries    int           `json:"max_retries"`
}

// Exhausted reports whether the operation has used up its retry budget.
func (op PendingOperation) Exhausted() bool {
	return op.RetryCount >= op.MaxRetries
}
