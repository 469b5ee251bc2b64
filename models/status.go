package models

import "time"

// SyncStatus is a live snapshot of the sync engine, derived from the
// coordinator's state and the local queue. It is never persisted as a whole;
// LastSyncTime and Errors are individually mirrored into local metadata
// after every drain pass.
type SyncStatus struct {
	Online       bool      `json:"online"`
	Syncing      bool      `json:"syncing"`
	PendingCount int       `json:"pending_count"`
	LastSyncTime time.Time `json:"last_sync_time,omitzero"`
	Errors       []string  `json:"errors,omitempty"`
}
