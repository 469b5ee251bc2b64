package models

import "time"

// SyncEventType identifies the kind of a SyncEvent.
type SyncEventType string

const (
	SyncStart        SyncEventType = "sync_start"
	SyncComplete     SyncEventType = "sync_complete"
	SyncError        SyncEventType = "sync_error"
	ConnectionChange SyncEventType = "connection_change"
	TimezoneChange   SyncEventType = "timezone_change"
)

// SyncEvent is published by the sync coordinator (and the edge-case monitor
// for timezone changes) to every subscriber. Only the fields relevant to the
// event type are populated.
type SyncEvent struct {
	Type    SyncEventType `json:"type"`
	Online  bool          `json:"online,omitempty"`
	Errors  []string      `json:"errors,omitempty"`
	Message string        `json:"message,omitempty"`
	At      time.Time     `json:"at"`
}

// DayTransition is emitted by the clock service when the computed calendar
// date changes between two ticks. Delivery happens synchronously inside the
// detecting tick, so subscribers always observe the already-updated current
// date.
type DayTransition struct {
	Previous Date      `json:"previous"`
	Current  Date      `json:"current"`
	At       time.Time `json:"at"`
	TimeZone string    `json:"time_zone"`
}

// FinalizationEvent is emitted after a date has been sealed. Records holds
// the records that were counted into the finalization record.
type FinalizationEvent struct {
	Date    Date                  `json:"date"`
	Records []CachedRecord        `json:"records"`
	Record  DayFinalizationRecord `json:"record"`
}
