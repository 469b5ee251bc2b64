package models

import (
	"sort"
	"time"
)

// DayFinalizationRecord is the immutable summary produced when a calendar
// date is sealed. Exactly one record exists per date; once Sealed is true
// the record is never mutated or deleted by the engine.
type DayFinalizationRecord struct {
	Date           Date      `json:"date"`
	FinalizedAt    time.Time `json:"finalized_at"`
	RecordCount    int       `json:"record_count"`
	ParticipantIDs []string  `json:"participant_ids"`
	TimeZone       string    `json:"time_zone"`
	Sealed         bool      `json:"sealed"`
}

// NewDayFinalizationRecord builds a sealed record for date from the records
// that belong to it. ParticipantIDs are the distinct member IDs found in the
// record payloads, sorted for deterministic output.
func NewDayFinalizationRecord(date Date, records []CachedRecord, zone string, at time.Time) DayFinalizationRecord {
	seen := make(map[string]struct{})
	for _, rec := range records {
		if id, ok := rec.Payload.MemberID(); ok {
			seen[id] = struct{}{}
		}
	}

	participants := make([]string, 0, len(seen))
	for id := range seen {
		participants = append(participants, id)
	}
	sort.Strings(participants)

	return DayFinalizationRecord{
		Date:           date,
		FinalizedAt:    at,
		RecordCount:    len(records),
		ParticipantIDs: participants,
		TimeZone:       zone,
		Sealed:         true,
	}
}

// Payload converts the record to the opaque payload form used by the dual
// write path (remote store and pending-operation queue).
func (r DayFinalizationRecord) Payload() Payload {
	ids := make([]any, len(r.ParticipantIDs))
	for i, id := range r.ParticipantIDs {
		ids[i] = id
	}
	return Payload{
		"date":           r.Date.String(),
		"finalizedAt":    r.FinalizedAt.UTC().Format(time.RFC3339Nano),
		"recordCount":    r.RecordCount,
		"participantIds": ids,
		"timeZone":       r.TimeZone,
		"sealed":         r.Sealed,
	}
}
