package models

import "time"

// Collection keys for the record collections the engine knows about. Only
// the record services construct full record paths from these; every other
// component treats paths as opaque strings.
const (
	CollectionExpenses      = "expenses"
	CollectionMeals         = "meals"
	CollectionMembers       = "members"
	CollectionFinalizations = "finalizations"
)

// RecordCollections lists the day-scoped collections that participate in
// day finalization. Members are reference data and are not sealed.
var RecordCollections = []string{CollectionExpenses, CollectionMeals}

// Payload is the opaque body of a record. The engine never interprets it
// beyond the two well-known fields "date" and "memberId" used by the day
// finalization service.
type Payload map[string]any

// Date extracts the "date" field of the payload, if present and valid.
func (p Payload) Date() (Date, bool) {
	raw, ok := p["date"].(string)
	if !ok {
		return Date{}, false
	}
	d, err := ParseDate(raw)
	if err != nil {
		return Date{}, false
	}
	return d, true
}

// MemberID extracts the "memberId" field of the payload, if present.
func (p Payload) MemberID() (string, bool) {
	id, ok := p["memberId"].(string)
	return id, ok && id != ""
}

// CachedRecord is a locally cached copy of a remotely stored record,
// uniquely identified by (CollectionKey, RecordID).
//
// Dirty marks a payload that originated from an offline write and has not
// yet been confirmed against the remote store.
type CachedRecord struct {
	CollectionKey string    `json:"collection_key"`
	RecordID      string    `json:"record_id"`
	Payload       Payload   `json:"payload"`
	CachedAt      time.Time `json:"cached_at"`
	LastSyncedAt  time.Time `json:"last_synced_at,omitzero"`
	Dirty         bool      `json:"dirty"`
}

// Path returns the hierarchical remote-store path of the record
// ("<collection>/<id>").
func (r CachedRecord) Path() string {
	return r.CollectionKey + "/" + r.RecordID
}
