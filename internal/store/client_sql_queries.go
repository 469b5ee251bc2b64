package store

const (
	putRecord = `
		INSERT INTO records (
			collection_key,
			record_id,
			payload,
			cached_at,
			last_synced_at,
			is_dirty
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection_key, record_id) DO UPDATE SET
			payload        = excluded.payload,
			cached_at      = excluded.cached_at,
			last_synced_at = excluded.last_synced_at,
			is_dirty       = excluded.is_dirty;`

	getRecord = `
		SELECT
			collection_key,
			record_id,
			payload,
			cached_at,
			last_synced_at,
			is_dirty
		FROM records
		WHERE collection_key = ? AND record_id = ?;`

	getRecords = `
		SELECT
			collection_key,
			record_id,
			payload,
			cached_at,
			last_synced_at,
			is_dirty
		FROM records
		WHERE collection_key = ?
		ORDER BY record_id;`

	deleteRecord = `
		DELETE FROM records
		WHERE collection_key = ? AND record_id = ?;`

	enqueueOperation = `
		INSERT INTO pending_operations (
			operation_id,
			kind,
			collection_key,
			payload,
			enqueued_at,
			retry_count,
			max_retries
		) VALUES (?, ?, ?, ?, ?, ?, ?);`

	listPendingOperations = `
		SELECT
			operation_id,
			kind,
			collection_key,
			payload,
			enqueued_at,
			retry_count,
			max_retries
		FROM pending_operations
		ORDER BY seq;`

	countPendingOperations = `
		SELECT COUNT(*) FROM pending_operations;`

	removePendingOperation = `
		DELETE FROM pending_operations
		WHERE operation_id = ?;`

	bumpRetryCount = `
		UPDATE pending_operations
		SET retry_count = retry_count + 1
		WHERE operation_id = ?;`

	setMetaValue = `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`

	getMetaValue = `
		SELECT value FROM metadata WHERE key = ?;`

	saveFinalization = `
		INSERT INTO day_finalizations (
			date,
			finalized_at,
			record_count,
			participant_ids,
			time_zone,
			sealed
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			finalized_at    = excluded.finalized_at,
			record_count    = excluded.record_count,
			participant_ids = excluded.participant_ids,
			time_zone       = excluded.time_zone,
			sealed          = excluded.sealed;`

	getFinalization = `
		SELECT
			date,
			finalized_at,
			record_count,
			participant_ids,
			time_zone,
			sealed
		FROM day_finalizations
		WHERE date = ?;`

	listFinalizations = `
		SELECT
			date,
			finalized_at,
			record_count,
			participant_ids,
			time_zone,
			sealed
		FROM day_finalizations
		ORDER BY date;`
)

// clearAllStatements lists the statements executed, in order, by ClearAll.
var clearAllStatements = []string{
	`DELETE FROM pending_operations;`,
	`DELETE FROM records;`,
	`DELETE FROM day_finalizations;`,
	`DELETE FROM metadata;`,
}
