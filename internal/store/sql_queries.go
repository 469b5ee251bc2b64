package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	createUser = `INSERT INTO users (login, password_hash, is_admin)
    VALUES ($1, $2, $3)
    RETURNING user_id, login, password_hash, is_admin, created_at;`

	findUserByLogin = `SELECT user_id, login, password_hash, is_admin, created_at
    FROM users
    WHERE login = $1;`
)

// psql builds Postgres-flavoured queries ($1 placeholders) for the
// remote_records table.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const remoteRecordsTable = "remote_records"

func buildUpsertRemoteRecordQuery(collection, id string, payload []byte) (string, []any, error) {
	return psql.
		Insert(remoteRecordsTable).
		Columns("collection_key", "record_id", "payload", "updated_at").
		Values(collection, id, payload, sq.Expr("now()")).
		Suffix(`ON CONFLICT (collection_key, record_id) DO UPDATE SET
			payload    = excluded.payload,
			updated_at = now()`).
		ToSql()
}

func buildGetRemoteRecordQuery(collection, id string) (string, []any, error) {
	return psql.
		Select("payload").
		From(remoteRecordsTable).
		Where(sq.Eq{"collection_key": collection, "record_id": id}).
		ToSql()
}

// buildListRemoteRecordsQuery selects every record of a collection; when ids
// is non-empty the result is narrowed to those ids (squirrel renders the
// slice as IN ($2,$3,...)).
func buildListRemoteRecordsQuery(collection string, ids []string) (string, []any, error) {
	builder := psql.
		Select("record_id", "payload").
		From(remoteRecordsTable).
		Where(sq.Eq{"collection_key": collection}).
		OrderBy("record_id")

	if len(ids) > 0 {
		builder = builder.Where(sq.Eq{"record_id": ids})
	}

	return builder.ToSql()
}

func buildDeleteRemoteRecordQuery(collection, id string) (string, []any, error) {
	return psql.
		Delete(remoteRecordsTable).
		Where(sq.Eq{"collection_key": collection, "record_id": id}).
		ToSql()
}
