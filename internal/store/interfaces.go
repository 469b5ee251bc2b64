package store

import (
	"context"

	"github.com/abira1/nijhum-deep/models"
)

// UserRepository manages server-side user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// RemoteRecordRepository is the server-side persistence for synced records.
// Records are addressed by (collection, id); writes are upserts so replayed
// queue operations stay idempotent.
type RemoteRecordRepository interface {
	Upsert(ctx context.Context, collection, id string, payload models.Payload) error
	Get(ctx context.Context, collection, id string) (models.Payload, error)
	List(ctx context.Context, collection string, ids []string) (map[string]models.Payload, error)
	Delete(ctx context.Context, collection, id string) error
}
