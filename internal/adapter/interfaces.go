package adapter

import (
	"context"

	"github.com/abira1/nijhum-deep/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/gateway_mock.go -package=mock

// RemoteGateway abstracts the remote store from the sync engine. Paths are
// either a bare collection key ("expenses") or a fully addressed record
// ("expenses/abc123"); the gateway owns the mapping to transport URLs.
//
// Implementations must be safe for concurrent use: the drain loop, the
// finalizer and record services all share one gateway.
type RemoteGateway interface {
	// PushNew creates a record. On a bare collection path the server mints
	// the record id and PushNew returns it; on a collection/id path the
	// record is created at exactly that key and the given id is returned.
	PushNew(ctx context.Context, path string, payload models.Payload) (string, error)

	// SetAt writes payload at a fully addressed path, replacing any
	// existing record. Replays of the same write are harmless.
	SetAt(ctx context.Context, path string, payload models.Payload) error

	// RemoveAt deletes the record at a fully addressed path. Removing a
	// record that is already gone is not an error.
	RemoveAt(ctx context.Context, path string) error

	// ReadOnce fetches the record at a fully addressed path. ok reports
	// whether the record exists; a missing record is not an error.
	ReadOnce(ctx context.Context, path string) (models.Payload, bool, error)

	// ReadAll fetches every record of a collection keyed by record id.
	ReadAll(ctx context.Context, collection string) (map[string]models.Payload, error)

	// Subscribe starts polling the given path and invokes onData with each
	// observed value (ok=false when the record disappears) and onErr on
	// fetch failures. The returned cancel function stops the poller and is
	// safe to call more than once.
	Subscribe(ctx context.Context, path string, onData func(models.Payload, bool), onErr func(error)) (func(), error)

	// Ping probes remote reachability. A nil return means online.
	Ping(ctx context.Context) error

	// Register creates an account on the remote store and stores the
	// issued bearer token for subsequent requests.
	Register(ctx context.Context, user models.User) error

	// Login authenticates against the remote store and stores the issued
	// bearer token for subsequent requests.
	Login(ctx context.Context, user models.User) error

	// SetToken installs a pre-issued bearer token.
	SetToken(token string)
}
