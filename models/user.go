package models

import "time"

// User represents an account on the remote store server. It exists only on
// the server side of the wire; the sync engine itself never interprets it.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Login is the unique user login identifier.
	Login string `json:"login"`

	// Password carries the plaintext password on register/login requests
	// only. It is hashed with bcrypt before it ever reaches storage.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt hash persisted for the account.
	// Never serialized.
	PasswordHash string `json:"-"`

	// Admin marks accounts allowed to perform privileged mutations
	// (e.g. writes addressed at past, already-sealed dates). The claim is
	// copied into issued tokens and evaluated by the permission provider.
	Admin bool `json:"admin,omitempty"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// TableName returns the name of the database table associated with the
// User model.
func (u User) TableName() string {
	return "users"
}
