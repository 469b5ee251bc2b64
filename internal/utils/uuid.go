package utils

import "github.com/google/uuid"

// UUIDGenerator mints record identifiers. UUIDv7 is preferred because the
// ids sort by creation time; v4 is the fallback when the clock source
// misbehaves.
type UUIDGenerator struct {
}

// NewUUIDGenerator returns a ready-to-use generator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a new unique identifier string.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
