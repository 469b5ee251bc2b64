package http

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/service"
	"github.com/abira1/nijhum-deep/internal/store"
	"github.com/abira1/nijhum-deep/models"
)

// ─────────────────────────────────────────────
// Mock AuthService
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	registerUserFn func(ctx context.Context, user models.User) (models.User, error)
	loginFn        func(ctx context.Context, user models.User) (models.User, error)
	createTokenFn  func(ctx context.Context, user models.User) (string, error)
	parseTokenFn   func(ctx context.Context, tokenString string) (*service.AccessClaims, error)
}

func (m *mockAuthService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	return m.registerUserFn(ctx, user)
}

func (m *mockAuthService) Login(ctx context.Context, user models.User) (models.User, error) {
	return m.loginFn(ctx, user)
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (string, error) {
	return m.createTokenFn(ctx, user)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (*service.AccessClaims, error) {
	return m.parseTokenFn(ctx, tokenString)
}

// ─────────────────────────────────────────────
// In-memory record repository
// ─────────────────────────────────────────────

// memRecordRepo is an in-memory store.RemoteRecordRepository double keyed
// by "collection/id".
type memRecordRepo struct {
	data map[string]map[string]models.Payload

	upsertErr error
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{data: make(map[string]map[string]models.Payload)}
}

func (m *memRecordRepo) Upsert(_ context.Context, collection, id string, payload models.Payload) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]models.Payload)
	}
	m.data[collection][id] = payload
	return nil
}

func (m *memRecordRepo) Get(_ context.Context, collection, id string) (models.Payload, error) {
	payload, ok := m.data[collection][id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	return payload, nil
}

func (m *memRecordRepo) List(_ context.Context, collection string, ids []string) (map[string]models.Payload, error) {
	records := make(map[string]models.Payload)
	for id, payload := range m.data[collection] {
		records[id] = payload
	}
	if ids == nil {
		return records, nil
	}
	filtered := make(map[string]models.Payload)
	for _, id := range ids {
		if payload, ok := records[id]; ok {
			filtered[id] = payload
		}
	}
	return filtered, nil
}

func (m *memRecordRepo) Delete(_ context.Context, collection, id string) error {
	if _, ok := m.data[collection][id]; !ok {
		return store.ErrRecordNotFound
	}
	delete(m.data[collection], id)
	return nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// allowAllAuth is a ParseToken stub that accepts any bearer token.
func allowAllAuth() *mockAuthService {
	return &mockAuthService{
		parseTokenFn: func(_ context.Context, _ string) (*service.AccessClaims, error) {
			return &service.AccessClaims{}, nil
		},
	}
}

// newTestHandler builds a Handler over the given doubles.
func newTestHandler(t *testing.T, auth service.AuthService, records store.RemoteRecordRepository) *Handler {
	t.Helper()
	return NewHandler(auth, records, logger.Nop())
}

// userBody serialises a models.User to a JSON request body string.
func userBody(t *testing.T, u models.User) string {
	t.Helper()
	b, err := json.Marshal(u)
	require.NoError(t, err)
	return string(b)
}
