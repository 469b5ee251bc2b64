package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abira1/nijhum-deep/models"
)

// storeRequest builds an authenticated request against the record store.
func storeRequest(method, target string, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer any-token")
	return req
}

// ── create ──

func TestCreateRecord_MintsID(t *testing.T) {
	repo := newMemRecordRepo()
	h := newTestHandler(t, allowAllAuth(), repo)
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, storeRequest(http.MethodPost, "/api/store/expenses", `{"amount": 120.5}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	_, err := uuid.Parse(body["id"])
	require.NoError(t, err, "server must mint a valid UUID for new records")

	stored, ok := repo.data["expenses"][body["id"]]
	require.True(t, ok)
	assert.Equal(t, 120.5, stored["amount"])
}

func TestCreateRecord_InvalidJSON(t *testing.T) {
	h := newTestHandler(t, allowAllAuth(), newMemRecordRepo())
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, storeRequest(http.MethodPost, "/api/store/expenses", "{broken"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRecord_StorageFailure(t *testing.T) {
	repo := newMemRecordRepo()
	repo.upsertErr = errors.New("disk full")
	h := newTestHandler(t, allowAllAuth(), repo)
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, storeRequest(http.MethodPost, "/api/store/expenses", `{"amount": 1}`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ── read ──

func TestListRecords_ReturnsWholeCollection(t *testing.T) {
	repo := newMemRecordRepo()
	repo.data["meals"] = map[string]models.Payload{
		"m-1": {"type": "lunch"},
		"m-2": {"type": "dinner"},
	}
	h := newTestHandler(t, allowAllAuth(), repo)
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, storeRequest(http.MethodGet, "/api/store/meals", ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]models.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 2)
	assert.Equal(t, "lunch", body["m-1"]["type"])
}

func TestListRecords_EmptyCollection(t *testing.T) {
	h := newTestHandler(t, allowAllAuth(), newMemRecordRepo())
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, storeRequest(http.MethodGet, "/api/store/expenses", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestGetRecord(t *testing.T) {
	repo := newMemRecordRepo()
	repo.data["expenses"] = map[string]models.Payload{
		"e-1": {"amount": 42.0},
	}
	h := newTestHandler(t, allowAllAuth(), repo)
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, storeRequest(http.MethodGet, "/api/store/expenses/e-1", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"amount": 42}`, rec.Body.String())
}

func TestGetRecord_NotFound(t *testing.T) {
	h := newTestHandler(t, allowAllAuth(), newMemRecordRepo())
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, storeRequest(http.MethodGet, "/api/store/expenses/missing", ""))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ── update ──

func TestPutRecord_UpsertsAtClientKey(t *testing.T) {
	repo := newMemRecordRepo()
	h := newTestHandler(t, allowAllAuth(), repo)
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, storeRequest(http.MethodPut, "/api/store/expenses/e-9", `{"amount": 10}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"e-9"}`, rec.Body.String())
	assert.Equal(t, 10.0, repo.data["expenses"]["e-9"]["amount"])
}

func TestPutRecord_SealedDayIsImmutable(t *testing.T) {
	repo := newMemRecordRepo()
	h := newTestHandler(t, allowAllAuth(), repo)
	router := h.Init()

	first := httptest.NewRecorder()
	router.ServeHTTP(first, storeRequest(http.MethodPut,
		"/api/store/finalizations/2026-02-13", `{"date":"2026-02-13","sealed":true}`))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, storeRequest(http.MethodPut,
		"/api/store/finalizations/2026-02-13", `{"date":"2026-02-13","sealed":true}`))

	assert.Equal(t, http.StatusConflict, second.Code,
		"a second seal of the same day must be rejected")
	assert.Contains(t, second.Body.String(), "day already sealed")
}

// ── delete ──

func TestDeleteRecord(t *testing.T) {
	repo := newMemRecordRepo()
	repo.data["expenses"] = map[string]models.Payload{
		"e-1": {"amount": 42.0},
	}
	h := newTestHandler(t, allowAllAuth(), repo)
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, storeRequest(http.MethodDelete, "/api/store/expenses/e-1", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.data["expenses"])
}

func TestDeleteRecord_NotFound(t *testing.T) {
	h := newTestHandler(t, allowAllAuth(), newMemRecordRepo())
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, storeRequest(http.MethodDelete, "/api/store/expenses/missing", ""))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRecord_FinalizationsAreProtected(t *testing.T) {
	repo := newMemRecordRepo()
	repo.data[models.CollectionFinalizations] = map[string]models.Payload{
		"2026-02-13": {"sealed": true},
	}
	h := newTestHandler(t, allowAllAuth(), repo)
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, storeRequest(http.MethodDelete, "/api/store/finalizations/2026-02-13", ""))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, repo.data[models.CollectionFinalizations], 1, "sealed day must survive the delete attempt")
}
