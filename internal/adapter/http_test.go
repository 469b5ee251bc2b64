package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/models"
)

func newTestGateway(t *testing.T, handler http.Handler) (RemoteGateway, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw, err := NewHTTPGateway(config.ClientAdapter{
		HTTPAddress:    srv.URL,
		RequestTimeout: 2 * time.Second,
	}, logger.NewLogger("test"))
	require.NoError(t, err)

	return gw, srv
}

func Test_normalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "success: full url", raw: "http://localhost:8080", want: "http://localhost:8080"},
		{name: "success: scheme added", raw: "localhost:8080", want: "http://localhost:8080"},
		{name: "success: trailing slash trimmed", raw: "http://host:1/", want: "http://host:1"},
		{name: "error: empty", raw: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_splitPath(t *testing.T) {
	collection, id := splitPath("expenses")
	assert.Equal(t, "expenses", collection)
	assert.Empty(t, id)

	collection, id = splitPath("finalizations/2026-02-13")
	assert.Equal(t, "finalizations", collection)
	assert.Equal(t, "2026-02-13", id)
}

func TestHTTPGateway_PushNew_MintedID(t *testing.T) {
	var gotPath, gotMethod string

	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": "srv-123"})
	}))

	id, err := gw.PushNew(context.Background(), "expenses", models.Payload{"amount": 10})
	require.NoError(t, err)
	assert.Equal(t, "srv-123", id)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/store/expenses", gotPath)
}

func TestHTTPGateway_PushNew_AtKey(t *testing.T) {
	var gotPath, gotMethod string

	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.WriteHeader(http.StatusOK)
	}))

	id, err := gw.PushNew(context.Background(), "finalizations/2026-02-13", models.Payload{"sealed": true})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-13", id)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/store/finalizations/2026-02-13", gotPath)
}

func TestHTTPGateway_ReadOnce_NotFoundIsNotAnError(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	payload, ok, err := gw.ReadOnce(context.Background(), "expenses/missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, payload)
}

func TestHTTPGateway_ReadOnce_Success(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.Payload{"amount": 42.0})
	}))

	payload, ok, err := gw.ReadOnce(context.Background(), "expenses/exp-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42.0, payload["amount"])
}

func TestHTTPGateway_RemoveAt_GoneIsFine(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	err := gw.RemoveAt(context.Background(), "expenses/already-gone")
	require.NoError(t, err)
}

func TestHTTPGateway_ReadAll(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/store/meals", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]models.Payload{
			"meal-1": {"date": "2026-02-14"},
			"meal-2": {"date": "2026-02-14"},
		})
	}))

	records, err := gw.ReadAll(context.Background(), "meals")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestHTTPGateway_Unauthorized(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))

	err := gw.SetAt(context.Background(), "expenses/exp-1", models.Payload{})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestHTTPGateway_BearerTokenAttached(t *testing.T) {
	var gotAuth string

	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))

	gw.SetToken("abc.def.ghi")
	require.NoError(t, gw.SetAt(context.Background(), "expenses/exp-1", models.Payload{}))
	assert.Equal(t, "Bearer abc.def.ghi", gotAuth)
}

func TestHTTPGateway_Ping_NetworkError(t *testing.T) {
	gw, srv := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, gw.Ping(context.Background()))

	srv.Close()

	err := gw.Ping(context.Background())
	require.ErrorIs(t, err, ErrNetwork)
}

func TestHTTPGateway_Login_StoresToken(t *testing.T) {
	var gotAuth string

	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			w.Header().Set("Authorization", "Bearer issued-token")
			w.WriteHeader(http.StatusOK)
		default:
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
		}
	}))

	require.NoError(t, gw.Login(context.Background(), models.User{Login: "nijhum", Password: "pw"}))
	require.NoError(t, gw.SetAt(context.Background(), "expenses/exp-1", models.Payload{}))
	assert.Equal(t, "Bearer issued-token", gotAuth)
}

func TestHTTPGateway_Subscribe_DeliversUpdates(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.Payload{"sealed": true})
	}))

	g, ok := gw.(*httpGateway)
	require.True(t, ok)
	g.pollInterval = 10 * time.Millisecond

	received := make(chan models.Payload, 1)
	cancel, err := gw.Subscribe(context.Background(), "finalizations/2026-02-13",
		func(p models.Payload, exists bool) {
			if exists {
				select {
				case received <- p:
				default:
				}
			}
		}, nil)
	require.NoError(t, err)
	defer cancel()

	select {
	case p := <-received:
		assert.Equal(t, true, p["sealed"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscription delivery")
	}

	cancel()
	cancel() // safe to call twice
}

func TestHTTPGateway_Subscribe_BareCollectionRejected(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := gw.Subscribe(context.Background(), "expenses", func(models.Payload, bool) {}, nil)
	require.Error(t, err)
}

func Test_mapHTTPError_Statuses(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusBadGateway, ErrBadGateway},
		{http.StatusInternalServerError, ErrInternalServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", tt.status)
			}))

			err := gw.SetAt(context.Background(), "expenses/exp-1", models.Payload{})
			require.True(t, errors.Is(err, tt.want), "expected %v, got %v", tt.want, err)
		})
	}
}
