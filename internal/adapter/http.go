package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/models"
)

// defaultPollInterval is how often Subscribe re-reads the watched path.
const defaultPollInterval = 5 * time.Second

type httpGateway struct {
	client       *resty.Client
	pollInterval time.Duration

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPGateway constructs an HTTP/REST implementation of [RemoteGateway]
// against the /api/store endpoints of the remote server. It normalises and
// validates the base URL from cfg.HTTPAddress and configures the underlying
// client with the resolved base URL and request timeout.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPGateway(cfg config.ClientAdapter, logger *logger.Logger) (RemoteGateway, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	g := &httpGateway{
		client:       client,
		pollInterval: defaultPollInterval,
		logger:       logger,
	}
	g.SetToken(cfg.AuthToken)

	return g, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// splitPath separates a target path into its collection and optional record
// id. "expenses" yields ("expenses", ""); "expenses/abc" yields
// ("expenses", "abc").
func splitPath(path string) (collection, id string) {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

// SetToken implements [RemoteGateway]. It stores token (whitespace-trimmed)
// for use in the Authorization header of subsequent requests.
func (g *httpGateway) SetToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = strings.TrimSpace(token)
}

func (g *httpGateway) getToken() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

func (g *httpGateway) request(ctx context.Context) *resty.Request {
	req := g.client.R().SetContext(ctx)
	if token := g.getToken(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// PushNew implements [RemoteGateway]. A bare collection path POSTs the
// payload and returns the server-minted record id; a collection/id path PUTs
// the payload at that key, which is how records with deterministic ids
// (e.g. one finalization per date) are created.
func (g *httpGateway) PushNew(ctx context.Context, path string, payload models.Payload) (string, error) {
	collection, id := splitPath(path)
	if id != "" {
		if err := g.SetAt(ctx, path, payload); err != nil {
			return "", err
		}
		return id, nil
	}

	resp, err := g.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/api/store/" + collection)
	if err != nil {
		return "", fmt.Errorf("%w: push new: %w", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err = json.Unmarshal(resp.Body(), &created); err != nil {
		return "", fmt.Errorf("decode push response: %w", err)
	}
	if created.ID == "" {
		return "", errors.New("push response missing record id")
	}

	return created.ID, nil
}

// SetAt implements [RemoteGateway].
func (g *httpGateway) SetAt(ctx context.Context, path string, payload models.Payload) error {
	collection, id := splitPath(path)
	if id == "" {
		return fmt.Errorf("set at %q: path must address a record", path)
	}

	resp, err := g.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Put("/api/store/" + collection + "/" + id)
	if err != nil {
		return fmt.Errorf("%w: set at: %w", ErrNetwork, err)
	}

	return mapHTTPError(resp)
}

// RemoveAt implements [RemoteGateway]. A 404 from the server means the
// record is already gone and is swallowed.
func (g *httpGateway) RemoveAt(ctx context.Context, path string) error {
	collection, id := splitPath(path)
	if id == "" {
		return fmt.Errorf("remove at %q: path must address a record", path)
	}

	resp, err := g.request(ctx).
		Delete("/api/store/" + collection + "/" + id)
	if err != nil {
		return fmt.Errorf("%w: remove at: %w", ErrNetwork, err)
	}

	if err = mapHTTPError(resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	return nil
}

// ReadOnce implements [RemoteGateway].
func (g *httpGateway) ReadOnce(ctx context.Context, path string) (models.Payload, bool, error) {
	collection, id := splitPath(path)
	if id == "" {
		return nil, false, fmt.Errorf("read once %q: path must address a record", path)
	}

	resp, err := g.request(ctx).
		Get("/api/store/" + collection + "/" + id)
	if err != nil {
		return nil, false, fmt.Errorf("%w: read once: %w", ErrNetwork, err)
	}

	if err = mapHTTPError(resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var payload models.Payload
	if err = json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, false, fmt.Errorf("decode read response: %w", err)
	}

	return payload, true, nil
}

// ReadAll implements [RemoteGateway].
func (g *httpGateway) ReadAll(ctx context.Context, collection string) (map[string]models.Payload, error) {
	resp, err := g.request(ctx).
		Get("/api/store/" + collection)
	if err != nil {
		return nil, fmt.Errorf("%w: read all: %w", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var records map[string]models.Payload
	if err = json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("decode read all response: %w", err)
	}

	return records, nil
}

// Subscribe implements [RemoteGateway] with interval polling: the remote
// server exposes no push channel, so each tick re-reads the path and hands
// the result to onData.
func (g *httpGateway) Subscribe(ctx context.Context, path string, onData func(models.Payload, bool), onErr func(error)) (func(), error) {
	if _, id := splitPath(path); id == "" {
		return nil, fmt.Errorf("subscribe %q: path must address a record", path)
	}
	if onData == nil {
		return nil, errors.New("subscribe: onData must not be nil")
	}

	stop := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() { close(stop) })
	}

	go func() {
		ticker := time.NewTicker(g.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				payload, ok, err := g.ReadOnce(ctx, path)
				if err != nil {
					if onErr != nil {
						onErr(err)
					}
					continue
				}
				onData(payload, ok)
			}
		}
	}()

	return cancel, nil
}

// Ping implements [RemoteGateway]. It probes the unauthenticated health
// endpoint; any transport failure or non-2xx answer counts as offline.
func (g *httpGateway) Ping(ctx context.Context) error {
	resp, err := g.client.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return fmt.Errorf("%w: ping: %w", ErrNetwork, err)
	}

	return mapHTTPError(resp)
}

// Register implements [RemoteGateway]. On success the bearer token is
// extracted from the Authorization response header and stored via SetToken.
func (g *httpGateway) Register(ctx context.Context, user models.User) error {
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/register")
	if err != nil {
		return fmt.Errorf("%w: register request: %w", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token, err := parseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("register parse bearer token: %w", err)
	}

	g.SetToken(token)
	return nil
}

// Login implements [RemoteGateway]. On success the bearer token is extracted
// from the Authorization response header and stored via SetToken.
func (g *httpGateway) Login(ctx context.Context, user models.User) error {
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/login")
	if err != nil {
		return fmt.Errorf("%w: login request: %w", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token, err := parseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("login parse bearer token: %w", err)
	}

	g.SetToken(token)
	return nil
}

func parseBearerToken(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
