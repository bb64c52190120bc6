package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"

	"spot/internal/app/client/config"
	"spot/internal/domain/place"
)

// RemoteStore is the remote side of sync: the server's saved-place and
// place-cache surface plus authentication.
type RemoteStore interface {
	HealthCheck(ctx context.Context) error
	Register(ctx context.Context, email, password string) (int, string, error)
	Login(ctx context.Context, email, password string) (int, string, error)
	SetToken(token string)

	FetchSnapshot(ctx context.Context) ([]place.SavedWire, error)
	UploadSavedPlace(ctx context.Context, w place.SavedWire) error
	UpsertPlaceCache(ctx context.Context, c place.CacheWire) error
	UpdateNote(ctx context.Context, id, note string) error
	DeleteSavedPlace(ctx context.Context, id string) error
}

type httpClient struct {
	client  *http.Client
	config  *config.Config
	log     *slog.Logger
	baseURL string
	token   string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	return &httpClient{
		client:  client,
		config:  cfg,
		log:     log,
		baseURL: scheme + cfg.ServerAddress,
	}
}

func (h *httpClient) SetToken(token string) {
	h.token = token
}

func (h *httpClient) HealthCheck(ctx context.Context) error {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) Register(ctx context.Context, email, password string) (int, string, error) {
	return h.auth(ctx, "/api/v1/auth/register", email, password)
}

func (h *httpClient) Login(ctx context.Context, email, password string) (int, string, error) {
	return h.auth(ctx, "/api/v1/auth/login", email, password)
}

func (h *httpClient) auth(ctx context.Context, path, email, password string) (int, string, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	resp, err := h.doRequest(ctx, http.MethodPost, path, req)
	if err != nil {
		return 0, "", err
	}

	var authResp struct {
		UserID int    `json:"user_id"`
		Token  string `json:"token"`
	}
	if err := h.parseResponse(resp, &authResp); err != nil {
		return 0, "", err
	}

	h.token = authResp.Token
	return authResp.UserID, authResp.Token, nil
}

func (h *httpClient) FetchSnapshot(ctx context.Context) ([]place.SavedWire, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/places", nil)
	if err != nil {
		return nil, err
	}

	var snapshotResp struct {
		Places []place.SavedWire `json:"places"`
	}
	if err := h.parseResponse(resp, &snapshotResp); err != nil {
		return nil, err
	}
	return snapshotResp.Places, nil
}

func (h *httpClient) UploadSavedPlace(ctx context.Context, w place.SavedWire) error {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/v1/places", w)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) UpsertPlaceCache(ctx context.Context, c place.CacheWire) error {
	resp, err := h.doRequest(ctx, http.MethodPut, "/api/v1/place-cache", c)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) UpdateNote(ctx context.Context, id, note string) error {
	req := struct {
		NoteText string `json:"note_text"`
	}{NoteText: note}

	resp, err := h.doRequest(ctx, http.MethodPatch, "/api/v1/places/"+url.PathEscape(id)+"/note", req)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) DeleteSavedPlace(ctx context.Context, id string) error {
	resp, err := h.doRequest(ctx, http.MethodDelete, "/api/v1/places/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("sending request", "method", method, "url", req.URL.String())

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	h.log.Debug("received response", "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		return h.statusError(resp.StatusCode, body)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (h *httpClient) statusError(status int, body []byte) error {
	var errResp struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	detail := ""
	if err := json.Unmarshal(body, &errResp); err == nil {
		detail = errResp.Detail
		if detail == "" {
			detail = errResp.Title
		}
	}

	switch status {
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", place.ErrDuplicate, detail)
	case http.StatusNotFound:
		return place.ErrNotFound
	case http.StatusUnauthorized:
		return fmt.Errorf("server rejected credentials: %s", detail)
	}
	if detail != "" {
		return fmt.Errorf("server error: %s", detail)
	}
	return fmt.Errorf("server error: status %d", status)
}
