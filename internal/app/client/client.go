// Package client is the device side of the app: a SQLite store of the
// user's saved places, an HTTP client for the remote store, and the sync
// service that keeps the two aligned.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"spot/internal/app/client/config"
	"spot/internal/domain/place"
)

var ErrNotAuthenticated = errors.New("not logged in")

// AppState is the small piece of client state that survives restarts.
type AppState struct {
	UserID    int       `json:"user_id"`
	UserEmail string    `json:"user_email"`
	Token     string    `json:"token"`
	LastSync  time.Time `json:"last_sync"`
}

// App ties the local store, the remote store and the sync service together
// for the CLI commands.
type App struct {
	config  *config.Config
	log     *slog.Logger
	storage Storage
	remote  RemoteStore
	conn    Connectivity
	sync    *SyncService
	state   *AppState
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.ConfigDir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	storage, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	remote := NewHTTPClient(cfg, log)
	conn := NewHealthConnectivity(remote, log)

	app := &App{
		config:  cfg,
		log:     log,
		storage: storage,
		remote:  remote,
		conn:    conn,
		sync:    NewSyncService(remote, storage, conn, log),
		state:   &AppState{},
	}

	if state, err := loadAppState(cfg); err == nil {
		app.state = state
		if state.Token != "" {
			remote.SetToken(state.Token)
		}
	}

	return app, nil
}

func loadAppState(cfg *config.Config) (*AppState, error) {
	data, err := os.ReadFile(filepath.Join(cfg.ConfigDir, "state.json"))
	if err != nil {
		return nil, err
	}

	var state AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return &state, nil
}

func (a *App) saveAppState() error {
	data, err := json.MarshalIndent(a.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return os.WriteFile(filepath.Join(a.config.ConfigDir, "state.json"), data, 0600)
}

func (a *App) Close() error {
	return a.storage.Close()
}

func (a *App) IsAuthenticated() bool {
	return a.state.Token != ""
}

func (a *App) UserEmail() string {
	return a.state.UserEmail
}

func (a *App) requireAuth() (int, error) {
	if a.state.Token == "" {
		return 0, ErrNotAuthenticated
	}
	return a.state.UserID, nil
}

func (a *App) Register(ctx context.Context, email, password string) error {
	userID, token, err := a.remote.Register(ctx, email, password)
	if err != nil {
		return err
	}
	return a.storeSession(userID, email, token)
}

func (a *App) Login(ctx context.Context, email, password string) error {
	userID, token, err := a.remote.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return a.storeSession(userID, email, token)
}

func (a *App) storeSession(userID int, email, token string) error {
	a.state.UserID = userID
	a.state.UserEmail = email
	a.state.Token = token
	a.remote.SetToken(token)
	return a.saveAppState()
}

func (a *App) Logout() error {
	a.state.Token = ""
	a.state.UserEmail = ""
	a.state.UserID = 0
	a.remote.SetToken("")
	return a.saveAppState()
}

// SavePlace stores a new saved place locally and pushes it to the server
// when reachable. Saving a place the user already has fails with
// place.ErrDuplicate before anything is written.
func (a *App) SavePlace(ctx context.Context, googlePlaceID, note string, cache *place.PlaceCache) (*place.SavedPlace, error) {
	userID, err := a.requireAuth()
	if err != nil {
		return nil, err
	}

	p := &place.SavedPlace{
		ID:            uuid.NewString(),
		UserID:        userID,
		GooglePlaceID: googlePlaceID,
		NoteText:      note,
		SavedAt:       time.Now().UTC(),
		Cache:         cache,
	}
	if err := a.storage.SaveNew(ctx, p, cache); err != nil {
		return nil, err
	}

	a.pushBestEffort(ctx, userID)
	return p, nil
}

func (a *App) ListPlaces(ctx context.Context) ([]*place.SavedPlace, error) {
	userID, err := a.requireAuth()
	if err != nil {
		return nil, err
	}
	return a.storage.ListSaved(ctx, userID)
}

// DeletePlace removes the save locally and queues the remote delete; the
// queue drains on the next push pass if the server is unreachable now.
func (a *App) DeletePlace(ctx context.Context, id string) error {
	userID, err := a.requireAuth()
	if err != nil {
		return err
	}

	if err := a.storage.DeleteSaved(ctx, id); err != nil {
		return err
	}
	if err := a.storage.EnqueueOp(ctx, &OutboxOp{Kind: OpDelete, SavedID: id}); err != nil {
		return err
	}

	a.pushBestEffort(ctx, userID)
	return nil
}

// EditNote updates the note locally and queues the remote write.
func (a *App) EditNote(ctx context.Context, id, note string) error {
	userID, err := a.requireAuth()
	if err != nil {
		return err
	}

	if err := a.storage.UpdateNote(ctx, id, note); err != nil {
		return err
	}
	if err := a.storage.EnqueueOp(ctx, &OutboxOp{Kind: OpUpdateNote, SavedID: id, NoteText: note}); err != nil {
		return err
	}

	a.pushBestEffort(ctx, userID)
	return nil
}

// SetVisited marks a place visited locally; the server copy picks it up on
// the next pull from another device, so no outbox entry is needed here.
func (a *App) SetVisited(ctx context.Context, id string, visited *time.Time) error {
	if _, err := a.requireAuth(); err != nil {
		return err
	}
	return a.storage.SetVisited(ctx, id, visited)
}

func (a *App) Sync(ctx context.Context) (*PullResult, *PushResult, error) {
	userID, err := a.requireAuth()
	if err != nil {
		return nil, nil, err
	}

	pull, push, err := a.sync.Sync(ctx, userID)
	if err != nil {
		return pull, push, err
	}

	a.state.LastSync = a.sync.LastSync()
	if err := a.saveAppState(); err != nil {
		a.log.Warn("failed to persist state", "error", err)
	}
	return pull, push, nil
}

func (a *App) Pull(ctx context.Context) (*PullResult, error) {
	userID, err := a.requireAuth()
	if err != nil {
		return nil, err
	}
	return a.sync.Pull(ctx, userID)
}

func (a *App) Push(ctx context.Context) (*PushResult, error) {
	userID, err := a.requireAuth()
	if err != nil {
		return nil, err
	}
	return a.sync.Push(ctx, userID)
}

// pushBestEffort is the fire-and-forget push after an interactive change.
// Offline or failing is fine; the data is durable locally and the outbox
// carries the pending writes to the next explicit sync.
func (a *App) pushBestEffort(ctx context.Context, userID int) {
	if !a.conn.Online(ctx) {
		a.log.Debug("offline, skipping push")
		return
	}
	if _, err := a.sync.Push(ctx, userID); err != nil {
		a.log.Warn("background push failed", "error", err)
	}
}
