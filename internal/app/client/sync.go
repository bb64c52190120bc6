package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"spot/internal/domain/place"
)

var (
	ErrOffline        = errors.New("server unreachable")
	ErrSyncInProgress = errors.New("sync already running")
)

// SyncError records one failed remote write during a push pass. Push keeps
// going past failures; the caller gets the full list.
type SyncError struct {
	SavedID   string
	Operation string
	Err       error
}

func (e SyncError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.SavedID, e.Err)
}

type PullResult struct {
	Inserted    int
	Updated     int
	CacheWrites int
}

type PushResult struct {
	Uploaded    int
	OpsReplayed int
	Errors      []SyncError
}

// SyncService moves saved places between the local store and the remote
// store. Pull merges the full server snapshot into the local store inside
// one transaction; push uploads anything the server does not have yet and
// replays queued offline writes.
type SyncService struct {
	remote  RemoteStore
	storage Storage
	conn    Connectivity
	log     *slog.Logger

	mu        sync.Mutex
	isSyncing bool
	lastSync  time.Time
}

func NewSyncService(remote RemoteStore, storage Storage, conn Connectivity, log *slog.Logger) *SyncService {
	return &SyncService{
		remote:  remote,
		storage: storage,
		conn:    conn,
		log:     log.With("component", "sync"),
	}
}

func (s *SyncService) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

func (s *SyncService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isSyncing {
		return ErrSyncInProgress
	}
	s.isSyncing = true
	return nil
}

func (s *SyncService) end() {
	s.mu.Lock()
	s.isSyncing = false
	s.lastSync = time.Now()
	s.mu.Unlock()
}

// Sync runs a pull pass and then a push pass. A pull failure aborts the
// whole run; the local store is left exactly as it was.
func (s *SyncService) Sync(ctx context.Context, userID int) (*PullResult, *PushResult, error) {
	if err := s.begin(); err != nil {
		return nil, nil, err
	}
	defer s.end()

	pull, err := s.pull(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	push, err := s.push(ctx, userID)
	if err != nil {
		return pull, nil, err
	}
	return pull, push, nil
}

// Pull fetches the server snapshot and merges it into the local store. The
// merge runs in a single transaction: either every record lands or none do.
func (s *SyncService) Pull(ctx context.Context, userID int) (*PullResult, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	return s.pull(ctx, userID)
}

func (s *SyncService) pull(ctx context.Context, userID int) (*PullResult, error) {
	if !s.conn.Online(ctx) {
		return nil, ErrOffline
	}

	wires, err := s.remote.FetchSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}

	result := &PullResult{}
	err = s.storage.InTx(ctx, func(tx Tx) error {
		for i := range wires {
			// The server scopes the snapshot by session; a record owned by
			// someone else means a corrupt snapshot, not a mergeable row.
			if wires[i].UserID != userID {
				return fmt.Errorf("merge place %s: %w: owned by user %d, not %d",
					wires[i].ID, place.ErrInvalidPayload, wires[i].UserID, userID)
			}
			if err := s.mergeOne(tx, &wires[i], result); err != nil {
				return fmt.Errorf("merge place %s: %w", wires[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("pull complete",
		"snapshot", len(wires),
		"inserted", result.Inserted,
		"updated", result.Updated,
		"cache_writes", result.CacheWrites,
	)
	return result, nil
}

// mergeOne applies one snapshot record. The cache write happens before the
// saved-place write so that a record inserted in this same batch already
// finds its metadata when read back.
func (s *SyncService) mergeOne(tx Tx, w *place.SavedWire, result *PullResult) error {
	if w.Cache != nil {
		if err := s.mergeCache(tx, w.Cache.ToModel(), result); err != nil {
			return err
		}
	}

	incoming, err := w.ToModel()
	if err != nil {
		return err
	}

	local, err := tx.SavedByID(incoming.ID)
	switch {
	case errors.Is(err, place.ErrNotFound):
		if err := tx.InsertSaved(incoming); err != nil {
			return err
		}
		result.Inserted++
	case err != nil:
		return err
	default:
		// The server copy wins for the fields it owns; everything else
		// local stays untouched.
		if err := tx.UpdateFromServer(local.ID, incoming.NoteText, incoming.DateVisited); err != nil {
			return err
		}
		result.Updated++
	}
	return nil
}

func (s *SyncService) mergeCache(tx Tx, src *place.PlaceCache, result *PullResult) error {
	existing, err := tx.CacheByPlaceID(src.GooglePlaceID)
	switch {
	case errors.Is(err, place.ErrNotFound):
		if err := tx.InsertCache(src); err != nil {
			return err
		}
		result.CacheWrites++
	case err != nil:
		return err
	default:
		// Refresh only moves forward: a snapshot no fresher than what we
		// hold is ignored.
		if existing.Refresh(src) {
			if err := tx.UpdateCache(existing); err != nil {
				return err
			}
			result.CacheWrites++
		}
	}
	return nil
}

// Push uploads local saves the server snapshot does not contain, then
// replays the queued offline writes. Each record is independent: a failure
// is recorded and the pass moves on.
func (s *SyncService) Push(ctx context.Context, userID int) (*PushResult, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	return s.push(ctx, userID)
}

func (s *SyncService) push(ctx context.Context, userID int) (*PushResult, error) {
	if !s.conn.Online(ctx) {
		return nil, ErrOffline
	}

	remote, err := s.remote.FetchSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	remoteIDs := make(map[string]struct{}, len(remote))
	for _, w := range remote {
		remoteIDs[w.ID] = struct{}{}
	}

	locals, err := s.storage.ListSaved(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list local places: %w", err)
	}

	result := &PushResult{}
	for _, local := range locals {
		if _, ok := remoteIDs[local.ID]; ok {
			continue
		}
		uploaded, err := s.uploadOne(ctx, local)
		if err != nil {
			s.log.Warn("upload failed", "id", local.ID, "error", err)
			result.Errors = append(result.Errors, SyncError{
				SavedID:   local.ID,
				Operation: "upload",
				Err:       err,
			})
			continue
		}
		if uploaded {
			result.Uploaded++
		}
	}

	if err := s.replayOutbox(ctx, result); err != nil {
		return nil, err
	}

	s.log.Info("push complete",
		"uploaded", result.Uploaded,
		"ops_replayed", result.OpsReplayed,
		"errors", len(result.Errors),
	)
	return result, nil
}

// uploadOne sends the place metadata first so the server can link the
// record to it, then the record itself. A cache failure is logged but does
// not block the record upload. Returns whether an upload actually happened:
// a record the server already holds for this place is skipped, not counted.
func (s *SyncService) uploadOne(ctx context.Context, local *place.SavedPlace) (bool, error) {
	if local.Cache != nil {
		if err := s.remote.UpsertPlaceCache(ctx, *local.Cache.ToWire()); err != nil {
			s.log.Warn("cache upsert failed", "google_place_id", local.Cache.GooglePlaceID, "error", err)
		}
	}

	err := s.remote.UploadSavedPlace(ctx, local.ToWire())
	if errors.Is(err, place.ErrDuplicate) {
		// Already on the server under another id for this place; the next
		// pull converges the ids.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SyncService) replayOutbox(ctx context.Context, result *PushResult) error {
	ops, err := s.storage.PendingOps(ctx)
	if err != nil {
		return fmt.Errorf("list pending ops: %w", err)
	}

	for _, op := range ops {
		var opErr error
		switch op.Kind {
		case OpDelete:
			opErr = s.remote.DeleteSavedPlace(ctx, op.SavedID)
		case OpUpdateNote:
			opErr = s.remote.UpdateNote(ctx, op.SavedID, op.NoteText)
		default:
			s.log.Warn("unknown outbox op", "kind", op.Kind, "id", op.ID)
			opErr = nil
		}

		// A record already gone from the server counts as applied.
		if opErr != nil && !errors.Is(opErr, place.ErrNotFound) {
			result.Errors = append(result.Errors, SyncError{
				SavedID:   op.SavedID,
				Operation: string(op.Kind),
				Err:       opErr,
			})
			continue
		}

		if err := s.storage.DeleteOp(ctx, op.ID); err != nil {
			return fmt.Errorf("clear outbox op %d: %w", op.ID, err)
		}
		result.OpsReplayed++
	}
	return nil
}
