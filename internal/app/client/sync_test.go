package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spot/internal/domain/place"
	"spot/internal/utils/logger"
)

type fakeRemote struct {
	mu sync.Mutex

	snapshot []place.SavedWire

	uploads      []place.SavedWire
	cacheUpserts []place.CacheWire
	deletes      []string
	noteUpdates  map[string]string
	callOrder    []string

	failUpload map[string]error
	failDelete map[string]error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		noteUpdates: make(map[string]string),
		failUpload:  make(map[string]error),
		failDelete:  make(map[string]error),
	}
}

func (f *fakeRemote) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeRemote) SetToken(token string)                 {}

func (f *fakeRemote) Register(ctx context.Context, email, password string) (int, string, error) {
	return 0, "", nil
}

func (f *fakeRemote) Login(ctx context.Context, email, password string) (int, string, error) {
	return 0, "", nil
}

func (f *fakeRemote) FetchSnapshot(ctx context.Context) ([]place.SavedWire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]place.SavedWire(nil), f.snapshot...), nil
}

func (f *fakeRemote) UploadSavedPlace(ctx context.Context, w place.SavedWire) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failUpload[w.ID]; ok {
		return err
	}
	f.uploads = append(f.uploads, w)
	f.callOrder = append(f.callOrder, "upload:"+w.ID)
	return nil
}

func (f *fakeRemote) UpsertPlaceCache(ctx context.Context, c place.CacheWire) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cacheUpserts = append(f.cacheUpserts, c)
	f.callOrder = append(f.callOrder, "cache:"+c.GooglePlaceID)
	return nil
}

func (f *fakeRemote) UpdateNote(ctx context.Context, id, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteUpdates[id] = note
	return nil
}

func (f *fakeRemote) DeleteSavedPlace(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failDelete[id]; ok {
		return err
	}
	f.deletes = append(f.deletes, id)
	return nil
}

var alwaysOnline = ConnectivityFunc(func(ctx context.Context) bool { return true })

func newTestSync(t *testing.T, remote *fakeRemote) (*SyncService, *SQLiteStorage) {
	t.Helper()

	storage := newTestStorage(t)
	svc := NewSyncService(remote, storage, alwaysOnline, logger.New("local"))
	return svc, storage
}

func snapshotWire(userID int, googlePlaceID, note string, cacheRefreshed time.Time) place.SavedWire {
	return place.SavedWire{
		ID:            uuid.NewString(),
		UserID:        userID,
		GooglePlaceID: googlePlaceID,
		NoteText:      note,
		SavedAt:       time.Now().UTC(),
		Cache:         testCache(googlePlaceID, cacheRefreshed).ToWire(),
	}
}

func TestPull_InsertsSnapshotWithCacheLink(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	w := snapshotWire(1, "gp-1", "hello", time.Now().UTC())
	remote.snapshot = []place.SavedWire{w}

	result, err := svc.Pull(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.CacheWrites)

	// The cache row written in the same batch must already be linked.
	got, err := storage.GetSaved(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Cache)
	assert.Equal(t, "Menya Musashi", got.Cache.Name)
}

func TestPull_Idempotent(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	remote.snapshot = []place.SavedWire{
		snapshotWire(1, "gp-1", "a", time.Now().UTC()),
		snapshotWire(1, "gp-2", "b", time.Now().UTC()),
	}

	first, err := svc.Pull(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)

	second, err := svc.Pull(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 2, second.Updated)

	count, err := storage.CountSaved(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPull_ServerWinsNoteAndVisited(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	w := snapshotWire(1, "gp-1", "server note", time.Now().UTC())
	visited := time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Second)
	w.Cache = nil
	remote.snapshot = []place.SavedWire{w}

	local, err := w.ToModel()
	require.NoError(t, err)
	local.NoteText = "local note"
	require.NoError(t, storage.SaveNew(ctx, local, nil))

	w.DateVisited = &visited
	remote.snapshot = []place.SavedWire{w}

	_, err = svc.Pull(ctx, 1)
	require.NoError(t, err)

	got, err := storage.GetSaved(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "server note", got.NoteText)
	require.NotNil(t, got.DateVisited)
	assert.True(t, got.DateVisited.Equal(visited))
}

func TestPull_CacheNeverRegresses(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	fresh := time.Now().UTC().Truncate(time.Second)
	stale := fresh.Add(-time.Hour)

	w := snapshotWire(1, "gp-1", "n", fresh)
	remote.snapshot = []place.SavedWire{w}
	_, err := svc.Pull(ctx, 1)
	require.NoError(t, err)

	// Same snapshot but with older metadata: the cache must keep the
	// fresher copy it already holds.
	w.Cache = testCache("gp-1", stale).ToWire()
	w.Cache.Name = "Stale Name"
	remote.snapshot = []place.SavedWire{w}

	result, err := svc.Pull(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, result.CacheWrites)

	got, err := storage.GetSaved(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Cache)
	assert.Equal(t, "Menya Musashi", got.Cache.Name)
	assert.True(t, got.Cache.LastRefreshed.Equal(fresh))
}

func TestPull_FresherCacheOverwrites(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)

	w := snapshotWire(1, "gp-1", "n", base)
	remote.snapshot = []place.SavedWire{w}
	_, err := svc.Pull(ctx, 1)
	require.NoError(t, err)

	w.Cache = testCache("gp-1", base.Add(time.Hour)).ToWire()
	w.Cache.Name = "Renamed"
	remote.snapshot = []place.SavedWire{w}

	result, err := svc.Pull(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CacheWrites)

	got, err := storage.GetSaved(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Cache.Name)
}

func TestPull_AbortsWholeBatchOnBadRecord(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	good := snapshotWire(1, "gp-1", "ok", time.Now().UTC())
	bad := snapshotWire(1, "gp-2", "broken", time.Now().UTC())
	bad.ID = "not-a-uuid"
	remote.snapshot = []place.SavedWire{good, bad}

	_, err := svc.Pull(ctx, 1)
	require.ErrorIs(t, err, place.ErrInvalidPayload)

	// The good record must not have landed either.
	count, err := storage.CountSaved(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPull_RejectsForeignUserRecord(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	mine := snapshotWire(1, "gp-1", "ok", time.Now().UTC())
	foreign := snapshotWire(2, "gp-2", "not mine", time.Now().UTC())
	remote.snapshot = []place.SavedWire{mine, foreign}

	_, err := svc.Pull(ctx, 1)
	require.ErrorIs(t, err, place.ErrInvalidPayload)

	count, err := storage.CountSaved(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPull_Offline(t *testing.T) {
	remote := newFakeRemote()
	storage := newTestStorage(t)
	offline := ConnectivityFunc(func(ctx context.Context) bool { return false })
	svc := NewSyncService(remote, storage, offline, logger.New("local"))

	_, err := svc.Pull(context.Background(), 1)
	assert.ErrorIs(t, err, ErrOffline)
}

func TestPush_UploadsOnlyMissing(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	known := testPlace(1, "gp-1")
	missing := testPlace(1, "gp-2")
	require.NoError(t, storage.SaveNew(ctx, known, nil))
	require.NoError(t, storage.SaveNew(ctx, missing, testCache("gp-2", time.Now().UTC())))

	remote.snapshot = []place.SavedWire{known.ToWire()}

	result, err := svc.Push(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Uploaded)
	assert.Empty(t, result.Errors)

	require.Len(t, remote.uploads, 1)
	assert.Equal(t, missing.ID, remote.uploads[0].ID)

	// Metadata goes up before the record referencing it.
	require.Len(t, remote.callOrder, 2)
	assert.Equal(t, "cache:gp-2", remote.callOrder[0])
	assert.Equal(t, "upload:"+missing.ID, remote.callOrder[1])
}

func TestPush_SecondPassUploadsNothing(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	p := testPlace(1, "gp-1")
	require.NoError(t, storage.SaveNew(ctx, p, nil))

	result, err := svc.Push(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Uploaded)

	// Server now has it; a second pass finds nothing to send.
	remote.snapshot = []place.SavedWire{p.ToWire()}
	result, err = svc.Push(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Uploaded)
	assert.Len(t, remote.uploads, 1)
}

func TestPush_ContinuesPastFailures(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	failing := testPlace(1, "gp-1")
	working := testPlace(1, "gp-2")
	require.NoError(t, storage.SaveNew(ctx, failing, nil))
	require.NoError(t, storage.SaveNew(ctx, working, nil))

	remote.failUpload[failing.ID] = assert.AnError

	result, err := svc.Push(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Uploaded)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, failing.ID, result.Errors[0].SavedID)
}

func TestPush_DuplicateOnServerIsNotAnError(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	p := testPlace(1, "gp-1")
	require.NoError(t, storage.SaveNew(ctx, p, nil))
	remote.failUpload[p.ID] = place.ErrDuplicate

	result, err := svc.Push(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 0, result.Uploaded)
}

func TestPush_ReplaysOutbox(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	deletedID := uuid.NewString()
	notedID := uuid.NewString()
	require.NoError(t, storage.EnqueueOp(ctx, &OutboxOp{Kind: OpDelete, SavedID: deletedID}))
	require.NoError(t, storage.EnqueueOp(ctx, &OutboxOp{Kind: OpUpdateNote, SavedID: notedID, NoteText: "queued"}))

	result, err := svc.Push(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, result.OpsReplayed)

	assert.Equal(t, []string{deletedID}, remote.deletes)
	assert.Equal(t, "queued", remote.noteUpdates[notedID])

	ops, err := storage.PendingOps(ctx)
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestPush_FailedOpStaysQueued(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	stuckID := uuid.NewString()
	require.NoError(t, storage.EnqueueOp(ctx, &OutboxOp{Kind: OpDelete, SavedID: stuckID}))
	remote.failDelete[stuckID] = assert.AnError

	result, err := svc.Push(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, result.OpsReplayed)
	require.Len(t, result.Errors, 1)

	ops, err := storage.PendingOps(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, stuckID, ops[0].SavedID)
}

func TestPush_GoneFromServerClearsOp(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	goneID := uuid.NewString()
	require.NoError(t, storage.EnqueueOp(ctx, &OutboxOp{Kind: OpDelete, SavedID: goneID}))
	remote.failDelete[goneID] = place.ErrNotFound

	result, err := svc.Push(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.OpsReplayed)

	ops, err := storage.PendingOps(ctx)
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestSync_PullThenPush(t *testing.T) {
	remote := newFakeRemote()
	svc, storage := newTestSync(t, remote)
	ctx := context.Background()

	fromServer := snapshotWire(1, "gp-1", "remote", time.Now().UTC())
	remote.snapshot = []place.SavedWire{fromServer}

	localOnly := testPlace(1, "gp-2")
	require.NoError(t, storage.SaveNew(ctx, localOnly, nil))

	pull, push, err := svc.Sync(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, pull.Inserted)
	assert.Equal(t, 1, push.Uploaded)

	require.Len(t, remote.uploads, 1)
	assert.Equal(t, localOnly.ID, remote.uploads[0].ID)
}
