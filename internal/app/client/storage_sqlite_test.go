package client

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spot/internal/domain/place"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	storage, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "spot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	return storage
}

func testPlace(userID int, googlePlaceID string) *place.SavedPlace {
	return &place.SavedPlace{
		ID:            uuid.NewString(),
		UserID:        userID,
		GooglePlaceID: googlePlaceID,
		NoteText:      "try the ramen",
		SavedAt:       time.Now().UTC(),
	}
}

func testCache(googlePlaceID string, refreshed time.Time) *place.PlaceCache {
	return &place.PlaceCache{
		GooglePlaceID: googlePlaceID,
		Name:          "Menya Musashi",
		Address:       "1 Noodle St",
		Lat:           35.69,
		Lng:           139.7,
		Rating:        4.6,
		PriceLevel:    2,
		Category:      "restaurant",
		Cuisine:       "ramen",
		LastRefreshed: refreshed,
	}
}

func TestSQLiteStorage_SaveNew(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	p := testPlace(1, "gp-1")
	c := testCache("gp-1", time.Now().UTC())

	require.NoError(t, storage.SaveNew(ctx, p, c))

	got, err := storage.GetSaved(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.GooglePlaceID, got.GooglePlaceID)
	assert.Equal(t, p.NoteText, got.NoteText)
	require.NotNil(t, got.Cache)
	assert.Equal(t, c.Name, got.Cache.Name)
}

func TestSQLiteStorage_SaveNew_Duplicate(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	first := testPlace(1, "gp-1")
	require.NoError(t, storage.SaveNew(ctx, first, testCache("gp-1", time.Now().UTC())))

	// Same user, same place, fresh id: must fail and change nothing.
	second := testPlace(1, "gp-1")
	second.NoteText = "different note"
	err := storage.SaveNew(ctx, second, testCache("gp-1", time.Now().UTC().Add(time.Hour)))
	assert.ErrorIs(t, err, place.ErrDuplicate)

	count, err := storage.CountSaved(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = storage.GetSaved(ctx, second.ID)
	assert.ErrorIs(t, err, place.ErrNotFound)
}

func TestSQLiteStorage_SaveNew_SamePlaceOtherUser(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.SaveNew(ctx, testPlace(1, "gp-1"), nil))
	assert.NoError(t, storage.SaveNew(ctx, testPlace(2, "gp-1"), nil))
}

func TestSQLiteStorage_SaveNew_InvalidID(t *testing.T) {
	storage := newTestStorage(t)

	p := testPlace(1, "gp-1")
	p.ID = "not-a-uuid"
	err := storage.SaveNew(context.Background(), p, nil)
	assert.ErrorIs(t, err, place.ErrInvalidPayload)
}

func TestSQLiteStorage_UpdateAndDelete(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	p := testPlace(1, "gp-1")
	require.NoError(t, storage.SaveNew(ctx, p, nil))

	require.NoError(t, storage.UpdateNote(ctx, p.ID, "updated"))
	visited := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, storage.SetVisited(ctx, p.ID, &visited))

	got, err := storage.GetSaved(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.NoteText)
	require.NotNil(t, got.DateVisited)
	assert.True(t, got.DateVisited.Equal(visited))

	require.NoError(t, storage.DeleteSaved(ctx, p.ID))
	assert.ErrorIs(t, storage.DeleteSaved(ctx, p.ID), place.ErrNotFound)
	assert.ErrorIs(t, storage.UpdateNote(ctx, p.ID, "x"), place.ErrNotFound)
}

func TestSQLiteStorage_InTx_RollsBackOnError(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	p := testPlace(1, "gp-1")
	err := storage.InTx(ctx, func(tx Tx) error {
		if err := tx.InsertSaved(p); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = storage.GetSaved(ctx, p.ID)
	assert.ErrorIs(t, err, place.ErrNotFound)
}

func TestSQLiteStorage_Outbox(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	savedID := uuid.NewString()
	require.NoError(t, storage.EnqueueOp(ctx, &OutboxOp{Kind: OpUpdateNote, SavedID: savedID, NoteText: "n"}))
	require.NoError(t, storage.EnqueueOp(ctx, &OutboxOp{Kind: OpDelete, SavedID: savedID}))

	ops, err := storage.PendingOps(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, OpUpdateNote, ops[0].Kind)
	assert.Equal(t, OpDelete, ops[1].Kind)
	assert.Equal(t, savedID, ops[0].SavedID)

	require.NoError(t, storage.DeleteOp(ctx, ops[0].ID))
	ops, err = storage.PendingOps(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, OpDelete, ops[0].Kind)
}
