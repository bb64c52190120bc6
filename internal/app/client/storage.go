package client

import (
	"context"
	"time"

	"spot/internal/domain/place"
)

// OutboxKind names a queued remote write.
type OutboxKind string

const (
	OpDelete     OutboxKind = "delete"
	OpUpdateNote OutboxKind = "update_note"
)

// OutboxOp is a remote write issued by an interactive operation while the
// upload could not happen, queued for the next push pass.
type OutboxOp struct {
	ID        int64
	Kind      OutboxKind
	SavedID   string
	NoteText  string
	CreatedAt time.Time
}

// Tx exposes the store primitives the pull merge runs against. Everything
// done through a Tx reaches durable state in a single flush at commit, or
// not at all.
type Tx interface {
	SavedByID(id string) (*place.SavedPlace, error)
	CacheByPlaceID(googlePlaceID string) (*place.PlaceCache, error)
	InsertSaved(p *place.SavedPlace) error
	// UpdateFromServer overwrites the server-wins fields (note text and
	// visited date) and nothing else.
	UpdateFromServer(id, note string, visited *time.Time) error
	InsertCache(c *place.PlaceCache) error
	UpdateCache(c *place.PlaceCache) error
}

// Storage is the local persistent store shared by the sync passes and the
// interactive save/delete/edit operations. Writes serialize through the
// store's own transaction discipline.
type Storage interface {
	// SaveNew inserts a user save and its place metadata together. A second
	// save of the same (user, place) pair fails with place.ErrDuplicate and
	// performs no mutation.
	SaveNew(ctx context.Context, p *place.SavedPlace, c *place.PlaceCache) error
	ListSaved(ctx context.Context, userID int) ([]*place.SavedPlace, error)
	GetSaved(ctx context.Context, id string) (*place.SavedPlace, error)
	UpdateNote(ctx context.Context, id, note string) error
	SetVisited(ctx context.Context, id string, visited *time.Time) error
	DeleteSaved(ctx context.Context, id string) error
	CountSaved(ctx context.Context, userID int) (int, error)

	// InTx runs fn inside one transaction; commit is the durable flush.
	InTx(ctx context.Context, fn func(Tx) error) error

	EnqueueOp(ctx context.Context, op *OutboxOp) error
	PendingOps(ctx context.Context) ([]OutboxOp, error)
	DeleteOp(ctx context.Context, id int64) error

	Close() error
}
