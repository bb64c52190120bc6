package place

import (
	"context"
)

// Repository is the server-side store for saved places.
type Repository interface {
	ListByUser(ctx context.Context, userID int) ([]SavedPlace, error)
	Get(ctx context.Context, userID int, id string) (*SavedPlace, error)
	// Create inserts a saved place. Re-sending an id that already exists is
	// a no-op (upload retries must not create duplicates); a different
	// record for the same (user, place) pair returns ErrDuplicate.
	Create(ctx context.Context, p *SavedPlace) error
	UpdateNote(ctx context.Context, userID int, id, note string) error
	Delete(ctx context.Context, userID int, id string) error
}

// CacheRepository is the server-side store for shared place metadata.
type CacheRepository interface {
	Get(ctx context.Context, googlePlaceID string) (*PlaceCache, error)
	// Upsert inserts the row or overwrites it when the incoming snapshot is
	// strictly fresher. Safe to repeat.
	Upsert(ctx context.Context, c *PlaceCache) error
}
