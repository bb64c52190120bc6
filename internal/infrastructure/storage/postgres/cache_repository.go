package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"spot/internal/domain/place"
)

type CacheRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewCacheRepository(db *Storage, log *slog.Logger) *CacheRepository {
	return &CacheRepository{
		db:  db,
		log: log.With("component", "cache_repository"),
	}
}

func (r *CacheRepository) Get(ctx context.Context, googlePlaceID string) (*place.PlaceCache, error) {
	const query = `
		SELECT google_place_id, name, address, lat, lng, rating, price_level,
		       category, cuisine, last_refreshed
		FROM place_cache
		WHERE google_place_id = $1`

	var c place.PlaceCache
	err := r.db.Pool().QueryRow(ctx, query, googlePlaceID).Scan(
		&c.GooglePlaceID, &c.Name, &c.Address, &c.Lat, &c.Lng,
		&c.Rating, &c.PriceLevel, &c.Category, &c.Cuisine, &c.LastRefreshed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, place.ErrNotFound
		}
		return nil, fmt.Errorf("get place cache: %w", err)
	}
	return &c, nil
}

// Upsert keeps the freshest snapshot per place id. The WHERE guard on the
// conflict branch makes re-sends and stale snapshots no-ops, so clients may
// repeat this call freely.
func (r *CacheRepository) Upsert(ctx context.Context, c *place.PlaceCache) error {
	const query = `
		INSERT INTO place_cache (google_place_id, name, address, lat, lng,
		                         rating, price_level, category, cuisine, last_refreshed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (google_place_id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			rating = EXCLUDED.rating,
			price_level = EXCLUDED.price_level,
			category = EXCLUDED.category,
			cuisine = EXCLUDED.cuisine,
			last_refreshed = EXCLUDED.last_refreshed
		WHERE place_cache.last_refreshed < EXCLUDED.last_refreshed`

	_, err := r.db.Pool().Exec(ctx, query,
		c.GooglePlaceID, c.Name, c.Address, c.Lat, c.Lng,
		c.Rating, c.PriceLevel, c.Category, c.Cuisine, c.LastRefreshed)
	if err != nil {
		r.log.Error("failed to upsert place cache",
			"google_place_id", c.GooglePlaceID, "error", err)
		return fmt.Errorf("upsert place cache: %w", err)
	}
	return nil
}
