package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/exp/slog"

	"spot/internal/domain/place"
)

type PlaceRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewPlaceRepository(db *Storage, log *slog.Logger) *PlaceRepository {
	return &PlaceRepository{
		db:  db,
		log: log.With("component", "place_repository"),
	}
}

func (r *PlaceRepository) ListByUser(ctx context.Context, userID int) ([]place.SavedPlace, error) {
	const query = `
		SELECT sp.id, sp.user_id, sp.google_place_id, sp.note_text,
		       sp.date_visited, sp.saved_at,
		       pc.google_place_id, pc.name, pc.address, pc.lat, pc.lng,
		       pc.rating, pc.price_level, pc.category, pc.cuisine, pc.last_refreshed
		FROM saved_places sp
		LEFT JOIN place_cache pc ON pc.google_place_id = sp.google_place_id
		WHERE sp.user_id = $1
		ORDER BY sp.saved_at DESC`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list saved places", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list saved places: %w", err)
	}
	defer rows.Close()

	var places []place.SavedPlace
	for rows.Next() {
		p, err := scanSavedPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan saved place: %w", err)
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}

func (r *PlaceRepository) Get(ctx context.Context, userID int, id string) (*place.SavedPlace, error) {
	const query = `
		SELECT sp.id, sp.user_id, sp.google_place_id, sp.note_text,
		       sp.date_visited, sp.saved_at,
		       pc.google_place_id, pc.name, pc.address, pc.lat, pc.lng,
		       pc.rating, pc.price_level, pc.category, pc.cuisine, pc.last_refreshed
		FROM saved_places sp
		LEFT JOIN place_cache pc ON pc.google_place_id = sp.google_place_id
		WHERE sp.id = $1 AND sp.user_id = $2`

	rows, err := r.db.Pool().Query(ctx, query, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get saved place: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, place.ErrNotFound
	}
	return scanSavedPlace(rows)
}

// Create stores an uploaded saved place. Uploads are retried by clients, so
// an exact re-send of an existing id is ignored; a different record hitting
// the (user, place) uniqueness constraint is a duplicate save.
func (r *PlaceRepository) Create(ctx context.Context, p *place.SavedPlace) error {
	const query = `
		INSERT INTO saved_places (id, user_id, google_place_id, note_text, date_visited, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.Pool().Exec(ctx, query,
		p.ID, p.UserID, p.GooglePlaceID, p.NoteText, p.DateVisited, p.SavedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return place.ErrDuplicate
		}
		r.log.Error("failed to create saved place",
			"user_id", p.UserID, "id", p.ID, "error", err)
		return fmt.Errorf("create saved place: %w", err)
	}
	return nil
}

func (r *PlaceRepository) UpdateNote(ctx context.Context, userID int, id, note string) error {
	const query = `
		UPDATE saved_places SET note_text = $1
		WHERE id = $2 AND user_id = $3`

	result, err := r.db.Pool().Exec(ctx, query, note, id, userID)
	if err != nil {
		r.log.Error("failed to update note", "id", id, "user_id", userID, "error", err)
		return fmt.Errorf("update note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return place.ErrNotFound
	}
	return nil
}

func (r *PlaceRepository) Delete(ctx context.Context, userID int, id string) error {
	const query = `DELETE FROM saved_places WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool().Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("failed to delete saved place", "id", id, "user_id", userID, "error", err)
		return fmt.Errorf("delete saved place: %w", err)
	}
	if result.RowsAffected() == 0 {
		return place.ErrNotFound
	}
	return nil
}

func scanSavedPlace(row pgx.Row) (*place.SavedPlace, error) {
	var (
		p place.SavedPlace
		c place.PlaceCache

		cacheID       *string
		cacheName     *string
		cacheAddress  *string
		cacheLat      *float64
		cacheLng      *float64
		cacheRating   *float64
		cachePrice    *int
		cacheCategory *string
		cacheCuisine  *string
		cacheFreshed  *time.Time
	)

	err := row.Scan(
		&p.ID, &p.UserID, &p.GooglePlaceID, &p.NoteText, &p.DateVisited, &p.SavedAt,
		&cacheID, &cacheName, &cacheAddress, &cacheLat, &cacheLng,
		&cacheRating, &cachePrice, &cacheCategory, &cacheCuisine, &cacheFreshed,
	)
	if err != nil {
		return nil, err
	}

	// LEFT JOIN: every cache column is NULL when no metadata row exists.
	if cacheID != nil {
		c.GooglePlaceID = *cacheID
		c.Name = *cacheName
		c.Address = *cacheAddress
		c.Lat = *cacheLat
		c.Lng = *cacheLng
		c.Rating = *cacheRating
		c.PriceLevel = *cachePrice
		c.Category = *cacheCategory
		c.Cuisine = *cacheCuisine
		c.LastRefreshed = *cacheFreshed
		p.Cache = &c
	}

	return &p, nil
}
