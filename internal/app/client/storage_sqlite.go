package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"spot/internal/domain/place"
)

// SQLiteStorage is the on-device store. One writer at a time; readers go
// through the same connection so they never observe a half-inserted row.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init tables: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS place_cache (
			google_place_id TEXT PRIMARY KEY,
			name            TEXT NOT NULL DEFAULT '',
			address         TEXT NOT NULL DEFAULT '',
			lat             REAL NOT NULL DEFAULT 0,
			lng             REAL NOT NULL DEFAULT 0,
			rating          REAL NOT NULL DEFAULT 0,
			price_level     INTEGER NOT NULL DEFAULT 0,
			category        TEXT NOT NULL DEFAULT '',
			cuisine         TEXT NOT NULL DEFAULT '',
			last_refreshed  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS saved_places (
			id              TEXT PRIMARY KEY,
			user_id         INTEGER NOT NULL,
			google_place_id TEXT NOT NULL,
			note_text       TEXT NOT NULL DEFAULT '',
			date_visited    TEXT,
			saved_at        TEXT NOT NULL,
			UNIQUE (user_id, google_place_id)
		);

		CREATE TABLE IF NOT EXISTS outbox (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			kind       TEXT NOT NULL,
			saved_id   TEXT NOT NULL,
			note_text  TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_saved_places_user ON saved_places(user_id);
	`)
	return err
}

func (s *SQLiteStorage) SaveNew(ctx context.Context, p *place.SavedPlace, c *place.PlaceCache) error {
	if _, err := uuid.Parse(p.ID); err != nil {
		return fmt.Errorf("%w: saved place id %q: %v", place.ErrInvalidPayload, p.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM saved_places WHERE user_id = ? AND google_place_id = ?)`,
		p.UserID, p.GooglePlaceID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		return place.ErrDuplicate
	}

	if c != nil {
		if err := upsertCache(ctx, tx, c); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO saved_places (id, user_id, google_place_id, note_text, date_visited, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.GooglePlaceID, p.NoteText,
		formatNullableTime(p.DateVisited), p.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert saved place: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStorage) ListSaved(ctx context.Context, userID int) ([]*place.SavedPlace, error) {
	rows, err := s.db.QueryContext(ctx, selectSaved+` WHERE sp.user_id = ? ORDER BY sp.saved_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved places: %w", err)
	}
	defer rows.Close()

	var places []*place.SavedPlace
	for rows.Next() {
		p, err := scanSaved(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

func (s *SQLiteStorage) GetSaved(ctx context.Context, id string) (*place.SavedPlace, error) {
	return getSaved(ctx, s.db, id)
}

func (s *SQLiteStorage) UpdateNote(ctx context.Context, id, note string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE saved_places SET note_text = ? WHERE id = ?`, note, id)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return requireRow(result)
}

func (s *SQLiteStorage) SetVisited(ctx context.Context, id string, visited *time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE saved_places SET date_visited = ? WHERE id = ?`, formatNullableTime(visited), id)
	if err != nil {
		return fmt.Errorf("set visited: %w", err)
	}
	return requireRow(result)
}

func (s *SQLiteStorage) DeleteSaved(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saved_places WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete saved place: %w", err)
	}
	return requireRow(result)
}

func (s *SQLiteStorage) CountSaved(ctx context.Context, userID int) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM saved_places WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count saved places: %w", err)
	}
	return count, nil
}

// InTx runs fn against transaction-scoped primitives; the commit at the end
// is the single durable flush for the whole batch.
func (s *SQLiteStorage) InTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqliteTx{ctx: ctx, tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStorage) EnqueueOp(ctx context.Context, op *OutboxOp) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outbox (kind, saved_id, note_text, created_at)
		VALUES (?, ?, ?, ?)`,
		string(op.Kind), op.SavedID, op.NoteText, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("enqueue outbox op: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) PendingOps(ctx context.Context) ([]OutboxOp, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, saved_id, note_text, created_at FROM outbox ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list outbox ops: %w", err)
	}
	defer rows.Close()

	var ops []OutboxOp
	for rows.Next() {
		var (
			op        OutboxOp
			kind      string
			createdAt string
		)
		if err := rows.Scan(&op.ID, &kind, &op.SavedID, &op.NoteText, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outbox op: %w", err)
		}
		op.Kind = OutboxKind(kind)
		op.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

func (s *SQLiteStorage) DeleteOp(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM outbox WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete outbox op: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// sqliteTx adapts a *sql.Tx to the Tx merge primitives.
type sqliteTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *sqliteTx) SavedByID(id string) (*place.SavedPlace, error) {
	return getSaved(t.ctx, t.tx, id)
}

func (t *sqliteTx) CacheByPlaceID(googlePlaceID string) (*place.PlaceCache, error) {
	return getCache(t.ctx, t.tx, googlePlaceID)
}

func (t *sqliteTx) InsertSaved(p *place.SavedPlace) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO saved_places (id, user_id, google_place_id, note_text, date_visited, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.GooglePlaceID, p.NoteText,
		formatNullableTime(p.DateVisited), p.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert saved place: %w", err)
	}
	return nil
}

func (t *sqliteTx) UpdateFromServer(id, note string, visited *time.Time) error {
	_, err := t.tx.ExecContext(t.ctx,
		`UPDATE saved_places SET note_text = ?, date_visited = ? WHERE id = ?`,
		note, formatNullableTime(visited), id)
	if err != nil {
		return fmt.Errorf("apply server fields: %w", err)
	}
	return nil
}

func (t *sqliteTx) InsertCache(c *place.PlaceCache) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO place_cache (google_place_id, name, address, lat, lng,
		                         rating, price_level, category, cuisine, last_refreshed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.GooglePlaceID, c.Name, c.Address, c.Lat, c.Lng,
		c.Rating, c.PriceLevel, c.Category, c.Cuisine,
		c.LastRefreshed.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert place cache: %w", err)
	}
	return nil
}

func (t *sqliteTx) UpdateCache(c *place.PlaceCache) error {
	_, err := t.tx.ExecContext(t.ctx, `
		UPDATE place_cache SET name = ?, address = ?, lat = ?, lng = ?,
		       rating = ?, price_level = ?, category = ?, cuisine = ?, last_refreshed = ?
		WHERE google_place_id = ?`,
		c.Name, c.Address, c.Lat, c.Lng, c.Rating, c.PriceLevel,
		c.Category, c.Cuisine, c.LastRefreshed.UTC().Format(time.RFC3339Nano),
		c.GooglePlaceID)
	if err != nil {
		return fmt.Errorf("update place cache: %w", err)
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const selectSaved = `
	SELECT sp.id, sp.user_id, sp.google_place_id, sp.note_text, sp.date_visited, sp.saved_at,
	       pc.google_place_id, pc.name, pc.address, pc.lat, pc.lng,
	       pc.rating, pc.price_level, pc.category, pc.cuisine, pc.last_refreshed
	FROM saved_places sp
	LEFT JOIN place_cache pc ON pc.google_place_id = sp.google_place_id`

func getSaved(ctx context.Context, q queryer, id string) (*place.SavedPlace, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: saved place id %q: %v", place.ErrInvalidPayload, id, err)
	}

	row := q.QueryRowContext(ctx, selectSaved+` WHERE sp.id = ?`, id)
	p, err := scanSaved(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, place.ErrNotFound
	}
	return p, err
}

func getCache(ctx context.Context, q queryer, googlePlaceID string) (*place.PlaceCache, error) {
	var (
		c         place.PlaceCache
		refreshed string
	)
	err := q.QueryRowContext(ctx, `
		SELECT google_place_id, name, address, lat, lng, rating, price_level,
		       category, cuisine, last_refreshed
		FROM place_cache WHERE google_place_id = ?`, googlePlaceID).
		Scan(&c.GooglePlaceID, &c.Name, &c.Address, &c.Lat, &c.Lng,
			&c.Rating, &c.PriceLevel, &c.Category, &c.Cuisine, &refreshed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, place.ErrNotFound
		}
		return nil, fmt.Errorf("get place cache: %w", err)
	}

	c.LastRefreshed, err = time.Parse(time.RFC3339Nano, refreshed)
	if err != nil {
		return nil, fmt.Errorf("%w: last_refreshed %q: %v", place.ErrInvalidPayload, refreshed, err)
	}
	return &c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSaved(row rowScanner) (*place.SavedPlace, error) {
	var (
		p place.SavedPlace

		visited sql.NullString
		savedAt string

		cacheID       sql.NullString
		cacheName     sql.NullString
		cacheAddress  sql.NullString
		cacheLat      sql.NullFloat64
		cacheLng      sql.NullFloat64
		cacheRating   sql.NullFloat64
		cachePrice    sql.NullInt64
		cacheCategory sql.NullString
		cacheCuisine  sql.NullString
		cacheFreshed  sql.NullString
	)

	err := row.Scan(
		&p.ID, &p.UserID, &p.GooglePlaceID, &p.NoteText, &visited, &savedAt,
		&cacheID, &cacheName, &cacheAddress, &cacheLat, &cacheLng,
		&cacheRating, &cachePrice, &cacheCategory, &cacheCuisine, &cacheFreshed,
	)
	if err != nil {
		return nil, err
	}

	p.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: saved_at %q: %v", place.ErrInvalidPayload, savedAt, err)
	}
	if visited.Valid {
		t, err := time.Parse(time.RFC3339Nano, visited.String)
		if err != nil {
			return nil, fmt.Errorf("%w: date_visited %q: %v", place.ErrInvalidPayload, visited.String, err)
		}
		p.DateVisited = &t
	}

	if cacheID.Valid {
		refreshed, err := time.Parse(time.RFC3339Nano, cacheFreshed.String)
		if err != nil {
			return nil, fmt.Errorf("%w: last_refreshed %q: %v", place.ErrInvalidPayload, cacheFreshed.String, err)
		}
		p.Cache = &place.PlaceCache{
			GooglePlaceID: cacheID.String,
			Name:          cacheName.String,
			Address:       cacheAddress.String,
			Lat:           cacheLat.Float64,
			Lng:           cacheLng.Float64,
			Rating:        cacheRating.Float64,
			PriceLevel:    int(cachePrice.Int64),
			Category:      cacheCategory.String,
			Cuisine:       cacheCuisine.String,
			LastRefreshed: refreshed,
		}
	}

	return &p, nil
}

func upsertCache(ctx context.Context, q queryer, c *place.PlaceCache) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO place_cache (google_place_id, name, address, lat, lng,
		                         rating, price_level, category, cuisine, last_refreshed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(google_place_id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			lat = excluded.lat,
			lng = excluded.lng,
			rating = excluded.rating,
			price_level = excluded.price_level,
			category = excluded.category,
			cuisine = excluded.cuisine,
			last_refreshed = excluded.last_refreshed
		WHERE excluded.last_refreshed > place_cache.last_refreshed`,
		c.GooglePlaceID, c.Name, c.Address, c.Lat, c.Lng,
		c.Rating, c.PriceLevel, c.Category, c.Cuisine,
		c.LastRefreshed.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert place cache: %w", err)
	}
	return nil
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return place.ErrNotFound
	}
	return nil
}
