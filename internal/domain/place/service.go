package place

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
)

// Servicer is the business logic behind the remote store API.
type Servicer interface {
	// Snapshot returns the full point-in-time listing of a user's saved
	// places, each with its cached place metadata embedded when present.
	Snapshot(ctx context.Context, userID int) ([]SavedWire, error)
	// Get returns one saved place with its cached metadata embedded.
	Get(ctx context.Context, userID int, id string) (*SavedWire, error)
	// Upload stores a client-created saved place. Idempotent on id.
	Upload(ctx context.Context, userID int, w SavedWire) error
	// UpsertCache stores place metadata, keeping the freshest snapshot.
	UpsertCache(ctx context.Context, w CacheWire) error
	// CachedPlace returns the shared metadata held for a provider place id.
	CachedPlace(ctx context.Context, googlePlaceID string) (*CacheWire, error)
	UpdateNote(ctx context.Context, userID int, id, note string) error
	Delete(ctx context.Context, userID int, id string) error
}

type Service struct {
	repo  Repository
	cache CacheRepository
	log   *slog.Logger
}

func NewService(repo Repository, cache CacheRepository, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log.With("component", "place_service"),
	}
}

func (s *Service) Snapshot(ctx context.Context, userID int) ([]SavedWire, error) {
	places, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list saved places", "user_id", userID, "error", err)
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	wires := make([]SavedWire, len(places))
	for i, p := range places {
		wires[i] = p.ToWire()
		if p.Cache != nil {
			wires[i].Cache = p.Cache.ToWire()
		}
	}
	return wires, nil
}

func (s *Service) Get(ctx context.Context, userID int, id string) (*SavedWire, error) {
	p, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get saved place: %w", err)
	}

	w := p.ToWire()
	if p.Cache != nil {
		w.Cache = p.Cache.ToWire()
	}
	return &w, nil
}

func (s *Service) Upload(ctx context.Context, userID int, w SavedWire) error {
	w.UserID = userID
	p, err := w.ToModel()
	if err != nil {
		return err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to store uploaded place",
			"user_id", userID, "id", p.ID, "error", err)
		return fmt.Errorf("upload saved place: %w", err)
	}

	s.log.Debug("saved place uploaded", "user_id", userID, "id", p.ID)
	return nil
}

func (s *Service) UpsertCache(ctx context.Context, w CacheWire) error {
	if w.GooglePlaceID == "" {
		return fmt.Errorf("%w: empty google place id", ErrInvalidPayload)
	}

	if err := s.cache.Upsert(ctx, w.ToModel()); err != nil {
		s.log.Error("failed to upsert place cache",
			"google_place_id", w.GooglePlaceID, "error", err)
		return fmt.Errorf("upsert place cache: %w", err)
	}
	return nil
}

func (s *Service) CachedPlace(ctx context.Context, googlePlaceID string) (*CacheWire, error) {
	if googlePlaceID == "" {
		return nil, fmt.Errorf("%w: empty google place id", ErrInvalidPayload)
	}

	c, err := s.cache.Get(ctx, googlePlaceID)
	if err != nil {
		return nil, fmt.Errorf("get place cache: %w", err)
	}
	return c.ToWire(), nil
}

func (s *Service) UpdateNote(ctx context.Context, userID int, id, note string) error {
	if err := s.repo.UpdateNote(ctx, userID, id, note); err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, userID int, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete saved place: %w", err)
	}
	return nil
}
