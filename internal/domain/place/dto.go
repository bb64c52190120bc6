package place

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SavedWire is the snapshot/upload representation of a saved place. The id
// travels as a string and is validated into a UUID at the store boundary;
// a malformed id is a payload error, never a silent default.
type SavedWire struct {
	ID            string     `json:"id" doc:"Saved place id (UUID)"`
	UserID        int        `json:"user_id" doc:"Owner id"`
	GooglePlaceID string     `json:"google_place_id" doc:"Provider place id"`
	NoteText      string     `json:"note_text"`
	DateVisited   *time.Time `json:"date_visited,omitempty"`
	SavedAt       time.Time  `json:"saved_at"`
	Cache         *CacheWire `json:"place_cache,omitempty"`
}

// CacheWire is the wire representation of shared place metadata.
type CacheWire struct {
	GooglePlaceID string    `json:"google_place_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	Rating        float64   `json:"rating"`
	PriceLevel    int       `json:"price_level"`
	Category      string    `json:"category"`
	Cuisine       string    `json:"cuisine"`
	LastRefreshed time.Time `json:"last_refreshed"`
}

// ToModel validates the wire record and converts it to the domain model.
func (w *SavedWire) ToModel() (*SavedPlace, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: saved place id %q: %v", ErrInvalidPayload, w.ID, err)
	}
	if w.GooglePlaceID == "" {
		return nil, fmt.Errorf("%w: empty google place id", ErrInvalidPayload)
	}

	sp := &SavedPlace{
		ID:            id.String(),
		UserID:        w.UserID,
		GooglePlaceID: w.GooglePlaceID,
		NoteText:      w.NoteText,
		DateVisited:   w.DateVisited,
		SavedAt:       w.SavedAt,
	}
	if w.Cache != nil {
		sp.Cache = w.Cache.ToModel()
	}
	return sp, nil
}

// ToWire converts a domain saved place to its wire form. The cache is not
// embedded; snapshot assembly attaches it when present.
func (p *SavedPlace) ToWire() SavedWire {
	return SavedWire{
		ID:            p.ID,
		UserID:        p.UserID,
		GooglePlaceID: p.GooglePlaceID,
		NoteText:      p.NoteText,
		DateVisited:   p.DateVisited,
		SavedAt:       p.SavedAt,
	}
}

func (w *CacheWire) ToModel() *PlaceCache {
	return &PlaceCache{
		GooglePlaceID: w.GooglePlaceID,
		Name:          w.Name,
		Address:       w.Address,
		Lat:           w.Lat,
		Lng:           w.Lng,
		Rating:        w.Rating,
		PriceLevel:    w.PriceLevel,
		Category:      w.Category,
		Cuisine:       w.Cuisine,
		LastRefreshed: w.LastRefreshed,
	}
}

func (c *PlaceCache) ToWire() *CacheWire {
	return &CacheWire{
		GooglePlaceID: c.GooglePlaceID,
		Name:          c.Name,
		Address:       c.Address,
		Lat:           c.Lat,
		Lng:           c.Lng,
		Rating:        c.Rating,
		PriceLevel:    c.PriceLevel,
		Category:      c.Category,
		Cuisine:       c.Cuisine,
		LastRefreshed: c.LastRefreshed,
	}
}
