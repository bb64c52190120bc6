package place

import (
	"time"
)

// SavedPlace is one user's saved entry. Many saved places may point at the
// same PlaceCache row through GooglePlaceID; Cache is nil when detail lookup
// failed at save time and no cached metadata exists yet.
type SavedPlace struct {
	ID            string      `json:"id"`
	UserID        int         `json:"user_id"`
	GooglePlaceID string      `json:"google_place_id"`
	NoteText      string      `json:"note_text"`
	DateVisited   *time.Time  `json:"date_visited,omitempty"`
	SavedAt       time.Time   `json:"saved_at"`
	Cache         *PlaceCache `json:"place_cache,omitempty"`
}

// PlaceCache is shared place metadata keyed by the provider's place id.
// Rows are refreshed in place and never deleted independently of the saved
// places that reference them.
type PlaceCache struct {
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

// Refresh overwrites the mutable fields of c from src when src carries a
// strictly fresher LastRefreshed. Equal or older snapshots are ignored so
// freshness never regresses. Reports whether an overwrite happened.
func (c *PlaceCache) Refresh(src *PlaceCache) bool {
	if !src.LastRefreshed.After(c.LastRefreshed) {
		return false
	}

	c.Name = src.Name
	c.Address = src.Address
	c.Lat = src.Lat
	c.Lng = src.Lng
	c.Rating = src.Rating
	c.PriceLevel = src.PriceLevel
	c.Category = src.Category
	c.Cuisine = src.Cuisine
	c.LastRefreshed = src.LastRefreshed
	return true
}
