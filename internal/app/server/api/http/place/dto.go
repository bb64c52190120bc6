package place

import (
	"spot/internal/domain/place"
)

type snapshotOutput struct {
	Body snapshotResponse
}

type snapshotResponse struct {
	Status string            `json:"status"`
	Places []place.SavedWire `json:"places"`
	Total  int               `json:"total"`
}

type getInput struct {
	ID string `path:"id" doc:"Saved place id (UUID)"`
}

type placeOutput struct {
	Body placeResponse
}

type placeResponse struct {
	Status string          `json:"status"`
	Place  place.SavedWire `json:"place"`
}

type uploadInput struct {
	Body place.SavedWire
}

type getCacheInput struct {
	GooglePlaceID string `path:"google_place_id" doc:"Provider place id"`
}

type cacheOutput struct {
	Body cacheResponse
}

type cacheResponse struct {
	Status string          `json:"status"`
	Cache  place.CacheWire `json:"place_cache"`
}

type upsertCacheInput struct {
	Body place.CacheWire
}

type noteInput struct {
	ID   string `path:"id" doc:"Saved place id (UUID)"`
	Body noteRequest
}

type noteRequest struct {
	NoteText string `json:"note_text" doc:"New note text"`
}

type deleteInput struct {
	ID string `path:"id" doc:"Saved place id (UUID)"`
}

type statusOutput struct {
	Body statusResponse
}

type statusResponse struct {
	Status string `json:"status"`
}
