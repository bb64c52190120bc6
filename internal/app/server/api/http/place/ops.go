package place

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) snapshotOp() huma.Operation {
	return huma.Operation{
		OperationID: "places-snapshot",
		Method:      http.MethodGet,
		Path:        "/api/v1/places",
		Summary:     "Full snapshot of the user's saved places",
		Description: "Each saved place embeds its cached metadata when present.",
		Tags:        []string{"places"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "places-get",
		Method:      http.MethodGet,
		Path:        "/api/v1/places/{id}",
		Summary:     "Fetch one saved place",
		Tags:        []string{"places"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) uploadOp() huma.Operation {
	return huma.Operation{
		OperationID: "places-upload",
		Method:      http.MethodPost,
		Path:        "/api/v1/places",
		Summary:     "Upload a client-created saved place",
		Description: "Insert semantics: re-sending an existing id is ignored.",
		Tags:        []string{"places"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) upsertCacheOp() huma.Operation {
	return huma.Operation{
		OperationID: "place-cache-upsert",
		Method:      http.MethodPut,
		Path:        "/api/v1/place-cache",
		Summary:     "Upsert shared place metadata",
		Description: "Keeps the freshest snapshot per place id; safe to repeat.",
		Tags:        []string{"places"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getCacheOp() huma.Operation {
	return huma.Operation{
		OperationID: "place-cache-get",
		Method:      http.MethodGet,
		Path:        "/api/v1/place-cache/{google_place_id}",
		Summary:     "Fetch shared place metadata",
		Tags:        []string{"places"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateNoteOp() huma.Operation {
	return huma.Operation{
		OperationID: "places-update-note",
		Method:      http.MethodPatch,
		Path:        "/api/v1/places/{id}/note",
		Summary:     "Update the note of a saved place",
		Tags:        []string{"places"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "places-delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/places/{id}",
		Summary:     "Delete a saved place",
		Tags:        []string{"places"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
