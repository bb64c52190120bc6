package place

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"spot/internal/app/server/api/http/middleware/auth"
	"spot/internal/domain/place"
)

type Handler struct {
	service    place.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service place.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With("component", "place_handler"),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.snapshotOp(), h.snapshot)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.uploadOp(), h.upload)
	huma.Register(api, h.upsertCacheOp(), h.upsertCache)
	huma.Register(api, h.getCacheOp(), h.getCache)
	huma.Register(api, h.updateNoteOp(), h.updateNote)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) snapshot(ctx context.Context, _ *struct{}) (*snapshotOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	wires, err := h.service.Snapshot(ctx, userID)
	if err != nil {
		h.log.Error("snapshot failed", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("snapshot failed")
	}

	if wires == nil {
		wires = []place.SavedWire{}
	}
	return &snapshotOutput{Body: snapshotResponse{
		Status: "Ok",
		Places: wires,
		Total:  len(wires),
	}}, nil
}

func (h *Handler) get(ctx context.Context, input *getInput) (*placeOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	wire, err := h.service.Get(ctx, userID, input.ID)
	if err != nil {
		if errors.Is(err, place.ErrNotFound) {
			return nil, huma.Error404NotFound("saved place not found")
		}
		h.log.Error("get failed", "id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("get failed")
	}

	return &placeOutput{Body: placeResponse{
		Status: "Ok",
		Place:  *wire,
	}}, nil
}

func (h *Handler) upload(ctx context.Context, input *uploadInput) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	if err := h.service.Upload(ctx, userID, input.Body); err != nil {
		switch {
		case errors.Is(err, place.ErrDuplicate):
			return nil, huma.Error409Conflict("place already saved")
		case errors.Is(err, place.ErrInvalidPayload):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		default:
			h.log.Error("upload failed", "user_id", userID, "error", err)
			return nil, huma.Error500InternalServerError("upload failed")
		}
	}

	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) upsertCache(ctx context.Context, input *upsertCacheInput) (*statusOutput, error) {
	if _, ok := auth.GetUserID(ctx); !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	if err := h.service.UpsertCache(ctx, input.Body); err != nil {
		if errors.Is(err, place.ErrInvalidPayload) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.log.Error("cache upsert failed",
			"google_place_id", input.Body.GooglePlaceID, "error", err)
		return nil, huma.Error500InternalServerError("cache upsert failed")
	}

	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) getCache(ctx context.Context, input *getCacheInput) (*cacheOutput, error) {
	if _, ok := auth.GetUserID(ctx); !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	wire, err := h.service.CachedPlace(ctx, input.GooglePlaceID)
	if err != nil {
		if errors.Is(err, place.ErrNotFound) {
			return nil, huma.Error404NotFound("place metadata not found")
		}
		h.log.Error("cache get failed",
			"google_place_id", input.GooglePlaceID, "error", err)
		return nil, huma.Error500InternalServerError("cache get failed")
	}

	return &cacheOutput{Body: cacheResponse{
		Status: "Ok",
		Cache:  *wire,
	}}, nil
}

func (h *Handler) updateNote(ctx context.Context, input *noteInput) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	if err := h.service.UpdateNote(ctx, userID, input.ID, input.Body.NoteText); err != nil {
		if errors.Is(err, place.ErrNotFound) {
			return nil, huma.Error404NotFound("saved place not found")
		}
		h.log.Error("note update failed", "id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("note update failed")
	}

	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	if err := h.service.Delete(ctx, userID, input.ID); err != nil {
		if errors.Is(err, place.ErrNotFound) {
			return nil, huma.Error404NotFound("saved place not found")
		}
		h.log.Error("delete failed", "id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("delete failed")
	}

	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}
