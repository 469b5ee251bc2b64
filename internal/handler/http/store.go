package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/store"
	"github.com/abira1/nijhum-deep/internal/utils"
	"github.com/abira1/nijhum-deep/models"
)

// createRecord handles POST /api/store/{collection}: it mints a server-side
// id for the payload and returns it, matching the client gateway's
// expectation of a {"id": ...} body.
func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, "collection")

	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	id := h.ids.Generate()
	if err := h.records.Upsert(ctx, collection, id, payload); err != nil {
		log.Err(err).Str("collection", collection).Msg("failed to store new record")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]string{"id": id}, http.StatusOK)
}

// listRecords handles GET /api/store/{collection} and returns the whole
// collection as an id-to-payload map.
func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, "collection")

	records, err := h.records.List(ctx, collection, nil)
	if err != nil {
		log.Err(err).Str("collection", collection).Msg("failed to list records")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = map[string]models.Payload{}
	}

	utils.WriteJSON(w, records, http.StatusOK)
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	payload, err := h.records.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		log.Err(err).Str("collection", collection).Str("id", id).Msg("failed to read record")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, payload, http.StatusOK)
}

// putRecord handles PUT /api/store/{collection}/{id}. Day finalization
// records are immutable once written: a second PUT at the same key is
// rejected with 409 so concurrently sealing devices converge on the first
// seal.
func (h *Handler) putRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	if collection == models.CollectionFinalizations {
		if _, err := h.records.Get(ctx, collection, id); err == nil {
			log.Warn().Str("id", id).Msg("rejecting write to an already sealed day")
			http.Error(w, "day already sealed", http.StatusConflict)
			return
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			log.Err(err).Str("id", id).Msg("failed to check existing finalization")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	if err := h.records.Upsert(ctx, collection, id, payload); err != nil {
		log.Err(err).Str("collection", collection).Str("id", id).Msg("failed to store record")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]string{"id": id}, http.StatusOK)
}

// deleteRecord handles DELETE /api/store/{collection}/{id}. Finalization
// records cannot be deleted.
func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	if collection == models.CollectionFinalizations {
		http.Error(w, "finalization records are immutable", http.StatusForbidden)
		return
	}

	if err := h.records.Delete(ctx, collection, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		log.Err(err).Str("collection", collection).Str("id", id).Msg("failed to delete record")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// decodePayload reads the request body as a JSON object. On failure it
// writes a 400 and reports false.
func decodePayload(w http.ResponseWriter, r *http.Request) (models.Payload, bool) {
	var payload models.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.FromRequest(r).Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return nil, false
	}
	return payload, true
}
