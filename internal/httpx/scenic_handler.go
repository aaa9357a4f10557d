package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/justyn/travelmap-api/internal/redisx"
	"github.com/justyn/travelmap-api/internal/scenic"
)

type ScenicHandler struct {
	Repo  *scenic.Repo
	Redis *redis.Client // optional map-point cache
}

func (h *ScenicHandler) Register(r *chi.Mux) {
	r.Get("/api/scenics", h.list)
	r.Get("/api/scenics/map", h.mapPoints)
	r.Get("/api/scenics/{id}", h.detail)
}

func (h *ScenicHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := queryPage(r)

	list, total, err := h.Repo.List(r.Context(), q.Get("keyword"), q.Get("city"), page, pageSize)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "list scenics failed")
		return
	}
	writeData(w, pageData{List: list, Page: page, PageSize: pageSize, Total: total})
}

func (h *ScenicHandler) detail(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	s, err := h.Repo.Get(r.Context(), id)
	if errors.Is(err, scenic.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "scenic not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "get scenic failed")
		return
	}
	writeData(w, s)
}

func (h *ScenicHandler) mapPoints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, redisx.KeyScenicMap).Result(); err == nil && s != "" {
			writeData(w, json.RawMessage(s))
			return
		}
	}

	points, err := h.Repo.MapPoints(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "load map failed")
		return
	}
	if h.Redis != nil {
		if b, err := json.Marshal(points); err == nil {
			_ = h.Redis.Set(ctx, redisx.KeyScenicMap, b, redisx.TTLScenicMap).Err()
		}
	}
	writeData(w, points)
}
