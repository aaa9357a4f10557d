package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justyn/travelmap-api/internal/profile"
)

type ProfileHandler struct {
	Repo *profile.Repo
}

func (h *ProfileHandler) Register(r *chi.Mux) {
	r.Post("/api/favorites", h.addFavorite)
	r.Delete("/api/favorites", h.removeFavorite)
	r.Get("/api/favorites/scenics", h.favoriteScenics)
	r.Get("/api/favorites/products", h.favoriteProducts)
	r.Post("/api/visited", h.addVisited)
	r.Get("/api/visited", h.listVisited)
}

type favoriteReq struct {
	UserID     int64  `json:"user_id"`
	TargetID   int64  `json:"target_id"`
	TargetType string `json:"target_type"`
}

func decodeFavorite(w http.ResponseWriter, r *http.Request) (favoriteReq, bool) {
	var req favoriteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return req, false
	}
	if req.UserID <= 0 || req.TargetID <= 0 ||
		(req.TargetType != profile.TargetScenic && req.TargetType != profile.TargetProduct) {
		writeErr(w, http.StatusBadRequest, "user_id/target_id/target_type are required")
		return req, false
	}
	return req, true
}

func (h *ProfileHandler) addFavorite(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeFavorite(w, r)
	if !ok {
		return
	}
	if err := h.Repo.AddFavorite(r.Context(), req.UserID, req.TargetID, req.TargetType); err != nil {
		writeErr(w, http.StatusInternalServerError, "add favorite failed")
		return
	}
	writeData(w, nil)
}

func (h *ProfileHandler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeFavorite(w, r)
	if !ok {
		return
	}
	if err := h.Repo.RemoveFavorite(r.Context(), req.UserID, req.TargetID, req.TargetType); err != nil {
		writeErr(w, http.StatusInternalServerError, "remove favorite failed")
		return
	}
	writeData(w, nil)
}

func (h *ProfileHandler) favoriteScenics(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "user_id is required")
		return
	}
	out, err := h.Repo.FavoriteScenics(r.Context(), userID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "list favorites failed")
		return
	}
	writeData(w, out)
}

func (h *ProfileHandler) favoriteProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "user_id is required")
		return
	}
	out, err := h.Repo.FavoriteProducts(r.Context(), userID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "list favorites failed")
		return
	}
	writeData(w, out)
}

func (h *ProfileHandler) addVisited(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   int64 `json:"user_id"`
		ScenicID int64 `json:"scenic_id"`
		Rating   *int  `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID <= 0 || req.ScenicID <= 0 {
		writeErr(w, http.StatusBadRequest, "user_id/scenic_id are required")
		return
	}
	if err := h.Repo.AddVisited(r.Context(), req.UserID, req.ScenicID, req.Rating); err != nil {
		writeErr(w, http.StatusInternalServerError, "add check-in failed")
		return
	}
	writeData(w, nil)
}

func (h *ProfileHandler) listVisited(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "user_id is required")
		return
	}
	out, err := h.Repo.ListVisited(r.Context(), userID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "list check-ins failed")
		return
	}
	writeData(w, out)
}
