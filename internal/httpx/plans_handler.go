package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justyn/travelmap-api/internal/plans"
)

type PlansHandler struct {
	Repo *plans.Repo
}

func (h *PlansHandler) Register(r *chi.Mux) {
	r.Post("/api/plans", h.create)
	r.Get("/api/plans", h.list)
	r.Get("/api/plans/{id}", h.detail)
}

func (h *PlansHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    int64   `json:"user_id"`
		Title     *string `json:"title"`
		StartDate *string `json:"start_date"`
		EndDate   *string `json:"end_date"`
		Source    string  `json:"source"`
		Content   *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID <= 0 {
		writeErr(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Source == "" {
		req.Source = "AI"
	}

	id, err := h.Repo.Create(r.Context(), plans.CreateInput{
		UserID:    req.UserID,
		Title:     req.Title,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Source:    req.Source,
		Content:   req.Content,
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "save plan failed")
		return
	}
	writeData(w, map[string]any{"plan_id": id})
}

func (h *PlansHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "user_id is required")
		return
	}
	out, err := h.Repo.ListByUser(r.Context(), userID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "list plans failed")
		return
	}
	writeData(w, out)
}

func (h *PlansHandler) detail(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	p, err := h.Repo.Get(r.Context(), id)
	if errors.Is(err, plans.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "plan not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "get plan failed")
		return
	}
	writeData(w, p)
}
