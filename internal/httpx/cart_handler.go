package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/justyn/travelmap-api/internal/cart"
)

type CartStore interface {
	AddItem(ctx context.Context, userID, productID int64, quantity int) (*cart.ItemView, error)
	UpdateQuantity(ctx context.Context, cartItemID int64, quantity int) (*cart.ItemView, error)
	RemoveItem(ctx context.Context, cartItemID int64) (*cart.ItemView, error)
	ListItems(ctx context.Context, userID int64) ([]cart.ItemView, error)
}

type CartHandler struct {
	Store CartStore
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Post("/api/cart", h.add)
	r.Put("/api/cart/{id}", h.update)
	r.Delete("/api/cart/{id}", h.remove)
	r.Get("/api/cart", h.list)
}

func cartErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidArgument), errors.Is(err, cart.ErrInvalidQuantity):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, cart.ErrNotFound), errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, cart.ErrUserNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, "cart operation failed")
	}
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    int64 `json:"user_id"`
		ProductID int64 `json:"product_id"`
		Quantity  *int  `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	// absent quantity means 1; an explicit 0 stays 0 and gets rejected
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.Store.AddItem(ctx, req.UserID, req.ProductID, quantity)
	if err != nil {
		cartErr(w, err)
		return
	}
	writeData(w, map[string]any{"cart_item": v})
}

func (h *CartHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.Store.UpdateQuantity(ctx, id, quantity)
	if err != nil {
		cartErr(w, err)
		return
	}
	writeData(w, map[string]any{"cart_item": v})
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.Store.RemoveItem(ctx, id)
	if err != nil {
		cartErr(w, err)
		return
	}
	writeData(w, map[string]any{"cart_item": v, "deleted": true})
}

func (h *CartHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "user_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Store.ListItems(ctx, userID)
	if err != nil {
		cartErr(w, err)
		return
	}
	writeData(w, items)
}
