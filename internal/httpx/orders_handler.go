package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/justyn/travelmap-api/internal/orders"
	"github.com/justyn/travelmap-api/internal/redisx"
)

type OrderComposer interface {
	CreateOrder(ctx context.Context, in orders.CheckoutInput) (*orders.View, error)
}

type OrderReader interface {
	GetOrder(ctx context.Context, orderID int64) (*orders.View, error)
	ListByUser(ctx context.Context, userID int64) ([]orders.View, error)
}

type OrdersHandler struct {
	Composer OrderComposer
	Reader   OrderReader
	Redis    *redis.Client // optional detail cache; orders are immutable
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/api/orders", h.create)
	r.Get("/api/orders", h.list)
	r.Get("/api/orders/{id}", h.get)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID       int64   `json:"user_id"`
		ContactName  *string `json:"contact_name"`
		ContactPhone *string `json:"contact_phone"`
		OrderType    string  `json:"order_type"`
		CheckinDate  *string `json:"checkin_date"`
		CheckoutDate *string `json:"checkout_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	view, err := h.Composer.CreateOrder(ctx, orders.CheckoutInput{
		UserID:       req.UserID,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		OrderType:    req.OrderType,
		CheckinDate:  req.CheckinDate,
		CheckoutDate: req.CheckoutDate,
	})
	switch {
	case errors.Is(err, orders.ErrMissingUser):
		writeErr(w, http.StatusBadRequest, "user_id is required")
		return
	case errors.Is(err, orders.ErrEmptyCart):
		writeErr(w, http.StatusBadRequest, "cart is empty")
		return
	case errors.Is(err, orders.ErrCartConflict):
		writeErr(w, http.StatusConflict, "cart already checked out")
		return
	case err != nil:
		// includes exhausted order-number retries
		writeErr(w, http.StatusInternalServerError, "create order failed")
		return
	}
	writeData(w, map[string]any{"order": view})
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderDetail, id)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeData(w, map[string]any{"order": json.RawMessage(s)})
			return
		}
	}

	view, err := h.Reader.GetOrder(ctx, id)
	if errors.Is(err, orders.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "get order failed")
		return
	}

	if h.Redis != nil {
		if b, err := json.Marshal(view); err == nil {
			_ = h.Redis.Set(ctx, key, b, redisx.TTLOrderDetail).Err()
		}
	}
	writeData(w, map[string]any{"order": view})
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "user_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	views, err := h.Reader.ListByUser(ctx, userID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "list orders failed")
		return
	}
	writeData(w, views)
}
