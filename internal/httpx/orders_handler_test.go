package httpx

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyn/travelmap-api/internal/orders"
)

type fakeOrders struct {
	byID    map[int64]*orders.View
	byUser  map[int64][]orders.View
	failure error
}

func (f *fakeOrders) CreateOrder(ctx context.Context, in orders.CheckoutInput) (*orders.View, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	if in.UserID <= 0 {
		return nil, orders.ErrMissingUser
	}
	v := &orders.View{
		Order: orders.Order{
			ID:         1,
			OrderNo:    "20260830120000abcdef",
			UserID:     in.UserID,
			OrderType:  "PRODUCT",
			TotalPrice: decimal.RequireFromString("808.00"),
			Status:     orders.StatusCreated,
			CreateTime: time.Now(),
		},
		Items: []orders.ItemView{},
	}
	return v, nil
}

func (f *fakeOrders) GetOrder(ctx context.Context, orderID int64) (*orders.View, error) {
	v, ok := f.byID[orderID]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return v, nil
}

func (f *fakeOrders) ListByUser(ctx context.Context, userID int64) ([]orders.View, error) {
	return f.byUser[userID], nil
}

func newOrderServer(f *fakeOrders) http.Handler {
	r := NewRouter()
	(&OrdersHandler{Composer: f, Reader: f}).Register(r)
	return r
}

func TestOrderCreate(t *testing.T) {
	h := newOrderServer(&fakeOrders{})

	w, env := doJSON(t, h, http.MethodPost, "/api/orders", `{"user_id":42}`)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 200, env.Code)

	order := env.Data.(map[string]any)["order"].(map[string]any)
	assert.Equal(t, "20260830120000abcdef", order["order_no"])
	assert.Equal(t, "CREATED", order["status"])
	assert.Equal(t, "808", order["total_price"])
}

func TestOrderCreateMissingUser(t *testing.T) {
	h := newOrderServer(&fakeOrders{})

	w, env := doJSON(t, h, http.MethodPost, "/api/orders", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 400, env.Code)
}

func TestOrderCreateEmptyCart(t *testing.T) {
	h := newOrderServer(&fakeOrders{failure: orders.ErrEmptyCart})

	w, env := doJSON(t, h, http.MethodPost, "/api/orders", `{"user_id":42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cart is empty", env.Msg)
}

func TestOrderCreateLostRace(t *testing.T) {
	h := newOrderServer(&fakeOrders{failure: orders.ErrCartConflict})

	w, env := doJSON(t, h, http.MethodPost, "/api/orders", `{"user_id":42}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 409, env.Code)
}

func TestOrderCreateCollisionsExhausted(t *testing.T) {
	h := newOrderServer(&fakeOrders{failure: orders.ErrOrderNoTaken})

	w, env := doJSON(t, h, http.MethodPost, "/api/orders", `{"user_id":42}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 500, env.Code)
}

func TestOrderGet(t *testing.T) {
	f := &fakeOrders{byID: map[int64]*orders.View{
		9: {Order: orders.Order{ID: 9, OrderNo: "x", TotalPrice: decimal.Zero, Status: orders.StatusCreated}},
	}}
	h := newOrderServer(f)

	w, env := doJSON(t, h, http.MethodGet, "/api/orders/9", "")
	assert.Equal(t, http.StatusOK, w.Code)
	order := env.Data.(map[string]any)["order"].(map[string]any)
	assert.Equal(t, float64(9), order["id"])

	w, env = doJSON(t, h, http.MethodGet, "/api/orders/8", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 404, env.Code)
}

func TestOrderList(t *testing.T) {
	f := &fakeOrders{byUser: map[int64][]orders.View{
		42: {
			{Order: orders.Order{ID: 2, TotalPrice: decimal.Zero}, Items: []orders.ItemView{}},
			{Order: orders.Order{ID: 1, TotalPrice: decimal.Zero}, Items: []orders.ItemView{}},
		},
	}}
	h := newOrderServer(f)

	w, env := doJSON(t, h, http.MethodGet, "/api/orders?user_id=42", "")
	assert.Equal(t, http.StatusOK, w.Code)
	list := env.Data.([]any)
	require.Len(t, list, 2)
	assert.Equal(t, float64(2), list[0].(map[string]any)["id"], "newest order first")

	w, _ = doJSON(t, h, http.MethodGet, "/api/orders", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
