package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyn/travelmap-api/internal/cart"
	"github.com/justyn/travelmap-api/internal/catalog"
	"github.com/justyn/travelmap-api/internal/orders"
	"github.com/justyn/travelmap-api/internal/postgres"
)

// These tests exercise the SQL-level invariants (merge upsert, checkout
// atomicity, collision retry) against a real database. They skip unless
// TEST_POSTGRES_DSN points at a disposable postgres.

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	pool, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.EnsureSchema(ctx, pool))

	_, err = pool.Exec(ctx, `TRUNCATE order_item, order_main, cart_item, visited,
		favorite, trip_plan, product, scenic, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, username string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (login_type, username, nickname) VALUES ('LOCAL', $1, $1) RETURNING id`,
		username).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, name, price, ptype string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO product (name, price, stock, type) VALUES ($1, $2, 100, $3) RETURNING id`,
		name, price, ptype).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestCartMergeInvariant(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool, "merger")
	product := seedProduct(t, pool, "postcards", "60.00", catalog.TypeTravel)
	repo := &cart.Repo{DB: pool}

	v1, err := repo.AddItem(ctx, user, product, 2)
	require.NoError(t, err)
	v2, err := repo.AddItem(ctx, user, product, 3)
	require.NoError(t, err)

	assert.Equal(t, v1.CartID, v2.CartID, "second add must merge, not insert")
	assert.Equal(t, 5, v2.Quantity)

	items, err := repo.ListItems(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartAddUnknownProduct(t *testing.T) {
	pool := testPool(t)
	user := seedUser(t, pool, "ghostbuyer")
	repo := &cart.Repo{DB: pool}

	_, err := repo.AddItem(context.Background(), user, 9999, 1)
	assert.ErrorIs(t, err, cart.ErrProductNotFound)
}

func TestCartListNewestFirst(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool, "lister")
	p1 := seedProduct(t, pool, "first", "10.00", catalog.TypeTravel)
	p2 := seedProduct(t, pool, "second", "20.00", catalog.TypeTicket)
	repo := &cart.Repo{DB: pool}

	_, err := repo.AddItem(ctx, user, p1, 1)
	require.NoError(t, err)
	_, err = repo.AddItem(ctx, user, p2, 1)
	require.NoError(t, err)

	items, err := repo.ListItems(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Product.Name)
	assert.Equal(t, "first", items[1].Product.Name)
}

func TestCartRemoveReturnsSnapshot(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool, "remover")
	product := seedProduct(t, pool, "snow globe", "35.50", catalog.TypeTravel)
	repo := &cart.Repo{DB: pool}

	added, err := repo.AddItem(ctx, user, product, 4)
	require.NoError(t, err)

	removed, err := repo.RemoveItem(ctx, added.CartID)
	require.NoError(t, err)
	assert.Equal(t, "snow globe", removed.Product.Name)
	assert.Equal(t, 4, removed.Quantity)

	items, err := repo.ListItems(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = repo.RemoveItem(ctx, added.CartID)
	assert.ErrorIs(t, err, cart.ErrNotFound)
}

func TestCartUpdateOverwrites(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool, "updater")
	product := seedProduct(t, pool, "ticket", "128.00", catalog.TypeTicket)
	repo := &cart.Repo{DB: pool}

	added, err := repo.AddItem(ctx, user, product, 2)
	require.NoError(t, err)

	v, err := repo.UpdateQuantity(ctx, added.CartID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v.Quantity, "update overwrites, never merges")

	_, err = repo.UpdateQuantity(ctx, added.CartID+100, 1)
	assert.ErrorIs(t, err, cart.ErrNotFound)
}

func TestCartClearIdempotent(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool, "clearer")
	repo := &cart.Repo{DB: pool}

	require.NoError(t, repo.ClearForUser(ctx, user))
	require.NoError(t, repo.ClearForUser(ctx, user))
}

func newComposer(pool *pgxpool.Pool) (*orders.Composer, *cart.Repo, *orders.Repo) {
	cartRepo := &cart.Repo{DB: pool}
	orderRepo := &orders.Repo{DB: pool}
	return &orders.Composer{
		Cart:    cartRepo,
		Store:   orderRepo,
		Reader:  orderRepo,
		Service: "travelmap-api-test",
	}, cartRepo, orderRepo
}

func TestCheckoutRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool, "shopper")
	postcard := seedProduct(t, pool, "postcards", "60.00", catalog.TypeTravel)
	hotel := seedProduct(t, pool, "lakeside hotel", "688.00", catalog.TypeHotel)
	composer, cartRepo, orderRepo := newComposer(pool)

	_, err := cartRepo.AddItem(ctx, user, postcard, 2)
	require.NoError(t, err)
	_, err = cartRepo.AddItem(ctx, user, hotel, 1)
	require.NoError(t, err)

	view, err := composer.CreateOrder(ctx, orders.CheckoutInput{UserID: user})
	require.NoError(t, err)

	assert.True(t, view.TotalPrice.Equal(decimal.RequireFromString("808")), "got %s", view.TotalPrice)
	assert.Equal(t, orders.StatusCreated, view.Status)
	require.Len(t, view.Items, 2)

	// cart cleared exactly once
	items, err := cartRepo.ListItems(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, items)

	// prices stay frozen when the catalog moves on
	_, err = pool.Exec(ctx, `UPDATE product SET price = 999.99 WHERE id = $1`, postcard)
	require.NoError(t, err)

	reread, err := orderRepo.GetOrder(ctx, view.ID)
	require.NoError(t, err)
	for _, it := range reread.Items {
		if it.Product.ID == postcard {
			assert.Equal(t, "60.00", it.Price.StringFixed(2))
			assert.Equal(t, 2, it.Quantity)
		}
	}
	assert.True(t, reread.TotalPrice.Equal(view.TotalPrice))
}

func TestCheckoutEmptyCart(t *testing.T) {
	pool := testPool(t)
	user := seedUser(t, pool, "emptyhanded")
	composer, _, _ := newComposer(pool)

	_, err := composer.CreateOrder(context.Background(), orders.CheckoutInput{UserID: user})
	assert.ErrorIs(t, err, orders.ErrEmptyCart)
}

func TestCheckoutAtomicityOnCollision(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool, "unlucky")
	other := seedUser(t, pool, "lucky")
	product := seedProduct(t, pool, "ticket", "128.00", catalog.TypeTicket)
	composer, cartRepo, _ := newComposer(pool)

	// occupy a fixed order number, then force every attempt onto it
	taken := "20260830120000ffffff"
	otherComposer, otherCart, _ := newComposer(pool)
	otherComposer.OrderNo = func() string { return taken }
	_, err := otherCart.AddItem(ctx, other, product, 1)
	require.NoError(t, err)
	_, err = otherComposer.CreateOrder(ctx, orders.CheckoutInput{UserID: other})
	require.NoError(t, err)

	_, err = cartRepo.AddItem(ctx, user, product, 3)
	require.NoError(t, err)
	composer.OrderNo = func() string { return taken }

	_, err = composer.CreateOrder(ctx, orders.CheckoutInput{UserID: user})
	require.ErrorIs(t, err, orders.ErrOrderNoTaken)

	// every attempt rolled back: no order rows for the user, cart untouched
	var n int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM order_main WHERE user_id=$1`, user).Scan(&n))
	assert.Zero(t, n)

	items, err := cartRepo.ListItems(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestCheckoutRetriesPastCollision(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool, "retrier")
	product := seedProduct(t, pool, "ticket", "128.00", catalog.TypeTicket)
	composer, cartRepo, _ := newComposer(pool)

	taken := "20260830120000eeeeee"
	_, err := pool.Exec(ctx, `
		INSERT INTO order_main (order_no, user_id, order_type, total_price, status)
		VALUES ($1, $2, 'PRODUCT', 1.00, 'CREATED')`, taken, user)
	require.NoError(t, err)

	nos := []string{taken, "20260830120001eeeeee"}
	i := 0
	composer.OrderNo = func() string { no := nos[i]; i++; return no }

	_, err = cartRepo.AddItem(ctx, user, product, 1)
	require.NoError(t, err)

	view, err := composer.CreateOrder(ctx, orders.CheckoutInput{UserID: user})
	require.NoError(t, err)
	assert.Equal(t, nos[1], view.OrderNo)
}

func TestCheckoutRollsBackOnLineFault(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool, "faulted")
	product := seedProduct(t, pool, "ticket", "128.00", catalog.TypeTicket)
	_, cartRepo, orderRepo := newComposer(pool)

	added, err := cartRepo.AddItem(ctx, user, product, 2)
	require.NoError(t, err)

	// the dangling product id makes the line insert fail after the header and
	// the cart delete already ran inside the tx
	o := &orders.Order{UserID: user, OrderNo: orders.NewOrderNo(), OrderType: "PRODUCT",
		TotalPrice: decimal.RequireFromString("256.00"), Status: orders.StatusCreated}
	_, err = orderRepo.CreateOrder(ctx, o,
		[]orders.Item{{ProductID: 9999, Quantity: 2, Price: decimal.RequireFromString("128.00")}},
		[]int64{added.CartID})
	require.Error(t, err)

	var n int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM order_main WHERE user_id=$1`, user).Scan(&n))
	assert.Zero(t, n, "header must not survive the rollback")

	items, err := cartRepo.ListItems(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 1, "cart must be untouched after the rollback")
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCheckoutLosesRaceOnConsumedCart(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool, "racer")
	product := seedProduct(t, pool, "ticket", "128.00", catalog.TypeTicket)
	composer, cartRepo, orderRepo := newComposer(pool)

	added, err := cartRepo.AddItem(ctx, user, product, 1)
	require.NoError(t, err)

	// first checkout wins and consumes the cart snapshot
	_, err = composer.CreateOrder(ctx, orders.CheckoutInput{UserID: user})
	require.NoError(t, err)

	// a writer still holding the stale snapshot must fail, not double-order
	o := &orders.Order{UserID: user, OrderNo: orders.NewOrderNo(), OrderType: "PRODUCT",
		TotalPrice: decimal.RequireFromString("128.00"), Status: orders.StatusCreated}
	_, err = orderRepo.CreateOrder(ctx, o,
		[]orders.Item{{ProductID: product, Quantity: 1, Price: decimal.RequireFromString("128.00")}},
		[]int64{added.CartID})
	assert.ErrorIs(t, err, orders.ErrCartConflict)
}

func TestListOrdersNewestFirstWithItems(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := seedUser(t, pool, "collector")
	product := seedProduct(t, pool, "ticket", "128.00", catalog.TypeTicket)
	composer, cartRepo, orderRepo := newComposer(pool)

	var orderIDs []int64
	for i := 0; i < 3; i++ {
		_, err := cartRepo.AddItem(ctx, user, product, i+1)
		require.NoError(t, err)
		view, err := composer.CreateOrder(ctx, orders.CheckoutInput{UserID: user})
		require.NoError(t, err)
		orderIDs = append(orderIDs, view.ID)
	}

	views, err := orderRepo.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, orderIDs[2], views[0].ID, "newest first")
	for i, v := range views {
		require.Len(t, v.Items, 1, "order %d", i)
		assert.Equal(t, 3-i, v.Items[0].Quantity)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	pool := testPool(t)
	_, _, orderRepo := newComposer(pool)

	_, err := orderRepo.GetOrder(context.Background(), 424242)
	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestOrderNoUniqueAcrossUsers(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	product := seedProduct(t, pool, "ticket", "128.00", catalog.TypeTicket)
	composer, cartRepo, _ := newComposer(pool)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		u := seedUser(t, pool, fmt.Sprintf("flock%d", i))
		_, err := cartRepo.AddItem(ctx, u, product, 1)
		require.NoError(t, err)
		view, err := composer.CreateOrder(ctx, orders.CheckoutInput{UserID: u})
		require.NoError(t, err)
		require.False(t, seen[view.OrderNo], "order_no %s repeated", view.OrderNo)
		seen[view.OrderNo] = true
	}
}
