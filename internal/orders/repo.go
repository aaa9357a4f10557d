package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justyn/travelmap-api/internal/postgres"
)

type Repo struct{ DB *pgxpool.Pool }

const headerCols = `id, order_no, user_id, order_type, total_price, status, create_time,
	contact_name, contact_phone, checkin_date, checkout_date`

// CreateOrder is the one multi-table write in the system: order header, order
// lines and the cart clear commit or roll back together. It deletes exactly
// the cart rows the checkout snapshot was read from; if none are left, a
// concurrent checkout won the race and this one fails with ErrCartConflict
// instead of minting a second order from the same cart.
func (r *Repo) CreateOrder(ctx context.Context, o *Order, items []Item, cartItemIDs []int64) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx,
		`DELETE FROM cart_item WHERE user_id=$1 AND id = ANY($2)`, o.UserID, cartItemIDs)
	if err != nil {
		return 0, err
	}
	if ct.RowsAffected() == 0 {
		return 0, ErrCartConflict
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO order_main (order_no, user_id, order_type, total_price, status,
		                        contact_name, contact_phone, checkin_date, checkout_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		o.OrderNo, o.UserID, o.OrderType, o.TotalPrice, o.Status,
		o.ContactName, o.ContactPhone, o.CheckinDate, o.CheckoutDate,
	).Scan(&id)
	if postgres.IsUniqueViolation(err, "order_no") {
		return 0, ErrOrderNoTaken
	}
	if err != nil {
		return 0, err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_item (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)`,
			id, it.ProductID, it.Quantity, it.Price); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func scanHeader(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OrderNo, &o.UserID, &o.OrderType, &o.TotalPrice,
		&o.Status, &o.CreateTime, &o.ContactName, &o.ContactPhone,
		&o.CheckinDate, &o.CheckoutDate)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) GetOrder(ctx context.Context, orderID int64) (*View, error) {
	o, err := scanHeader(r.DB.QueryRow(ctx,
		`SELECT `+headerCols+` FROM order_main WHERE id=$1`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	byOrder, err := r.itemsFor(ctx, []int64{orderID})
	if err != nil {
		return nil, err
	}
	return &View{Order: *o, Items: byOrder[orderID]}, nil
}

// ListByUser returns the user's orders newest-first with items attached. Two
// queries total regardless of how many orders come back: one for the headers,
// one batched fetch for every line of every header.
func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]View, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+headerCols+`
		FROM order_main
		WHERE user_id=$1
		ORDER BY create_time DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []View{}
	ids := []int64{}
	for rows.Next() {
		o, err := scanHeader(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, View{Order: *o})
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return views, nil
	}

	byOrder, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].Items = byOrder[views[i].ID]
	}
	return views, nil
}

func (r *Repo) itemsFor(ctx context.Context, orderIDs []int64) (map[int64][]ItemView, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT oi.order_id, oi.id, oi.quantity, oi.price, p.id, p.name, p.cover_image, p.type
		FROM order_item oi
		JOIN product p ON oi.product_id = p.id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]ItemView, len(orderIDs))
	for rows.Next() {
		var orderID int64
		var it ItemView
		if err := rows.Scan(&orderID, &it.OrderItemID, &it.Quantity, &it.Price,
			&it.Product.ID, &it.Product.Name, &it.Product.CoverImage, &it.Product.Type); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], it)
	}
	for _, id := range orderIDs {
		if out[id] == nil {
			out[id] = []ItemView{}
		}
	}
	return out, rows.Err()
}
