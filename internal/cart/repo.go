package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justyn/travelmap-api/internal/postgres"
)

var (
	ErrInvalidArgument = errors.New("user_id and product_id are required")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrNotFound        = errors.New("cart item not found")
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
)

type Repo struct{ DB *pgxpool.Pool }

const viewCols = `c.id, c.quantity, c.create_time,
	p.id, p.name, p.cover_image, p.price, p.type, p.stock, p.hotel_address`

func scanView(row pgx.Row) (*ItemView, error) {
	var v ItemView
	err := row.Scan(&v.CartID, &v.Quantity, &v.CreateTime,
		&v.Product.ID, &v.Product.Name, &v.Product.CoverImage, &v.Product.Price,
		&v.Product.Type, &v.Product.Stock, &v.Product.HotelAddress)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// AddItem inserts a cart line, or bumps the quantity when the user already has
// the product in the cart. At most one row per (user, product) ever exists;
// the merge rides on the unique index, so concurrent adds cannot duplicate.
func (r *Repo) AddItem(ctx context.Context, userID, productID int64, quantity int) (*ItemView, error) {
	if userID <= 0 || productID <= 0 {
		return nil, ErrInvalidArgument
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO cart_item (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_item.quantity + EXCLUDED.quantity
		RETURNING id`,
		userID, productID, quantity,
	).Scan(&id)
	switch {
	case postgres.IsForeignKeyViolation(err, "product"):
		return nil, ErrProductNotFound
	case postgres.IsForeignKeyViolation(err, "user"):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, err
	}
	return r.itemView(ctx, id)
}

// UpdateQuantity overwrites the quantity unconditionally (no merge).
func (r *Repo) UpdateQuantity(ctx context.Context, cartItemID int64, quantity int) (*ItemView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	ct, err := r.DB.Exec(ctx, `UPDATE cart_item SET quantity=$2 WHERE id=$1`, cartItemID, quantity)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.itemView(ctx, cartItemID)
}

// RemoveItem deletes the line and returns its pre-delete snapshot.
func (r *Repo) RemoveItem(ctx context.Context, cartItemID int64) (*ItemView, error) {
	v, err := r.itemView(ctx, cartItemID)
	if err != nil {
		return nil, err
	}
	ct, err := r.DB.Exec(ctx, `DELETE FROM cart_item WHERE id=$1`, cartItemID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return v, nil
}

// ListItems returns the user's cart newest-first, id as tiebreak for lines
// created in the same instant.
func (r *Repo) ListItems(ctx context.Context, userID int64) ([]ItemView, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+viewCols+`
		FROM cart_item c
		JOIN product p ON c.product_id = p.id
		WHERE c.user_id = $1
		ORDER BY c.create_time DESC, c.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ItemView{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// ClearForUser empties the cart. Clearing an already-empty cart is fine.
func (r *Repo) ClearForUser(ctx context.Context, userID int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_item WHERE user_id=$1`, userID)
	return err
}

func (r *Repo) itemView(ctx context.Context, id int64) (*ItemView, error) {
	v, err := scanView(r.DB.QueryRow(ctx, `
		SELECT `+viewCols+`
		FROM cart_item c
		JOIN product p ON c.product_id = p.id
		WHERE c.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}
