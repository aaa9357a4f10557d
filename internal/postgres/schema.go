package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables on startup when they do not exist yet.
// The unique index on cart_item(user_id, product_id) backs the add-to-cart
// merge upsert, and order_main.order_no UNIQUE backs the collision retry.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          BIGSERIAL PRIMARY KEY,
		login_type  TEXT NOT NULL DEFAULT 'LOCAL',
		username    TEXT UNIQUE,
		password    TEXT,
		phone       TEXT,
		email       TEXT,
		nickname    TEXT,
		avatar_url  TEXT,
		wx_openid   TEXT UNIQUE,
		create_time TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS scenic (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT,
		city        TEXT,
		latitude    DOUBLE PRECISION,
		longitude   DOUBLE PRECISION,
		cover_image TEXT,
		create_time TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS product (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		description   TEXT,
		cover_image   TEXT,
		price         NUMERIC(10,2) NOT NULL,
		stock         INT NOT NULL DEFAULT 0,
		type          TEXT NOT NULL,
		scenic_id     BIGINT REFERENCES scenic(id),
		hotel_address TEXT,
		create_time   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS favorite (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id),
		target_id   BIGINT NOT NULL,
		target_type TEXT NOT NULL,
		create_time TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, target_id, target_type)
	)`,
	`CREATE TABLE IF NOT EXISTS visited (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id),
		scenic_id  BIGINT NOT NULL REFERENCES scenic(id),
		visit_date TEXT NOT NULL,
		rating     INT
	)`,
	`CREATE TABLE IF NOT EXISTS trip_plan (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id),
		title       TEXT,
		start_date  TEXT,
		end_date    TEXT,
		source      TEXT,
		content     TEXT,
		create_time TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS cart_item (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id),
		product_id  BIGINT NOT NULL REFERENCES product(id),
		quantity    INT NOT NULL CHECK (quantity > 0),
		create_time TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS order_main (
		id            BIGSERIAL PRIMARY KEY,
		order_no      TEXT NOT NULL UNIQUE,
		user_id       BIGINT NOT NULL REFERENCES users(id),
		order_type    TEXT NOT NULL DEFAULT 'PRODUCT',
		total_price   NUMERIC(10,2) NOT NULL,
		status        TEXT NOT NULL DEFAULT 'CREATED',
		create_time   TIMESTAMPTZ NOT NULL DEFAULT now(),
		contact_name  TEXT,
		contact_phone TEXT,
		checkin_date  TEXT,
		checkout_date TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS order_item (
		id         BIGSERIAL PRIMARY KEY,
		order_id   BIGINT NOT NULL REFERENCES order_main(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES product(id),
		quantity   INT NOT NULL,
		price      NUMERIC(10,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cart_item_user ON cart_item(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_main_user ON order_main(user_id, create_time DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_order_item_order ON order_item(order_id)`,
}

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
