package cart

import (
	"time"

	"github.com/justyn/travelmap-api/internal/catalog"
)

type Item struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ProductID  int64     `json:"product_id"`
	Quantity   int       `json:"quantity"`
	CreateTime time.Time `json:"create_time"`
}

// ItemView is a cart line joined with the live product snapshot, the shape
// every cart endpoint returns and the checkout reads its prices from.
type ItemView struct {
	CartID     int64            `json:"cart_id"`
	Quantity   int              `json:"quantity"`
	CreateTime time.Time        `json:"create_time"`
	Product    catalog.Snapshot `json:"product"`
}
