package orders

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

// The only state this core models. Cancellation and fulfilment transitions
// belong to a later iteration.
const StatusCreated Status = "CREATED"

var (
	ErrMissingUser  = errors.New("user_id is required")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrNotFound     = errors.New("order not found")
	ErrOrderNoTaken = errors.New("order number already taken")
	ErrCartConflict = errors.New("cart already checked out")
)

type Order struct {
	ID           int64           `json:"id"`
	OrderNo      string          `json:"order_no"`
	UserID       int64           `json:"user_id"`
	OrderType    string          `json:"order_type"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Status       Status          `json:"status"`
	CreateTime   time.Time       `json:"create_time"`
	ContactName  *string         `json:"contact_name"`
	ContactPhone *string         `json:"contact_phone"`
	CheckinDate  *string         `json:"checkin_date"`
	CheckoutDate *string         `json:"checkout_date"`
}

// Item is one order line. Price is the product's price frozen at creation
// time; later catalog changes never touch it.
type Item struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// ProductBrief carries the display fields joined out of the catalog as they
// exist at read time.
type ProductBrief struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	CoverImage *string `json:"cover_image"`
	Type       string  `json:"type"`
}

type ItemView struct {
	OrderItemID int64           `json:"order_item_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Product     ProductBrief    `json:"product"`
}

// View is the composed order shape both the list and detail endpoints return.
type View struct {
	Order
	Items []ItemView `json:"items"`
}

type CheckoutInput struct {
	UserID       int64
	ContactName  *string
	ContactPhone *string
	OrderType    string
	CheckinDate  *string
	CheckoutDate *string
}
