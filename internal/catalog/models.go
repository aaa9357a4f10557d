package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeTravel = "TRAVEL"
	TypeHotel  = "HOTEL"
	TypeTicket = "TICKET"
)

type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	CoverImage   *string         `json:"cover_image"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	Type         string          `json:"type"` // TRAVEL | HOTEL | TICKET
	ScenicID     *int64          `json:"scenic_id"`
	HotelAddress *string         `json:"hotel_address"`
	CreateTime   time.Time       `json:"create_time"`
}

// Snapshot is the slice of product fields denormalized into cart and order
// responses. Price here is display data; order lines carry their own frozen copy.
type Snapshot struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	CoverImage   *string         `json:"cover_image"`
	Price        decimal.Decimal `json:"price"`
	Type         string          `json:"type"`
	Stock        int             `json:"stock"`
	HotelAddress *string         `json:"hotel_address"`
}
