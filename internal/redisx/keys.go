package redisx

import "time"

const (
	// Cache order detail JSON: order:detail:{order_id}. Orders are immutable
	// after creation, so a short TTL only bounds staleness of the joined
	// product display fields.
	KeyOrderDetail = "order:detail:%d"

	// Cache the scenic map point list (hot read, small payload): scenic:map
	KeyScenicMap = "scenic:map"
)

var (
	TTLOrderDetail = 10 * time.Minute
	TTLScenicMap   = 5 * time.Minute
)
