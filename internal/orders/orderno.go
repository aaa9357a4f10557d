package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderNo builds a human-readable order number: a second-resolution time
// prefix plus six random hex chars. The prefix alone is not unique under
// concurrent checkouts, so order_main.order_no carries a UNIQUE constraint
// and the composer retries with a fresh number on collision.
func NewOrderNo() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return time.Now().Format("20060102150405") + suffix
}
