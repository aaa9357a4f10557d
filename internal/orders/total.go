package orders

import (
	"github.com/shopspring/decimal"

	"github.com/justyn/travelmap-api/internal/cart"
)

// Total sums price x quantity over the cart lines. Decimal all the way down;
// float drift on money is not acceptable here.
func Total(lines []cart.ItemView) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
