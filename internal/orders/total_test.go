package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/justyn/travelmap-api/internal/cart"
	"github.com/justyn/travelmap-api/internal/catalog"
)

func line(price string, qty int) cart.ItemView {
	return cart.ItemView{
		Quantity: qty,
		Product:  catalog.Snapshot{Price: decimal.RequireFromString(price)},
	}
}

func TestTotal(t *testing.T) {
	total := Total([]cart.ItemView{line("60.00", 2), line("688.00", 1)})
	assert.True(t, total.Equal(decimal.RequireFromString("808")), "got %s", total)
}

func TestTotalEmpty(t *testing.T) {
	assert.True(t, Total(nil).IsZero())
}

func TestTotalNoFloatDrift(t *testing.T) {
	// 0.1 * 3 would already drift with float64 accumulation
	total := Total([]cart.ItemView{line("0.10", 3)})
	assert.Equal(t, "0.30", total.StringFixed(2))
}
