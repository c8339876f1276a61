package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crmlabs/order/internal/service/models/order"
	"github.com/crmlabs/order/internal/service/models/orderitem"
)

func TestPriceItems(t *testing.T) {
	t.Run("should compute subtotals and total", func(t *testing.T) {
		items := []orderitem.OrderItem{
			{ProductID: "p1", Quantity: 2, UnitPrice: 9.99},
			{ProductID: "p2", Quantity: 1, UnitPrice: 5.00},
		}

		priced, total := order.PriceItems(items)

		assert.InDelta(t, 19.98, priced[0].Subtotal, 1e-9)
		assert.InDelta(t, 5.00, priced[1].Subtotal, 1e-9)
		assert.InDelta(t, 24.98, total, 1e-9)
	})

	t.Run("should overwrite client-supplied subtotals", func(t *testing.T) {
		items := []orderitem.OrderItem{
			{ProductID: "p1", Quantity: 3, UnitPrice: 2.50, Subtotal: 999.99},
		}

		priced, total := order.PriceItems(items)

		assert.InDelta(t, 7.50, priced[0].Subtotal, 1e-9)
		assert.InDelta(t, 7.50, total, 1e-9)
	})

	t.Run("should return zero total for no items", func(t *testing.T) {
		priced, total := order.PriceItems(nil)

		assert.Empty(t, priced)
		assert.Zero(t, total)
	})
}
