package order

import "github.com/crmlabs/order/internal/service/models/orderitem"

// PriceItems recomputes every item subtotal as quantity * unit price and
// returns the order total. Client-supplied subtotals are never trusted.
func PriceItems(items []orderitem.OrderItem) ([]orderitem.OrderItem, float64) {
	total := 0.0
	for i := range items {
		items[i].Subtotal = float64(items[i].Quantity) * items[i].UnitPrice
		total += items[i].Subtotal
	}

	return items, total
}
