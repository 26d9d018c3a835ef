package cart

import (
	"math"
	"time"
)

// Line is one customer-product row in the active cart. Price and stock limit
// are joined from the product at read time, never stored on the row.
type Line struct {
	CartID     string  `json:"cart_id"`
	CustomerID uint    `json:"customer_id"`
	ProductID  uint    `json:"product_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	StockLimit int     `json:"stock_limit"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Subtotal is quantity x unit price, rounded to 2 decimal places.
func (l Line) Subtotal() float64 {
	return Round2(float64(l.Quantity) * l.UnitPrice)
}

// MutationResult carries the server-authoritative numbers returned with every
// successful line mutation: the mutated line's subtotal and the customer's
// total item count across the cart.
type MutationResult struct {
	Subtotal  float64
	CartCount int
}

type UpdateParams struct {
	CustomerID uint
	CartID     string
	Quantity   int
}

type RemoveParams struct {
	CustomerID uint
	CartID     string
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
