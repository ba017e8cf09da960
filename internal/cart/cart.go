// Package cart holds the lines a customer intends to order. Carts live in
// memory only and belong to a single browsing session.
package cart

import (
	"errors"
	"sync"

	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/shopspring/decimal"
)

// ErrEmpty is returned when checking out a cart without lines
var ErrEmpty = errors.New("cart is empty")

// Line is a product snapshot with a positive quantity
type Line struct {
	Product  model.Product `json:"produto"`
	Quantity int           `json:"quantidade"`
}

// Subtotal is unit price times quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// New returns an empty cart
func New() *Cart {
	return &Cart{}
}

// Add increments the product's line or inserts it with quantity 1.
// Stock is not checked here; the backend is the source of truth.
func (c *Cart) Add(p model.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(p.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
}

// ChangeQuantity adjusts a line by delta, clamping at zero. A line that
// reaches zero is removed. Unknown products are ignored.
func (c *Cart) ChangeQuantity(productID uint, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	qty := c.lines[i].Quantity + delta
	if qty <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
	c.lines[i].Quantity = qty
}

// Total is the sum of every line subtotal
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Count is the number of units across all lines (the cart badge)
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns a copy of the current lines in insertion order
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// OrderLines converts the cart into backend order items
func (c *Cart) OrderLines() []model.OrderLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.OrderLine, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, model.OrderLine{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	return out
}

// Clear drops every line
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Summary is the read model returned to the storefront
type Summary struct {
	Lines []Line `json:"itens"`
	Count int    `json:"quantidade"`
	Total string `json:"total"`
}

// Summary snapshots the cart for display, total rendered with two places
func (c *Cart) Summary() Summary {
	lines := c.Lines()
	count := 0
	total := decimal.Zero
	for _, l := range lines {
		count += l.Quantity
		total = total.Add(l.Subtotal())
	}
	return Summary{
		Lines: lines,
		Count: count,
		Total: total.StringFixed(2),
	}
}

func (c *Cart) indexOf(productID uint) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}
