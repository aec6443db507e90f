// Package cart holds the uncommitted sale being built at the counter.
// Quantities are clamped against the live catalog snapshot, never the
// possibly stale snapshot frozen into the line.
package cart

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/manha/pos/internal/models"
)

// Line is one selected product with the price/name/unit captured at
// the moment it was added.
type Line struct {
	ProductID uuid.UUID   `json:"productId"`
	Name      string      `json:"name"`
	Price     int64       `json:"price"`
	Unit      models.Unit `json:"unit"`
	Qty       int         `json:"qty"`
}

// StockFunc reports the current stock of a product. The second return
// is false when the product is no longer in the catalog; quantity
// clamping is skipped in that case.
type StockFunc func(productID uuid.UUID) (int, bool)

type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(id uuid.UUID) int {
	for i := range c.lines {
		if c.lines[i].ProductID == id {
			return i
		}
	}
	return -1
}

// Add puts one unit of the product into the cart. Out-of-stock
// products are ignored; an existing line grows by one but never past
// the product's stock.
func (c *Cart) Add(p models.Product) {
	if p.Stock <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.find(p.ID); i >= 0 {
		if c.lines[i].Qty >= p.Stock {
			return
		}
		c.lines[i].Qty++
		return
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Unit:      p.Unit,
		Qty:       1,
	})
}

// Remove drops the line unconditionally.
func (c *Cart) Remove(productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.find(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Adjust applies a relative quantity change. A result at or below zero
// removes the line; otherwise the quantity is clamped to live stock
// (which may itself be zero) and floored at one.
func (c *Cart) Adjust(productID uuid.UUID, delta int, stock StockFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(productID)
	if i < 0 {
		return
	}
	newQty := c.lines[i].Qty + delta
	if newQty <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
	c.lines[i].Qty = clampQty(newQty, productID, stock)
}

// SetQuantity applies an absolute quantity from direct input.
// Unparseable input counts as zero. Unlike Adjust, the line is never
// removed here: it is clamped to live stock and floored at one.
func (c *Cart) SetQuantity(productID uuid.UUID, raw string, stock StockFunc) {
	newQty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		newQty = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(productID)
	if i < 0 {
		return
	}
	c.lines[i].Qty = clampQty(newQty, productID, stock)
}

func clampQty(newQty int, productID uuid.UUID, stock StockFunc) int {
	if stock != nil {
		if s, ok := stock(productID); ok && newQty > s {
			return s
		}
	}
	if newQty < 1 {
		return 1
	}
	return newQty
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is recomputed from the current lines on every call.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, l := range c.lines {
		total += l.Price * int64(l.Qty)
	}
	return total
}

func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, l := range c.lines {
		count += l.Qty
	}
	return count
}

func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}
