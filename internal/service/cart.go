package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/manha/pos/internal/cart"
	"github.com/manha/pos/internal/livesync"
	"github.com/manha/pos/internal/models"
)

// CartService mediates between a session's cart and the live catalog
// snapshot. All stock reads go through the snapshot, matching what
// the operator sees on screen.
type CartService struct {
	Carts *cart.Store
	Sync  *livesync.Hub
}

type CartView struct {
	Lines     []cart.Line `json:"lines"`
	Total     int64       `json:"total"`
	ItemCount int         `json:"itemCount"`
}

func (s *CartService) View(sessionID string) CartView {
	c := s.Carts.Get(sessionID)
	return CartView{
		Lines:     c.Lines(),
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
	}
}

// Add puts one unit of the product into the session's cart. Adding an
// out-of-stock product is a silent no-op, same as tapping a disabled
// tile.
func (s *CartService) Add(sessionID string, productID uuid.UUID) error {
	p, ok := s.product(productID)
	if !ok {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	s.Carts.Get(sessionID).Add(p)
	return nil
}

func (s *CartService) Adjust(sessionID string, productID uuid.UUID, delta int) {
	s.Carts.Get(sessionID).Adjust(productID, delta, s.Sync.StockOf)
}

func (s *CartService) SetQuantity(sessionID string, productID uuid.UUID, raw string) {
	s.Carts.Get(sessionID).SetQuantity(productID, raw, s.Sync.StockOf)
}

func (s *CartService) Remove(sessionID string, productID uuid.UUID) {
	s.Carts.Get(sessionID).Remove(productID)
}

func (s *CartService) Clear(sessionID string) {
	s.Carts.Get(sessionID).Clear()
}

func (s *CartService) product(id uuid.UUID) (models.Product, bool) {
	for _, p := range s.Sync.Products() {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
