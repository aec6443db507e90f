// Package livesync keeps the latest full snapshot of each collection
// and fans out whole-snapshot updates to subscribers. Snapshots are
// replaced wholesale on every change, never merged field by field;
// consumers must treat the newest snapshot as the only truth.
package livesync

import (
	"sync"

	"github.com/google/uuid"

	"github.com/manha/pos/internal/models"
)

const (
	CollectionItems = "items"
	CollectionSales = "sales"
)

// Update carries one collection's fresh snapshot.
type Update struct {
	Collection string           `json:"collection"`
	Items      []models.Product `json:"items,omitempty"`
	Sales      []models.Sale    `json:"sales,omitempty"`
}

type Hub struct {
	mu       sync.RWMutex
	products []models.Product
	sales    []models.Sale
	subs     map[uint64]chan Update
	nextID   uint64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan Update)}
}

// SetProducts replaces the catalog snapshot and notifies subscribers.
func (h *Hub) SetProducts(items []models.Product) {
	h.mu.Lock()
	h.products = items
	h.mu.Unlock()
	h.broadcast(Update{Collection: CollectionItems, Items: items})
}

// SetSales replaces the sales snapshot and notifies subscribers.
func (h *Hub) SetSales(sales []models.Sale) {
	h.mu.Lock()
	h.sales = sales
	h.mu.Unlock()
	h.broadcast(Update{Collection: CollectionSales, Sales: sales})
}

func (h *Hub) Products() []models.Product {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.Product, len(h.products))
	copy(out, h.products)
	return out
}

func (h *Hub) Sales() []models.Sale {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.Sale, len(h.sales))
	copy(out, h.sales)
	return out
}

// StockOf reports the live stock for a product, false when it is not
// in the current snapshot.
func (h *Hub) StockOf(productID uuid.UUID) (int, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := range h.products {
		if h.products[i].ID == productID {
			return h.products[i].Stock, true
		}
	}
	return 0, false
}

// Subscribe registers an update channel. The returned cancel func
// must be called when the consumer goes away. Slow consumers miss
// updates rather than blocking publishers; the next snapshot always
// supersedes anything they missed.
func (h *Hub) Subscribe(buffer int) (<-chan Update, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Update, buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) broadcast(u Update) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- u:
		default:
		}
	}
}
