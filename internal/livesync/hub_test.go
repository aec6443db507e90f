package livesync

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/manha/pos/internal/models"
)

func TestSnapshotReplacedWholesale(t *testing.T) {
	h := NewHub()

	first := []models.Product{{ID: uuid.New(), Name: "Rice", Stock: 5}}
	second := []models.Product{{ID: uuid.New(), Name: "Milk", Stock: 2}}

	h.SetProducts(first)
	h.SetProducts(second)

	got := h.Products()
	require.Len(t, got, 1)
	require.Equal(t, "Milk", got[0].Name)
}

func TestStockOf(t *testing.T) {
	h := NewHub()
	p := models.Product{ID: uuid.New(), Stock: 7}
	h.SetProducts([]models.Product{p})

	stock, ok := h.StockOf(p.ID)
	require.True(t, ok)
	require.Equal(t, 7, stock)

	_, ok = h.StockOf(uuid.New())
	require.False(t, ok)
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe(2)
	defer cancel()

	h.SetProducts([]models.Product{{ID: uuid.New(), Name: "Rice"}})
	u := <-ch
	require.Equal(t, CollectionItems, u.Collection)
	require.Len(t, u.Items, 1)

	h.SetSales([]models.Sale{{OrderNumber: "ORD-100001"}})
	u = <-ch
	require.Equal(t, CollectionSales, u.Collection)
	require.Len(t, u.Sales, 1)
}

func TestSlowSubscriberDropsNotBlocks(t *testing.T) {
	h := NewHub()
	_, cancel := h.Subscribe(1)
	defer cancel()

	// Buffer of one, three updates: must not deadlock.
	for i := 0; i < 3; i++ {
		h.SetProducts([]models.Product{{ID: uuid.New()}})
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	h := NewHub()
	_, cancel := h.Subscribe(1)
	cancel()
	cancel()

	h.SetProducts(nil)
}

func TestProductsReturnsCopy(t *testing.T) {
	h := NewHub()
	h.SetProducts([]models.Product{{ID: uuid.New(), Name: "Rice"}})

	got := h.Products()
	got[0].Name = "mutated"

	require.Equal(t, "Rice", h.Products()[0].Name)
}
