package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/manha/pos/internal/cache"
	"github.com/manha/pos/internal/cart"
	"github.com/manha/pos/internal/events"
	"github.com/manha/pos/internal/livesync"
	"github.com/manha/pos/internal/lock"
	"github.com/manha/pos/internal/logging"
	"github.com/manha/pos/internal/models"
	"github.com/manha/pos/internal/reporting"
	"github.com/manha/pos/internal/repo"
	"github.com/manha/pos/internal/transport"
)

const (
	DefaultCustomerName = "Walk-in Customer"

	// Order numbers are random six-digit labels; on a collision with
	// the unique index the number is regenerated a few times before
	// giving up.
	orderNumberAttempts = 5
)

// CheckoutService turns a session's cart into a durable sale and
// reconciles the stock deductions, all inside one storage transaction.
type CheckoutService struct {
	Repo     *repo.GormRepo
	Carts    *cart.Store
	Lock     *lock.Service
	Cache    *cache.Cache
	Producer *events.Producer
	Sync     *livesync.Hub

	// Now is the clock used for order metadata; nil means time.Now.
	Now func() time.Time
}

func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, req transport.CheckoutRequest) (*models.Sale, error) {
	l := logging.FromContext(ctx).With("op", "checkout")

	if s.Lock.Locked() {
		return nil, fmt.Errorf("%w: unlock to process sales", ErrLocked)
	}

	c := s.Carts.Get(sessionID)
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]models.SaleItem, len(lines))
	deductions := make([]repo.StockDeduction, len(lines))
	for i, ln := range lines {
		items[i] = models.SaleItem{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			Price:     ln.Price,
			Qty:       ln.Qty,
			Unit:      ln.Unit,
		}
		deductions[i] = repo.StockDeduction{ProductID: ln.ProductID, Qty: ln.Qty}
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		name = DefaultCustomerName
	}

	now := s.now()
	createdAt := now.UTC()
	sale := &models.Sale{
		OrderNumber:    genOrderNumber(),
		Items:          items,
		CreatedAt:      &createdAt,
		DateStr:        now.Format("1/2/2006"),
		TimeStr:        now.Format("3:04 PM"),
		CustomerName:   name,
		CustomerMobile: strings.TrimSpace(req.CustomerMobile),
	}
	sale.Recompute()

	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		err = s.Repo.CreateSale(ctx, sale, deductions)
		if err == nil {
			break
		}
		if !isDuplicateKey(err) {
			return nil, fmt.Errorf("persist sale: %w", err)
		}
		l.Warn("order number collision, regenerating", "orderNumber", sale.OrderNumber)
		sale.OrderNumber = genOrderNumber()
	}
	if err != nil {
		return nil, fmt.Errorf("persist sale: %w", err)
	}

	c.Clear()

	event := map[string]any{
		"type":        "sale_created",
		"saleID":      sale.ID,
		"orderNumber": sale.OrderNumber,
		"total":       sale.Total,
		"itemCount":   sale.ItemCount,
	}
	if perr := s.Producer.PublishEvent(ctx, events.TopicSales, sale.ID.String(), event); perr != nil {
		l.Error("kafka publish error", "error", perr)
	}
	if cerr := s.Cache.Delete(ctx, productsCacheKey); cerr != nil {
		l.Warn("product cache invalidation failed", "error", cerr)
	}
	s.refreshSnapshots(ctx)

	l.Info("checkout complete", "orderNumber", sale.OrderNumber, "total", models.FormatMoney(sale.Total))
	return sale, nil
}

// refreshSnapshots replays the post-checkout state into the hub so
// the receipt view reads the just-written sale without waiting for a
// sync round trip.
func (s *CheckoutService) refreshSnapshots(ctx context.Context) {
	l := logging.FromContext(ctx)

	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		l.Error("catalog snapshot refresh failed", "error", err)
	} else {
		s.Sync.SetProducts(items)
	}

	sales, err := s.Repo.ListSales(ctx)
	if err != nil {
		l.Error("sales snapshot refresh failed", "error", err)
		return
	}
	reporting.SortNewestFirst(sales)
	s.Sync.SetSales(sales)
}

func genOrderNumber() string {
	return fmt.Sprintf("ORD-%d", 100000+rand.IntN(900000))
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

func (s *CheckoutService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
