package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/manha/pos/internal/events"
	"github.com/manha/pos/internal/livesync"
	"github.com/manha/pos/internal/lock"
	"github.com/manha/pos/internal/logging"
	"github.com/manha/pos/internal/models"
	"github.com/manha/pos/internal/reporting"
	"github.com/manha/pos/internal/repo"
	"github.com/manha/pos/internal/transport"
)

// SalesService serves the sales history screen: filtered listings,
// receipt lookups, and the edit/delete maintenance operations.
type SalesService struct {
	Repo     *repo.GormRepo
	Lock     *lock.Service
	Producer *events.Producer
	Sync     *livesync.Hub
}

type SalesPage struct {
	Sales   []models.Sale     `json:"sales"`
	Summary reporting.Summary `json:"summary"`
}

// List applies the search and period filters to the full history and
// returns the matches newest first, together with their totals.
func (s *SalesService) List(ctx context.Context, q reporting.Query) (*SalesPage, error) {
	sales, err := s.Repo.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	matched := reporting.Filter(sales, q)
	reporting.SortNewestFirst(matched)
	return &SalesPage{Sales: matched, Summary: reporting.Summarize(matched)}, nil
}

func (s *SalesService) Get(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.Repo.GetSale(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("sale %s: %w", id, ErrNotFound)
	}
	return sale, err
}

// Update edits a recorded sale. Totals are always recomputed from the
// item lines, so a caller cannot store a total that disagrees with
// them.
func (s *SalesService) Update(ctx context.Context, id uuid.UUID, req transport.UpdateSaleRequest) (*models.Sale, error) {
	if s.Lock.Locked() {
		return nil, fmt.Errorf("%w: unlock to edit sales", ErrLocked)
	}

	sale, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.OrderNumber != nil {
		sale.OrderNumber = *req.OrderNumber
	}
	if req.DateStr != nil {
		sale.DateStr = *req.DateStr
	}
	if req.TimeStr != nil {
		sale.TimeStr = *req.TimeStr
	}
	if req.CustomerName != nil {
		sale.CustomerName = *req.CustomerName
	}
	if req.CustomerMobile != nil {
		sale.CustomerMobile = *req.CustomerMobile
	}
	if req.Items != nil {
		items := make([]models.SaleItem, len(*req.Items))
		for i, in := range *req.Items {
			if in.Qty <= 0 {
				return nil, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
			}
			if in.Price < 0 {
				return nil, fmt.Errorf("%w: item price cannot be negative", ErrValidation)
			}
			items[i] = models.SaleItem{
				ProductID: in.ProductID,
				Name:      in.Name,
				Price:     in.Price,
				Qty:       in.Qty,
				Unit:      models.Unit(in.Unit),
			}
		}
		sale.Items = items
	}
	sale.Recompute()

	if err := s.Repo.UpdateSale(ctx, sale); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sale %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	s.publish(ctx, sale, "sale_updated")
	s.RefreshSnapshot(ctx)
	return sale, nil
}

// Delete removes a sale from the history. Refused while locked; stock
// is deliberately not restored.
func (s *SalesService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.Lock.Locked() {
		return fmt.Errorf("%w: unlock to delete sales", ErrLocked)
	}
	if err := s.Repo.DeleteSale(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("sale %s: %w", id, ErrNotFound)
		}
		return err
	}

	s.publish(ctx, &models.Sale{ID: id}, "sale_deleted")
	s.RefreshSnapshot(ctx)
	return nil
}

// RefreshSnapshot reloads the sales history from storage into the live
// sync hub, newest first.
func (s *SalesService) RefreshSnapshot(ctx context.Context) {
	sales, err := s.Repo.ListSales(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("sales snapshot refresh failed", "error", err)
		return
	}
	reporting.SortNewestFirst(sales)
	s.Sync.SetSales(sales)
}

func (s *SalesService) publish(ctx context.Context, sale *models.Sale, eventType string) {
	event := map[string]any{
		"type":        eventType,
		"saleID":      sale.ID,
		"orderNumber": sale.OrderNumber,
	}
	if err := s.Producer.PublishEvent(ctx, events.TopicSales, sale.ID.String(), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
