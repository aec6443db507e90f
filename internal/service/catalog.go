package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/manha/pos/internal/cache"
	"github.com/manha/pos/internal/events"
	"github.com/manha/pos/internal/livesync"
	"github.com/manha/pos/internal/lock"
	"github.com/manha/pos/internal/logging"
	"github.com/manha/pos/internal/models"
	"github.com/manha/pos/internal/repo"
	"github.com/manha/pos/internal/search"
	"github.com/manha/pos/internal/transport"
	"github.com/manha/pos/internal/util"
)

const productsCacheKey = "products:all"

type CatalogService struct {
	Repo     *repo.GormRepo
	Lock     *lock.Service
	Cache    *cache.Cache
	Indexer  *search.Indexer
	Producer *events.Producer
	Sync     *livesync.Hub
}

// List returns one page of the catalog plus the total count. The full
// listing is served read-through from the cache when one is wired.
func (s *CatalogService) List(ctx context.Context, page, size int) (int64, []models.Product, error) {
	items, err := s.allProducts(ctx)
	if err != nil {
		return 0, nil, err
	}
	from, limit := util.Calculate(page, size)
	total := int64(len(items))
	if from >= len(items) {
		return total, []models.Product{}, nil
	}
	end := from + limit
	if end > len(items) {
		end = len(items)
	}
	return total, items[from:end], nil
}

func (s *CatalogService) allProducts(ctx context.Context) ([]models.Product, error) {
	var cached []models.Product
	hit, err := s.Cache.Get(ctx, productsCacheKey, &cached)
	if err != nil {
		logging.FromContext(ctx).Warn("product cache read failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Set(ctx, productsCacheKey, items); err != nil {
		logging.FromContext(ctx).Warn("product cache write failed", "error", err)
	}
	return items, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return p, err
}

func (s *CatalogService) Create(ctx context.Context, p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.afterWrite(ctx, p, "product_created")
	return nil
}

func (s *CatalogService) Patch(ctx context.Context, id uuid.UUID, req transport.PatchProductRequest) (*models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Unit != nil {
		p.Unit = models.Unit(*req.Unit)
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}

	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, p, "product_updated")
	return p, nil
}

// Delete removes a product. Refused while the application is locked.
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.Lock.Locked() {
		return fmt.Errorf("%w: unlock to delete items", ErrLocked)
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return err
	}

	l := logging.FromContext(ctx)
	if err := s.Cache.Delete(ctx, productsCacheKey); err != nil {
		l.Warn("product cache invalidation failed", "error", err)
	}
	if err := s.Indexer.DeleteProduct(ctx, id); err != nil {
		l.Error("search index delete failed", "error", err)
	}
	s.publish(ctx, map[string]any{"type": "product_deleted", "productID": id})
	s.RefreshSnapshot(ctx)
	return nil
}

// Search queries the product index; with no index configured it falls
// back to a name-substring match over the live snapshot.
func (s *CatalogService) Search(ctx context.Context, query string, page, size int) (int64, []models.Product, error) {
	from, limit := util.Calculate(page, size)
	if s.Indexer != nil {
		return s.Indexer.Search(ctx, query, from, limit)
	}

	term := strings.ToLower(query)
	var matched []models.Product
	for _, p := range s.Sync.Products() {
		if strings.Contains(strings.ToLower(p.Name), term) {
			matched = append(matched, p)
		}
	}
	total := int64(len(matched))
	if from >= len(matched) {
		return total, []models.Product{}, nil
	}
	end := from + limit
	if end > len(matched) {
		end = len(matched)
	}
	return total, matched[from:end], nil
}

// RefreshSnapshot reloads the catalog from storage into the live sync
// hub, replacing the previous snapshot wholesale.
func (s *CatalogService) RefreshSnapshot(ctx context.Context) {
	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("catalog snapshot refresh failed", "error", err)
		return
	}
	s.Sync.SetProducts(items)
}

func (s *CatalogService) afterWrite(ctx context.Context, p *models.Product, eventType string) {
	l := logging.FromContext(ctx)
	if err := s.Cache.Delete(ctx, productsCacheKey); err != nil {
		l.Warn("product cache invalidation failed", "error", err)
	}
	if err := s.Indexer.IndexProduct(ctx, *p); err != nil {
		l.Error("search index update failed", "error", err)
	}
	s.publish(ctx, map[string]any{"type": eventType, "productID": p.ID, "name": p.Name})
	s.RefreshSnapshot(ctx)
}

func (s *CatalogService) publish(ctx context.Context, event map[string]any) {
	key := fmt.Sprint(event["productID"])
	if err := s.Producer.PublishEvent(ctx, events.TopicProducts, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}

func validateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	if p.Unit == "" {
		p.Unit = models.UnitPieces
	}
	if !p.Unit.Valid() {
		return fmt.Errorf("%w: unknown unit %q", ErrValidation, p.Unit)
	}
	return nil
}
