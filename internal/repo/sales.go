package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/manha/pos/internal/models"
)

// StockDeduction is one product's decrement applied during checkout.
type StockDeduction struct {
	ProductID uuid.UUID
	Qty       int
}

// CreateSale persists the sale and applies all stock deductions in a
// single transaction. Each deduction is conditional: it only fires
// when enough stock remains, otherwise the stock is clamped to zero.
// Two checkouts racing on the same product can no longer lose an
// update.
func (r *GormRepo) CreateSale(ctx context.Context, sale *models.Sale, deductions []StockDeduction) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return err
		}
		for _, d := range deductions {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", d.ProductID, d.Qty).
				UpdateColumn("stock", gorm.Expr("stock - ?", d.Qty))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Not enough stock left, or the product vanished from
				// the catalog mid-sale. The sale still stands; stock
				// just bottoms out at zero.
				if err := tx.Model(&models.Product{}).
					Where("id = ?", d.ProductID).
					UpdateColumn("stock", 0).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *GormRepo) GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale := models.Sale{}
	if err := r.DB.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&sale).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *GormRepo) ListSales(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	if err := r.DB.WithContext(ctx).Preload("Items").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// UpdateSale rewrites the sale row and replaces its item list.
func (r *GormRepo) UpdateSale(ctx context.Context, sale *models.Sale) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Sale{}).Where("id = ?", sale.ID).Updates(map[string]any{
			"order_number":    sale.OrderNumber,
			"date_str":        sale.DateStr,
			"time_str":        sale.TimeStr,
			"customer_name":   sale.CustomerName,
			"customer_mobile": sale.CustomerMobile,
			"total":           sale.Total,
			"item_count":      sale.ItemCount,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		for i := range sale.Items {
			sale.Items[i].ID = 0
			sale.Items[i].SaleID = sale.ID
		}
		if len(sale.Items) > 0 {
			if err := tx.Create(&sale.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRepo) DeleteSale(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", id).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Sale{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpsertSales restores sales from a backup dump.
func (r *GormRepo) UpsertSales(ctx context.Context, sales []models.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range sales {
			sale := sales[i]
			if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
				return err
			}
			items := sale.Items
			sale.Items = nil
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sale).Error; err != nil {
				return err
			}
			for j := range items {
				items[j].ID = 0
				items[j].SaleID = sale.ID
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
