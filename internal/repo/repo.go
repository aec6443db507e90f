package repo

import (
	"gorm.io/gorm"

	"github.com/manha/pos/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{}, &models.Sale{}, &models.SaleItem{})
}
