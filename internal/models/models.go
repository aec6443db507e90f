package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unit is the measurement label a product is sold in.
type Unit string

const (
	UnitPieces     Unit = "pieces"
	UnitKg         Unit = "kg"
	UnitGram       Unit = "gram"
	UnitLiter      Unit = "liter"
	UnitBox        Unit = "box"
	UnitFeet       Unit = "feet"
	UnitCubicFeet  Unit = "cubic-feet"
	UnitSquareFeet Unit = "square-feet"
	UnitMeter      Unit = "meter"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitPieces, UnitKg, UnitGram, UnitLiter, UnitBox,
		UnitFeet, UnitCubicFeet, UnitSquareFeet, UnitMeter:
		return true
	}
	return false
}

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	Name        string    `gorm:"not null"                  json:"name"`
	Description string    `json:"description"`
	Price       int64     `gorm:"not null"                  json:"price"`
	Stock       int       `gorm:"not null;default:0"        json:"stock"`
	Unit        Unit      `gorm:"not null;default:pieces"   json:"unit"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// SaleItem is a frozen copy of a product line at sale time. Later
// product edits never touch it.
type SaleItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	SaleID    uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid"                json:"productId"`
	Name      string    `gorm:"not null"                 json:"name"`
	Price     int64     `gorm:"not null"                 json:"price"`
	Qty       int       `gorm:"not null"                 json:"qty"`
	Unit      Unit      `json:"unit"`
}

type Sale struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"   json:"id"`
	OrderNumber    string     `gorm:"uniqueIndex;not null"   json:"orderNumber"`
	Items          []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	Total          int64      `gorm:"not null"               json:"total"`
	ItemCount      int        `gorm:"not null"               json:"itemCount"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	DateStr        string     `json:"dateStr"`
	TimeStr        string     `json:"timeStr"`
	CustomerName   string     `json:"customerName"`
	CustomerMobile string     `json:"customerMobile,omitempty"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Recompute derives total and item count from the current item list.
// Both are stored denormalized but must never drift from the items.
func (s *Sale) Recompute() {
	var total int64
	count := 0
	for _, it := range s.Items {
		total += it.Price * int64(it.Qty)
		count += it.Qty
	}
	s.Total = total
	s.ItemCount = count
}
