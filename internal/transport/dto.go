package transport

import "github.com/google/uuid"

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Unit        string `json:"unit"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
}

type PatchProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Stock       *int    `json:"stock"`
	Unit        *string `json:"unit"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"imageUrl"`
}

type CartAddRequest struct {
	ProductID uuid.UUID `json:"productId"`
}

// CartQuantityRequest changes a line's quantity. Delta is a relative
// adjustment; Qty is the raw direct input (kept as a string so that
// unparseable input can be treated as zero, not rejected).
type CartQuantityRequest struct {
	Delta *int    `json:"delta"`
	Qty   *string `json:"qty"`
}

type CheckoutRequest struct {
	CustomerName   string `json:"customerName"`
	CustomerMobile string `json:"customerMobile"`
}

type SaleItemInput struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Qty       int       `json:"qty"`
	Unit      string    `json:"unit"`
}

type UpdateSaleRequest struct {
	OrderNumber    *string          `json:"orderNumber"`
	DateStr        *string          `json:"dateStr"`
	TimeStr        *string          `json:"timeStr"`
	CustomerName   *string          `json:"customerName"`
	CustomerMobile *string          `json:"customerMobile"`
	Items          *[]SaleItemInput `json:"items"`
}

type UnlockRequest struct {
	PIN string `json:"pin"`
}

type SetPINRequest struct {
	CurrentPIN string `json:"currentPin"`
	NewPIN     string `json:"newPin"`
}
