package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto (ingreso manual).
type CreateProductRequest struct {
	SKU         string           `json:"sku" validate:"required,min=1,max=100"`
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Category    string           `json:"category"`
	Provider    string           `json:"provider"`
	Location    string           `json:"location"`
	Stock       decimal.Decimal  `json:"stock"`
	MinStock    *decimal.Decimal `json:"min_stock,omitempty"`
	ExpiryDate  string           `json:"expiry_date,omitempty"` // YYYY-MM-DD o DD/MM/YYYY
	Packaging   string           `json:"packaging"`             // unit | box
	UnitsPerBox int              `json:"units_per_box"`
}

// ScanProductRequest ingreso por escaneo: si el código existe suma stock, si no crea el producto.
// Quantity en unidades o Boxes × units_per_box del producto.
type ScanProductRequest struct {
	Code        string           `json:"code" validate:"required"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Boxes       int              `json:"boxes"`
	Name        string           `json:"name"` // requerido solo si el producto no existe
	Category    string           `json:"category"`
	Provider    string           `json:"provider"`
	Location    string           `json:"location"`
	MinStock    *decimal.Decimal `json:"min_stock,omitempty"`
	ExpiryDate  string           `json:"expiry_date,omitempty"`
	Packaging   string           `json:"packaging"`
	UnitsPerBox int              `json:"units_per_box"`
}

// SetStockRequest edición manual del stock canónico.
type SetStockRequest struct {
	Stock  decimal.Decimal `json:"stock"`
	Reason string          `json:"reason"`
}

// ProductResponse salida de un producto. Stock es la cantidad canónica.
type ProductResponse struct {
	ID          string           `json:"id"`
	CompanyID   string           `json:"company_id"`
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Provider    string           `json:"provider"`
	Location    string           `json:"location"`
	Stock       decimal.Decimal  `json:"stock"`
	MinStock    *decimal.Decimal `json:"min_stock,omitempty"`
	ExpiryDate  string           `json:"expiry_date,omitempty"`
	Packaging   string           `json:"packaging"`
	UnitsPerBox int              `json:"units_per_box,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StockMutationResponse resultado de un evento que cambia stock: producto, movimiento de kardex y alertas emitidas.
type StockMutationResponse struct {
	Product  ProductResponse   `json:"product"`
	Created  bool              `json:"created,omitempty"`
	Movement *MovementResponse `json:"movement,omitempty"`
	Alerts   []AlertResponse   `json:"alerts"`
}
