package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Empaque de un producto.
const (
	PackagingUnit = "unit"
	PackagingBox  = "box"
)

// Product representa un producto o SKU de bodega.
// Stock, Quantity y TotalStock son campos heredados que pueden venir desincronizados;
// la cantidad canónica se obtiene con inventory.CanonicalStock y toda escritura los iguala.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Category    string
	Provider    string
	Location    string // bodega o ubicación física
	Stock       decimal.NullDecimal
	Quantity    decimal.NullDecimal
	TotalStock  decimal.NullDecimal
	MinStock    decimal.NullDecimal // vacío = umbral por defecto
	ExpiryDate  string              // valor crudo: YYYY-MM-DD, DD/MM/YYYY o timestamp
	Packaging   string              // unit | box
	UnitsPerBox int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
