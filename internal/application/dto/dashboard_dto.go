package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CriticalExpiryDTO registro más urgente dentro de la ventana crítica.
type CriticalExpiryDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Days     int    `json:"days"`
	Category string `json:"category"`
	Source   string `json:"source"` // product | lot
}

// ExpiryBucketDTO tramo del histograma de vencimientos.
type ExpiryBucketDTO struct {
	Label string `json:"label"` // ej: "0-7 días"
	Count int    `json:"count"`
}

// ExpiryDashboardDTO respuesta de GET /api/dashboard/expiry.
// Critical es null cuando no hay vencimientos dentro de la ventana crítica.
type ExpiryDashboardDTO struct {
	Critical   *CriticalExpiryDTO `json:"critical"`
	Buckets    []ExpiryBucketDTO  `json:"buckets"`
	Expired    int                `json:"expired"`
	Evaluated  int                `json:"evaluated"`
	Skipped    int                `json:"skipped"`
	ComputedAt time.Time          `json:"computed_at"`
}

// StockDriftDTO producto cuyo stock almacenado no coincide con la suma de sus lotes.
type StockDriftDTO struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Stored    decimal.Decimal `json:"stored"`
	LotSum    decimal.Decimal `json:"lot_sum"`
	Delta     decimal.Decimal `json:"delta"`
}

// ConsistencyReportDTO respuesta de GET /api/dashboard/consistency.
type ConsistencyReportDTO struct {
	Products int             `json:"products"`
	Lots     int             `json:"lots"`
	Drifts   []StockDriftDTO `json:"drifts"`
}
