package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementResponse registro del kardex.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Balance       decimal.Decimal `json:"balance"`
	Reason        string          `json:"reason,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by"`
}

// CreateLotRequest body para POST /api/lots. Quantity admite número o texto; si no es numérico se guarda vacío.
type CreateLotRequest struct {
	ProductID  string      `json:"product_id"`
	LotNumber  string      `json:"lot_number"`
	Quantity   interface{} `json:"quantity"`
	ExpiryDate string      `json:"expiry_date"`
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID         string           `json:"id"`
	ProductID  string           `json:"product_id"`
	LotNumber  string           `json:"lot_number"`
	Quantity   *decimal.Decimal `json:"quantity"`
	ExpiryDate string           `json:"expiry_date,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// WasteRequest body para POST /api/waste.
type WasteRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Cause     string          `json:"cause"` // vencido, dañado, robo, ...
	Note      string          `json:"note"`
}

// WasteResponse merma registrada con el stock resultante.
type WasteResponse struct {
	ID        string                `json:"id"`
	ProductID string                `json:"product_id"`
	Quantity  decimal.Decimal       `json:"quantity"`
	Cause     string                `json:"cause"`
	Note      string                `json:"note,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	Result    StockMutationResponse `json:"result"`
}

// CreateReturnRequest body para POST /api/returns.
type CreateReturnRequest struct {
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
	CustomerName string          `json:"customer_name"`
}

// ReturnResponse salida de una devolución.
type ReturnResponse struct {
	ID           string                 `json:"id"`
	ProductID    string                 `json:"product_id"`
	Quantity     decimal.Decimal        `json:"quantity"`
	Reason       string                 `json:"reason"`
	CustomerName string                 `json:"customer_name,omitempty"`
	Status       string                 `json:"status"`
	CreatedAt    time.Time              `json:"created_at"`
	ResolvedAt   *time.Time             `json:"resolved_at,omitempty"`
	Result       *StockMutationResponse `json:"result,omitempty"`
}

// SyncCorrectionDTO corrección aplicada (o detectada) por la sincronización producto-lotes.
type SyncCorrectionDTO struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Stored    decimal.Decimal `json:"stored"`
	LotSum    decimal.Decimal `json:"lot_sum"`
	Delta     decimal.Decimal `json:"delta"`
	LotCount  int             `json:"lot_count"`
}

// SyncReportResponse resultado de una pasada de sincronización.
type SyncReportResponse struct {
	CompanyID   string              `json:"company_id"`
	Checked     int                 `json:"checked"`
	Corrected   int                 `json:"corrected"`
	Failed      int                 `json:"failed"`
	Corrections []SyncCorrectionDTO `json:"corrections"`
	StartedAt   time.Time           `json:"started_at"`
	FinishedAt  time.Time           `json:"finished_at"`
}
