package dto

import "time"

// StartCountRequest body para iniciar un conteo de una ubicación.
type StartCountRequest struct {
	Location string `json:"location"`
}

// ScanCountRequest código leído por el escáner.
type ScanCountRequest struct {
	Code string `json:"code"`
}

// Modos de captura de cantidad.
const (
	CountModeUnits = "units"
	CountModeBoxes = "boxes"
)

// SaveCountLineRequest conteo de una línea. Quantity se recibe tal cual la digita el operario (número o texto).
type SaveCountLineRequest struct {
	Code     string      `json:"code"`
	Mode     string      `json:"mode"` // units | boxes
	Quantity interface{} `json:"quantity"`
}

// CountItemResponse línea del conteo.
type CountItemResponse struct {
	ProductID   string `json:"product_id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	UnitsPerBox int    `json:"units_per_box,omitempty"`
	Expected    int    `json:"expected"`
	Counted     *int   `json:"counted"`
	Diff        *int   `json:"diff"`
}

// CountSessionResponse sesión de conteo.
type CountSessionResponse struct {
	ID            string              `json:"id"`
	WorkerID      string              `json:"worker_id"`
	Location      string              `json:"location"`
	Status        string              `json:"status"`
	Items         []CountItemResponse `json:"items"`
	TotalExpected int                 `json:"total_expected"`
	TotalCounted  int                 `json:"total_counted"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	ClosedAt      *time.Time          `json:"closed_at,omitempty"`
}

// CountListResponse lista paginada de conteos.
type CountListResponse struct {
	Items []CountSessionResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// CountLineResponse resultado de guardar una línea.
type CountLineResponse struct {
	SKU           string         `json:"sku"`
	Name          string         `json:"name"`
	Expected      int            `json:"expected"`
	Counted       int            `json:"counted"`
	Diff          int            `json:"diff"`
	Match         bool           `json:"match"`
	TotalCounted  int            `json:"total_counted"`
	TotalExpected int            `json:"total_expected"`
	Alert         *AlertResponse `json:"alert,omitempty"`
}

// CloseCountResponse cierre del conteo con los ajustes aplicados.
type CloseCountResponse struct {
	Session     CountSessionResponse `json:"session"`
	Adjustments []MovementResponse   `json:"adjustments"`
	Alerts      []AlertResponse      `json:"alerts"`
}
