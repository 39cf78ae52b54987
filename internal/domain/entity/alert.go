package entity

import "time"

// Categorías de alerta.
const (
	AlertCategoryStock       = "Stock"
	AlertCategoryFEFO        = "FEFO"
	AlertCategoryDiscrepancy = "Discrepancia"
	AlertCategoryWaste       = "Merma"
	AlertCategoryReturn      = "Devolución"
	AlertCategorySync        = "Sincronización"
)

// Alert notificación persistida que consume el contador de no leídas.
type Alert struct {
	ID          string
	CompanyID   string
	Title       string
	Description string
	Category    string
	Color       string // pista de UI (red, orange, ...)
	Icon        string
	Reference   string // entidad origen: producto, lote o línea de conteo
	Payload     *AlertPayload
	Read        bool
	CreatedAt   time.Time
}

// AlertPayload detalle de discrepancia de conteo.
type AlertPayload struct {
	Expected int `json:"expected"`
	Counted  int `json:"counted"`
}
