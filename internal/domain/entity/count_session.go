package entity

import "time"

// Estados de una sesión de conteo cíclico.
const (
	CountStatusPending = "Pendiente"
	CountStatusClosed  = "Cerrado"
)

// CountSession conteo físico de una ubicación.
type CountSession struct {
	ID            string
	CompanyID     string
	WorkerID      string
	Location      string
	Status        string
	Items         []CountItem
	TotalExpected int
	TotalCounted  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ClosedAt      *time.Time
}

// CountItem línea del conteo. Counted es nil mientras la línea no se haya contado.
// AlertedCounted guarda el último valor contado que generó alerta de discrepancia.
type CountItem struct {
	ProductID      string `json:"product_id"`
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	UnitsPerBox    int    `json:"units_per_box"`
	Expected       int    `json:"expected"`
	Counted        *int   `json:"counted,omitempty"`
	AlertedCounted *int   `json:"alerted_counted,omitempty"`
}

// Clone copia la sesión incluyendo las líneas, para que las transiciones no muten el original.
func (s *CountSession) Clone() *CountSession {
	cp := *s
	cp.Items = make([]CountItem, len(s.Items))
	for i, it := range s.Items {
		cp.Items[i] = it
		if it.Counted != nil {
			v := *it.Counted
			cp.Items[i].Counted = &v
		}
		if it.AlertedCounted != nil {
			v := *it.AlertedCounted
			cp.Items[i].AlertedCounted = &v
		}
	}
	if s.ClosedAt != nil {
		t := *s.ClosedAt
		cp.ClosedAt = &t
	}
	return &cp
}
