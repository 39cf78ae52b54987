package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una devolución de cliente.
const (
	ReturnStatusPending  = "Pendiente"
	ReturnStatusApproved = "Aprobada"
	ReturnStatusRejected = "Rechazada"
)

// CustomerReturn devolución de cliente. Solo al aprobarse reingresa stock.
type CustomerReturn struct {
	ID           string
	CompanyID    string
	ProductID    string
	Quantity     decimal.Decimal
	Reason       string
	CustomerName string
	Status       string
	CreatedBy    string
	CreatedAt    time.Time
	ResolvedBy   string
	ResolvedAt   *time.Time
}
