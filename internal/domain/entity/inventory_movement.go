package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del kardex.
const (
	MovementTypeIN         = "IN"         // entrada por ingreso o escaneo
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // edición manual de stock
	MovementTypeWASTE      = "WASTE"      // merma
	MovementTypeRETURN     = "RETURN"     // devolución aprobada
	MovementTypeCOUNT      = "COUNT"      // ajuste por cierre de conteo
	MovementTypeSYNC       = "SYNC"       // corrección contra suma de lotes
)

// InventoryMovement registro del kardex. Quantity es con signo; Balance es el stock resultante.
type InventoryMovement struct {
	ID            string
	TransactionID string
	CompanyID     string
	ProductID     string
	Type          string
	Quantity      decimal.Decimal
	Balance       decimal.Decimal
	Reason        string
	Reference     string
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
