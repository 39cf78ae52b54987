package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLot lote de un producto con su propia cantidad y vencimiento.
// ProductID es una referencia débil: el lote no es dueño del producto y puede apuntar a uno inexistente.
type InventoryLot struct {
	ID         string
	CompanyID  string
	ProductID  string
	LotNumber  string
	Quantity   decimal.NullDecimal // nulo si la cantidad de origen no era numérica
	ExpiryDate string
	CreatedAt  time.Time
}
