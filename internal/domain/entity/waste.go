package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Waste registro de merma (producto dañado, vencido, robo, etc.).
type Waste struct {
	ID        string
	CompanyID string
	ProductID string
	Quantity  decimal.Decimal
	Cause     string
	Note      string
	CreatedBy string
	CreatedAt time.Time
}
