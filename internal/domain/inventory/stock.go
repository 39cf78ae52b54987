// Package inventory contiene los servicios de dominio de cantidades: stock canónico,
// suma de lotes y el plan de sincronización producto-lotes.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// CanonicalStock devuelve la cantidad autoritativa del producto.
// Precedencia: Stock, luego TotalStock, luego Quantity, si no 0.
func CanonicalStock(p *entity.Product) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	for _, f := range []decimal.NullDecimal{p.Stock, p.TotalStock, p.Quantity} {
		if f.Valid {
			return f.Decimal
		}
	}
	return decimal.Zero
}

// SetCanonicalStock colapsa los tres campos heredados al mismo valor.
func SetCanonicalStock(p *entity.Product, qty decimal.Decimal) {
	v := decimal.NewNullDecimal(qty)
	p.Stock = v
	p.TotalStock = v
	p.Quantity = v
}

// MinStock devuelve el umbral de stock mínimo del producto o def si no está definido.
func MinStock(p *entity.Product, def int) decimal.Decimal {
	if p != nil && p.MinStock.Valid {
		return p.MinStock.Decimal
	}
	return decimal.NewFromInt(int64(def))
}

// LotSum suma las cantidades de los lotes cuyo ProductID coincide. Cantidades nulas cuentan 0.
func LotSum(productID string, lots []*entity.InventoryLot) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lots {
		if l == nil || l.ProductID != productID || !l.Quantity.Valid {
			continue
		}
		sum = sum.Add(l.Quantity.Decimal)
	}
	return sum
}

// Correction ajuste que la sincronización aplicaría a un producto.
type Correction struct {
	ProductID string
	CompanyID string
	SKU       string
	Name      string
	Previous  decimal.Decimal // stock canónico almacenado
	LotSum    decimal.Decimal // nuevo valor (verdad de campo)
	LotCount  int
}

// Delta diferencia que se registra en el kardex.
func (c Correction) Delta() decimal.Decimal {
	return c.LotSum.Sub(c.Previous)
}

// PlanStockSync compara, para cada producto con lotes, la suma de lotes con el stock canónico
// y devuelve una corrección por cada diferencia. Productos sin lotes nunca se corrigen.
// No modifica los productos; aplicar el plan es responsabilidad del caller.
func PlanStockSync(products []*entity.Product, lots []*entity.InventoryLot) []Correction {
	type agg struct {
		sum   decimal.Decimal
		count int
	}
	byProduct := make(map[string]*agg, len(lots))
	for _, l := range lots {
		if l == nil {
			continue
		}
		a, ok := byProduct[l.ProductID]
		if !ok {
			a = &agg{sum: decimal.Zero}
			byProduct[l.ProductID] = a
		}
		a.count++
		if l.Quantity.Valid {
			a.sum = a.sum.Add(l.Quantity.Decimal)
		}
	}

	var out []Correction
	for _, p := range products {
		if p == nil {
			continue
		}
		a, ok := byProduct[p.ID]
		if !ok || a.count == 0 {
			continue
		}
		current := CanonicalStock(p)
		if current.Equal(a.sum) {
			continue
		}
		out = append(out, Correction{
			ProductID: p.ID,
			CompanyID: p.CompanyID,
			SKU:       p.SKU,
			Name:      p.Name,
			Previous:  current,
			LotSum:    a.sum,
			LotCount:  a.count,
		})
	}
	return out
}
