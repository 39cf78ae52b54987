// Package alert contiene las reglas que deciden qué alertas genera cada evento de stock.
// Las reglas son de un solo sentido: no hay alerta cuando el stock se recupera ni para vencimientos lejanos.
package alert

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/expiry"
	"github.com/jhoicas/bodega-api/internal/domain/inventory"
)

// Pistas visuales por categoría.
const (
	colorRed    = "red"
	colorOrange = "orange"
	colorYellow = "yellow"
	colorBlue   = "blue"
	colorPurple = "purple"
)

// LowStock alerta si newStock <= stock mínimo del producto (defaultMin si no lo define).
func LowStock(p *entity.Product, newStock decimal.Decimal, defaultMin int, now time.Time) *entity.Alert {
	threshold := inventory.MinStock(p, defaultMin)
	if newStock.GreaterThan(threshold) {
		return nil
	}
	return &entity.Alert{
		CompanyID:   p.CompanyID,
		Title:       "Stock bajo",
		Description: fmt.Sprintf("%s (%s) tiene %s unidades; mínimo %s", p.Name, p.SKU, newStock.String(), threshold.String()),
		Category:    entity.AlertCategoryStock,
		Color:       colorOrange,
		Icon:        "alert-triangle",
		Reference:   p.ID,
		CreatedAt:   now,
	}
}

// ExpiryOnCreate evalúa el vencimiento al crear un producto.
// days < 0: ya vencido; 0 <= days <= criticalDays: vence pronto; en otro caso nada.
func ExpiryOnCreate(p *entity.Product, days, criticalDays int, now time.Time) *entity.Alert {
	a := &entity.Alert{
		CompanyID: p.CompanyID,
		Category:  entity.AlertCategoryFEFO,
		Reference: p.ID,
		CreatedAt: now,
	}
	switch {
	case days < 0:
		a.Title = "Producto ya vencido"
		a.Description = fmt.Sprintf("%s (%s) venció hace %d día(s)", p.Name, p.SKU, -days)
		a.Color = colorRed
		a.Icon = "x-circle"
	case days <= criticalDays:
		a.Title = "Producto vence pronto"
		a.Description = fmt.Sprintf("%s (%s) vence en %d día(s)", p.Name, p.SKU, days)
		a.Color = colorYellow
		a.Icon = "clock"
	default:
		return nil
	}
	return a
}

// Discrepancy alerta de diferencia entre esperado y contado para una línea de conteo.
func Discrepancy(session *entity.CountSession, line entity.CountItem, counted int, now time.Time) *entity.Alert {
	return &entity.Alert{
		CompanyID:   session.CompanyID,
		Title:       "Discrepancia de conteo",
		Description: fmt.Sprintf("%s (%s) en %s: esperado %d, contado %d", line.Name, line.SKU, session.Location, line.Expected, counted),
		Category:    entity.AlertCategoryDiscrepancy,
		Color:       colorRed,
		Icon:        "clipboard",
		Reference:   DiscrepancyReference(session.ID, line.SKU),
		Payload:     &entity.AlertPayload{Expected: line.Expected, Counted: counted},
		CreatedAt:   now,
	}
}

// DiscrepancyReference referencia estable sesión+línea.
func DiscrepancyReference(sessionID, sku string) string {
	return "count:" + sessionID + ":" + sku
}

// Waste alerta informativa de merma registrada.
func Waste(p *entity.Product, qty decimal.Decimal, cause string, now time.Time) *entity.Alert {
	return &entity.Alert{
		CompanyID:   p.CompanyID,
		Title:       "Merma registrada",
		Description: fmt.Sprintf("%s unidades de %s (%s): %s", qty.String(), p.Name, p.SKU, cause),
		Category:    entity.AlertCategoryWaste,
		Color:       colorPurple,
		Icon:        "trash",
		Reference:   p.ID,
		CreatedAt:   now,
	}
}

// ReturnApproved alerta de devolución reingresada al stock.
func ReturnApproved(p *entity.Product, r *entity.CustomerReturn, now time.Time) *entity.Alert {
	return &entity.Alert{
		CompanyID:   p.CompanyID,
		Title:       "Devolución aprobada",
		Description: fmt.Sprintf("%s unidades de %s (%s) reingresadas", r.Quantity.String(), p.Name, p.SKU),
		Category:    entity.AlertCategoryReturn,
		Color:       colorBlue,
		Icon:        "rotate-ccw",
		Reference:   r.ID,
		CreatedAt:   now,
	}
}

// Sync alerta de corrección aplicada por la sincronización producto-lotes.
func Sync(c inventory.Correction, now time.Time) *entity.Alert {
	return &entity.Alert{
		CompanyID:   c.CompanyID,
		Title:       "Stock sincronizado con lotes",
		Description: fmt.Sprintf("%s (%s): %s → %s según %d lote(s)", c.Name, c.SKU, c.Previous.String(), c.LotSum.String(), c.LotCount),
		Category:    entity.AlertCategorySync,
		Color:       colorBlue,
		Icon:        "refresh-cw",
		Reference:   c.ProductID,
		CreatedAt:   now,
	}
}

// CriticalExpiry alerta del registro más urgente del triage (resumen diario).
func CriticalExpiry(companyID string, c *expiry.CriticalAlert, now time.Time) *entity.Alert {
	if c == nil {
		return nil
	}
	desc := fmt.Sprintf("%s (%s) vence en %d día(s)", c.Name, c.SKU, c.Days)
	color := colorYellow
	if c.Days < 0 {
		desc = fmt.Sprintf("%s (%s) venció hace %d día(s)", c.Name, c.SKU, -c.Days)
		color = colorRed
	}
	return &entity.Alert{
		CompanyID:   companyID,
		Title:       "Vencimiento crítico",
		Description: desc,
		Category:    entity.AlertCategoryFEFO,
		Color:       color,
		Icon:        "calendar",
		Reference:   c.Source + ":" + c.ID,
		CreatedAt:   now,
	}
}
