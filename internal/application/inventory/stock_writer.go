package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/application/ports"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/alert"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// StockChange cambio de stock de un producto. Se indica Delta (con signo) o Target (valor absoluto).
type StockChange struct {
	CompanyID     string
	ProductID     string
	UserID        string
	Type          string // entity.MovementType*
	Delta         decimal.Decimal
	Target        *decimal.Decimal
	Reason        string
	Reference     string
	TransactionID string
	// ClampAtZero deja el stock en 0 en vez de fallar con ErrInsufficientStock.
	ClampAtZero bool
}

// StockChangeResult estado después de aplicar el cambio.
type StockChangeResult struct {
	Product  *entity.Product
	Previous decimal.Decimal
	Current  decimal.Decimal
	Movement *entity.InventoryMovement // nil si el stock no cambió
	Alerts   []*entity.Alert
}

// StockWriter único camino de escritura del stock: bloquea la fila, colapsa los campos heredados,
// registra el kardex y evalúa stock bajo. Siempre corre dentro de la transacción del caller.
type StockWriter struct {
	defaultMinStock int
}

// NewStockWriter construye el writer con el umbral de stock mínimo por defecto.
func NewStockWriter(defaultMinStock int) *StockWriter {
	return &StockWriter{defaultMinStock: defaultMinStock}
}

// DefaultMinStock umbral usado cuando el producto no define uno.
func (w *StockWriter) DefaultMinStock() int { return w.defaultMinStock }

// Apply aplica el cambio. La validación de stock insuficiente ocurre antes de cualquier escritura.
func (w *StockWriter) Apply(ctx context.Context, r ports.Repos, ch StockChange, now time.Time) (*StockChangeResult, error) {
	if ch.ProductID == "" || ch.Type == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := r.Products.GetForUpdate(ctx, ch.CompanyID, ch.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	prev := inventory.CanonicalStock(product)
	next := prev.Add(ch.Delta)
	if ch.Target != nil {
		next = *ch.Target
	}
	if next.IsNegative() {
		if !ch.ClampAtZero {
			return nil, domain.ErrInsufficientStock
		}
		next = decimal.Zero
	}

	res := &StockChangeResult{Product: product, Previous: prev, Current: next}
	if next.Equal(prev) {
		return res, nil
	}

	if err := r.Products.SetStock(ctx, ch.CompanyID, ch.ProductID, next); err != nil {
		return nil, err
	}
	inventory.SetCanonicalStock(product, next)
	product.UpdatedAt = now

	txID := ch.TransactionID
	if txID == "" {
		txID = uuid.New().String()
	}
	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		CompanyID:     ch.CompanyID,
		ProductID:     ch.ProductID,
		Type:          ch.Type,
		Quantity:      next.Sub(prev),
		Balance:       next,
		Reason:        ch.Reason,
		Reference:     ch.Reference,
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     ch.UserID,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	res.Movement = mov

	if a := alert.LowStock(product, next, w.defaultMinStock, now); a != nil {
		if err := EmitAlert(ctx, r.Alerts, a); err != nil {
			return nil, err
		}
		res.Alerts = append(res.Alerts, a)
	}
	return res, nil
}

// EmitAlert persiste la alerta asignándole ID si no lo tiene. Una alerta nil no hace nada.
func EmitAlert(ctx context.Context, repo repository.AlertRepository, a *entity.Alert) error {
	if a == nil {
		return nil
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if err := repo.Create(ctx, a); err != nil {
		return fmt.Errorf("emitir alerta %s: %w", a.Category, err)
	}
	return nil
}
