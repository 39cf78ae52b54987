package inventory

import (
	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/inventory"
)

// ToProductResponse mapea el producto exponiendo solo el stock canónico.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	out := dto.ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		SKU:         p.SKU,
		Name:        p.Name,
		Category:    p.Category,
		Provider:    p.Provider,
		Location:    p.Location,
		Stock:       inventory.CanonicalStock(p),
		ExpiryDate:  p.ExpiryDate,
		Packaging:   p.Packaging,
		UnitsPerBox: p.UnitsPerBox,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.MinStock.Valid {
		v := p.MinStock.Decimal
		out.MinStock = &v
	}
	return out
}

// ToAlertResponse mapea una alerta.
func ToAlertResponse(a *entity.Alert) dto.AlertResponse {
	out := dto.AlertResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Category:    a.Category,
		Color:       a.Color,
		Icon:        a.Icon,
		Reference:   a.Reference,
		Read:        a.Read,
		CreatedAt:   a.CreatedAt,
	}
	if a.Payload != nil {
		out.Payload = &dto.AlertPayloadDTO{Expected: a.Payload.Expected, Counted: a.Payload.Counted}
	}
	return out
}

// ToAlertResponses mapea una lista de alertas; nunca devuelve nil.
func ToAlertResponses(list []*entity.Alert) []dto.AlertResponse {
	out := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, ToAlertResponse(a))
	}
	return out
}

// ToMovementResponse mapea un movimiento del kardex.
func ToMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		Balance:       m.Balance,
		Reason:        m.Reason,
		Reference:     m.Reference,
		Date:          m.Date,
		CreatedBy:     m.CreatedBy,
	}
}

// ToStockMutationResponse resume el resultado de un cambio de stock.
func ToStockMutationResponse(res *StockChangeResult, extra ...*entity.Alert) dto.StockMutationResponse {
	out := dto.StockMutationResponse{
		Product: ToProductResponse(res.Product),
		Alerts:  ToAlertResponses(append(append([]*entity.Alert{}, res.Alerts...), extra...)),
	}
	if res.Movement != nil {
		m := ToMovementResponse(res.Movement)
		out.Movement = &m
	}
	return out
}

// ToLotResponse mapea un lote; cantidad nula se expone como null.
func ToLotResponse(l *entity.InventoryLot) dto.LotResponse {
	out := dto.LotResponse{
		ID:         l.ID,
		ProductID:  l.ProductID,
		LotNumber:  l.LotNumber,
		ExpiryDate: l.ExpiryDate,
		CreatedAt:  l.CreatedAt,
	}
	if l.Quantity.Valid {
		q := l.Quantity.Decimal
		out.Quantity = &q
	}
	return out
}
