package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/ports"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/alert"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// ApplyWasteEvent intención de registrar una merma. Se aplica completa o no se aplica.
type ApplyWasteEvent struct {
	CompanyID string
	UserID    string
	ProductID string
	Quantity  decimal.Decimal
	Cause     string
	Note      string
}

// WasteUseCase registra mermas: descuenta stock, guarda la merma, el kardex y las alertas en una sola transacción.
type WasteUseCase struct {
	txRunner ports.TxRunner
	writer   *StockWriter
}

// NewWasteUseCase construye el caso de uso.
func NewWasteUseCase(txRunner ports.TxRunner, writer *StockWriter) *WasteUseCase {
	return &WasteUseCase{txRunner: txRunner, writer: writer}
}

// ApplyFromRequest adapta el request HTTP al evento.
func (uc *WasteUseCase) ApplyFromRequest(ctx context.Context, companyID, userID string, in dto.WasteRequest) (*dto.WasteResponse, error) {
	return uc.Apply(ctx, ApplyWasteEvent{
		CompanyID: companyID,
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Cause:     in.Cause,
		Note:      in.Note,
	})
}

// Apply valida y aplica la merma. Si la cantidad supera el stock devuelve ErrInsufficientStock sin escribir nada.
func (uc *WasteUseCase) Apply(ctx context.Context, ev ApplyWasteEvent) (*dto.WasteResponse, error) {
	ev.Cause = strings.TrimSpace(ev.Cause)
	if ev.ProductID == "" || ev.Cause == "" || !ev.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	waste := &entity.Waste{
		ID:        uuid.New().String(),
		CompanyID: ev.CompanyID,
		ProductID: ev.ProductID,
		Quantity:  ev.Quantity,
		Cause:     ev.Cause,
		Note:      ev.Note,
		CreatedBy: ev.UserID,
		CreatedAt: now,
	}

	var out *dto.WasteResponse
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		res, err := uc.writer.Apply(ctx, r, StockChange{
			CompanyID:     ev.CompanyID,
			ProductID:     ev.ProductID,
			UserID:        ev.UserID,
			Type:          entity.MovementTypeWASTE,
			Delta:         ev.Quantity.Neg(),
			Reason:        ev.Cause,
			Reference:     waste.ID,
			TransactionID: waste.ID,
		}, now)
		if err != nil {
			return err
		}
		if err := r.Waste.Create(ctx, waste); err != nil {
			return err
		}
		merma := alert.Waste(res.Product, ev.Quantity, ev.Cause, now)
		if err := EmitAlert(ctx, r.Alerts, merma); err != nil {
			return err
		}
		out = &dto.WasteResponse{
			ID:        waste.ID,
			ProductID: waste.ProductID,
			Quantity:  waste.Quantity,
			Cause:     waste.Cause,
			Note:      waste.Note,
			CreatedAt: waste.CreatedAt,
			Result:    ToStockMutationResponse(res, merma),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
