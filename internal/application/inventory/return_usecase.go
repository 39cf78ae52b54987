package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/ports"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/alert"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// ApproveReturn intención de aprobar una devolución pendiente.
type ApproveReturn struct {
	CompanyID string
	UserID    string
	ReturnID  string
}

// ReturnUseCase devoluciones de clientes: registro, aprobación (reingreso de stock) y rechazo.
type ReturnUseCase struct {
	txRunner    ports.TxRunner
	writer      *StockWriter
	productRepo repository.ProductRepository
	returnRepo  repository.ReturnRepository
}

// NewReturnUseCase construye el caso de uso.
func NewReturnUseCase(
	txRunner ports.TxRunner,
	writer *StockWriter,
	productRepo repository.ProductRepository,
	returnRepo repository.ReturnRepository,
) *ReturnUseCase {
	return &ReturnUseCase{txRunner: txRunner, writer: writer, productRepo: productRepo, returnRepo: returnRepo}
}

// Register registra la devolución en estado Pendiente. No toca el stock.
func (uc *ReturnUseCase) Register(ctx context.Context, companyID, userID string, in dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	if in.ProductID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, companyID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	ret := &entity.CustomerReturn{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		Reason:       in.Reason,
		CustomerName: in.CustomerName,
		Status:       entity.ReturnStatusPending,
		CreatedBy:    userID,
		CreatedAt:    time.Now(),
	}
	if err := uc.returnRepo.Create(ctx, ret); err != nil {
		return nil, err
	}
	out := toReturnResponse(ret)
	return &out, nil
}

// Approve reingresa el stock, registra kardex RETURN, evalúa stock bajo y emite la alerta de devolución.
func (uc *ReturnUseCase) Approve(ctx context.Context, cmd ApproveReturn) (*dto.ReturnResponse, error) {
	var out dto.ReturnResponse
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		ret, err := lockPendingReturn(ctx, r, cmd.CompanyID, cmd.ReturnID)
		if err != nil {
			return err
		}
		now := time.Now()
		res, err := uc.writer.Apply(ctx, r, StockChange{
			CompanyID:     cmd.CompanyID,
			ProductID:     ret.ProductID,
			UserID:        cmd.UserID,
			Type:          entity.MovementTypeRETURN,
			Delta:         ret.Quantity,
			Reason:        ret.Reason,
			Reference:     ret.ID,
			TransactionID: ret.ID,
		}, now)
		if err != nil {
			return err
		}
		ret.Status = entity.ReturnStatusApproved
		ret.ResolvedBy = cmd.UserID
		ret.ResolvedAt = &now
		if err := r.Returns.Update(ctx, ret); err != nil {
			return err
		}
		approved := alert.ReturnApproved(res.Product, ret, now)
		if err := EmitAlert(ctx, r.Alerts, approved); err != nil {
			return err
		}
		out = toReturnResponse(ret)
		result := ToStockMutationResponse(res, approved)
		out.Result = &result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Reject marca la devolución como rechazada sin mover stock.
func (uc *ReturnUseCase) Reject(ctx context.Context, companyID, userID, returnID string) (*dto.ReturnResponse, error) {
	var out dto.ReturnResponse
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		ret, err := lockPendingReturn(ctx, r, companyID, returnID)
		if err != nil {
			return err
		}
		now := time.Now()
		ret.Status = entity.ReturnStatusRejected
		ret.ResolvedBy = userID
		ret.ResolvedAt = &now
		if err := r.Returns.Update(ctx, ret); err != nil {
			return err
		}
		out = toReturnResponse(ret)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List lista devoluciones (status vacío = todas).
func (uc *ReturnUseCase) List(ctx context.Context, companyID, status string, limit, offset int) ([]dto.ReturnResponse, error) {
	list, err := uc.returnRepo.ListByCompany(ctx, companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReturnResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toReturnResponse(r))
	}
	return out, nil
}

func lockPendingReturn(ctx context.Context, r ports.Repos, companyID, id string) (*entity.CustomerReturn, error) {
	ret, err := r.Returns.GetForUpdate(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, domain.ErrNotFound
	}
	if ret.Status != entity.ReturnStatusPending {
		return nil, fmt.Errorf("devolución %s en estado %s: %w", ret.ID, ret.Status, domain.ErrConflict)
	}
	return ret, nil
}

func toReturnResponse(r *entity.CustomerReturn) dto.ReturnResponse {
	return dto.ReturnResponse{
		ID:           r.ID,
		ProductID:    r.ProductID,
		Quantity:     r.Quantity,
		Reason:       r.Reason,
		CustomerName: r.CustomerName,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		ResolvedAt:   r.ResolvedAt,
	}
}
