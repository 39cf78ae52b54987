package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	appinventory "github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/expiry"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

// LotUseCase alta y consulta de lotes. Los lotes no modifican el stock del producto;
// la diferencia se corrige con la sincronización.
type LotUseCase struct {
	lotRepo     repository.LotRepository
	productRepo repository.ProductRepository
	policy      expiry.Policy
	log         *logger.Logger
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(lotRepo repository.LotRepository, productRepo repository.ProductRepository, policy expiry.Policy, log *logger.Logger) *LotUseCase {
	return &LotUseCase{lotRepo: lotRepo, productRepo: productRepo, policy: policy, log: log}
}

// Create registra un lote del producto.
func (uc *LotUseCase) Create(ctx context.Context, companyID string, in dto.CreateLotRequest) (*dto.LotResponse, error) {
	if in.ProductID == "" || strings.TrimSpace(in.LotNumber) == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, companyID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	lot := &entity.InventoryLot{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ProductID:  in.ProductID,
		LotNumber:  strings.TrimSpace(in.LotNumber),
		ExpiryDate: strings.TrimSpace(in.ExpiryDate),
		CreatedAt:  time.Now(),
	}
	if qty, ok := LooseQuantity(in.Quantity); ok {
		if qty.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		lot.Quantity = decimal.NewNullDecimal(qty)
	} else if in.Quantity != nil {
		uc.log.Warn().Interface("quantity", in.Quantity).Str("lot", lot.LotNumber).Msg("cantidad de lote no numérica, se guarda vacía")
	}

	if _, err := uc.policy.Resolver().Resolve(lot.ExpiryDate); err != nil && !errors.Is(err, expiry.ErrNoDate) {
		if uc.policy.Strict {
			return nil, err
		}
		uc.log.Warn().Err(err).Str("lot", lot.LotNumber).Msg("vencimiento de lote ilegible")
	}

	if err := uc.lotRepo.Create(ctx, lot); err != nil {
		return nil, err
	}
	out := appinventory.ToLotResponse(lot)
	return &out, nil
}

// ListByProduct lotes de un producto.
func (uc *LotUseCase) ListByProduct(ctx context.Context, companyID, productID string) ([]dto.LotResponse, error) {
	list, err := uc.lotRepo.ListByProduct(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LotResponse, 0, len(list))
	for _, l := range list {
		out = append(out, appinventory.ToLotResponse(l))
	}
	return out, nil
}

// LooseQuantity interpreta una cantidad que puede venir como número o texto ("12", "12.5", 12).
// Devuelve false si falta o no es numérica.
func LooseQuantity(v interface{}) (decimal.Decimal, bool) {
	if v == nil {
		return decimal.Zero, false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
