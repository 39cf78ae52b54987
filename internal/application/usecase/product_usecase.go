package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	appinventory "github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/ports"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/alert"
	"github.com/jhoicas/bodega-api/internal/domain/counting"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/expiry"
	"github.com/jhoicas/bodega-api/internal/domain/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

// ProductUseCase ingreso y mantenimiento de productos. Todo cambio de stock pasa por StockWriter.
type ProductUseCase struct {
	txRunner ports.TxRunner
	writer   *appinventory.StockWriter
	repo     repository.ProductRepository
	movRepo  repository.InventoryMovementRepository
	policy   expiry.Policy
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner ports.TxRunner,
	writer *appinventory.StockWriter,
	repo repository.ProductRepository,
	movRepo repository.InventoryMovementRepository,
	policy expiry.Policy,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, writer: writer, repo: repo, movRepo: movRepo, policy: policy, log: log}
}

// Create crea un producto con su stock inicial, kardex IN y alertas de stock bajo y vencimiento.
func (uc *ProductUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateProductRequest) (*dto.StockMutationResponse, error) {
	var out *dto.StockMutationResponse
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		res, err := uc.createInTx(ctx, r, companyID, userID, in, time.Now())
		out = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Scan ingreso por escaneo: suma al stock si el código existe, si no crea el producto.
func (uc *ProductUseCase) Scan(ctx context.Context, companyID, userID string, in dto.ScanProductRequest) (*dto.StockMutationResponse, error) {
	code := counting.NormalizeCode(in.Code)
	if code == "" || in.Quantity.IsNegative() || in.Boxes < 0 {
		return nil, domain.ErrInvalidInput
	}

	var out *dto.StockMutationResponse
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		now := time.Now()
		existing, err := r.Products.GetByCompanyAndSKU(ctx, companyID, code)
		if err != nil {
			return err
		}
		if existing == nil {
			qty := in.Quantity
			if in.Boxes > 0 {
				units, err := counting.BoxUnits(in.Boxes, in.UnitsPerBox)
				if err != nil {
					return err
				}
				qty = decimal.NewFromInt(int64(units))
			}
			res, err := uc.createInTx(ctx, r, companyID, userID, dto.CreateProductRequest{
				SKU:         code,
				Name:        in.Name,
				Category:    in.Category,
				Provider:    in.Provider,
				Location:    in.Location,
				Stock:       qty,
				MinStock:    in.MinStock,
				ExpiryDate:  in.ExpiryDate,
				Packaging:   in.Packaging,
				UnitsPerBox: in.UnitsPerBox,
			}, now)
			out = res
			return err
		}

		qty := in.Quantity
		if in.Boxes > 0 {
			units, err := counting.BoxUnits(in.Boxes, existing.UnitsPerBox)
			if err != nil {
				return err
			}
			qty = decimal.NewFromInt(int64(units))
		}
		if !qty.IsPositive() {
			return domain.ErrInvalidInput
		}
		res, err := uc.writer.Apply(ctx, r, appinventory.StockChange{
			CompanyID: companyID,
			ProductID: existing.ID,
			UserID:    userID,
			Type:      entity.MovementTypeIN,
			Delta:     qty,
			Reason:    "ingreso por escaneo",
		}, now)
		if err != nil {
			return err
		}
		resp := appinventory.ToStockMutationResponse(res)
		out = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *ProductUseCase) createInTx(ctx context.Context, r ports.Repos, companyID, userID string, in dto.CreateProductRequest, now time.Time) (*dto.StockMutationResponse, error) {
	product, err := uc.buildProduct(companyID, in, now)
	if err != nil {
		return nil, err
	}
	existing, err := r.Products.GetByCompanyAndSKU(ctx, companyID, product.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := r.Products.Create(ctx, product); err != nil {
		return nil, err
	}

	out := dto.StockMutationResponse{Created: true}
	var alerts []*entity.Alert
	stock := inventory.CanonicalStock(product)
	if stock.IsPositive() {
		mov := &entity.InventoryMovement{
			ID:            uuid.New().String(),
			TransactionID: product.ID,
			CompanyID:     companyID,
			ProductID:     product.ID,
			Type:          entity.MovementTypeIN,
			Quantity:      stock,
			Balance:       stock,
			Reason:        "ingreso inicial",
			Date:          now,
			CreatedAt:     now,
			CreatedBy:     userID,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return nil, err
		}
		m := appinventory.ToMovementResponse(mov)
		out.Movement = &m
	}
	alerts = append(alerts, alert.LowStock(product, stock, uc.writer.DefaultMinStock(), now))

	days, ok, err := uc.daysToExpiry(product, now)
	if err != nil {
		return nil, err
	}
	if ok {
		alerts = append(alerts, alert.ExpiryOnCreate(product, days, uc.policy.CriticalDays, now))
	}

	emitted := make([]*entity.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a == nil {
			continue
		}
		if err := appinventory.EmitAlert(ctx, r.Alerts, a); err != nil {
			return nil, err
		}
		emitted = append(emitted, a)
	}
	out.Product = appinventory.ToProductResponse(product)
	out.Alerts = appinventory.ToAlertResponses(emitted)
	return &out, nil
}

// daysToExpiry resuelve el vencimiento del producto. En modo tolerante una fecha ilegible
// se registra en el log y no genera alerta; en modo estricto aborta la creación.
func (uc *ProductUseCase) daysToExpiry(p *entity.Product, now time.Time) (int, bool, error) {
	resolver := uc.policy.Resolver()
	target, err := resolver.Resolve(p.ExpiryDate)
	if err != nil {
		if errors.Is(err, expiry.ErrNoDate) {
			return 0, false, nil
		}
		if uc.policy.Strict {
			return 0, false, err
		}
		uc.log.Warn().Err(err).Str("product_id", p.ID).Str("sku", p.SKU).Msg("vencimiento ilegible, se omite la alerta")
		return 0, false, nil
	}
	return expiry.DaysUntil(now, target, resolver.Loc), true, nil
}

func (uc *ProductUseCase) buildProduct(companyID string, in dto.CreateProductRequest, now time.Time) (*entity.Product, error) {
	sku := counting.NormalizeCode(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" || in.Stock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	packaging := in.Packaging
	switch packaging {
	case "":
		packaging = entity.PackagingUnit
	case entity.PackagingUnit:
	case entity.PackagingBox:
		if in.UnitsPerBox <= 0 {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	p := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SKU:         sku,
		Name:        name,
		Category:    in.Category,
		Provider:    in.Provider,
		Location:    in.Location,
		ExpiryDate:  strings.TrimSpace(in.ExpiryDate),
		Packaging:   packaging,
		UnitsPerBox: in.UnitsPerBox,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.MinStock != nil {
		if in.MinStock.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p.MinStock = decimal.NewNullDecimal(*in.MinStock)
	}
	inventory.SetCanonicalStock(p, in.Stock)
	return p, nil
}

// SetStock edición manual: fija el stock canónico y registra un ADJUSTMENT por la diferencia.
func (uc *ProductUseCase) SetStock(ctx context.Context, companyID, userID, id string, in dto.SetStockRequest) (*dto.StockMutationResponse, error) {
	if in.Stock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	target := in.Stock
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "edición manual"
	}
	var out *dto.StockMutationResponse
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		res, err := uc.writer.Apply(ctx, r, appinventory.StockChange{
			CompanyID: companyID,
			ProductID: id,
			UserID:    userID,
			Type:      entity.MovementTypeADJUSTMENT,
			Target:    &target,
			Reason:    reason,
		}, time.Now())
		if err != nil {
			return err
		}
		resp := appinventory.ToStockMutationResponse(res)
		out = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	out := appinventory.ToProductResponse(product)
	return &out, nil
}

// GetBySKU busca por código normalizado.
func (uc *ProductUseCase) GetBySKU(ctx context.Context, companyID, sku string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByCompanyAndSKU(ctx, companyID, counting.NormalizeCode(sku))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	out := appinventory.ToProductResponse(product)
	return &out, nil
}

// List lista productos de la empresa con paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, appinventory.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.NewPageResponse(dto.PageRequest{Limit: limit, Offset: offset}, len(list)),
	}, nil
}

// Movements kardex de un producto, más reciente primero.
func (uc *ProductUseCase) Movements(ctx context.Context, companyID, productID string, limit, offset int) ([]dto.MovementResponse, error) {
	list, err := uc.movRepo.ListByProduct(ctx, companyID, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, appinventory.ToMovementResponse(m))
	}
	return out, nil
}
