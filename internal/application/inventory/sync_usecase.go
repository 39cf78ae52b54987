package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/ports"
	"github.com/jhoicas/bodega-api/internal/domain/alert"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

// SyncUseCase pasada explícita de sincronización: la suma de lotes se toma como verdad
// y sobrescribe el stock del producto. Cada corrección corre en su propia transacción
// sobre un pool acotado de workers.
type SyncUseCase struct {
	txRunner    ports.TxRunner
	writer      *StockWriter
	productRepo repository.ProductRepository
	lotRepo     repository.LotRepository
	workers     int
	log         *logger.Logger
}

// NewSyncUseCase construye el caso de uso. workers <= 0 se trata como 1.
func NewSyncUseCase(
	txRunner ports.TxRunner,
	writer *StockWriter,
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
	workers int,
	log *logger.Logger,
) *SyncUseCase {
	if workers <= 0 {
		workers = 1
	}
	return &SyncUseCase{
		txRunner:    txRunner,
		writer:      writer,
		productRepo: productRepo,
		lotRepo:     lotRepo,
		workers:     workers,
		log:         log,
	}
}

// Run sincroniza una empresa y devuelve el reporte. Una corrección fallida no detiene las demás.
func (uc *SyncUseCase) Run(ctx context.Context, companyID, userID string) (*dto.SyncReportResponse, error) {
	started := time.Now()
	products, err := uc.productRepo.ListAll(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("sync: listar productos: %w", err)
	}
	lots, err := uc.lotRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("sync: listar lotes: %w", err)
	}
	plan := inventory.PlanStockSync(products, lots)

	report := &dto.SyncReportResponse{
		CompanyID:   companyID,
		Checked:     len(products),
		Corrections: []dto.SyncCorrectionDTO{},
		StartedAt:   started,
	}
	if len(plan) == 0 {
		report.FinishedAt = time.Now()
		return report, nil
	}

	pool, err := ants.NewPool(uc.workers, ants.WithPanicHandler(func(p interface{}) {
		uc.log.Error().Interface("panic", p).Str("company_id", companyID).Msg("sync: panic en worker")
	}))
	if err != nil {
		return nil, fmt.Errorf("sync: crear pool: %w", err)
	}
	defer pool.Release()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, c := range plan {
		c := c
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			applied, err := uc.applyCorrection(ctx, c, userID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				uc.log.Warn().Err(err).Str("company_id", companyID).Str("product_id", c.ProductID).Msg("sync: corrección fallida")
				return
			}
			if applied == nil {
				return
			}
			report.Corrected++
			report.Corrections = append(report.Corrections, toCorrectionDTO(*applied))
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			report.Failed++
			mu.Unlock()
		}
	}
	wg.Wait()

	report.FinishedAt = time.Now()
	uc.log.Info().
		Str("company_id", companyID).
		Int("checked", report.Checked).
		Int("corrected", report.Corrected).
		Int("failed", report.Failed).
		Dur("took", report.FinishedAt.Sub(started)).
		Msg("sync: pasada completada")
	return report, nil
}

// RunAll sincroniza todas las empresas (job programado).
func (uc *SyncUseCase) RunAll(ctx context.Context) error {
	companies, err := uc.productRepo.CompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("sync: listar empresas: %w", err)
	}
	for _, companyID := range companies {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := uc.Run(ctx, companyID, ""); err != nil {
			uc.log.Error().Err(err).Str("company_id", companyID).Msg("sync: empresa fallida")
		}
	}
	return nil
}

// applyCorrection relee los lotes del producto dentro de la transacción: si ya no hay diferencia no escribe nada.
func (uc *SyncUseCase) applyCorrection(ctx context.Context, c inventory.Correction, userID string) (*inventory.Correction, error) {
	var applied *inventory.Correction
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		lots, err := r.Lots.ListByProduct(ctx, c.CompanyID, c.ProductID)
		if err != nil {
			return err
		}
		if len(lots) == 0 {
			return nil
		}
		target := inventory.LotSum(c.ProductID, lots)
		now := time.Now()
		res, err := uc.writer.Apply(ctx, r, StockChange{
			CompanyID: c.CompanyID,
			ProductID: c.ProductID,
			UserID:    userID,
			Type:      entity.MovementTypeSYNC,
			Target:    &target,
			Reason:    "sincronización con lotes",
		}, now)
		if err != nil {
			return err
		}
		if res.Movement == nil {
			return nil
		}
		fresh := inventory.Correction{
			ProductID: c.ProductID,
			CompanyID: c.CompanyID,
			SKU:       res.Product.SKU,
			Name:      res.Product.Name,
			Previous:  res.Previous,
			LotSum:    target,
			LotCount:  len(lots),
		}
		if err := EmitAlert(ctx, r.Alerts, alert.Sync(fresh, now)); err != nil {
			return err
		}
		applied = &fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

func toCorrectionDTO(c inventory.Correction) dto.SyncCorrectionDTO {
	return dto.SyncCorrectionDTO{
		ProductID: c.ProductID,
		SKU:       c.SKU,
		Name:      c.Name,
		Stored:    c.Previous,
		LotSum:    c.LotSum,
		Delta:     c.Delta(),
		LotCount:  c.LotCount,
	}
}
