// Package analytics contiene los casos de uso del dashboard de bodega:
// triage de vencimientos y reporte de consistencia stock vs lotes.
package analytics

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/monitor"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// SnapshotSource último triage por empresa.
type SnapshotSource interface {
	Latest(ctx context.Context, companyID string) (*monitor.Snapshot, error)
}

// DashboardUseCase arma los widgets del dashboard.
//
// Fuente de datos: el monitor (triage ya calculado) y los repositorios de productos y lotes.
type DashboardUseCase struct {
	snapshots      SnapshotSource
	productRepo    repository.ProductRepository
	lotRepo        repository.LotRepository
	projectionDays int
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(snapshots SnapshotSource, productRepo repository.ProductRepository, lotRepo repository.LotRepository, projectionDays int) *DashboardUseCase {
	return &DashboardUseCase{
		snapshots:      snapshots,
		productRepo:    productRepo,
		lotRepo:        lotRepo,
		projectionDays: projectionDays,
	}
}

// Expiry devuelve el triage vigente: registro crítico, histograma, vencidos y omitidos.
func (uc *DashboardUseCase) Expiry(ctx context.Context, companyID string) (*dto.ExpiryDashboardDTO, error) {
	snap, err := uc.snapshots.Latest(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: triage: %w", err)
	}
	out := &dto.ExpiryDashboardDTO{
		Buckets:    uc.buckets(snap.Result.Buckets),
		Expired:    snap.Result.Expired,
		Evaluated:  snap.Result.Evaluated,
		Skipped:    snap.Result.Skipped,
		ComputedAt: snap.ComputedAt,
	}
	if c := snap.Result.Critical; c != nil {
		out.Critical = &dto.CriticalExpiryDTO{
			ID:       c.ID,
			Name:     c.Name,
			SKU:      c.SKU,
			Days:     c.Days,
			Category: c.Category,
			Source:   c.Source,
		}
	}
	return out, nil
}

// Consistency lista los productos cuya suma de lotes difiere del stock almacenado. No escribe nada.
//
// Dos lecturas en paralelo: productos y lotes de la empresa.
func (uc *DashboardUseCase) Consistency(ctx context.Context, companyID string) (*dto.ConsistencyReportDTO, error) {
	type productsResult struct {
		list []*entity.Product
		err  error
	}
	type lotsResult struct {
		list []*entity.InventoryLot
		err  error
	}

	productsCh := make(chan productsResult, 1)
	lotsCh := make(chan lotsResult, 1)

	go func() {
		list, err := uc.productRepo.ListAll(ctx, companyID)
		productsCh <- productsResult{list, err}
	}()
	go func() {
		list, err := uc.lotRepo.ListByCompany(ctx, companyID)
		lotsCh <- lotsResult{list, err}
	}()

	products := <-productsCh
	lots := <-lotsCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}
	if lots.err != nil {
		return nil, fmt.Errorf("dashboard: lotes: %w", lots.err)
	}

	report := &dto.ConsistencyReportDTO{
		Products: len(products.list),
		Lots:     len(lots.list),
		Drifts:   []dto.StockDriftDTO{},
	}
	for _, c := range inventory.PlanStockSync(products.list, lots.list) {
		report.Drifts = append(report.Drifts, dto.StockDriftDTO{
			ProductID: c.ProductID,
			SKU:       c.SKU,
			Name:      c.Name,
			Stored:    c.Previous,
			LotSum:    c.LotSum,
			Delta:     c.Delta(),
		})
	}
	return report, nil
}

// buckets etiqueta los tramos del histograma, ej: "0-7 días", "8-14 días".
func (uc *DashboardUseCase) buckets(counts [4]int) []dto.ExpiryBucketDTO {
	upper := [4]int{7, 14, 21, uc.projectionDays}
	out := make([]dto.ExpiryBucketDTO, 0, len(counts))
	lo := 0
	for i, n := range counts {
		out = append(out, dto.ExpiryBucketDTO{
			Label: strconv.Itoa(lo) + "-" + strconv.Itoa(upper[i]) + " días",
			Count: n,
		})
		lo = upper[i] + 1
	}
	return out
}

var _ SnapshotSource = (*monitor.Monitor)(nil)
