// Package alerts expone la bandeja de alertas (listado, badge, marca de leído)
// y el resumen diario de vencimientos.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	appinv "github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/monitor"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/alert"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/expiry"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

// SnapshotSource fuente del último triage por empresa (implementada por monitor.Monitor).
type SnapshotSource interface {
	Latest(ctx context.Context, companyID string) (*monitor.Snapshot, error)
}

// UseCase casos de uso de alertas.
type UseCase struct {
	alertRepo   repository.AlertRepository
	productRepo repository.ProductRepository
	snapshots   SnapshotSource
	loc         *time.Location
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(alertRepo repository.AlertRepository, productRepo repository.ProductRepository, snapshots SnapshotSource, loc *time.Location, log *logger.Logger) *UseCase {
	if loc == nil {
		loc = time.Local
	}
	return &UseCase{
		alertRepo:   alertRepo,
		productRepo: productRepo,
		snapshots:   snapshots,
		loc:         loc,
		log:         log,
		now:         time.Now,
	}
}

// List devuelve la página de alertas (más recientes primero) junto con el contador de no leídas.
func (uc *UseCase) List(ctx context.Context, companyID string, unreadOnly bool, page dto.PageRequest) (*dto.AlertListResponse, error) {
	page = page.Normalize()
	list, err := uc.alertRepo.ListByCompany(ctx, companyID, unreadOnly, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	unread, err := uc.alertRepo.CountUnread(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return &dto.AlertListResponse{
		Items:  appinv.ToAlertResponses(list),
		Unread: unread,
		Page:   dto.NewPageResponse(page, len(list)),
	}, nil
}

// UnreadCount contador para el badge.
func (uc *UseCase) UnreadCount(ctx context.Context, companyID string) (*dto.UnreadCountResponse, error) {
	n, err := uc.alertRepo.CountUnread(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{Unread: n}, nil
}

// MarkRead marca la alerta como leída.
func (uc *UseCase) MarkRead(ctx context.Context, companyID, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.alertRepo.MarkRead(ctx, companyID, id)
}

// Digest persiste una alerta FEFO por el registro crítico actual de la empresa,
// como máximo una vez por día y registro. Devuelve la alerta creada o nil.
func (uc *UseCase) Digest(ctx context.Context, companyID string) (*entity.Alert, error) {
	snap, err := uc.snapshots.Latest(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("digest: triage: %w", err)
	}
	if snap == nil || snap.Result.Critical == nil {
		return nil, nil
	}
	now := uc.now()
	a := alert.CriticalExpiry(companyID, snap.Result.Critical, now)
	exists, err := uc.alertRepo.ExistsSince(ctx, companyID, a.Category, a.Reference, expiry.Midnight(now, uc.loc))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}
	if err := appinv.EmitAlert(ctx, uc.alertRepo, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DigestAll corre el resumen para todas las empresas (job programado).
func (uc *UseCase) DigestAll(ctx context.Context) error {
	companies, err := uc.productRepo.CompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("digest: listar empresas: %w", err)
	}
	created := 0
	for _, companyID := range companies {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a, err := uc.Digest(ctx, companyID)
		if err != nil {
			uc.log.Error().Err(err).Str("company_id", companyID).Msg("digest: empresa fallida")
			continue
		}
		if a != nil {
			created++
		}
	}
	uc.log.Info().Int("companies", len(companies)).Int("alerts", created).Msg("digest: vencimientos procesados")
	return nil
}
