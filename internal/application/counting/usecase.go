// Package counting orquesta los conteos cíclicos: inicio, escaneo, guardado de líneas y cierre.
package counting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	appinventory "github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/ports"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/alert"
	"github.com/jhoicas/bodega-api/internal/domain/counting"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// SaveCountLine intención de guardar el conteo de una línea: escaneo + cantidad + guardado en una transacción.
type SaveCountLine struct {
	CompanyID string
	SessionID string
	Code      string
	Mode      string // dto.CountModeUnits | dto.CountModeBoxes
	Quantity  string
}

// UseCase casos de uso de conteo cíclico.
type UseCase struct {
	txRunner    ports.TxRunner
	writer      *appinventory.StockWriter
	countRepo   repository.CountRepository
	productRepo repository.ProductRepository
	sheet       CountSheetRenderer
	exporter    CountExporter
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	writer *appinventory.StockWriter,
	countRepo repository.CountRepository,
	productRepo repository.ProductRepository,
	sheet CountSheetRenderer,
	exporter CountExporter,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		writer:      writer,
		countRepo:   countRepo,
		productRepo: productRepo,
		sheet:       sheet,
		exporter:    exporter,
	}
}

// Start abre un conteo de la ubicación con lo esperado tomado del stock canónico actual.
func (uc *UseCase) Start(ctx context.Context, companyID, workerID string, in dto.StartCountRequest) (*dto.CountSessionResponse, error) {
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return nil, domain.ErrInvalidInput
	}
	products, err := uc.productRepo.ListByLocation(ctx, companyID, location)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("ubicación %q sin productos: %w", location, domain.ErrNotFound)
	}

	items := make([]entity.CountItem, 0, len(products))
	for _, p := range products {
		items = append(items, entity.CountItem{
			ProductID:   p.ID,
			SKU:         p.SKU,
			Name:        p.Name,
			UnitsPerBox: p.UnitsPerBox,
			Expected:    int(inventory.CanonicalStock(p).IntPart()),
		})
	}
	now := time.Now()
	session := &entity.CountSession{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		WorkerID:      workerID,
		Location:      location,
		Status:        entity.CountStatusPending,
		Items:         items,
		TotalExpected: counting.TotalExpected(items),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.countRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	out := ToSessionResponse(session)
	return &out, nil
}

// Get obtiene una sesión.
func (uc *UseCase) Get(ctx context.Context, companyID, id string) (*dto.CountSessionResponse, error) {
	session, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	out := ToSessionResponse(session)
	return &out, nil
}

// List lista sesiones (location vacío = todas).
func (uc *UseCase) List(ctx context.Context, companyID, location string, limit, offset int) (*dto.CountListResponse, error) {
	list, err := uc.countRepo.ListByCompany(ctx, companyID, location, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CountSessionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, ToSessionResponse(s))
	}
	return &dto.CountListResponse{Items: items, Page: dto.NewPageResponse(dto.PageRequest{Limit: limit, Offset: offset}, len(list))}, nil
}

// Preview SCAN → INPUT sin guardar: devuelve la línea que corresponde al código.
func (uc *UseCase) Preview(ctx context.Context, companyID, id, code string) (*dto.CountItemResponse, error) {
	session, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	summary, err := counting.Begin(session)
	if err != nil {
		return nil, err
	}
	input, err := summary.OpenScanner().Decode(code)
	if err != nil {
		return nil, err
	}
	out := toItemResponse(input.Line())
	return &out, nil
}

// SaveLineFromRequest adapta el request HTTP al comando SaveCountLine.
func (uc *UseCase) SaveLineFromRequest(ctx context.Context, companyID, sessionID string, in dto.SaveCountLineRequest) (*dto.CountLineResponse, error) {
	raw, err := cast.ToStringE(in.Quantity)
	if err != nil || in.Quantity == nil {
		return nil, domain.ErrInvalidInput
	}
	return uc.SaveLine(ctx, SaveCountLine{
		CompanyID: companyID,
		SessionID: sessionID,
		Code:      in.Code,
		Mode:      in.Mode,
		Quantity:  raw,
	})
}

// SaveLine recorre SUMMARY → SCAN → INPUT → RESULT → SUMMARY dentro de una transacción,
// persiste la sesión y emite como máximo una alerta de discrepancia por valor contado.
func (uc *UseCase) SaveLine(ctx context.Context, cmd SaveCountLine) (*dto.CountLineResponse, error) {
	var out *dto.CountLineResponse
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		session, err := r.Counts.GetForUpdate(ctx, cmd.CompanyID, cmd.SessionID)
		if err != nil {
			return err
		}
		summary, err := counting.Begin(session)
		if err != nil {
			return err
		}
		input, err := summary.OpenScanner().Decode(cmd.Code)
		if err != nil {
			return err
		}
		var result counting.Result
		switch cmd.Mode {
		case "", dto.CountModeUnits:
			result, err = input.SubmitUnits(cmd.Quantity)
		case dto.CountModeBoxes:
			result, err = input.SubmitBoxes(cmd.Quantity)
		default:
			err = domain.ErrInvalidInput
		}
		if err != nil {
			return err
		}

		next, outcome := result.Save()
		saved := next.Session()
		now := time.Now()
		saved.UpdatedAt = now
		if err := r.Counts.Update(ctx, saved); err != nil {
			return err
		}

		resp := &dto.CountLineResponse{
			SKU:           outcome.Line.SKU,
			Name:          outcome.Line.Name,
			Expected:      outcome.Line.Expected,
			Counted:       result.Counted(),
			Diff:          outcome.Diff,
			Match:         outcome.Diff == 0,
			TotalCounted:  saved.TotalCounted,
			TotalExpected: saved.TotalExpected,
		}
		if outcome.EmitAlert {
			a := alert.Discrepancy(saved, outcome.Line, result.Counted(), now)
			if err := appinventory.EmitAlert(ctx, r.Alerts, a); err != nil {
				return err
			}
			ar := appinventory.ToAlertResponse(a)
			resp.Alert = &ar
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close cierra la sesión y aplica un ajuste COUNT por cada línea contada con diferencia.
// El ajuste es contado - esperado sobre el stock vigente, de modo que los movimientos ocurridos
// durante el conteo se conservan; si el resultado fuese negativo queda en 0.
func (uc *UseCase) Close(ctx context.Context, companyID, userID, id string) (*dto.CloseCountResponse, error) {
	var out *dto.CloseCountResponse
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		session, err := r.Counts.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if session.Status == entity.CountStatusClosed {
			return fmt.Errorf("sesión %s ya cerrada: %w", id, domain.ErrConflict)
		}

		now := time.Now()
		resp := &dto.CloseCountResponse{Adjustments: []dto.MovementResponse{}, Alerts: []dto.AlertResponse{}}
		for _, it := range session.Items {
			if it.Counted == nil || *it.Counted == it.Expected {
				continue
			}
			res, err := uc.writer.Apply(ctx, r, appinventory.StockChange{
				CompanyID:     companyID,
				ProductID:     it.ProductID,
				UserID:        userID,
				Type:          entity.MovementTypeCOUNT,
				Delta:         decimalFromInt(*it.Counted - it.Expected),
				Reason:        "cierre de conteo " + session.Location,
				Reference:     session.ID,
				TransactionID: session.ID,
				ClampAtZero:   true,
			}, now)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// El producto ya no existe: la línea queda solo como registro.
					continue
				}
				return err
			}
			if res.Movement != nil {
				resp.Adjustments = append(resp.Adjustments, appinventory.ToMovementResponse(res.Movement))
			}
			resp.Alerts = append(resp.Alerts, appinventory.ToAlertResponses(res.Alerts)...)
		}

		session.Status = entity.CountStatusClosed
		session.ClosedAt = &now
		session.UpdatedAt = now
		session.TotalCounted = counting.TotalCounted(session.Items)
		if err := r.Counts.Update(ctx, session); err != nil {
			return err
		}
		resp.Session = ToSessionResponse(session)
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Sheet planilla PDF del conteo.
func (uc *UseCase) Sheet(ctx context.Context, companyID, id string) ([]byte, error) {
	session, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return uc.sheet.RenderCountSheet(ctx, session)
}

// ExportCSV líneas del conteo en CSV.
func (uc *UseCase) ExportCSV(ctx context.Context, companyID, id string) ([]byte, error) {
	session, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return uc.exporter.ExportCountCSV(session)
}

func (uc *UseCase) load(ctx context.Context, companyID, id string) (*entity.CountSession, error) {
	session, err := uc.countRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	return session, nil
}
