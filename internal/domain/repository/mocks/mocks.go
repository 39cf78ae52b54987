// Package mocks implementaciones testify/mock de los puertos de repository para tests de casos de uso.
package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository           = (*ProductRepository)(nil)
	_ repository.LotRepository               = (*LotRepository)(nil)
	_ repository.CountRepository             = (*CountRepository)(nil)
	_ repository.AlertRepository             = (*AlertRepository)(nil)
	_ repository.InventoryMovementRepository = (*MovementRepository)(nil)
	_ repository.WasteRepository             = (*WasteRepository)(nil)
	_ repository.ReturnRepository            = (*ReturnRepository)(nil)
)

// ProductRepository mock.
type ProductRepository struct{ mock.Mock }

func (m *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProductRepository) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	args := m.Called(ctx, companyID, id)
	p, _ := args.Get(0).(*entity.Product)
	return p, args.Error(1)
}

func (m *ProductRepository) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	args := m.Called(ctx, companyID, id)
	p, _ := args.Get(0).(*entity.Product)
	return p, args.Error(1)
}

func (m *ProductRepository) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	args := m.Called(ctx, companyID, sku)
	p, _ := args.Get(0).(*entity.Product)
	return p, args.Error(1)
}

func (m *ProductRepository) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	args := m.Called(ctx, companyID, limit, offset)
	list, _ := args.Get(0).([]*entity.Product)
	return list, args.Error(1)
}

func (m *ProductRepository) ListAll(ctx context.Context, companyID string) ([]*entity.Product, error) {
	args := m.Called(ctx, companyID)
	list, _ := args.Get(0).([]*entity.Product)
	return list, args.Error(1)
}

func (m *ProductRepository) ListByLocation(ctx context.Context, companyID, location string) ([]*entity.Product, error) {
	args := m.Called(ctx, companyID, location)
	list, _ := args.Get(0).([]*entity.Product)
	return list, args.Error(1)
}

func (m *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProductRepository) SetStock(ctx context.Context, companyID, id string, qty decimal.Decimal) error {
	return m.Called(ctx, companyID, id, qty).Error(0)
}

func (m *ProductRepository) CompanyIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

// LotRepository mock.
type LotRepository struct{ mock.Mock }

func (m *LotRepository) Create(ctx context.Context, l *entity.InventoryLot) error {
	return m.Called(ctx, l).Error(0)
}

func (m *LotRepository) GetByID(ctx context.Context, companyID, id string) (*entity.InventoryLot, error) {
	args := m.Called(ctx, companyID, id)
	l, _ := args.Get(0).(*entity.InventoryLot)
	return l, args.Error(1)
}

func (m *LotRepository) ListByProduct(ctx context.Context, companyID, productID string) ([]*entity.InventoryLot, error) {
	args := m.Called(ctx, companyID, productID)
	list, _ := args.Get(0).([]*entity.InventoryLot)
	return list, args.Error(1)
}

func (m *LotRepository) ListByCompany(ctx context.Context, companyID string) ([]*entity.InventoryLot, error) {
	args := m.Called(ctx, companyID)
	list, _ := args.Get(0).([]*entity.InventoryLot)
	return list, args.Error(1)
}

// CountRepository mock.
type CountRepository struct{ mock.Mock }

func (m *CountRepository) Create(ctx context.Context, s *entity.CountSession) error {
	return m.Called(ctx, s).Error(0)
}

func (m *CountRepository) GetByID(ctx context.Context, companyID, id string) (*entity.CountSession, error) {
	args := m.Called(ctx, companyID, id)
	s, _ := args.Get(0).(*entity.CountSession)
	return s, args.Error(1)
}

func (m *CountRepository) GetForUpdate(ctx context.Context, companyID, id string) (*entity.CountSession, error) {
	args := m.Called(ctx, companyID, id)
	s, _ := args.Get(0).(*entity.CountSession)
	return s, args.Error(1)
}

func (m *CountRepository) Update(ctx context.Context, s *entity.CountSession) error {
	return m.Called(ctx, s).Error(0)
}

func (m *CountRepository) ListByCompany(ctx context.Context, companyID, location string, limit, offset int) ([]*entity.CountSession, error) {
	args := m.Called(ctx, companyID, location, limit, offset)
	list, _ := args.Get(0).([]*entity.CountSession)
	return list, args.Error(1)
}

// AlertRepository mock.
type AlertRepository struct{ mock.Mock }

func (m *AlertRepository) Create(ctx context.Context, a *entity.Alert) error {
	return m.Called(ctx, a).Error(0)
}

func (m *AlertRepository) ListByCompany(ctx context.Context, companyID string, unreadOnly bool, limit, offset int) ([]*entity.Alert, error) {
	args := m.Called(ctx, companyID, unreadOnly, limit, offset)
	list, _ := args.Get(0).([]*entity.Alert)
	return list, args.Error(1)
}

func (m *AlertRepository) CountUnread(ctx context.Context, companyID string) (int, error) {
	args := m.Called(ctx, companyID)
	return args.Int(0), args.Error(1)
}

func (m *AlertRepository) MarkRead(ctx context.Context, companyID, id string) error {
	return m.Called(ctx, companyID, id).Error(0)
}

func (m *AlertRepository) ExistsSince(ctx context.Context, companyID, category, reference string, since time.Time) (bool, error) {
	args := m.Called(ctx, companyID, category, reference, since)
	return args.Bool(0), args.Error(1)
}

// MovementRepository mock del kardex.
type MovementRepository struct{ mock.Mock }

func (m *MovementRepository) Create(ctx context.Context, mov *entity.InventoryMovement) error {
	return m.Called(ctx, mov).Error(0)
}

func (m *MovementRepository) ListByProduct(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	args := m.Called(ctx, companyID, productID, limit, offset)
	list, _ := args.Get(0).([]*entity.InventoryMovement)
	return list, args.Error(1)
}

// WasteRepository mock.
type WasteRepository struct{ mock.Mock }

func (m *WasteRepository) Create(ctx context.Context, w *entity.Waste) error {
	return m.Called(ctx, w).Error(0)
}

func (m *WasteRepository) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Waste, error) {
	args := m.Called(ctx, companyID, limit, offset)
	list, _ := args.Get(0).([]*entity.Waste)
	return list, args.Error(1)
}

// ReturnRepository mock.
type ReturnRepository struct{ mock.Mock }

func (m *ReturnRepository) Create(ctx context.Context, r *entity.CustomerReturn) error {
	return m.Called(ctx, r).Error(0)
}

func (m *ReturnRepository) GetForUpdate(ctx context.Context, companyID, id string) (*entity.CustomerReturn, error) {
	args := m.Called(ctx, companyID, id)
	r, _ := args.Get(0).(*entity.CustomerReturn)
	return r, args.Error(1)
}

func (m *ReturnRepository) Update(ctx context.Context, r *entity.CustomerReturn) error {
	return m.Called(ctx, r).Error(0)
}

func (m *ReturnRepository) ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.CustomerReturn, error) {
	args := m.Called(ctx, companyID, status, limit, offset)
	list, _ := args.Get(0).([]*entity.CustomerReturn)
	return list, args.Error(1)
}
