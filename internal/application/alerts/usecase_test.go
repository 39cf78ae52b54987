package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/monitor"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/expiry"
	"github.com/jhoicas/bodega-api/internal/domain/repository/mocks"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

type staticSnapshots map[string]*monitor.Snapshot

func (s staticSnapshots) Latest(_ context.Context, companyID string) (*monitor.Snapshot, error) {
	return s[companyID], nil
}

var now = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newUseCase(snaps staticSnapshots) (*UseCase, *mocks.AlertRepository, *mocks.ProductRepository) {
	alertRepo := new(mocks.AlertRepository)
	productRepo := new(mocks.ProductRepository)
	uc := NewUseCase(alertRepo, productRepo, snaps, time.UTC, logger.NewNop())
	uc.now = func() time.Time { return now }
	return uc, alertRepo, productRepo
}

func TestDigest_UnaAlertaPorDiaYRegistro(t *testing.T) {
	snaps := staticSnapshots{"c1": {CompanyID: "c1", Result: expiry.Result{
		Critical: &expiry.CriticalAlert{ID: "l9", Name: "Queso", SKU: "Q1", Days: 1, Source: expiry.SourceLot},
	}}}
	uc, alertRepo, _ := newUseCase(snaps)
	midnight := mock.MatchedBy(func(since time.Time) bool { return since.Equal(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)) })
	alertRepo.On("ExistsSince", mock.Anything, "c1", entity.AlertCategoryFEFO, "lot:l9", midnight).Return(false, nil).Once()
	alertRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.Alert) bool {
		return a.ID != "" && a.Reference == "lot:l9" && a.Title == "Vencimiento crítico"
	})).Return(nil).Once()

	a, err := uc.Digest(context.Background(), "c1")
	require.NoError(t, err)
	require.NotNil(t, a)

	alertRepo.On("ExistsSince", mock.Anything, "c1", entity.AlertCategoryFEFO, "lot:l9", midnight).Return(true, nil).Once()
	a, err = uc.Digest(context.Background(), "c1")
	require.NoError(t, err)
	assert.Nil(t, a)
	alertRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestDigest_SinCriticoNoHaceNada(t *testing.T) {
	uc, alertRepo, _ := newUseCase(staticSnapshots{"c1": {CompanyID: "c1"}})

	a, err := uc.Digest(context.Background(), "c1")

	require.NoError(t, err)
	assert.Nil(t, a)
	alertRepo.AssertNotCalled(t, "ExistsSince", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDigestAll_RecorreEmpresas(t *testing.T) {
	snaps := staticSnapshots{
		"c1": {Result: expiry.Result{Critical: &expiry.CriticalAlert{ID: "p1", Days: 0, Source: expiry.SourceProduct}}},
		"c2": {},
	}
	uc, alertRepo, productRepo := newUseCase(snaps)
	productRepo.On("CompanyIDs", mock.Anything).Return([]string{"c1", "c2"}, nil)
	alertRepo.On("ExistsSince", mock.Anything, "c1", mock.Anything, "product:p1", mock.Anything).Return(false, nil)
	alertRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, uc.DigestAll(context.Background()))
	alertRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestList_IncluyeContadorDeNoLeidas(t *testing.T) {
	uc, alertRepo, _ := newUseCase(nil)
	alertRepo.On("ListByCompany", mock.Anything, "c1", true, 20, 0).Return([]*entity.Alert{
		{ID: "a1", Category: entity.AlertCategoryStock, Payload: nil},
		{ID: "a2", Category: entity.AlertCategoryDiscrepancy, Payload: &entity.AlertPayload{Expected: 5, Counted: 3}},
	}, nil)
	alertRepo.On("CountUnread", mock.Anything, "c1").Return(2, nil)

	out, err := uc.List(context.Background(), "c1", true, dto.PageRequest{})

	require.NoError(t, err)
	assert.Equal(t, 2, out.Unread)
	require.Len(t, out.Items, 2)
	require.NotNil(t, out.Items[1].Payload)
	assert.Equal(t, 3, out.Items[1].Payload.Counted)
	assert.Equal(t, dto.DefaultLimit, out.Page.Limit)
	assert.False(t, out.Page.HasMore)
}

func TestMarkRead_SinIDEsInvalido(t *testing.T) {
	uc, _, _ := newUseCase(nil)
	assert.ErrorIs(t, uc.MarkRead(context.Background(), "c1", ""), domain.ErrInvalidInput)
}
