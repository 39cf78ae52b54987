package counting

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	appinventory "github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/ports"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository/mocks"
)

type fakeTx struct{ repos ports.Repos }

func (f fakeTx) Run(_ context.Context, fn func(r ports.Repos) error) error { return fn(f.repos) }

// memCounts guarda la última versión persistida de cada sesión.
type memCounts struct {
	sessions map[string]*entity.CountSession
	updates  int
}

func (m *memCounts) Create(_ context.Context, s *entity.CountSession) error {
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *memCounts) GetByID(_ context.Context, _, id string) (*entity.CountSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (m *memCounts) GetForUpdate(ctx context.Context, companyID, id string) (*entity.CountSession, error) {
	return m.GetByID(ctx, companyID, id)
}

func (m *memCounts) Update(_ context.Context, s *entity.CountSession) error {
	m.updates++
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *memCounts) ListByCompany(_ context.Context, _, _ string, _, _ int) ([]*entity.CountSession, error) {
	out := make([]*entity.CountSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Clone())
	}
	return out, nil
}

type countFixture struct {
	counts    *memCounts
	products  *mocks.ProductRepository
	alerts    *mocks.AlertRepository
	movements *mocks.MovementRepository
	uc        *UseCase
}

func newCountFixture() *countFixture {
	f := &countFixture{
		counts:    &memCounts{sessions: map[string]*entity.CountSession{}},
		products:  new(mocks.ProductRepository),
		alerts:    new(mocks.AlertRepository),
		movements: new(mocks.MovementRepository),
	}
	tx := fakeTx{repos: ports.Repos{Counts: f.counts, Products: f.products, Alerts: f.alerts, Movements: f.movements}}
	f.uc = NewUseCase(tx, appinventory.NewStockWriter(10), f.counts, f.products, nil, nil)
	return f
}

func intPtr(n int) *int { return &n }

// seed deja una sesión pendiente con dos líneas: A (esperado 10) y B (esperado 24, cajas de 12).
func (f *countFixture) seed() *entity.CountSession {
	s := &entity.CountSession{
		ID:        "s1",
		CompanyID: "c1",
		WorkerID:  "w1",
		Location:  "Bodega 1",
		Status:    entity.CountStatusPending,
		Items: []entity.CountItem{
			{ProductID: "pA", SKU: "A", Name: "Arroz", Expected: 10},
			{ProductID: "pB", SKU: "B", Name: "Frijol", Expected: 24, UnitsPerBox: 12},
		},
		TotalExpected: 34,
	}
	f.counts.sessions[s.ID] = s
	return s
}

func TestStart_TomaLoEsperadoDelStockCanonico(t *testing.T) {
	f := newCountFixture()
	f.products.On("ListByLocation", mock.Anything, "c1", "Bodega 1").Return([]*entity.Product{
		{ID: "p1", SKU: "A", Name: "Arroz", TotalStock: decimal.NewNullDecimal(decimal.NewFromInt(7))},
		{ID: "p2", SKU: "B", Name: "Frijol", Stock: decimal.NewNullDecimal(decimal.NewFromInt(3)), Quantity: decimal.NewNullDecimal(decimal.NewFromInt(99))},
	}, nil)

	out, err := f.uc.Start(context.Background(), "c1", "w1", dto.StartCountRequest{Location: " Bodega 1 "})

	require.NoError(t, err)
	assert.Equal(t, entity.CountStatusPending, out.Status)
	require.Len(t, out.Items, 2)
	assert.Equal(t, 7, out.Items[0].Expected)
	assert.Equal(t, 3, out.Items[1].Expected)
	assert.Equal(t, 10, out.TotalExpected)
}

func TestStart_UbicacionVacia(t *testing.T) {
	f := newCountFixture()
	f.products.On("ListByLocation", mock.Anything, "c1", "X").Return([]*entity.Product{}, nil)

	_, err := f.uc.Start(context.Background(), "c1", "w1", dto.StartCountRequest{Location: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Start(context.Background(), "c1", "w1", dto.StartCountRequest{Location: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSaveLine_DiscrepanciaAlertaUnaSolaVez(t *testing.T) {
	f := newCountFixture()
	f.seed()
	f.alerts.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.Alert) bool {
		return a.Category == entity.AlertCategoryDiscrepancy && a.Payload != nil &&
			a.Payload.Expected == 10 && a.Payload.Counted == 8
	})).Return(nil).Once()

	cmd := SaveCountLine{CompanyID: "c1", SessionID: "s1", Code: "a", Quantity: "8"}
	first, err := f.uc.SaveLine(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, -2, first.Diff)
	assert.False(t, first.Match)
	require.NotNil(t, first.Alert)
	assert.Equal(t, 8, first.TotalCounted)

	second, err := f.uc.SaveLine(context.Background(), cmd)
	require.NoError(t, err)
	assert.Nil(t, second.Alert, "reguardar el mismo valor no alerta de nuevo")

	f.alerts.AssertNumberOfCalls(t, "Create", 1)
	assert.Equal(t, 2, f.counts.updates)
	assert.Equal(t, entity.CountStatusPending, f.counts.sessions["s1"].Status)
}

func TestSaveLine_CoincidenciaNoAlertaYRearmaDedupe(t *testing.T) {
	f := newCountFixture()
	f.seed()
	f.alerts.On("Create", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	_, err := f.uc.SaveLine(ctx, SaveCountLine{CompanyID: "c1", SessionID: "s1", Code: "A", Quantity: "8"})
	require.NoError(t, err)
	match, err := f.uc.SaveLine(ctx, SaveCountLine{CompanyID: "c1", SessionID: "s1", Code: "A", Quantity: "10"})
	require.NoError(t, err)
	assert.True(t, match.Match)
	assert.Nil(t, match.Alert)
	again, err := f.uc.SaveLine(ctx, SaveCountLine{CompanyID: "c1", SessionID: "s1", Code: "A", Quantity: "8"})
	require.NoError(t, err)
	assert.NotNil(t, again.Alert)

	f.alerts.AssertNumberOfCalls(t, "Create", 2)
}

func TestSaveLine_ModoCajas(t *testing.T) {
	f := newCountFixture()
	f.seed()

	out, err := f.uc.SaveLine(context.Background(), SaveCountLine{CompanyID: "c1", SessionID: "s1", Code: "B", Mode: dto.CountModeBoxes, Quantity: "2"})

	require.NoError(t, err)
	assert.Equal(t, 24, out.Counted)
	assert.True(t, out.Match)
	f.alerts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSaveLine_Errores(t *testing.T) {
	f := newCountFixture()
	f.seed()
	ctx := context.Background()

	_, err := f.uc.SaveLine(ctx, SaveCountLine{CompanyID: "c1", SessionID: "s1", Code: "ZZZ", Quantity: "1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.SaveLine(ctx, SaveCountLine{CompanyID: "c1", SessionID: "s1", Code: "A", Quantity: "ocho"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.SaveLine(ctx, SaveCountLine{CompanyID: "c1", SessionID: "s1", Code: "A", Mode: "litros", Quantity: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.SaveLine(ctx, SaveCountLine{CompanyID: "c1", SessionID: "nope", Code: "A", Quantity: "1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Zero(t, f.counts.updates)
}

func TestSaveLineFromRequest_CantidadNumericaOTexto(t *testing.T) {
	f := newCountFixture()
	f.seed()

	out, err := f.uc.SaveLineFromRequest(context.Background(), "c1", "s1", dto.SaveCountLineRequest{Code: "A", Quantity: float64(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Counted)

	_, err = f.uc.SaveLineFromRequest(context.Background(), "c1", "s1", dto.SaveCountLineRequest{Code: "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClose_AplicaAjustesSoloEnLineasConDiferencia(t *testing.T) {
	f := newCountFixture()
	s := f.seed()
	s.Items[0].Counted = intPtr(8)  // A: -2
	s.Items[1].Counted = intPtr(24) // B: coincide

	f.products.On("GetForUpdate", mock.Anything, "c1", "pA").Return(&entity.Product{
		ID: "pA", CompanyID: "c1", SKU: "A", Name: "Arroz", Stock: decimal.NewNullDecimal(decimal.NewFromInt(15)),
	}, nil)
	f.products.On("SetStock", mock.Anything, "c1", "pA", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(13))
	})).Return(nil)
	f.movements.On("Create", mock.Anything, mock.MatchedBy(func(m *entity.InventoryMovement) bool {
		return m.Type == entity.MovementTypeCOUNT && m.Reference == "s1"
	})).Return(nil)

	out, err := f.uc.Close(context.Background(), "c1", "u1", "s1")

	require.NoError(t, err)
	assert.Equal(t, entity.CountStatusClosed, out.Session.Status)
	assert.Len(t, out.Adjustments, 1)
	assert.Empty(t, out.Alerts)
	assert.Equal(t, 32, f.counts.sessions["s1"].TotalCounted)
	f.products.AssertNotCalled(t, "GetForUpdate", mock.Anything, "c1", "pB")

	_, err = f.uc.Close(context.Background(), "c1", "u1", "s1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.SaveLine(context.Background(), SaveCountLine{CompanyID: "c1", SessionID: "s1", Code: "A", Quantity: "1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestClose_AjusteNegativoQuedaEnCero(t *testing.T) {
	f := newCountFixture()
	s := f.seed()
	s.Items[0].Counted = intPtr(0) // A: -10 sobre un stock que ya bajó a 4

	f.products.On("GetForUpdate", mock.Anything, "c1", "pA").Return(&entity.Product{
		ID: "pA", CompanyID: "c1", SKU: "A", Name: "Arroz", Stock: decimal.NewNullDecimal(decimal.NewFromInt(4)),
	}, nil)
	f.products.On("SetStock", mock.Anything, "c1", "pA", mock.MatchedBy(func(d decimal.Decimal) bool { return d.IsZero() })).Return(nil)
	f.movements.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.alerts.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.Alert) bool {
		return a.Category == entity.AlertCategoryStock
	})).Return(nil).Once()

	out, err := f.uc.Close(context.Background(), "c1", "u1", "s1")

	require.NoError(t, err)
	require.Len(t, out.Alerts, 1)
	f.products.AssertExpectations(t)
}
