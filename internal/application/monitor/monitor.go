// Package monitor mantiene el triage de vencimientos al día: cada cambio en productos o lotes
// dispara un recálculo completo para la empresa afectada. Los recálculos se serializan.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	EventBus "github.com/asaskevich/EventBus"

	"github.com/jhoicas/bodega-api/internal/domain/expiry"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

// TopicChange tópico del bus donde se publican los ChangeEvent.
const TopicChange = "inventory:change"

// Tablas observadas.
const (
	TableProducts = "products"
	TableLots     = "inventory_lots"
	TableCounts   = "count_sessions"
)

// ChangeEvent notificación de cambio de una fila (origen: LISTEN/NOTIFY o escritura local).
type ChangeEvent struct {
	Table     string `json:"table"`
	Op        string `json:"op"`
	CompanyID string `json:"company_id"`
	ID        string `json:"id"`
}

// Snapshot resultado del último triage de una empresa.
type Snapshot struct {
	CompanyID  string
	Result     expiry.Result
	Products   int
	Lots       int
	ComputedAt time.Time
}

// Monitor adaptador de suscripción: escucha el bus, recarga las instantáneas y corre el triage.
type Monitor struct {
	bus         EventBus.Bus
	productRepo repository.ProductRepository
	lotRepo     repository.LotRepository
	policy      expiry.Policy
	log         *logger.Logger
	now         func() time.Time
	handler     func(ChangeEvent)

	mu     sync.RWMutex
	latest map[string]*Snapshot
	locks  map[string]*sync.Mutex
}

// New construye el monitor. No se suscribe hasta Start.
func New(bus EventBus.Bus, productRepo repository.ProductRepository, lotRepo repository.LotRepository, policy expiry.Policy, log *logger.Logger) *Monitor {
	m := &Monitor{
		bus:         bus,
		productRepo: productRepo,
		lotRepo:     lotRepo,
		policy:      policy,
		log:         log,
		now:         time.Now,
		latest:      make(map[string]*Snapshot),
		locks:       make(map[string]*sync.Mutex),
	}
	m.handler = m.onChange
	return m
}

// WithClock reemplaza el reloj (tests).
func (m *Monitor) WithClock(now func() time.Time) *Monitor {
	m.now = now
	return m
}

// Start se suscribe al bus en modo transaccional: un solo consumidor, sin recálculos concurrentes.
func (m *Monitor) Start() error {
	if err := m.bus.SubscribeAsync(TopicChange, m.handler, true); err != nil {
		return fmt.Errorf("monitor: suscribir: %w", err)
	}
	return nil
}

// Stop se desuscribe y espera a que terminen los recálculos en curso.
func (m *Monitor) Stop() {
	_ = m.bus.Unsubscribe(TopicChange, m.handler)
	m.bus.WaitAsync()
}

// Publish publica un cambio en el bus.
func Publish(bus EventBus.Bus, ev ChangeEvent) {
	bus.Publish(TopicChange, ev)
}

func (m *Monitor) onChange(ev ChangeEvent) {
	if ev.CompanyID == "" {
		return
	}
	switch ev.Table {
	case TableProducts, TableLots:
	default:
		return
	}
	if _, err := m.Recompute(context.Background(), ev.CompanyID); err != nil {
		m.log.Error().Err(err).Str("company_id", ev.CompanyID).Str("table", ev.Table).Msg("monitor: recálculo fallido")
	}
}

// companyLock candado de recálculo de la empresa. Un recálculo lee y publica bajo el mismo
// candado, así un resultado viejo nunca pisa a uno leído después.
func (m *Monitor) companyLock(companyID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[companyID]
	if !ok {
		l = new(sync.Mutex)
		m.locks[companyID] = l
	}
	return l
}

// Recompute recarga productos y lotes de la empresa y recalcula el triage completo.
// Las dos instantáneas se leen por separado; no hay garantía de consistencia entre ellas.
func (m *Monitor) Recompute(ctx context.Context, companyID string) (*Snapshot, error) {
	l := m.companyLock(companyID)
	l.Lock()
	defer l.Unlock()
	return m.recompute(ctx, companyID)
}

// recompute requiere el candado de la empresa.
func (m *Monitor) recompute(ctx context.Context, companyID string) (*Snapshot, error) {
	products, err := m.productRepo.ListAll(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("monitor: productos: %w", err)
	}
	lots, err := m.lotRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("monitor: lotes: %w", err)
	}
	now := m.now()
	res, err := m.policy.Triage(expiry.FromSnapshot(products, lots), now)
	if err != nil {
		return nil, err
	}
	if res.Skipped > 0 {
		m.log.Warn().Str("company_id", companyID).Int("skipped", res.Skipped).Strs("ids", res.SkippedIDs).Msg("monitor: fechas de vencimiento ilegibles omitidas")
	}
	snap := &Snapshot{
		CompanyID:  companyID,
		Result:     res,
		Products:   len(products),
		Lots:       len(lots),
		ComputedAt: now,
	}
	m.mu.Lock()
	m.latest[companyID] = snap
	m.mu.Unlock()
	return snap, nil
}

// Latest devuelve el último triage de la empresa; si no hay o es de otro día lo recalcula.
func (m *Monitor) Latest(ctx context.Context, companyID string) (*Snapshot, error) {
	if snap := m.cached(companyID); snap != nil {
		return snap, nil
	}
	l := m.companyLock(companyID)
	l.Lock()
	defer l.Unlock()
	// otro recálculo pudo terminar mientras esperábamos
	if snap := m.cached(companyID); snap != nil {
		return snap, nil
	}
	return m.recompute(ctx, companyID)
}

func (m *Monitor) cached(companyID string) *Snapshot {
	m.mu.RLock()
	snap, ok := m.latest[companyID]
	m.mu.RUnlock()
	if ok && sameDay(snap.ComputedAt, m.now(), m.policy.Loc) {
		return snap
	}
	return nil
}

// sameDay los días de vencimiento dependen de la fecha de hoy; un triage de ayer ya no sirve.
func sameDay(a, b time.Time, loc *time.Location) bool {
	return expiry.Midnight(a, loc).Equal(expiry.Midnight(b, loc))
}
