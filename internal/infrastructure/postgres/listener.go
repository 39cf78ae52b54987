package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/bodega-api/internal/application/monitor"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

// Listener reenvía las notificaciones LISTEN/NOTIFY de PostgreSQL al bus de eventos.
// Si la conexión se cae, se reconecta con espera exponencial hasta que ctx se cancele.
type Listener struct {
	pool       *pgxpool.Pool
	channel    string
	bus        EventBus.Bus
	log        *logger.Logger
	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewListener construye el listener para el canal indicado.
func NewListener(pool *pgxpool.Pool, channel string, bus EventBus.Bus, log *logger.Logger) *Listener {
	return &Listener{
		pool:       pool,
		channel:    channel,
		bus:        bus,
		log:        log,
		minBackoff: time.Second,
		maxBackoff: 30 * time.Second,
	}
}

// Run bloquea hasta que ctx se cancele.
func (l *Listener) Run(ctx context.Context) {
	backoff := l.minBackoff
	for {
		listened, err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		backoff = l.retryDelay(backoff, listened)
		l.log.Warn().Err(err).Str("channel", l.channel).Dur("retry_in", backoff).Msg("listener: conexión perdida, reintentando")
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > l.maxBackoff {
			backoff = l.maxBackoff
		}
	}
}

// retryDelay espera antes de reconectar. Una sesión que llegó a escuchar reinicia la espera al
// mínimo; sólo los fallos seguidos la hacen crecer.
func (l *Listener) retryDelay(cur time.Duration, listened bool) time.Duration {
	if listened || cur < l.minBackoff {
		return l.minBackoff
	}
	return cur
}

// listen informa si llegó a ejecutar LISTEN antes de fallar.
func (l *Listener) listen(ctx context.Context) (bool, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire: %w", err)
	}
	defer conn.Release()

	ident := pgx.Identifier{l.channel}.Sanitize()
	if _, err := conn.Exec(ctx, "LISTEN "+ident); err != nil {
		return false, fmt.Errorf("listen %s: %w", l.channel, err)
	}
	// La conexión vuelve al pool: que no siga suscrita.
	defer func() {
		unlistenCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = conn.Exec(unlistenCtx, "UNLISTEN "+ident)
	}()
	l.log.Info().Str("channel", l.channel).Msg("listener: escuchando cambios")

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return true, err
		}
		ev, err := DecodeChange(n.Payload)
		if err != nil {
			l.log.Warn().Err(err).Str("payload", n.Payload).Msg("listener: notificación descartada")
			continue
		}
		monitor.Publish(l.bus, ev)
	}
}

// DecodeChange interpreta el JSON que emite el trigger notify_inventory_change.
func DecodeChange(payload string) (monitor.ChangeEvent, error) {
	var ev monitor.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ev, fmt.Errorf("decode change: %w", err)
	}
	if ev.Table == "" || ev.CompanyID == "" {
		return ev, fmt.Errorf("decode change: faltan table o company_id")
	}
	return ev, nil
}
