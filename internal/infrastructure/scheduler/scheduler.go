// Package scheduler corre las tareas periódicas: sincronización stock-lotes y resumen diario de vencimientos.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/bodega-api/pkg/logger"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Job tarea programable; recibe un contexto que se cancela al detener el scheduler.
type Job func(ctx context.Context) error

// Scheduler envoltorio de robfig/cron con recuperación de pánicos y sin ejecuciones solapadas por tarea.
type Scheduler struct {
	cron   *cron.Cron
	log    *logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
	names  []string
}

// New construye el scheduler en la zona horaria indicada.
func New(loc *time.Location, log *logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc), cron.WithParser(cronParser)),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registra una tarea. Una expresión vacía deshabilita la tarea sin error.
func (s *Scheduler) Add(name, spec string, job Job) error {
	if spec == "" {
		s.log.Info().Str("job", name).Msg("scheduler: tarea deshabilitada")
		return nil
	}
	if _, err := s.cron.AddFunc(spec, s.wrap(name, job)); err != nil {
		return fmt.Errorf("scheduler: tarea %s (%q): %w", name, spec, err)
	}
	s.names = append(s.names, name)
	return nil
}

// wrap evita que una ejecución lenta se solape con la siguiente y registra duración y errores.
func (s *Scheduler) wrap(name string, job Job) func() {
	var running sync.Mutex
	return func() {
		if !running.TryLock() {
			s.log.Warn().Str("job", name).Msg("scheduler: ejecución anterior en curso, se omite")
			return
		}
		defer running.Unlock()
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Str("job", name).Interface("panic", r).Msg("scheduler: panic en tarea")
			}
		}()
		started := time.Now()
		if err := job(s.ctx); err != nil {
			s.log.Error().Err(err).Str("job", name).Dur("took", time.Since(started)).Msg("scheduler: tarea fallida")
			return
		}
		s.log.Info().Str("job", name).Dur("took", time.Since(started)).Msg("scheduler: tarea completada")
	}
}

// Start arranca el cron en segundo plano.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Strs("jobs", s.names).Msg("scheduler: iniciado")
}

// Stop cancela las tareas en curso y espera a que terminen.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}
