package postgres

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // driver postgres://
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jhoicas/bodega-api/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrateUp aplica todas las migraciones pendientes. Sin cambios no es error.
func MigrateUp(dsn string, log *logger.Logger) error {
	m, err := newMigrator(dsn, log)
	if err != nil {
		return err
	}
	defer closeMigrator(m, log)

	log.Info().Msg("migraciones: aplicando")
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("migraciones: sin cambios")
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}
	return logVersion(m, log)
}

// MigrateDown revierte steps migraciones (steps <= 0 revierte todas).
func MigrateDown(dsn string, steps int, log *logger.Logger) error {
	m, err := newMigrator(dsn, log)
	if err != nil {
		return err
	}
	defer closeMigrator(m, log)

	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return logVersion(m, log)
}

func newMigrator(dsn string, log *logger.Logger) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migrations source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("migrate init: %w", err)
	}
	m.Log = &migrateLogger{log: log}
	return m, nil
}

func closeMigrator(m *migrate.Migrate, log *logger.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("migraciones: cierre con errores")
	}
}

func logVersion(m *migrate.Migrate, log *logger.Logger) error {
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migrate version: %w", err)
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migraciones: versión actual")
	return nil
}

// migrateLogger adapta pkg/logger a migrate.Logger.
type migrateLogger struct {
	log *logger.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.log.Debug().Msgf("migrate: "+strings.TrimSuffix(format, "\n"), v...)
}

func (l *migrateLogger) Verbose() bool { return false }
