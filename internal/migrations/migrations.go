package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var sqlFS embed.FS

// Up applies all pending migrations. A schema that is already current is a no-op.
func Up(databaseURL string, logger *zap.Logger) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("migrations: open database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("migrations: create postgres driver: %w", err)
	}

	return apply(driver, logger)
}

// apply runs the embedded migrations against driver and closes it.
func apply(driver database.Driver, logger *zap.Logger) error {
	m, err := newMigrate(driver)
	if err != nil {
		_ = driver.Close()
		return err
	}
	defer m.Close()

	current, _, verr := m.Version()
	switch {
	case verr == nil:
		logger.Info("current schema version", zap.Uint("version", current))
	case errors.Is(verr, migrate.ErrNilVersion):
		logger.Info("no existing schema version, fresh database")
	default:
		logger.Warn("unable to determine schema version", zap.Error(verr))
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("schema is up to date", zap.Uint("version", current))
			return nil
		}
		return fmt.Errorf("migrations: apply: %w", err)
	}

	if v, dirty, err := m.Version(); err == nil {
		logger.Info("migrations applied", zap.Uint("version", v), zap.Bool("dirty", dirty))
	}
	return nil
}

func newMigrate(driver database.Driver) (*migrate.Migrate, error) {
	src, err := Source()
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrations: init migrate instance: %w", err)
	}
	return m, nil
}

// Source exposes the embedded migration files as a migrate source driver.
func Source() (source.Driver, error) {
	d, err := iofs.New(sqlFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("migrations: open embedded migrations: %w", err)
	}
	return d, nil
}
