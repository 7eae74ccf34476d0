package db

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mongodb"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.json
var migrationsFS embed.FS

// MigrationURL points mongoURL at database so the migrate driver works on it.
func MigrationURL(mongoURL, database string) (string, error) {
	u, err := url.Parse(mongoURL)
	if err != nil {
		return "", fmt.Errorf("parse mongo url: %w", err)
	}
	u.Path = "/" + database
	return u.String(), nil
}

// RunMigrations applies the embedded index migrations to the Mongo database.
func RunMigrations(mongoURL, database string, log *zap.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	dbURL, err := MigrationURL(mongoURL, database)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return fmt.Errorf("migration failed to start: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run up migrations: %w", err)
	}
	version, _, _ := m.Version()
	log.Info("migrations applied", zap.Uint("version", version))
	return nil
}
