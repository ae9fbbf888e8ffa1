package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	log "github.com/sirupsen/logrus"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations brings the schema up to date before the registry starts
// serving. A dirty version left behind by an interrupted run is forced
// back to clean first, then pending migrations are applied.
func RunMigrations(sourceURL, databaseURL string) error {
	var m *migrate.Migrate
	var err error

	for attempt := 1; attempt <= 5; attempt++ {
		m, err = migrate.New(sourceURL, databaseURL)
		if err == nil {
			break
		}
		log.WithError(err).Warnf("migrate init failed (attempt %d/5)", attempt)
		time.Sleep(5 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		log.Warnf("dirty database state at version %d, forcing clean", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("force version: %w", err)
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
