package postgres

import (
	"database/sql"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/pkg/errors"
)

// Migrator applies schema migrations from a file source.
type Migrator struct {
	m   *migrate.Migrate
	log logging.Logger
}

// NewMigrator builds a Migrator over an open database handle.  sourceURL is a
// golang-migrate source, e.g. "file://migrations".
func NewMigrator(db *sql.DB, sourceURL string, log logging.Logger) (*Migrator, error) {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to init migration driver")
	}
	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to init migrator")
	}
	return &Migrator{m: m, log: log}, nil
}

// Up applies all pending migrations.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "migration up failed")
	}
	version, dirty, _ := mg.m.Version()
	mg.log.Info("migrations applied",
		logging.Int("version", int(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}

// Down rolls back a single migration step.
func (mg *Migrator) Down() error {
	if err := mg.m.Steps(-1); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "migration down failed")
	}
	return nil
}

// Version reports the current schema version.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read migration version")
	}
	return version, dirty, nil
}
