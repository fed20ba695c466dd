package postgres

import (
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/pkg/errors"
)

// RunMigrations applies all pending schema migrations from the configured
// migrations directory.  A database already at the latest version is not an
// error.
func RunMigrations(cfg config.DatabaseConfig, log logging.Logger) error {
	dsn := strings.Replace(BuildDSN(cfg), "postgres://", "pgx5://", 1)

	m, err := migrate.New("file://"+cfg.MigrationPath, dsn)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migrate instance")
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Warn("failed to close migration source", logging.Err(srcErr))
		}
		if dbErr != nil {
			log.Warn("failed to close migration database handle", logging.Err(dbErr))
		}
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to run migrations")
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		log.Warn("failed to read migration version", logging.Err(err))
		return nil
	}

	log.Info("database migrations completed",
		logging.Int64("version", int64(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}
