package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Blank imports register the PostgreSQL driver and the file source
	// for migrations.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"spot/internal/app/server/config"
)

// Migrator is the subset of migrate.Migrate the runner needs.
type Migrator interface {
	Up() error
	Close() (error, error)
}

// Engine builds a Migrator; injected so tests stay off the filesystem
// and the database.
type Engine func(sourceURL, databaseURL string) (Migrator, error)

type Migration struct {
	cfg    *config.Config
	engine Engine
}

func NewMigration(conf *config.Config, engine Engine) *Migration {
	if engine == nil {
		engine = DefaultEngine
	}
	return &Migration{
		cfg:    conf,
		engine: engine,
	}
}

func DefaultEngine(sourceURL, databaseURL string) (Migrator, error) {
	return migrate.New(sourceURL, databaseURL)
}

func (mg *Migration) Up() (err error) {
	m, err := mg.engine("file://"+mg.cfg.DB.Migrations, mg.cfg.DB.DatabaseURI)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			err = errors.Join(err, fmt.Errorf("migration source error: %w", serr))
		}
		if dberr != nil {
			err = errors.Join(err, fmt.Errorf("migration database error: %w", dberr))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}
