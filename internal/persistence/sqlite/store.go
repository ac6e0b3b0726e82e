package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/example/schedule-conflicts/internal/persistence"
	"github.com/example/schedule-conflicts/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(fmt.Sprintf("sqlite: embedded migrations: %v", err))
	}
	return sub
}

// Store bundles the SQLite repositories over one connection pool.
type Store struct {
	persistence.Repositories

	pool   *ConnectionPool
	logger *slog.Logger
}

var _ persistence.Transactor = (*Store)(nil)

// Open connects to the database described by config. Call Migrate before
// first use of a fresh database.
func Open(config migration.SQLiteConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := NewConnectionPool(config)
	if err != nil {
		return nil, err
	}

	return &Store{
		Repositories: repositoriesFor(pool.DB()),
		pool:         pool,
		logger:       logger,
	}, nil
}

// Migrate applies pending embedded migrations and returns how many ran.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	return migration.NewManager(s.pool.DB(), Migrations(), s.logger).Run(ctx)
}

// MigrationStatus reports applied and pending embedded migrations.
func (s *Store) MigrationStatus(ctx context.Context) (migration.Status, error) {
	return migration.NewManager(s.pool.DB(), Migrations(), s.logger).Status(ctx)
}

// Atomically runs fn with repositories bound to a single transaction.
func (s *Store) Atomically(ctx context.Context, fn func(persistence.Repositories) error) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return fn(repositoriesFor(tx))
	})
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

func repositoriesFor(q querier) persistence.Repositories {
	return persistence.Repositories{
		Versions:   newScheduleVersionRepository(q),
		Classes:    newClassRepository(q),
		Meetings:   newMeetingRepository(q),
		Directory:  newDirectoryRepository(q),
		TimeBlocks: newTimeBlockRepository(q),
	}
}
