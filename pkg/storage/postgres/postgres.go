// Package postgres is a storage.Backend on a single PostgreSQL documents
// table keyed by collection and id.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/nihulit/pkg/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Config tunes the connection pool.
type Config struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DefaultConfig returns pool settings for a small deployment.
func DefaultConfig(url string) Config {
	return Config{
		URL:             url,
		MaxConns:        20,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
}

// Migrate applies the embedded schema migrations to the database at url.
func Migrate(url string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Backend stores documents in PostgreSQL.
type Backend struct {
	pool        *pgxpool.Pool
	logger      *slog.Logger
	retryConfig retry.Config
}

var _ storage.Backend = (*Backend)(nil)

// Open connects to the database, runs migrations and verifies the
// connection.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := Migrate(cfg.URL); err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Debug("postgres backend ready", "max_conns", poolConfig.MaxConns)
	return &Backend{
		pool:   pool,
		logger: logger,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  50 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}, nil
}

// Close releases the pool.
func (b *Backend) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
}

// Ping checks the database connection.
func (b *Backend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

func (b *Backend) Insert(ctx context.Context, collection string, doc storage.Document) (string, error) {
	id := doc.ID()
	row := make(storage.Document, len(doc)+1)
	for k, v := range doc {
		row[k] = v
	}
	if id == "" {
		id = uuid.NewString()
		row["id"] = id
	}

	const query = `
	INSERT INTO documents (collection, id, data)
	VALUES ($1, $2, $3::jsonb)
	ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`
	if _, err := b.pool.Exec(ctx, query, collection, id, row); err != nil {
		return "", fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	return id, nil
}

func (b *Backend) Merge(ctx context.Context, collection, id string, patch storage.Document) error {
	fields := make(storage.Document, len(patch))
	for k, v := range patch {
		if k != "id" {
			fields[k] = v
		}
	}

	const query = `
	UPDATE documents SET data = data || $3::jsonb, updated_at = now()
	WHERE collection = $1 AND id = $2
	`
	tag, err := b.pool.Exec(ctx, query, collection, id, fields)
	if err != nil {
		return fmt.Errorf("merge %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s", storage.ErrNotFound, collection, id)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, collection, id string) error {
	tag, err := b.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s", storage.ErrNotFound, collection, id)
	}
	return nil
}

// All reads a collection in insertion order, retrying transient failures.
func (b *Backend) All(ctx context.Context, collection string) ([]storage.Document, error) {
	retryer := retry.New[[]storage.Document](b.retryConfig)
	return retryer.Do(ctx, func(ctx context.Context) ([]storage.Document, error) {
		rows, err := b.pool.Query(ctx, `SELECT data FROM documents WHERE collection = $1 ORDER BY seq`, collection)
		if err != nil {
			b.logger.Warn("query collection failed", "collection", collection, "error", err)
			return nil, fmt.Errorf("query %s: %w", collection, err)
		}
		docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (storage.Document, error) {
			var doc storage.Document
			err := row.Scan(&doc)
			return doc, err
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		if docs == nil {
			docs = []storage.Document{}
		}
		return docs, nil
	})
}
