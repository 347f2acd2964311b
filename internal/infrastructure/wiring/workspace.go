package wiring

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/nihulit/internal/infrastructure/config"
	"github.com/felixgeelhaar/nihulit/pkg/storage"
	"github.com/felixgeelhaar/nihulit/pkg/storage/postgres"
)

// Workspace bundles the storage backend and its typed stores.
type Workspace struct {
	Config  *config.Config
	Backend storage.Backend
	Stores  *storage.Stores
	close   func()
}

// OpenWorkspace opens the backend selected by cfg.Storage.Backend.
func OpenWorkspace(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Workspace, error) {
	ws := &Workspace{Config: cfg, close: func() {}}
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		ws.Backend = storage.NewMemoryBackend()
	case config.BackendPostgres:
		pcfg := postgres.DefaultConfig(cfg.Postgres.URL)
		if cfg.Postgres.MaxConns > 0 {
			pcfg.MaxConns = cfg.Postgres.MaxConns
		}
		pg, err := postgres.Open(ctx, pcfg, logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
		ws.Backend = pg
		ws.close = pg.Close
	case config.BackendFile, "":
		fs := storage.NewFilesystemBackend(cfg.Storage.Dir)
		if err := fs.Initialize(); err != nil {
			return nil, err
		}
		ws.Backend = fs
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", config.ErrInvalidConfig, cfg.Storage.Backend)
	}
	ws.Stores = storage.NewStores(ws.Backend)
	return ws, nil
}

// NewWorkspace wraps an existing backend.
func NewWorkspace(cfg *config.Config, b storage.Backend) *Workspace {
	return &Workspace{Config: cfg, Backend: b, Stores: storage.NewStores(b), close: func() {}}
}

// Close releases backend connections.
func (w *Workspace) Close() {
	w.close()
}
