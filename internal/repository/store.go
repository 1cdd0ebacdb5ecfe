// Package repository persists game snapshots so that sessions survive a
// server restart. Snapshots are opaque JSON documents keyed by game id.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no snapshot exists for a game.
var ErrNotFound = errors.New("repository: snapshot not found")

// Snapshot is one stored game.
type Snapshot struct {
	GameID    string
	Data      []byte
	UpdatedAt time.Time
}

// Store saves and loads game snapshots.
type Store interface {
	Save(ctx context.Context, gameID string, data []byte) error
	Load(ctx context.Context, gameID string) (Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, gameID string) error
	Close() error
}

// Drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open returns the store for driver. The dsn is a file path for sqlite and a
// connection URL for postgres; it is ignored for memory.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	case DriverPostgres:
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("repository: unknown driver %q", driver)
	}
}
