// Package storage defines the backend-agnostic contracts for loading
// cleaned rows into a database: the Repository interface every backend
// implements, a registration factory keyed by kind, per-kind DDL bootstrap,
// and a batched loader.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Config selects and parameterizes a storage backend.
type Config struct {
	// Kind names a registered backend, e.g. "sqlite", "postgres", "mysql".
	Kind string
	// DSN is the backend-specific connection string.
	DSN string
	// Table is the destination table name, possibly schema-qualified.
	Table string
	// Columns is the ordered list of destination columns.
	Columns []string
}

// Repository is the minimal write-side contract a backend provides.
type Repository interface {
	// CopyFrom bulk-inserts rows aligned to the columns order and reports
	// how many rows the backend accepted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs a single SQL statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// Close releases the underlying connection resources.
	Close()
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. Backends
// call it from init; tests may re-register to stub a kind.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// New opens a Repository of the configured kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered backend kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
