package storage

import (
	"context"
	"fmt"
	"sync"
)

// DDLFn applies backend-appropriate DDL for the cleaned-sales table,
// typically CREATE TABLE IF NOT EXISTS via repo.Exec.
type DDLFn func(ctx context.Context, repo Repository, table string) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLFn{}
)

// RegisterDDL installs (or replaces) the DDLFn for a storage kind. Backends
// call it from init alongside Register.
func RegisterDDL(kind string, fn DDLFn) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable invokes the registered DDLFn for kind so the destination table
// exists before loading. Callers stay backend-agnostic.
func EnsureTable(ctx context.Context, kind string, repo Repository, table string) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, table)
}
