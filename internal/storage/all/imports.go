// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete backend to run, which in
// turn register their factories and DDL bootstrappers with the storage
// package.
//
// Importing this package makes the following storage kinds available at
// runtime:
//
//   - "sqlite"   (salesclean/internal/storage/sqlite)
//   - "postgres" (salesclean/internal/storage/postgres)
//   - "mysql"    (salesclean/internal/storage/mysql)
//
// Typical usage (in cmd/salesclean/main.go or a similar wiring layer):
//
//	import (
//	    _ "salesclean/internal/storage/all" // enable all built-in backends
//
//	    "salesclean/internal/storage"
//	)
//
//	repo, err := storage.New(ctx, storage.Config{
//	    Kind:    cfg.LoadKind,
//	    DSN:     cfg.DSN,
//	    Table:   cfg.Table,
//	    Columns: cleaner.OutputColumns,
//	})
//
// A binary that needs only a subset of backends can blank-import the concrete
// packages directly instead of this one.
package all

import (
	_ "salesclean/internal/storage/mysql"
	_ "salesclean/internal/storage/postgres"
	_ "salesclean/internal/storage/sqlite"
)
