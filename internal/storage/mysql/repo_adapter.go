package mysql

import (
	"context"

	"salesclean/internal/storage"
)

// newRepository is a hook so tests can substitute a fake constructor.
var newRepository = NewRepository

// wrappedRepo adapts *Repository plus its close function to the
// storage.Repository interface.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		repo, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: repo, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("mysql", func(ctx context.Context, repo storage.Repository, table string) error {
		ddl, err := CreateTableSQL(table)
		if err != nil {
			return err
		}
		return repo.Exec(ctx, ddl)
	})
}
