// Package datasource abstracts where raw sales exports come from. The
// pipeline only ever needs a byte stream; callers pick the concrete source.
package datasource

import (
	"context"
	"io"
)

// Source yields one readable stream of raw delimited data per Open call.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
