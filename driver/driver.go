// Package driver defines the boundary with the database collaborator:
// something that executes a compiled statement with its bound
// parameters and hands back rows. The core stays pure; everything that
// touches a connection lives behind these interfaces, with concrete
// adapters under driver/pgxdrv and driver/sqlitedrv.
package driver

import "context"

// Rows is a finite, forward-only row stream.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
	Close() error
}

// Result reports the outcome of a statement that returns no rows.
type Result interface {
	RowsAffected() int64
}

// Driver executes compiled statements. Implementations own connection
// lifecycle, pooling and retries; the core never sees any of that.
type Driver interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (Result, error)
	Close() error
}
