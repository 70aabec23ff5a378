// Package pgxdrv adapts a pgx connection pool to the driver boundary.
package pgxdrv

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relkit/relkit/driver"
)

// PgxDriver executes compiled statements against a pgxpool.Pool.
type PgxDriver struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *PgxDriver {
	return &PgxDriver{pool: pool}
}

// Connect opens a pool from a connection string.
func Connect(ctx context.Context, dsn string) (*PgxDriver, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &PgxDriver{pool: pool}, nil
}

func (d *PgxDriver) Query(ctx context.Context, sql string, args ...any) (driver.Rows, error) {
	rows, err := d.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return &pgxRows{rows: rows}, nil
}

func (d *PgxDriver) Exec(ctx context.Context, sql string, args ...any) (driver.Result, error) {
	tag, err := d.pool.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgxResult{tag: tag}, nil
}

func (d *PgxDriver) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

func (d *PgxDriver) Close() error {
	d.pool.Close()
	return nil
}

// pgxRows bridges pgx.Rows, whose column metadata lives in
// FieldDescriptions, onto the Columns-based Rows interface.
type pgxRows struct {
	rows   pgx.Rows
	fields []pgconn.FieldDescription
}

func (r *pgxRows) Next() bool { return r.rows.Next() }

func (r *pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }

func (r *pgxRows) Columns() ([]string, error) {
	if r.fields == nil {
		r.fields = r.rows.FieldDescriptions()
	}
	cols := make([]string, len(r.fields))
	for i, f := range r.fields {
		cols[i] = f.Name
	}
	return cols, nil
}

func (r *pgxRows) Err() error { return r.rows.Err() }

func (r *pgxRows) Close() error {
	r.rows.Close()
	return nil
}

type pgxResult struct {
	tag pgconn.CommandTag
}

func (r pgxResult) RowsAffected() int64 { return r.tag.RowsAffected() }
