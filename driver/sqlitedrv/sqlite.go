// Package sqlitedrv adapts database/sql with the sqlite3 driver to the
// driver boundary. Pairs with dialect.SQLite (? placeholders).
package sqlitedrv

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/relkit/relkit/driver"
)

// SQLiteDriver executes compiled statements against a sqlite3 database.
type SQLiteDriver struct {
	db *sql.DB
}

// Open opens a database file; ":memory:" gives an in-memory database.
func Open(path string) (*SQLiteDriver, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteDriver{db: db}, nil
}

func New(db *sql.DB) *SQLiteDriver {
	return &SQLiteDriver{db: db}
}

func (d *SQLiteDriver) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows}, nil
}

func (d *SQLiteDriver) Exec(ctx context.Context, query string, args ...any) (driver.Result, error) {
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlResult{res}, nil
}

func (d *SQLiteDriver) Close() error { return d.db.Close() }

type sqlRows struct {
	*sql.Rows
}

func (r sqlRows) Close() error { return r.Rows.Close() }

type sqlResult struct {
	res sql.Result
}

func (r sqlResult) RowsAffected() int64 {
	n, err := r.res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
