// Package relkit re-exports the library's main entry points so typical
// callers only import one path. The real work lives in schema (table
// descriptors), query (expressions, the operator tree, DML builders and
// the compiler), dialect and driver.
package relkit

import (
	"github.com/relkit/relkit/cache"
	"github.com/relkit/relkit/dialect"
	"github.com/relkit/relkit/query"
	"github.com/relkit/relkit/schema"
)

type (
	Table    = schema.Table
	Column   = schema.Column
	Expr     = query.Expr
	Field    = query.Field
	Row      = query.Row
	Query    = query.Query
	Compiled = query.Compiled
	Compiler = query.Compiler
	Dialect  = dialect.Dialect
)

const (
	Int   = schema.Int
	Float = schema.Float
	Text  = schema.Text
	Bool  = schema.Bool
	Time  = schema.Time
	Bytes = schema.Bytes
)

var (
	Describe     = schema.Describe
	MustDescribe = schema.MustDescribe
	Col          = schema.Col

	Scan        = query.Scan
	Lit         = query.Lit
	F           = query.F
	IsAbsent    = query.IsAbsent
	Count       = query.Count
	Sum         = query.Sum
	Avg         = query.Avg
	Min         = query.Min
	Max         = query.Max
	InsertInto  = query.InsertInto
	Set         = query.Set
	UseDefault  = query.UseDefault
	UpdateTable = query.UpdateTable
	DeleteFrom  = query.DeleteFrom
)

// New builds a compiler for a dialect with a statement cache attached.
func New(d dialect.Dialect, cacheSize int) *Compiler {
	return query.NewCompiler(d, query.WithCache(cache.New(cacheSize)))
}

func Postgres() Dialect { return dialect.NewPostgres() }
func SQLite() Dialect   { return dialect.NewSQLite() }
func MySQL() Dialect    { return dialect.NewMySQL() }
