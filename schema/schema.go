// Package schema describes base tables as plain descriptor values:
// column name, element type and default-ability. Descriptors are
// validated once at construction, immutable afterwards, and shared by
// every query that references the table.
package schema

import (
	"time"

	"github.com/relkit/relkit/sqlerr"
)

// ColumnType is the element type tag carried by every column and
// expression.
type ColumnType int

const (
	Int ColumnType = iota
	Float
	Text
	Bool
	Time
	Bytes
)

func (t ColumnType) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case Text:
		return "text"
	case Bool:
		return "bool"
	case Time:
		return "time"
	case Bytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// TypeOfValue maps a Go literal onto its column type tag.
func TypeOfValue(v any) (ColumnType, bool) {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int, true
	case float32, float64:
		return Float, true
	case string:
		return Text, true
	case bool:
		return Bool, true
	case time.Time:
		return Time, true
	case []byte:
		return Bytes, true
	default:
		return 0, false
	}
}

// Column describes one table column. HasDefault marks columns the
// database (or an attached generator) may supply on insert.
type Column struct {
	Name       string
	Type       ColumnType
	HasDefault bool
	Generator  IDGenerator
}

// Col declares a required column.
func Col(name string, t ColumnType) Column {
	return Column{Name: name, Type: t}
}

// Default returns a copy of the column marked defaultable.
func (c Column) Default() Column {
	c.HasDefault = true
	return c
}

// GeneratedBy attaches a client-side ID generator; the insert builder
// invokes it when the column is omitted. Implies defaultable.
func (c Column) GeneratedBy(g IDGenerator) Column {
	c.HasDefault = true
	c.Generator = g
	return c
}

// Table is an immutable base-table descriptor.
type Table struct {
	Name    string
	Columns []Column
	index   map[string]int
}

// Describe validates and builds a table descriptor. The only failure is
// a duplicate column name.
func Describe(name string, cols ...Column) (*Table, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := index[c.Name]; dup {
			return nil, sqlerr.Config("duplicate column %q", c.Name).WithTable(name).WithColumn(c.Name)
		}
		index[c.Name] = i
	}
	return &Table{Name: name, Columns: cols, index: index}, nil
}

// MustDescribe is Describe for process-wide static schema declarations.
func MustDescribe(name string, cols ...Column) *Table {
	t, err := Describe(name, cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// DescribeEntity derives the table name from an entity name via the
// strategy (nil means the default snake_case plural strategy).
func DescribeEntity(entity string, strategy NamingStrategy, cols ...Column) (*Table, error) {
	if strategy == nil {
		strategy = DefaultNaming()
	}
	return Describe(strategy.TableName(entity), cols...)
}

// Column looks a column up by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.Columns[i], true
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
