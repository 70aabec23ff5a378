package query

import (
	"github.com/relkit/relkit/ast"
	"github.com/relkit/relkit/schema"
	"github.com/relkit/relkit/sqlerr"
)

// Cell is one column assignment inside an insert row.
type Cell struct {
	column     string
	value      any
	useDefault bool
}

// Set supplies a literal value for a column.
func Set(column string, value any) Cell {
	return Cell{column: column, value: value}
}

// UseDefault explicitly asks the database to supply the column's
// default value. Only valid for defaultable columns.
func UseDefault(column string) Cell {
	return Cell{column: column, useDefault: true}
}

// insertCell is a validated cell: either a concrete value or the
// default marker.
type insertCell struct {
	value      any
	hasValue   bool
	useDefault bool
}

// InsertBuilder constructs a multi-row INSERT. Rows are validated as
// they are added: every non-defaultable column needs a value, omitted
// defaultable columns either invoke their generator or fall back to the
// database default.
type InsertBuilder struct {
	table     *schema.Table
	rows      []map[string]insertCell
	returning []string
	errs      []error
}

func InsertInto(t *schema.Table) *InsertBuilder {
	return &InsertBuilder{table: t}
}

func (b *InsertBuilder) addErr(err error) {
	if err != nil {
		b.errs = append(b.errs, err)
	}
}

// Row adds one values row.
func (b *InsertBuilder) Row(cells ...Cell) *InsertBuilder {
	row := make(map[string]insertCell, len(b.table.Columns))

	for _, cell := range cells {
		col, ok := b.table.Column(cell.column)
		if !ok {
			b.addErr(sqlerr.Scope("no column %q", cell.column).WithTable(b.table.Name).WithColumn(cell.column))
			continue
		}
		if _, dup := row[cell.column]; dup {
			b.addErr(sqlerr.Config("column %q assigned twice in one row", cell.column).WithTable(b.table.Name).WithColumn(cell.column))
			continue
		}
		if cell.useDefault {
			if !col.HasDefault {
				b.addErr(sqlerr.MissingColumn("column %q has no default", cell.column).WithTable(b.table.Name).WithColumn(cell.column))
				continue
			}
			row[cell.column] = insertCell{useDefault: true}
			continue
		}
		if vt, ok := schema.TypeOfValue(cell.value); !ok || vt != col.Type {
			b.addErr(sqlerr.TypeMismatch("column %q expects %s, got %T", cell.column, col.Type, cell.value).WithTable(b.table.Name).WithColumn(cell.column))
			continue
		}
		row[cell.column] = insertCell{value: cell.value, hasValue: true}
	}

	for _, col := range b.table.Columns {
		if _, ok := row[col.Name]; ok {
			continue
		}
		if !col.HasDefault {
			b.addErr(sqlerr.MissingColumn("row omits required column %q", col.Name).WithTable(b.table.Name).WithColumn(col.Name))
			continue
		}
		if col.Generator != nil {
			v, err := col.Generator.Generate()
			if err != nil {
				b.addErr(sqlerr.Config("generator for column %q failed", col.Name).WithTable(b.table.Name).WithColumn(col.Name).Wrap(err))
				continue
			}
			row[col.Name] = insertCell{value: v, hasValue: true}
			continue
		}
		row[col.Name] = insertCell{useDefault: true}
	}

	b.rows = append(b.rows, row)
	return b
}

// Returning appends a RETURNING projection over the affected rows.
func (b *InsertBuilder) Returning(cols ...string) *InsertBuilder {
	b.returning = append(b.returning, cols...)
	for _, c := range cols {
		if _, ok := b.table.Column(c); !ok {
			b.addErr(sqlerr.Scope("no column %q", c).WithTable(b.table.Name).WithColumn(c))
		}
	}
	return b
}

func (b *InsertBuilder) Err() error {
	if len(b.errs) > 0 {
		return b.errs[0]
	}
	if len(b.rows) == 0 {
		return sqlerr.Config("insert requires at least one row").WithTable(b.table.Name)
	}
	return nil
}

func (b *InsertBuilder) lowerStmt(rs *resolver) (ast.Node, []OutCol, error) {
	if err := b.Err(); err != nil {
		return nil, nil, err
	}

	// Column list: every column some row actually supplies a value for,
	// in schema declaration order. Columns all rows default drop out of
	// the statement entirely.
	var colNames []string
	for _, col := range b.table.Columns {
		for _, row := range b.rows {
			if cell := row[col.Name]; cell.hasValue {
				colNames = append(colNames, col.Name)
				break
			}
		}
	}

	rows := make([][]ast.Node, len(b.rows))
	for i, row := range b.rows {
		cells := make([]ast.Node, len(colNames))
		for j, name := range colNames {
			cell := row[name]
			if cell.hasValue {
				cells[j] = &ast.Value{Val: cell.value}
			} else {
				cells[j] = &ast.Default{}
			}
		}
		rows[i] = cells
	}

	ret, shape, err := returningNodes(b.table, b.returning)
	if err != nil {
		return nil, nil, err
	}

	stmt := &ast.InsertStmt{
		Table:     &ast.Table{Name: b.table.Name},
		Columns:   colNames,
		Rows:      rows,
		Returning: ret,
	}
	return stmt, shape, nil
}

// returningNodes lowers a RETURNING column list and its output shape.
// DML references are unqualified; the statement touches one table.
func returningNodes(t *schema.Table, cols []string) ([]ast.Node, []OutCol, error) {
	if len(cols) == 0 {
		return nil, nil, nil
	}
	nodes := make([]ast.Node, len(cols))
	shape := make([]OutCol, len(cols))
	for i, name := range cols {
		col, ok := t.Column(name)
		if !ok {
			return nil, nil, sqlerr.Scope("no column %q", name).WithTable(t.Name).WithColumn(name)
		}
		nodes[i] = &ast.Column{Name: name}
		shape[i] = OutCol{Name: name, Type: col.Type}
	}
	return nodes, shape, nil
}
