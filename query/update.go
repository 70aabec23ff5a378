package query

import (
	"github.com/relkit/relkit/ast"
	"github.com/relkit/relkit/schema"
	"github.com/relkit/relkit/sqlerr"
)

type assignment struct {
	column string
	expr   Expr
}

// UpdateBuilder constructs an UPDATE over one table. Assignments keep
// call order so SET clauses render deterministically.
type UpdateBuilder struct {
	table     *schema.Table
	src       *source
	row       Row
	set       []assignment
	pred      Expr
	hasPred   bool
	returning []string
	errs      []error
}

func UpdateTable(t *schema.Table) *UpdateBuilder {
	src := &source{table: t}
	return &UpdateBuilder{
		table: t,
		src:   src,
		row:   &baseRow{src: src, table: t},
	}
}

// Out is the row handle predicates and assignment expressions reference
// the table's columns through.
func (b *UpdateBuilder) Out() Row { return b.row }

func (b *UpdateBuilder) addErr(err error) {
	if err != nil {
		b.errs = append(b.errs, err)
	}
}

// Set assigns an expression to a column.
func (b *UpdateBuilder) Set(column string, e Expr) *UpdateBuilder {
	col, ok := b.table.Column(column)
	if !ok {
		b.addErr(sqlerr.Scope("no column %q", column).WithTable(b.table.Name).WithColumn(column))
		return b
	}
	if e.err != nil {
		b.addErr(e.err)
		return b
	}
	if e.agg {
		b.addErr(sqlerr.Aggregate("aggregate expression assigned to column %q", column).WithColumn(column))
		return b
	}
	if e.typ != col.Type {
		b.addErr(sqlerr.TypeMismatch("column %q expects %s, got %s", column, col.Type, e.typ).WithTable(b.table.Name).WithColumn(column))
		return b
	}
	for _, a := range b.set {
		if a.column == column {
			b.addErr(sqlerr.Config("column %q assigned twice", column).WithTable(b.table.Name).WithColumn(column))
			return b
		}
	}
	b.set = append(b.set, assignment{column: column, expr: e})
	return b
}

// SetValue assigns a literal value to a column.
func (b *UpdateBuilder) SetValue(column string, v any) *UpdateBuilder {
	return b.Set(column, Lit(v))
}

// Where restricts the update to rows satisfying pred.
func (b *UpdateBuilder) Where(pred Expr) *UpdateBuilder {
	if pred.err != nil {
		b.addErr(pred.err)
		return b
	}
	if pred.typ != schema.Bool {
		b.addErr(sqlerr.TypeMismatch("update predicate must be boolean, got %s", pred.typ))
		return b
	}
	if b.hasPred {
		b.pred = b.pred.And(pred)
	} else {
		b.pred, b.hasPred = pred, true
	}
	return b
}

// Returning appends a RETURNING projection over the affected rows.
func (b *UpdateBuilder) Returning(cols ...string) *UpdateBuilder {
	b.returning = append(b.returning, cols...)
	for _, c := range cols {
		if _, ok := b.table.Column(c); !ok {
			b.addErr(sqlerr.Scope("no column %q", c).WithTable(b.table.Name).WithColumn(c))
		}
	}
	return b
}

func (b *UpdateBuilder) Err() error {
	if len(b.errs) > 0 {
		return b.errs[0]
	}
	if len(b.set) == 0 {
		return sqlerr.Config("update requires at least one assignment").WithTable(b.table.Name)
	}
	return nil
}

func (b *UpdateBuilder) lowerStmt(rs *resolver) (ast.Node, []OutCol, error) {
	if err := b.Err(); err != nil {
		return nil, nil, err
	}
	rs.bindBare(b.src)

	set := make([]ast.Assignment, len(b.set))
	for i, a := range b.set {
		node, err := a.expr.node.lower(rs)
		if err != nil {
			return nil, nil, err
		}
		set[i] = ast.Assignment{Column: a.column, Value: node}
	}

	stmt := &ast.UpdateStmt{Table: &ast.Table{Name: b.table.Name}, Set: set}
	if b.hasPred {
		cond, err := b.pred.node.lower(rs)
		if err != nil {
			return nil, nil, err
		}
		stmt.Where = &ast.WhereClause{Condition: cond}
	}

	ret, shape, err := returningNodes(b.table, b.returning)
	if err != nil {
		return nil, nil, err
	}
	stmt.Returning = ret
	return stmt, shape, nil
}
