package query

import (
	"github.com/relkit/relkit/ast"
	"github.com/relkit/relkit/schema"
	"github.com/relkit/relkit/sqlerr"
)

// source is the identity of one occurrence of a table or derived query
// inside a tree. Two scans of the same base table are distinct sources
// and compile to distinct aliases.
type source struct {
	table *schema.Table // nil for derived sources
}

// rowCol is one column of a row shape in emission order.
type rowCol struct {
	name     string
	typ      schema.ColumnType
	nullable bool
	node     exprNode
}

// Row is a handle onto a query's output row shape. Col builds a typed
// column reference; referencing an unknown column yields an expression
// carrying a ScopeError.
type Row interface {
	Col(name string) Expr
	cols() []rowCol
}

// baseRow projects the columns of a single scanned table.
type baseRow struct {
	src   *source
	table *schema.Table
}

func (r *baseRow) Col(name string) Expr {
	c, ok := r.table.Column(name)
	if !ok {
		return errExpr(sqlerr.Scope("no column %q", name).WithTable(r.table.Name).WithColumn(name))
	}
	return Expr{node: &colNode{src: r.src, name: name}, typ: c.Type}
}

func (r *baseRow) cols() []rowCol {
	out := make([]rowCol, len(r.table.Columns))
	for i, c := range r.table.Columns {
		out[i] = rowCol{name: c.Name, typ: c.Type, node: &colNode{src: r.src, name: c.Name}}
	}
	return out
}

// derivedRow projects the named outputs of a projection, aggregation or
// union through the query's own source identity.
type derivedRow struct {
	src    *source
	fields []rowCol
}

func (r *derivedRow) Col(name string) Expr {
	for _, f := range r.fields {
		if f.name == name {
			return Expr{node: &colNode{src: r.src, name: name}, typ: f.typ, nullable: f.nullable}
		}
	}
	return errExpr(sqlerr.Scope("no output column %q", name).WithColumn(name))
}

func (r *derivedRow) cols() []rowCol {
	out := make([]rowCol, len(r.fields))
	for i, f := range r.fields {
		out[i] = rowCol{name: f.name, typ: f.typ, nullable: f.nullable, node: &colNode{src: r.src, name: f.name}}
	}
	return out
}

// OptionalRow wraps the right-hand row of a left join: the whole row
// may be absent when no right row matched. Projecting any column
// through it yields a nullable expression carrying the join's witness
// column, which IsAbsent later tests. Wrapping composes: a doubly
// nested row accumulates both witnesses.
type OptionalRow struct {
	inner Row
	wits  []*colNode
}

func (r *OptionalRow) Col(name string) Expr {
	e := r.inner.Col(name)
	if e.err != nil {
		return e
	}
	e.nullable = true
	e.wits = mergeWits(e.wits, r.wits)
	return e
}

func (r *OptionalRow) cols() []rowCol {
	inner := r.inner.cols()
	out := make([]rowCol, len(inner))
	for i, c := range inner {
		c.nullable = true
		out[i] = c
	}
	return out
}

// Matched is the positive tag: true exactly when the right row exists.
// The dual of IsAbsent over the same witnesses.
func (r *OptionalRow) Matched() Expr {
	var node exprNode
	for _, w := range r.wits {
		test := exprNode(&unNode{op: ast.OpIsNotNull, operand: w, postfix: true})
		if node == nil {
			node = test
		} else {
			node = &binNode{left: node, right: test, op: ast.OpAnd, grouped: true}
		}
	}
	return Expr{node: node, typ: schema.Bool}
}

// witnessOf picks the witness column for a left join's right side: the
// first non-nullable column of the underlying row. A column that is
// already nullable (projected through an inner left join) is NULL on
// matched rows too, so it cannot tag "a row matched"; only a column
// that is NULL exactly when the join failed can.
func witnessOf(r Row) *colNode {
	switch row := r.(type) {
	case *OptionalRow:
		return witnessOf(row.inner)
	default:
		for _, c := range r.cols() {
			if c.nullable {
				continue
			}
			if cn, ok := c.node.(*colNode); ok {
				return cn
			}
		}
		return nil
	}
}
