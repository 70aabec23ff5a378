package query

import (
	"github.com/relkit/relkit/ast"
	"github.com/relkit/relkit/schema"
	"github.com/relkit/relkit/sqlerr"
)

// DeleteBuilder constructs a DELETE over one table.
type DeleteBuilder struct {
	table     *schema.Table
	src       *source
	row       Row
	pred      Expr
	hasPred   bool
	returning []string
	errs      []error
}

func DeleteFrom(t *schema.Table) *DeleteBuilder {
	src := &source{table: t}
	return &DeleteBuilder{
		table: t,
		src:   src,
		row:   &baseRow{src: src, table: t},
	}
}

// Out is the row handle the delete predicate references columns through.
func (b *DeleteBuilder) Out() Row { return b.row }

func (b *DeleteBuilder) addErr(err error) {
	if err != nil {
		b.errs = append(b.errs, err)
	}
}

// Where restricts the delete to rows satisfying pred.
func (b *DeleteBuilder) Where(pred Expr) *DeleteBuilder {
	if pred.err != nil {
		b.addErr(pred.err)
		return b
	}
	if pred.typ != schema.Bool {
		b.addErr(sqlerr.TypeMismatch("delete predicate must be boolean, got %s", pred.typ))
		return b
	}
	if b.hasPred {
		b.pred = b.pred.And(pred)
	} else {
		b.pred, b.hasPred = pred, true
	}
	return b
}

// Returning appends a RETURNING projection over the deleted rows.
func (b *DeleteBuilder) Returning(cols ...string) *DeleteBuilder {
	b.returning = append(b.returning, cols...)
	for _, c := range cols {
		if _, ok := b.table.Column(c); !ok {
			b.addErr(sqlerr.Scope("no column %q", c).WithTable(b.table.Name).WithColumn(c))
		}
	}
	return b
}

func (b *DeleteBuilder) Err() error {
	if len(b.errs) > 0 {
		return b.errs[0]
	}
	return nil
}

func (b *DeleteBuilder) lowerStmt(rs *resolver) (ast.Node, []OutCol, error) {
	if err := b.Err(); err != nil {
		return nil, nil, err
	}
	rs.bindBare(b.src)

	stmt := &ast.DeleteStmt{Table: &ast.Table{Name: b.table.Name}}
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
