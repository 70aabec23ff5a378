// Package visitor renders an ast tree into SQL text plus an ordered
// argument list. A visitor is single-use per Build call; the pool keeps
// allocation off the compile path. Rendering is deterministic: the same
// tree always yields byte-identical text and the same argument order.
package visitor

import (
	"strings"
	"sync"

	"github.com/relkit/relkit/ast"
	"github.com/relkit/relkit/cache"
	"github.com/relkit/relkit/dialect"
	"github.com/relkit/relkit/sqlerr"
	"github.com/relkit/relkit/utils"
)

var visitorPool = sync.Pool{
	New: func() any {
		return &SQLVisitor{args: make([]any, 0, 8)}
	},
}

type SQLVisitor struct {
	sb      strings.Builder
	args    []any
	dialect dialect.Dialect
	qcache  cache.QueryCache
	inline  bool
}

// New acquires a visitor bound to a dialect. qcache may be nil to
// disable statement caching.
func New(d dialect.Dialect, qcache cache.QueryCache) *SQLVisitor {
	v := visitorPool.Get().(*SQLVisitor)
	v.dialect = d
	v.qcache = qcache
	v.inline = false
	v.sb.Reset()
	v.args = v.args[:0]
	return v
}

// NewInline acquires a visitor that renders literals inline via the
// dialect instead of emitting placeholders. Debug output only.
func NewInline(d dialect.Dialect) *SQLVisitor {
	v := New(d, nil)
	v.inline = true
	return v
}

// Release returns the visitor to the pool.
func (v *SQLVisitor) Release() {
	v.dialect = nil
	v.qcache = nil
	v.sb.Reset()
	v.args = v.args[:0]
	visitorPool.Put(v)
}

// Build renders root and returns SQL text plus the bound arguments in
// placeholder order. Results are cached by structural fingerprint mixed
// with the dialect name, so one cache may serve compilers of different
// dialects; fingerprints cover literal values, so a hit is exact.
func (v *SQLVisitor) Build(root ast.Node) (string, []any, error) {
	var fp uint64
	if v.qcache != nil && !v.inline {
		fp = utils.Mix64(utils.FingerprintString(v.dialect.Name()), root.Fingerprint())
		if cached, ok := v.qcache.Get(fp); ok {
			return cached.SQL, append([]any(nil), cached.Args...), nil
		}
	}

	v.sb.Reset()
	v.args = v.args[:0]
	if err := root.Accept(v); err != nil {
		return "", nil, err
	}

	sql := v.sb.String()
	args := append([]any(nil), v.args...)
	if v.qcache != nil && !v.inline {
		v.qcache.Set(fp, &cache.CachedQuery{SQL: sql, Args: append([]any(nil), args...)})
	}
	return sql, args, nil
}

func (v *SQLVisitor) VisitSelect(s *ast.SelectStmt) error {
	v.sb.WriteString("SELECT ")
	for i, col := range s.Columns {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := col.Accept(v); err != nil {
			return err
		}
	}
	if s.From != nil {
		v.sb.WriteString(" FROM ")
		if err := s.From.Accept(v); err != nil {
			return err
		}
	}
	for _, join := range s.Joins {
		if err := join.Accept(v); err != nil {
			return err
		}
	}
	if s.Where != nil {
		if err := s.Where.Accept(v); err != nil {
			return err
		}
	}
	if s.GroupBy != nil {
		if err := s.GroupBy.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) VisitUnion(u *ast.UnionStmt) error {
	if err := u.Left.Accept(v); err != nil {
		return err
	}
	v.sb.WriteString(" UNION ")
	return u.Right.Accept(v)
}

func (v *SQLVisitor) VisitInsert(s *ast.InsertStmt) error {
	v.sb.WriteString("INSERT INTO ")
	v.sb.WriteString(v.dialect.QuoteIdentifier(s.Table.Name))
	v.sb.WriteString(" (")
	for i, col := range s.Columns {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteString(v.dialect.QuoteIdentifier(col))
	}
	v.sb.WriteString(") VALUES ")
	for i, row := range s.Rows {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteByte('(')
		for j, cell := range row {
			if j > 0 {
				v.sb.WriteString(", ")
			}
			if err := cell.Accept(v); err != nil {
				return err
			}
		}
		v.sb.WriteByte(')')
	}
	return v.writeReturning(s.Returning)
}

func (v *SQLVisitor) VisitUpdate(s *ast.UpdateStmt) error {
	v.sb.WriteString("UPDATE ")
	v.sb.WriteString(v.dialect.QuoteIdentifier(s.Table.Name))
	v.sb.WriteString(" SET ")
	for i, a := range s.Set {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteString(v.dialect.QuoteIdentifier(a.Column))
		v.sb.WriteString(" = ")
		if err := a.Value.Accept(v); err != nil {
			return err
		}
	}
	if s.Where != nil {
		if err := s.Where.Accept(v); err != nil {
			return err
		}
	}
	return v.writeReturning(s.Returning)
}

func (v *SQLVisitor) VisitDelete(s *ast.DeleteStmt) error {
	v.sb.WriteString("DELETE FROM ")
	v.sb.WriteString(v.dialect.QuoteIdentifier(s.Table.Name))
	if s.Where != nil {
		if err := s.Where.Accept(v); err != nil {
			return err
		}
	}
	return v.writeReturning(s.Returning)
}

func (v *SQLVisitor) writeReturning(cols []ast.Node) error {
	if len(cols) == 0 {
		return nil
	}
	if !v.dialect.SupportsReturning() {
		return sqlerr.Unsupported("dialect %s does not support RETURNING", v.dialect.Name())
	}
	v.sb.WriteString(" RETURNING ")
	for i, col := range cols {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := col.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) VisitColumn(c *ast.Column) error {
	if c.Table != "" {
		v.sb.WriteString(v.dialect.QuoteIdentifier(c.Table))
		v.sb.WriteByte('.')
	}
	v.sb.WriteString(v.dialect.QuoteIdentifier(c.Name))
	if c.Alias != "" && c.Alias != c.Name {
		v.sb.WriteString(" AS ")
		v.sb.WriteString(v.dialect.QuoteIdentifier(c.Alias))
	}
	return nil
}

func (v *SQLVisitor) VisitTable(t *ast.Table) error {
	v.sb.WriteString(v.dialect.QuoteIdentifier(t.Name))
	if t.Alias != "" && t.Alias != t.Name {
		v.sb.WriteString(" AS ")
		v.sb.WriteString(v.dialect.QuoteIdentifier(t.Alias))
	}
	return nil
}

func (v *SQLVisitor) VisitValue(val *ast.Value) error {
	if v.inline {
		v.sb.WriteString(v.dialect.RenderValue(val.Val))
		return nil
	}
	v.sb.WriteString(v.dialect.Placeholder(len(v.args) + 1))
	v.args = append(v.args, val.Val)
	return nil
}

func (v *SQLVisitor) VisitDefault(*ast.Default) error {
	if !v.dialect.SupportsDefaultValues() {
		return sqlerr.Unsupported("dialect %s cannot express DEFAULT in a values row", v.dialect.Name())
	}
	v.sb.WriteString(v.dialect.DefaultKeyword())
	return nil
}

func (v *SQLVisitor) VisitFunction(f *ast.Function) error {
	v.sb.WriteString(f.Name)
	v.sb.WriteByte('(')
	for i, arg := range f.Args {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := arg.Accept(v); err != nil {
			return err
		}
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitGroupedExpr(g *ast.GroupedExpr) error {
	v.sb.WriteByte('(')
	if err := g.Expr.Accept(v); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitBinaryExpr(b *ast.BinaryExpr) error {
	if err := b.Left.Accept(v); err != nil {
		return err
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(b.Operator)
	v.sb.WriteByte(' ')
	return b.Right.Accept(v)
}

func (v *SQLVisitor) VisitUnaryExpr(u *ast.UnaryExpr) error {
	if u.Postfix {
		if err := u.Operand.Accept(v); err != nil {
			return err
		}
		v.sb.WriteByte(' ')
		v.sb.WriteString(u.Operator)
		return nil
	}
	v.sb.WriteString(u.Operator)
	v.sb.WriteByte(' ')
	return u.Operand.Accept(v)
}

func (v *SQLVisitor) VisitSubquery(s *ast.Subquery) error {
	v.sb.WriteByte('(')
	if err := s.Stmt.Accept(v); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	if s.Alias != "" {
		v.sb.WriteString(" AS ")
		v.sb.WriteString(v.dialect.QuoteIdentifier(s.Alias))
	}
	return nil
}

func (v *SQLVisitor) VisitWhereClause(w *ast.WhereClause) error {
	v.sb.WriteString(" WHERE ")
	return w.Condition.Accept(v)
}

func (v *SQLVisitor) VisitJoinClause(j *ast.JoinClause) error {
	switch j.JoinType {
	case ast.JoinLeft:
		v.sb.WriteString(" LEFT JOIN ")
	case ast.JoinCross:
		v.sb.WriteString(" CROSS JOIN ")
	default:
		v.sb.WriteString(" JOIN ")
	}
	if err := j.Source.Accept(v); err != nil {
		return err
	}
	if j.On != nil {
		v.sb.WriteString(" ON ")
		return j.On.Accept(v)
	}
	return nil
}

func (v *SQLVisitor) VisitJoinGroup(g *ast.JoinGroup) error {
	v.sb.WriteByte('(')
	if err := g.From.Accept(v); err != nil {
		return err
	}
	for _, j := range g.Joins {
		if err := j.Accept(v); err != nil {
			return err
		}
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitGroupBy(g *ast.GroupByClause) error {
	v.sb.WriteString(" GROUP BY ")
	for i, expr := range g.Exprs {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := expr.Accept(v); err != nil {
			return err
		}
	}
	return nil
}
