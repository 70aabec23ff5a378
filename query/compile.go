package query

import (
	"strconv"

	"github.com/relkit/relkit/ast"
	"github.com/relkit/relkit/cache"
	"github.com/relkit/relkit/dialect"
	"github.com/relkit/relkit/schema"
	"github.com/relkit/relkit/sqlerr"
	"github.com/relkit/relkit/visitor"
)

// OutCol describes one column of a compiled statement's output shape,
// in emission order.
type OutCol struct {
	Name     string
	Type     schema.ColumnType
	Nullable bool
}

// Compiled is the executable form of a query or DML statement: SQL
// text, bound arguments in placeholder order, and the output shape the
// driver's rows must decode against.
type Compiled struct {
	SQL   string
	Args  []any
	Shape []OutCol
}

// Compiler turns operator trees and DML builders into Compiled
// statements for one dialect. Compilation is pure and synchronous; the
// alias counter is local to each call, so a single Compiler is safe for
// concurrent use.
type Compiler struct {
	d      dialect.Dialect
	qcache cache.QueryCache
}

type CompilerOption func(*Compiler)

// WithCache attaches a fingerprint-keyed compiled-statement cache.
func WithCache(c cache.QueryCache) CompilerOption {
	return func(co *Compiler) { co.qcache = c }
}

func NewCompiler(d dialect.Dialect, opts ...CompilerOption) *Compiler {
	c := &Compiler{d: d}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect returns the target dialect.
func (c *Compiler) Dialect() dialect.Dialect { return c.d }

// Compile lowers and renders a read query.
func (c *Compiler) Compile(q *Query) (*Compiled, error) {
	if err := q.Err(); err != nil {
		return nil, err
	}
	root, shape, err := lowerQuery(q, newResolver())
	if err != nil {
		return nil, err
	}
	v := visitor.New(c.d, c.qcache)
	defer v.Release()
	sql, args, err := v.Build(root)
	if err != nil {
		return nil, err
	}
	return &Compiled{SQL: sql, Args: args, Shape: shape}, nil
}

// CompileStmt lowers and renders a DML statement builder.
func (c *Compiler) CompileStmt(s Statement) (*Compiled, error) {
	if err := s.Err(); err != nil {
		return nil, err
	}
	root, shape, err := s.lowerStmt(newResolver())
	if err != nil {
		return nil, err
	}
	v := visitor.New(c.d, c.qcache)
	defer v.Release()
	sql, args, err := v.Build(root)
	if err != nil {
		return nil, err
	}
	return &Compiled{SQL: sql, Args: args, Shape: shape}, nil
}

// Debug renders a query with literals inlined instead of placeholders.
// For logs and error messages only, never for execution.
func (c *Compiler) Debug(q *Query) (string, error) {
	if err := q.Err(); err != nil {
		return "", err
	}
	root, _, err := lowerQuery(q, newResolver())
	if err != nil {
		return "", err
	}
	v := visitor.NewInline(c.d)
	defer v.Release()
	sql, _, err := v.Build(root)
	return sql, err
}

// Statement is the common surface of the insert, update and delete
// builders.
type Statement interface {
	Err() error
	lowerStmt(rs *resolver) (ast.Node, []OutCol, error)
}

// resolver assigns table and subquery aliases (t0, t1, ...) for one
// compile call. The counter is shared down into subquery scopes so
// aliases stay unique across the whole statement; the binding map is
// not, so inner sources are invisible outside their subquery.
type resolver struct {
	counter *int
	aliases map[*source]string
}

func newResolver() *resolver {
	n := 0
	return &resolver{counter: &n, aliases: make(map[*source]string)}
}

func (r *resolver) child() *resolver {
	return &resolver{counter: r.counter, aliases: make(map[*source]string)}
}

// bind assigns the next alias to a source occurrence. Binding the same
// occurrence twice in one scope means the caller placed one Scan (or
// derived query) on both sides of a join, where its column references
// would be ambiguous; each side needs its own occurrence.
func (r *resolver) bind(s *source) (string, error) {
	if _, dup := r.aliases[s]; dup {
		return "", sqlerr.Config("query occurrence used in two positions of one statement; build a separate scan or subquery for each side")
	}
	alias := "t" + strconv.Itoa(*r.counter)
	*r.counter++
	r.aliases[s] = alias
	return alias, nil
}

// bindBare binds a source to the empty alias for unqualified DML
// references.
func (r *resolver) bindBare(s *source) {
	r.aliases[s] = ""
}

func (r *resolver) lookup(s *source) (string, bool) {
	alias, ok := r.aliases[s]
	return alias, ok
}

// parts accumulates the clauses of one flattened SELECT.
type parts struct {
	columns []ast.Node
	shape   []OutCol
	from    ast.Node
	joins   []*ast.JoinClause
	where   ast.Node
	groupBy []ast.Node
}

func barrier(q *Query) bool {
	switch q.op {
	case opSelect, opAggregate, opUnion:
		return true
	}
	return false
}

func lowerQuery(q *Query, rs *resolver) (ast.Node, []OutCol, error) {
	if q.op == opUnion {
		// Each side is its own SELECT scope; the shared counter keeps
		// aliases unique across both, and a tree reused on both sides
		// binds once per scope.
		left, _, err := lowerQuery(q.left, rs.child())
		if err != nil {
			return nil, nil, err
		}
		right, _, err := lowerQuery(q.right, rs.child())
		if err != nil {
			return nil, nil, err
		}
		return &ast.UnionStmt{Left: left, Right: right}, shapeFromCols(q.fields), nil
	}
	return lowerSelect(q, rs)
}

func lowerSelect(q *Query, rs *resolver) (*ast.SelectStmt, []OutCol, error) {
	p := &parts{}
	if err := flatten(q, rs, p); err != nil {
		return nil, nil, err
	}

	// A tree without an explicit projection emits every column of every
	// source, left to right.
	if p.columns == nil {
		rcs := shapeOfRows(q.rows)
		p.columns = make([]ast.Node, len(rcs))
		p.shape = make([]OutCol, len(rcs))
		for i, rc := range rcs {
			node, err := rc.node.lower(rs)
			if err != nil {
				return nil, nil, err
			}
			p.columns[i] = node
			p.shape[i] = OutCol{Name: rc.name, Type: rc.typ, Nullable: rc.nullable}
		}
	}

	sel := &ast.SelectStmt{
		Columns: p.columns,
		From:    p.from,
		Joins:   p.joins,
	}
	if p.where != nil {
		sel.Where = &ast.WhereClause{Condition: p.where}
	}
	if len(p.groupBy) > 0 {
		sel.GroupBy = &ast.GroupByClause{Exprs: p.groupBy}
	}
	return sel, p.shape, nil
}

// flatten merges the mergeable operators (scan, filter, joins) of q
// into a single SELECT. Barrier operators (project, aggregate, union)
// under a mergeable one become derived tables in FROM.
func flatten(q *Query, rs *resolver, p *parts) error {
	switch q.op {
	case opScan:
		alias, err := rs.bind(q.src)
		if err != nil {
			return err
		}
		p.from = &ast.Table{Name: q.table.Name, Alias: alias}
		return nil

	case opFilter:
		if err := flattenSource(q.inner, rs, p); err != nil {
			return err
		}
		cond, err := q.pred.node.lower(rs)
		if err != nil {
			return err
		}
		p.where = andCond(p.where, cond)
		return nil

	case opJoin, opLeftJoin, opCross:
		if err := flattenSource(q.left, rs, p); err != nil {
			return err
		}
		return addJoin(q, rs, p)

	case opSelect:
		if err := flattenSource(q.inner, rs, p); err != nil {
			return err
		}
		cols, shape, err := lowerFields(q.fields, rs)
		if err != nil {
			return err
		}
		p.columns, p.shape = cols, shape
		return nil

	case opAggregate:
		if err := flattenSource(q.inner, rs, p); err != nil {
			return err
		}
		cols, shape, err := lowerFields(q.fields, rs)
		if err != nil {
			return err
		}
		p.columns, p.shape = cols, shape
		// Group keys appear verbatim in both the select list and the
		// GROUP BY clause; no ordinal group-by.
		for _, k := range q.keys {
			node, err := k.Expr.node.lower(rs)
			if err != nil {
				return err
			}
			p.groupBy = append(p.groupBy, node)
		}
		return nil

	default:
		return sqlerr.Unsupported("operator %d cannot be flattened", int(q.op))
	}
}

// flattenSource places q in FROM position: merged when mergeable,
// otherwise as a derived table bound to q's own alias.
func flattenSource(q *Query, rs *resolver, p *parts) error {
	if !barrier(q) {
		return flatten(q, rs, p)
	}
	node, _, err := lowerQuery(q, rs.child())
	if err != nil {
		return err
	}
	alias, err := rs.bind(q.src)
	if err != nil {
		return err
	}
	p.from = &ast.Subquery{Stmt: node, Alias: alias}
	return nil
}

func addJoin(q *Query, rs *resolver, p *parts) error {
	var jt ast.JoinType
	switch q.op {
	case opLeftJoin:
		jt = ast.JoinLeft
	case opCross:
		jt = ast.JoinCross
	default:
		jt = ast.JoinInner
	}

	// Filters stacked on the right side restrict the right relation;
	// they merge into the ON condition, which keeps left-join semantics
	// (left rows survive, non-matching right rows drop out).
	var preds []Expr
	base := q.right
	for base.op == opFilter {
		preds = append(preds, base.pred)
		base = base.inner
	}
	// innermost filter first
	for i, j := 0, len(preds)-1; i < j; i, j = i+1, j-1 {
		preds[i], preds[j] = preds[j], preds[i]
	}

	var srcNode ast.Node
	var nested ast.Node // right-side filters surfaced from a nested join tree
	switch {
	case base.op == opScan:
		alias, err := rs.bind(base.src)
		if err != nil {
			return err
		}
		srcNode = &ast.Table{Name: base.table.Name, Alias: alias}
	case barrier(base):
		node, _, err := lowerQuery(base, rs.child())
		if err != nil {
			return err
		}
		alias, err := rs.bind(base.src)
		if err != nil {
			return err
		}
		srcNode = &ast.Subquery{Stmt: node, Alias: alias}
	default:
		// A mergeable join tree as the right side renders as a
		// parenthesized join source. Filters buried inside it surface
		// into the ON condition, which restricts the right relation
		// without dropping left rows.
		sub := &parts{}
		if err := flatten(base, rs, sub); err != nil {
			return err
		}
		srcNode = &ast.JoinGroup{From: sub.from, Joins: sub.joins}
		nested = sub.where
	}

	var onNode ast.Node
	if q.op != opCross {
		var err error
		onNode, err = q.on.node.lower(rs)
		if err != nil {
			return err
		}
	}
	if nested != nil {
		if q.op == opCross {
			p.where = andCond(p.where, nested)
		} else {
			onNode = andCond(onNode, nested)
		}
	}
	for _, pe := range preds {
		pn, err := pe.node.lower(rs)
		if err != nil {
			return err
		}
		if q.op == opCross {
			p.where = andCond(p.where, pn)
		} else {
			onNode = andCond(onNode, pn)
		}
	}

	p.joins = append(p.joins, &ast.JoinClause{JoinType: jt, Source: srcNode, On: onNode})
	return nil
}

func lowerFields(fields []rowCol, rs *resolver) ([]ast.Node, []OutCol, error) {
	cols := make([]ast.Node, len(fields))
	shape := make([]OutCol, len(fields))
	for i, f := range fields {
		node, err := f.node.lower(rs)
		if err != nil {
			return nil, nil, err
		}
		if col, ok := node.(*ast.Column); ok && col.Name != f.name {
			col.Alias = f.name
		}
		cols[i] = node
		shape[i] = OutCol{Name: f.name, Type: f.typ, Nullable: f.nullable}
	}
	return cols, shape, nil
}

func shapeFromCols(cols []rowCol) []OutCol {
	out := make([]OutCol, len(cols))
	for i, c := range cols {
		out[i] = OutCol{Name: c.name, Type: c.typ, Nullable: c.nullable}
	}
	return out
}

func andCond(a, b ast.Node) ast.Node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &ast.BinaryExpr{Left: a, Operator: ast.OpAnd, Right: b}
}
