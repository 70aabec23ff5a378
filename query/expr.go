// Package query is the typed relational layer: scalar expressions,
// the persistent query operator tree, the compiler that lowers trees
// into the ast package, and the DML statement builders.
//
// Construction never fails loudly; invalid combinations are recorded
// inside the value (the builder error-accumulation style) and surfaced
// as the first error when the tree is compiled.
package query

import (
	"github.com/relkit/relkit/ast"
	"github.com/relkit/relkit/schema"
	"github.com/relkit/relkit/sqlerr"
)

// exprNode is the private expression tree lowered into ast nodes at
// compile time, once aliases are known.
type exprNode interface {
	lower(rs *resolver) (ast.Node, error)
}

type litNode struct{ val any }

func (n *litNode) lower(*resolver) (ast.Node, error) {
	return &ast.Value{Val: n.val}, nil
}

// colNode references a column of a particular source occurrence. The
// source resolves to its compile-assigned alias; an unbound source is a
// scope violation.
type colNode struct {
	src  *source
	name string
}

func (n *colNode) lower(rs *resolver) (ast.Node, error) {
	alias, ok := rs.lookup(n.src)
	if !ok {
		return nil, sqlerr.Scope("column %q is not reachable from the current row shape", n.name).WithColumn(n.name)
	}
	return &ast.Column{Table: alias, Name: n.name}, nil
}

type binNode struct {
	left, right exprNode
	op          string
	grouped     bool
}

func (n *binNode) lower(rs *resolver) (ast.Node, error) {
	l, err := n.left.lower(rs)
	if err != nil {
		return nil, err
	}
	r, err := n.right.lower(rs)
	if err != nil {
		return nil, err
	}
	var node ast.Node = &ast.BinaryExpr{Left: l, Operator: n.op, Right: r}
	if n.grouped {
		node = &ast.GroupedExpr{Expr: node}
	}
	return node, nil
}

type unNode struct {
	op      string
	operand exprNode
	postfix bool
}

func (n *unNode) lower(rs *resolver) (ast.Node, error) {
	op, err := n.operand.lower(rs)
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{Operator: n.op, Operand: op, Postfix: n.postfix}, nil
}

type fnNode struct {
	name string
	args []exprNode
}

func (n *fnNode) lower(rs *resolver) (ast.Node, error) {
	args := make([]ast.Node, len(n.args))
	for i, a := range n.args {
		node, err := a.lower(rs)
		if err != nil {
			return nil, err
		}
		args[i] = node
	}
	return &ast.Function{Name: n.name, Args: args}, nil
}

// Expr is an immutable typed scalar expression. It carries its element
// type, whether it may be absent (nullability introduced by left
// joins), whether it is an aggregate, the left-join witness columns its
// nullability derives from, and any construction error.
type Expr struct {
	node     exprNode
	typ      schema.ColumnType
	nullable bool
	agg      bool
	wits     []*colNode
	err      error
}

// Type returns the element type tag.
func (e Expr) Type() schema.ColumnType { return e.typ }

// Nullable reports whether the expression may be absent.
func (e Expr) Nullable() bool { return e.nullable }

// Err returns the construction error, if any.
func (e Expr) Err() error { return e.err }

// Lit lifts a Go value into a literal expression bound as a parameter.
func Lit(v any) Expr {
	t, ok := schema.TypeOfValue(v)
	if !ok {
		return Expr{err: sqlerr.TypeMismatch("unsupported literal type %T", v)}
	}
	return Expr{node: &litNode{val: v}, typ: t}
}

func errExpr(err error) Expr { return Expr{err: err} }

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeWits(a, b []*colNode) []*colNode {
	if len(b) == 0 {
		return a
	}
	out := make([]*colNode, 0, len(a)+len(b))
	out = append(out, a...)
	for _, w := range b {
		dup := false
		for _, have := range out {
			if have == w {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, w)
		}
	}
	return out
}

func (e Expr) compare(o Expr, op string) Expr {
	if err := firstErr(e.err, o.err); err != nil {
		return errExpr(err)
	}
	if e.typ != o.typ {
		return errExpr(sqlerr.TypeMismatch("cannot compare %s with %s", e.typ, o.typ))
	}
	return Expr{
		node:     &binNode{left: e.node, right: o.node, op: op},
		typ:      schema.Bool,
		nullable: e.nullable || o.nullable,
		agg:      e.agg || o.agg,
		wits:     mergeWits(e.wits, o.wits),
	}
}

func (e Expr) Eq(o Expr) Expr { return e.compare(o, ast.OpEqual) }
func (e Expr) Ne(o Expr) Expr { return e.compare(o, ast.OpNotEqual) }

func (e Expr) order(o Expr, op string) Expr {
	switch e.typ {
	case schema.Int, schema.Float, schema.Text, schema.Time:
	default:
		if e.err == nil && o.err == nil {
			return errExpr(sqlerr.TypeMismatch("type %s is not orderable", e.typ))
		}
	}
	return e.compare(o, op)
}

func (e Expr) Lt(o Expr) Expr { return e.order(o, ast.OpLessThan) }
func (e Expr) Le(o Expr) Expr { return e.order(o, ast.OpLessThanOrEqual) }
func (e Expr) Gt(o Expr) Expr { return e.order(o, ast.OpGreaterThan) }
func (e Expr) Ge(o Expr) Expr { return e.order(o, ast.OpGreaterThanOrEqual) }

func (e Expr) arith(o Expr, op string) Expr {
	if err := firstErr(e.err, o.err); err != nil {
		return errExpr(err)
	}
	if e.typ != o.typ || (e.typ != schema.Int && e.typ != schema.Float) {
		return errExpr(sqlerr.TypeMismatch("arithmetic requires matching numeric operands, got %s and %s", e.typ, o.typ))
	}
	return Expr{
		node:     &binNode{left: e.node, right: o.node, op: op},
		typ:      e.typ,
		nullable: e.nullable || o.nullable,
		agg:      e.agg || o.agg,
		wits:     mergeWits(e.wits, o.wits),
	}
}

func (e Expr) Add(o Expr) Expr { return e.arith(o, ast.OpAdd) }
func (e Expr) Sub(o Expr) Expr { return e.arith(o, ast.OpSubtract) }
func (e Expr) Mul(o Expr) Expr { return e.arith(o, ast.OpMultiply) }
func (e Expr) Div(o Expr) Expr { return e.arith(o, ast.OpDivide) }

func (e Expr) logical(o Expr, op string) Expr {
	if err := firstErr(e.err, o.err); err != nil {
		return errExpr(err)
	}
	if e.typ != schema.Bool || o.typ != schema.Bool {
		return errExpr(sqlerr.TypeMismatch("%s requires boolean operands, got %s and %s", op, e.typ, o.typ))
	}
	// Logical composites are always parenthesized so merged WHERE and ON
	// conditions never change meaning through precedence.
	return Expr{
		node:     &binNode{left: e.node, right: o.node, op: op, grouped: true},
		typ:      schema.Bool,
		nullable: e.nullable || o.nullable,
		agg:      e.agg || o.agg,
		wits:     mergeWits(e.wits, o.wits),
	}
}

func (e Expr) And(o Expr) Expr { return e.logical(o, ast.OpAnd) }
func (e Expr) Or(o Expr) Expr  { return e.logical(o, ast.OpOr) }

func (e Expr) Not() Expr {
	if e.err != nil {
		return e
	}
	if e.typ != schema.Bool {
		return errExpr(sqlerr.TypeMismatch("NOT requires a boolean operand, got %s", e.typ))
	}
	return Expr{
		node:     &unNode{op: ast.OpNot, operand: &groupIfBin{e.node}},
		typ:      schema.Bool,
		nullable: e.nullable,
		agg:      e.agg,
		wits:     e.wits,
	}
}

// groupIfBin parenthesizes bare binary operands under prefix NOT.
type groupIfBin struct{ inner exprNode }

func (g *groupIfBin) lower(rs *resolver) (ast.Node, error) {
	node, err := g.inner.lower(rs)
	if err != nil {
		return nil, err
	}
	if _, ok := node.(*ast.BinaryExpr); ok {
		node = &ast.GroupedExpr{Expr: node}
	}
	return node, nil
}

func (e Expr) Like(pattern Expr) Expr {
	if err := firstErr(e.err, pattern.err); err != nil {
		return errExpr(err)
	}
	if e.typ != schema.Text || pattern.typ != schema.Text {
		return errExpr(sqlerr.TypeMismatch("LIKE requires text operands, got %s and %s", e.typ, pattern.typ))
	}
	out := e.compare(pattern, ast.OpLike)
	return out
}

func (e Expr) Concat(o Expr) Expr {
	if err := firstErr(e.err, o.err); err != nil {
		return errExpr(err)
	}
	if e.typ != schema.Text || o.typ != schema.Text {
		return errExpr(sqlerr.TypeMismatch("|| requires text operands, got %s and %s", e.typ, o.typ))
	}
	return Expr{
		node:     &binNode{left: e.node, right: o.node, op: ast.OpConcat},
		typ:      schema.Text,
		nullable: e.nullable || o.nullable,
		agg:      e.agg || o.agg,
		wits:     mergeWits(e.wits, o.wits),
	}
}

func (e Expr) IsNull() Expr {
	if e.err != nil {
		return e
	}
	return Expr{node: &unNode{op: ast.OpIsNull, operand: e.node, postfix: true}, typ: schema.Bool, agg: e.agg}
}

func (e Expr) IsNotNull() Expr {
	if e.err != nil {
		return e
	}
	return Expr{node: &unNode{op: ast.OpIsNotNull, operand: e.node, postfix: true}, typ: schema.Bool, agg: e.agg}
}

func aggregateFn(name string, arg Expr, out schema.ColumnType) Expr {
	if arg.err != nil {
		return arg
	}
	if arg.agg {
		return errExpr(sqlerr.Aggregate("aggregate %s over an aggregate expression", name))
	}
	return Expr{node: &fnNode{name: name, args: []exprNode{arg.node}}, typ: out, agg: true}
}

// Count counts non-null values of the argument.
func Count(e Expr) Expr { return aggregateFn(ast.FnCount, e, schema.Int) }

func Sum(e Expr) Expr {
	if e.err == nil && e.typ != schema.Int && e.typ != schema.Float {
		return errExpr(sqlerr.TypeMismatch("SUM requires a numeric argument, got %s", e.typ))
	}
	return aggregateFn(ast.FnSum, e, e.typ)
}

func Avg(e Expr) Expr {
	if e.err == nil && e.typ != schema.Int && e.typ != schema.Float {
		return errExpr(sqlerr.TypeMismatch("AVG requires a numeric argument, got %s", e.typ))
	}
	return aggregateFn(ast.FnAvg, e, schema.Float)
}

func Min(e Expr) Expr {
	if e.err == nil {
		switch e.typ {
		case schema.Int, schema.Float, schema.Text, schema.Time:
		default:
			return errExpr(sqlerr.TypeMismatch("MIN requires an orderable argument, got %s", e.typ))
		}
	}
	return aggregateFn(ast.FnMin, e, e.typ)
}

func Max(e Expr) Expr {
	if e.err == nil {
		switch e.typ {
		case schema.Int, schema.Float, schema.Text, schema.Time:
		default:
			return errExpr(sqlerr.TypeMismatch("MAX requires an orderable argument, got %s", e.typ))
		}
	}
	return aggregateFn(ast.FnMax, e, e.typ)
}

// IsAbsent tests whether a value projected through a left join is
// missing because no right row matched. It compiles to a nullability
// test on the join's witness column(s), never to a recomputation of the
// join; with nested joins the tests OR together (absent if any level
// failed to match).
func IsAbsent(e Expr) Expr {
	if e.err != nil {
		return e
	}
	if len(e.wits) == 0 {
		return errExpr(sqlerr.TypeMismatch("IsAbsent requires a value projected through a left join"))
	}
	var node exprNode
	for _, w := range e.wits {
		test := exprNode(&unNode{op: ast.OpIsNull, operand: w, postfix: true})
		if node == nil {
			node = test
		} else {
			node = &binNode{left: node, right: test, op: ast.OpOr, grouped: true}
		}
	}
	return Expr{node: node, typ: schema.Bool}
}
