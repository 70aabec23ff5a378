package ast

import (
	"fmt"
	"hash/fnv"

	"github.com/relkit/relkit/utils"
)

// Column is a possibly alias-qualified column reference. Table holds the
// compiler-assigned alias (t0, t1, ...) or is empty for unqualified DML
// references. Alias, when set, names the column in the output row.
type Column struct {
	Table string
	Name  string
	Alias string
}

func (c *Column) Type() NodeType         { return NodeColumn }
func (c *Column) Accept(v Visitor) error { return v.VisitColumn(c) }
func (c *Column) Fingerprint() uint64 {
	return utils.FingerprintString("col:" + c.Table + "." + c.Name + ":" + c.Alias)
}

// Table is a base table reference with its compiler-assigned alias.
type Table struct {
	Name  string
	Alias string
}

func (t *Table) Type() NodeType         { return NodeTable }
func (t *Table) Accept(v Visitor) error { return v.VisitTable(t) }
func (t *Table) Fingerprint() uint64 {
	return utils.FingerprintString("tbl:" + t.Name + ":" + t.Alias)
}

// Value is a literal rendered as a bind placeholder with its value
// appended to the argument list.
type Value struct {
	Val any
}

func (v *Value) Type() NodeType           { return NodeValue }
func (v *Value) Accept(vis Visitor) error { return vis.VisitValue(v) }
func (v *Value) Fingerprint() uint64 {
	return utils.FingerprintString(fmt.Sprintf("val:%T:%v", v.Val, v.Val))
}

// Default marks an omitted defaultable column in an INSERT values row;
// it renders the dialect's default keyword, never a placeholder.
type Default struct{}

func (d *Default) Type() NodeType         { return NodeDefault }
func (d *Default) Accept(v Visitor) error { return v.VisitDefault(d) }
func (d *Default) Fingerprint() uint64    { return utils.FingerprintString("default") }

// Function is a scalar or aggregate function call.
type Function struct {
	Name string
	Args []Node
}

func (f *Function) Type() NodeType         { return NodeFunction }
func (f *Function) Accept(v Visitor) error { return v.VisitFunction(f) }
func (f *Function) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("func:" + f.Name))
	for _, arg := range f.Args {
		h.Write(utils.U64ToBytes(arg.Fingerprint()))
	}
	return h.Sum64()
}

type BinaryExpr struct {
	Left     Node
	Operator string
	Right    Node
}

func (b *BinaryExpr) Type() NodeType         { return NodeBinaryExpr }
func (b *BinaryExpr) Accept(v Visitor) error { return v.VisitBinaryExpr(b) }
func (b *BinaryExpr) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("bin:" + b.Operator))
	h.Write(utils.U64ToBytes(b.Left.Fingerprint()))
	h.Write(utils.U64ToBytes(b.Right.Fingerprint()))
	return h.Sum64()
}

// UnaryExpr covers prefix operators (NOT x) and postfix predicates
// (x IS NULL).
type UnaryExpr struct {
	Operator string
	Operand  Node
	Postfix  bool
}

func (u *UnaryExpr) Type() NodeType         { return NodeUnaryExpr }
func (u *UnaryExpr) Accept(v Visitor) error { return v.VisitUnaryExpr(u) }
func (u *UnaryExpr) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("unary:" + u.Operator))
	if u.Postfix {
		h.Write([]byte{1})
	}
	h.Write(utils.U64ToBytes(u.Operand.Fingerprint()))
	return h.Sum64()
}

type GroupedExpr struct {
	Expr Node
}

func (g *GroupedExpr) Type() NodeType         { return NodeGroupedExpr }
func (g *GroupedExpr) Accept(v Visitor) error { return v.VisitGroupedExpr(g) }
func (g *GroupedExpr) Fingerprint() uint64 {
	if g.Expr == nil {
		return 0
	}
	return utils.Mix64(utils.FingerprintString("grouped"), g.Expr.Fingerprint())
}

// Subquery is a derived table in FROM or JOIN position; Alias is the
// compiler-assigned name its output columns are referenced through.
type Subquery struct {
	Stmt  Node
	Alias string
}

func (s *Subquery) Type() NodeType         { return NodeSubquery }
func (s *Subquery) Accept(v Visitor) error { return v.VisitSubquery(s) }
func (s *Subquery) Fingerprint() uint64 {
	fp := utils.FingerprintString("subquery:" + s.Alias)
	if s.Stmt != nil {
		fp = utils.Mix64(fp, s.Stmt.Fingerprint())
	}
	return fp
}
