package ast

import (
	"hash/fnv"
	"strconv"

	"github.com/relkit/relkit/utils"
)

type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinCross
)

type SelectStmt struct {
	Columns []Node
	From    Node // *Table or *Subquery
	Joins   []*JoinClause
	Where   *WhereClause
	GroupBy *GroupByClause
}

func (s *SelectStmt) Type() NodeType         { return NodeSelect }
func (s *SelectStmt) Accept(v Visitor) error { return v.VisitSelect(s) }
func (s *SelectStmt) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("select:"))
	for _, col := range s.Columns {
		h.Write(utils.U64ToBytes(col.Fingerprint()))
	}
	if s.From != nil {
		h.Write(utils.U64ToBytes(s.From.Fingerprint()))
	}
	for _, j := range s.Joins {
		h.Write(utils.U64ToBytes(j.Fingerprint()))
	}
	if s.Where != nil {
		h.Write(utils.U64ToBytes(s.Where.Fingerprint()))
	}
	if s.GroupBy != nil {
		h.Write(utils.U64ToBytes(s.GroupBy.Fingerprint()))
	}
	return h.Sum64()
}

// UnionStmt combines two selects; both sides must produce the same
// output shape, which the query layer checks before lowering.
type UnionStmt struct {
	Left  Node
	Right Node
}

func (u *UnionStmt) Type() NodeType         { return NodeUnion }
func (u *UnionStmt) Accept(v Visitor) error { return v.VisitUnion(u) }
func (u *UnionStmt) Fingerprint() uint64 {
	fp := utils.FingerprintString("union")
	fp = utils.Mix64(fp, u.Left.Fingerprint())
	return utils.Mix64(fp, u.Right.Fingerprint())
}

type JoinClause struct {
	JoinType JoinType
	Source   Node // *Table or *Subquery
	On       Node // nil for cross joins
}

func (j *JoinClause) Type() NodeType         { return NodeJoin }
func (j *JoinClause) Accept(v Visitor) error { return v.VisitJoinClause(j) }
func (j *JoinClause) Fingerprint() uint64 {
	fp := utils.FingerprintString("join:" + strconv.Itoa(int(j.JoinType)))
	if j.Source != nil {
		fp = utils.Mix64(fp, j.Source.Fingerprint())
	}
	if j.On != nil {
		fp = utils.Mix64(fp, j.On.Fingerprint())
	}
	return fp
}

// JoinGroup is a parenthesized join tree used as a join source:
// (b AS t1 LEFT JOIN c AS t2 ON ...).
type JoinGroup struct {
	From  Node
	Joins []*JoinClause
}

func (g *JoinGroup) Type() NodeType         { return NodeJoinGroup }
func (g *JoinGroup) Accept(v Visitor) error { return v.VisitJoinGroup(g) }
func (g *JoinGroup) Fingerprint() uint64 {
	fp := utils.FingerprintString("joingroup")
	if g.From != nil {
		fp = utils.Mix64(fp, g.From.Fingerprint())
	}
	for _, j := range g.Joins {
		fp = utils.Mix64(fp, j.Fingerprint())
	}
	return fp
}

type WhereClause struct {
	Condition Node
}

func (w *WhereClause) Type() NodeType         { return NodeWhere }
func (w *WhereClause) Accept(v Visitor) error { return v.VisitWhereClause(w) }
func (w *WhereClause) Fingerprint() uint64 {
	if w.Condition == nil {
		return 0
	}
	return utils.Mix64(utils.FingerprintString("where"), w.Condition.Fingerprint())
}

type GroupByClause struct {
	Exprs []Node
}

func (g *GroupByClause) Type() NodeType         { return NodeGroupBy }
func (g *GroupByClause) Accept(v Visitor) error { return v.VisitGroupBy(g) }
func (g *GroupByClause) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("groupby:"))
	for _, expr := range g.Exprs {
		h.Write(utils.U64ToBytes(expr.Fingerprint()))
	}
	return h.Sum64()
}
