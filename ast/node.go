// Package ast holds the SQL syntax tree the compiler lowers query
// operator trees into. Nodes are immutable values; rendering happens in
// the visitor package. Every node carries a structural fingerprint used
// to key the compiled-statement cache.
package ast

type NodeType int

const (
	NodeSelect NodeType = iota
	NodeUnion
	NodeInsert
	NodeUpdate
	NodeDelete
	NodeColumn
	NodeTable
	NodeValue
	NodeDefault
	NodeFunction
	NodeGroupedExpr
	NodeBinaryExpr
	NodeUnaryExpr
	NodeSubquery
	NodeWhere
	NodeJoin
	NodeJoinGroup
	NodeGroupBy
)

type Node interface {
	Type() NodeType
	Accept(v Visitor) error
	Fingerprint() uint64
}
