package ast

// Visitor renders or inspects a node tree. Build is the entry point:
// it walks root and returns SQL text plus the ordered argument list.
type Visitor interface {
	VisitSelect(*SelectStmt) error
	VisitUnion(*UnionStmt) error
	VisitInsert(*InsertStmt) error
	VisitUpdate(*UpdateStmt) error
	VisitDelete(*DeleteStmt) error

	VisitColumn(*Column) error
	VisitTable(*Table) error
	VisitValue(*Value) error
	VisitDefault(*Default) error
	VisitFunction(*Function) error
	VisitGroupedExpr(*GroupedExpr) error
	VisitBinaryExpr(*BinaryExpr) error
	VisitUnaryExpr(*UnaryExpr) error
	VisitSubquery(*Subquery) error

	VisitWhereClause(*WhereClause) error
	VisitJoinClause(*JoinClause) error
	VisitJoinGroup(*JoinGroup) error
	VisitGroupBy(*GroupByClause) error

	Build(root Node) (string, []any, error)
}
