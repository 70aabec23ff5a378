package query

import (
	"github.com/relkit/relkit/schema"
	"github.com/relkit/relkit/sqlerr"
)

type opKind int

const (
	opScan opKind = iota
	opFilter
	opSelect
	opJoin
	opLeftJoin
	opCross
	opAggregate
	opUnion
)

// Field names one output column of a projection or aggregation.
type Field struct {
	Name string
	Expr Expr
}

// F builds a named output field.
func F(name string, e Expr) Field { return Field{Name: name, Expr: e} }

// Query is a persistent relational operator tree. Combinators return
// new trees and never mutate receivers, so sub-queries are safe to
// share and reuse. Construction errors accumulate and surface at
// compile time via Err.
type Query struct {
	op    opKind
	src   *source
	table *schema.Table
	inner *Query
	left  *Query
	right *Query
	pred  Expr
	on    Expr
	keys  []Field
	aggs  []Field

	fields []rowCol
	rows   []Row
	errs   []error
}

// Scan is the base operator: one row per row of the base table.
func Scan(t *schema.Table) *Query {
	src := &source{table: t}
	return &Query{
		op:    opScan,
		src:   src,
		table: t,
		rows:  []Row{&baseRow{src: src, table: t}},
	}
}

// Out returns the handle onto the first (or only) row of the output
// shape; Rows returns all of them, one per joined source.
func (q *Query) Out() Row { return q.rows[0] }

func (q *Query) Rows() []Row { return append([]Row(nil), q.rows...) }

// Err returns the first construction error recorded anywhere in the
// tree, or nil.
func (q *Query) Err() error {
	if len(q.errs) > 0 {
		return q.errs[0]
	}
	return nil
}

func (q *Query) childErrs(more ...error) []error {
	errs := append([]error(nil), q.errs...)
	for _, err := range more {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Where restricts the query to rows satisfying pred. The predicate must
// be boolean and reference only columns reachable from this query.
func (q *Query) Where(pred Expr) *Query {
	errs := q.childErrs(pred.err)
	if pred.err == nil && pred.typ != schema.Bool {
		errs = append(errs, sqlerr.TypeMismatch("filter predicate must be boolean, got %s", pred.typ))
	}
	return &Query{op: opFilter, src: q.src, inner: q, pred: pred, rows: q.rows, errs: errs}
}

// resolveFields fills in defaulted names and validates aggregate usage
// outside aggregation.
func resolveFields(fields []Field, allowAgg bool) ([]rowCol, error) {
	out := make([]rowCol, len(fields))
	for i, f := range fields {
		if f.Expr.err != nil {
			return nil, f.Expr.err
		}
		if !allowAgg && f.Expr.agg {
			return nil, sqlerr.Aggregate("aggregate expression %q outside an aggregate query", f.Name)
		}
		name := f.Name
		if name == "" {
			cn, ok := f.Expr.node.(*colNode)
			if !ok {
				return nil, sqlerr.Config("computed output field requires a name")
			}
			name = cn.name
		}
		for _, prev := range out[:i] {
			if prev.name == name {
				return nil, sqlerr.Config("duplicate output field %q", name)
			}
		}
		out[i] = rowCol{name: name, typ: f.Expr.typ, nullable: f.Expr.nullable, node: f.Expr.node}
	}
	return out, nil
}

// Select projects the query onto the given fields.
func (q *Query) Select(fields ...Field) *Query {
	src := &source{}
	resolved, err := resolveFields(fields, false)
	errs := q.childErrs(err)
	nq := &Query{op: opSelect, src: src, inner: q, fields: resolved, errs: errs}
	nq.rows = []Row{&derivedRow{src: src, fields: resolved}}
	return nq
}

// Join is an inner join with an explicit predicate: product plus filter
// in one operator, compiled directly to JOIN ... ON.
func (q *Query) Join(r *Query, on Expr) *Query {
	errs := q.childErrs(on.err)
	errs = append(errs, r.errs...)
	if on.err == nil && on.typ != schema.Bool {
		errs = append(errs, sqlerr.TypeMismatch("join predicate must be boolean, got %s", on.typ))
	}
	return &Query{
		op:    opJoin,
		left:  q,
		right: r,
		on:    on,
		rows:  append(append([]Row(nil), q.rows...), r.rows...),
		errs:  errs,
	}
}

// CrossJoin is the product: every pairing of rows from both sides.
func (q *Query) CrossJoin(r *Query) *Query {
	errs := q.childErrs()
	errs = append(errs, r.errs...)
	return &Query{
		op:    opCross,
		left:  q,
		right: r,
		rows:  append(append([]Row(nil), q.rows...), r.rows...),
		errs:  errs,
	}
}

// LeftJoin pairs each left row with every matching right row, or with a
// single all-absent right row when none match. The returned Row is the
// right side wrapped as optional; it is the only construct that
// introduces nullability into a row shape.
func (q *Query) LeftJoin(r *Query, on Expr) (*Query, Row) {
	errs := q.childErrs(on.err)
	errs = append(errs, r.errs...)
	if on.err == nil && on.typ != schema.Bool {
		errs = append(errs, sqlerr.TypeMismatch("join predicate must be boolean, got %s", on.typ))
	}

	var wit *colNode
	if len(r.rows) > 0 {
		wit = witnessOf(r.rows[0])
	}
	if wit == nil {
		errs = append(errs, sqlerr.Config("left join right side has no non-nullable column to witness a match"))
	}

	optRows := make([]Row, len(r.rows))
	for i, row := range r.rows {
		optRows[i] = &OptionalRow{inner: row, wits: []*colNode{wit}}
	}

	nq := &Query{
		op:    opLeftJoin,
		left:  q,
		right: r,
		on:    on,
		rows:  append(append([]Row(nil), q.rows...), optRows...),
		errs:  errs,
	}
	if len(optRows) == 0 {
		return nq, nil
	}
	return nq, optRows[0]
}

// Aggregate groups the query by the key fields and computes the
// aggregate fields. Every output is either a group key or an aggregate;
// the invariant is enforced here, before any compile is attempted. The
// select list emits aggregates first, then keys.
func (q *Query) Aggregate(keys []Field, aggs []Field) *Query {
	src := &source{}
	errs := q.childErrs()

	for _, k := range keys {
		if k.Expr.err != nil {
			errs = append(errs, k.Expr.err)
		} else if k.Expr.agg {
			errs = append(errs, sqlerr.Aggregate("group key %q must not be an aggregate", k.Name))
		}
	}
	for _, a := range aggs {
		if a.Expr.err != nil {
			errs = append(errs, a.Expr.err)
		} else if !a.Expr.agg {
			errs = append(errs, sqlerr.Aggregate("output field %q is neither a group key nor an aggregate", a.Name))
		}
	}

	ordered := make([]Field, 0, len(aggs)+len(keys))
	ordered = append(ordered, aggs...)
	ordered = append(ordered, keys...)
	resolved, err := resolveFields(ordered, true)
	if err != nil {
		errs = append(errs, err)
	}

	keyCols, err := resolveFields(keys, false)
	if err != nil {
		errs = append(errs, err)
	}

	nq := &Query{
		op:     opAggregate,
		src:    src,
		inner:  q,
		keys:   keyCols2Fields(keyCols),
		aggs:   aggs,
		fields: resolved,
		errs:   errs,
	}
	nq.rows = []Row{&derivedRow{src: src, fields: resolved}}
	return nq
}

func keyCols2Fields(cols []rowCol) []Field {
	out := make([]Field, len(cols))
	for i, c := range cols {
		out[i] = Field{Name: c.name, Expr: Expr{node: c.node, typ: c.typ, nullable: c.nullable}}
	}
	return out
}

// Union concatenates two queries of identical output shape.
func (q *Query) Union(r *Query) *Query {
	src := &source{}
	errs := q.childErrs()
	errs = append(errs, r.errs...)

	ls, rs := shapeOfRows(q.rows), shapeOfRows(r.rows)
	if len(ls) != len(rs) {
		errs = append(errs, sqlerr.TypeMismatch("union arity mismatch: %d vs %d columns", len(ls), len(rs)))
	} else {
		for i := range ls {
			if ls[i].typ != rs[i].typ {
				errs = append(errs, sqlerr.TypeMismatch("union column %d type mismatch: %s vs %s", i, ls[i].typ, rs[i].typ))
				break
			}
		}
	}

	fields := make([]rowCol, len(ls))
	for i, c := range ls {
		nullable := c.nullable
		if len(rs) == len(ls) && rs[i].nullable {
			nullable = true
		}
		fields[i] = rowCol{name: c.name, typ: c.typ, nullable: nullable, node: &colNode{src: src, name: c.name}}
	}

	nq := &Query{op: opUnion, src: src, left: q, right: r, fields: fields, errs: errs}
	nq.rows = []Row{&derivedRow{src: src, fields: fields}}
	return nq
}

func shapeOfRows(rows []Row) []rowCol {
	var out []rowCol
	for _, r := range rows {
		out = append(out, r.cols()...)
	}
	return out
}
