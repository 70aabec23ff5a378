package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/relkit/schema"
	"github.com/relkit/relkit/sqlerr"
)

var partsTable = schema.MustDescribe("parts",
	schema.Col("pid", schema.Int),
	schema.Col("name", schema.Text),
	schema.Col("city", schema.Text),
	schema.Col("weight", schema.Float),
)

var suppliersTable = schema.MustDescribe("suppliers",
	schema.Col("sid", schema.Int),
	schema.Col("sname", schema.Text),
	schema.Col("city", schema.Text),
)

func TestLit(t *testing.T) {
	e := Lit("London")
	require.NoError(t, e.Err())
	assert.Equal(t, schema.Text, e.Type())
	assert.False(t, e.Nullable())

	e = Lit(42)
	require.NoError(t, e.Err())
	assert.Equal(t, schema.Int, e.Type())
}

func TestLitUnsupportedType(t *testing.T) {
	e := Lit(struct{ X int }{1})
	require.Error(t, e.Err())
	assert.True(t, sqlerr.IsKind(e.Err(), sqlerr.KindTypeMismatch))
}

func TestComparisonTyping(t *testing.T) {
	p := Scan(partsTable).Out()

	eq := p.Col("city").Eq(Lit("London"))
	require.NoError(t, eq.Err())
	assert.Equal(t, schema.Bool, eq.Type())

	lt := p.Col("pid").Lt(Lit(10))
	require.NoError(t, lt.Err())
	assert.Equal(t, schema.Bool, lt.Type())
}

func TestComparisonTypeMismatch(t *testing.T) {
	p := Scan(partsTable).Out()

	e := p.Col("city").Eq(Lit(42))
	require.Error(t, e.Err())
	assert.True(t, sqlerr.IsKind(e.Err(), sqlerr.KindTypeMismatch))

	e = p.Col("pid").Gt(Lit("x"))
	assert.True(t, sqlerr.IsKind(e.Err(), sqlerr.KindTypeMismatch))
}

func TestOrderOnUnorderableType(t *testing.T) {
	p := Scan(partsTable).Out()
	e := p.Col("pid").Eq(Lit(1)).Lt(Lit(true))
	require.Error(t, e.Err())
	assert.True(t, sqlerr.IsKind(e.Err(), sqlerr.KindTypeMismatch))
}

func TestArithmeticTyping(t *testing.T) {
	p := Scan(partsTable).Out()

	sum := p.Col("pid").Add(Lit(1))
	require.NoError(t, sum.Err())
	assert.Equal(t, schema.Int, sum.Type())

	scaled := p.Col("weight").Mul(Lit(2.0))
	require.NoError(t, scaled.Err())
	assert.Equal(t, schema.Float, scaled.Type())

	bad := p.Col("name").Add(Lit("x"))
	require.Error(t, bad.Err())
	assert.True(t, sqlerr.IsKind(bad.Err(), sqlerr.KindTypeMismatch))

	mixed := p.Col("pid").Add(Lit(1.5))
	assert.True(t, sqlerr.IsKind(mixed.Err(), sqlerr.KindTypeMismatch))
}

func TestLogicalRequiresBool(t *testing.T) {
	p := Scan(partsTable).Out()

	ok := p.Col("city").Eq(Lit("a")).And(p.Col("pid").Gt(Lit(0)))
	require.NoError(t, ok.Err())
	assert.Equal(t, schema.Bool, ok.Type())

	bad := p.Col("city").And(p.Col("pid").Gt(Lit(0)))
	require.Error(t, bad.Err())
	assert.True(t, sqlerr.IsKind(bad.Err(), sqlerr.KindTypeMismatch))

	notBad := p.Col("name").Not()
	assert.True(t, sqlerr.IsKind(notBad.Err(), sqlerr.KindTypeMismatch))
}

func TestStringOps(t *testing.T) {
	p := Scan(partsTable).Out()

	like := p.Col("name").Like(Lit("wid%"))
	require.NoError(t, like.Err())
	assert.Equal(t, schema.Bool, like.Type())

	cat := p.Col("name").Concat(Lit("!"))
	require.NoError(t, cat.Err())
	assert.Equal(t, schema.Text, cat.Type())

	bad := p.Col("pid").Like(Lit("1%"))
	assert.True(t, sqlerr.IsKind(bad.Err(), sqlerr.KindTypeMismatch))
}

func TestAggregateTyping(t *testing.T) {
	p := Scan(partsTable).Out()

	cnt := Count(p.Col("pid"))
	require.NoError(t, cnt.Err())
	assert.Equal(t, schema.Int, cnt.Type())

	avg := Avg(p.Col("weight"))
	require.NoError(t, avg.Err())
	assert.Equal(t, schema.Float, avg.Type())

	mx := Max(p.Col("name"))
	require.NoError(t, mx.Err())
	assert.Equal(t, schema.Text, mx.Type())

	badSum := Sum(p.Col("name"))
	require.Error(t, badSum.Err())
	assert.True(t, sqlerr.IsKind(badSum.Err(), sqlerr.KindTypeMismatch))
}

func TestNestedAggregateRejected(t *testing.T) {
	p := Scan(partsTable).Out()
	e := Sum(Count(p.Col("pid")))
	require.Error(t, e.Err())
	assert.True(t, sqlerr.IsKind(e.Err(), sqlerr.KindAggregate))
}

func TestUnknownColumnIsScopeError(t *testing.T) {
	p := Scan(partsTable).Out()
	e := p.Col("nope")
	require.Error(t, e.Err())
	assert.True(t, sqlerr.IsKind(e.Err(), sqlerr.KindScope))

	var se *sqlerr.Error
	require.ErrorAs(t, e.Err(), &se)
	assert.Equal(t, "parts", se.Table)
	assert.Equal(t, "nope", se.Column)
}

func TestErrorsPropagateThroughCombinators(t *testing.T) {
	p := Scan(partsTable).Out()
	bad := p.Col("nope")

	e := bad.Eq(Lit(1)).And(p.Col("pid").Gt(Lit(0)))
	require.Error(t, e.Err())
	assert.True(t, sqlerr.IsKind(e.Err(), sqlerr.KindScope))
}

func TestIsAbsentRequiresLeftJoin(t *testing.T) {
	p := Scan(partsTable).Out()
	e := IsAbsent(p.Col("city"))
	require.Error(t, e.Err())
	assert.True(t, sqlerr.IsKind(e.Err(), sqlerr.KindTypeMismatch))
}
