package visitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/relkit/ast"
	"github.com/relkit/relkit/cache"
	"github.com/relkit/relkit/dialect"
	"github.com/relkit/relkit/sqlerr"
)

func selectUsersOver(age int) *ast.SelectStmt {
	return &ast.SelectStmt{
		Columns: []ast.Node{
			&ast.Column{Table: "t0", Name: "id"},
			&ast.Column{Table: "t0", Name: "email"},
		},
		From: &ast.Table{Name: "users", Alias: "t0"},
		Where: &ast.WhereClause{Condition: &ast.BinaryExpr{
			Left:     &ast.Column{Table: "t0", Name: "age"},
			Operator: ast.OpGreaterThan,
			Right:    &ast.Value{Val: age},
		}},
	}
}

func TestBuildSelect(t *testing.T) {
	v := New(dialect.NewPostgres(), nil)
	defer v.Release()

	sql, args, err := v.Build(selectUsersOver(21))
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "t0"."id", "t0"."email" FROM "users" AS "t0" WHERE "t0"."age" > $1`,
		sql)
	assert.Equal(t, []any{21}, args)
}

func TestBuildSelectWithJoinAndGroupBy(t *testing.T) {
	stmt := &ast.SelectStmt{
		Columns: []ast.Node{
			&ast.Function{Name: ast.FnCount, Args: []ast.Node{
				&ast.Column{Table: "t1", Name: "id"},
			}},
			&ast.Column{Table: "t0", Name: "city"},
		},
		From: &ast.Table{Name: "parts", Alias: "t0"},
		Joins: []*ast.JoinClause{{
			JoinType: ast.JoinLeft,
			Source:   &ast.Table{Name: "suppliers", Alias: "t1"},
			On: &ast.BinaryExpr{
				Left:     &ast.Column{Table: "t0", Name: "city"},
				Operator: ast.OpEqual,
				Right:    &ast.Column{Table: "t1", Name: "city"},
			},
		}},
		GroupBy: &ast.GroupByClause{Exprs: []ast.Node{
			&ast.Column{Table: "t0", Name: "city"},
		}},
	}

	v := New(dialect.NewPostgres(), nil)
	defer v.Release()
	sql, args, err := v.Build(stmt)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT COUNT("t1"."id"), "t0"."city" FROM "parts" AS "t0" LEFT JOIN "suppliers" AS "t1" ON "t0"."city" = "t1"."city" GROUP BY "t0"."city"`,
		sql)
	assert.Empty(t, args)
}

func TestBuildJoinGroup(t *testing.T) {
	stmt := &ast.SelectStmt{
		Columns: []ast.Node{&ast.Column{Table: "t0", Name: "id"}},
		From:    &ast.Table{Name: "a", Alias: "t0"},
		Joins: []*ast.JoinClause{{
			JoinType: ast.JoinLeft,
			Source: &ast.JoinGroup{
				From: &ast.Table{Name: "b", Alias: "t1"},
				Joins: []*ast.JoinClause{{
					JoinType: ast.JoinInner,
					Source:   &ast.Table{Name: "c", Alias: "t2"},
					On: &ast.BinaryExpr{
						Left:     &ast.Column{Table: "t1", Name: "x"},
						Operator: ast.OpEqual,
						Right:    &ast.Column{Table: "t2", Name: "x"},
					},
				}},
			},
			On: &ast.BinaryExpr{
				Left:     &ast.Column{Table: "t0", Name: "x"},
				Operator: ast.OpEqual,
				Right:    &ast.Column{Table: "t2", Name: "x"},
			},
		}},
	}

	v := New(dialect.NewPostgres(), nil)
	defer v.Release()
	sql, _, err := v.Build(stmt)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "t0"."id" FROM "a" AS "t0" LEFT JOIN ("b" AS "t1" JOIN "c" AS "t2" ON "t1"."x" = "t2"."x") ON "t0"."x" = "t2"."x"`,
		sql)
}

func TestBuildUnion(t *testing.T) {
	left := &ast.SelectStmt{
		Columns: []ast.Node{&ast.Column{Table: "t0", Name: "city"}},
		From:    &ast.Table{Name: "parts", Alias: "t0"},
	}
	right := &ast.SelectStmt{
		Columns: []ast.Node{&ast.Column{Table: "t1", Name: "city"}},
		From:    &ast.Table{Name: "suppliers", Alias: "t1"},
	}

	v := New(dialect.NewPostgres(), nil)
	defer v.Release()
	sql, _, err := v.Build(&ast.UnionStmt{Left: left, Right: right})
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "t0"."city" FROM "parts" AS "t0" UNION SELECT "t1"."city" FROM "suppliers" AS "t1"`,
		sql)
}

func TestBuildInsertWithDefault(t *testing.T) {
	stmt := &ast.InsertStmt{
		Table:   &ast.Table{Name: "users"},
		Columns: []string{"name", "age"},
		Rows: [][]ast.Node{
			{&ast.Value{Val: "alice"}, &ast.Default{}},
			{&ast.Value{Val: "bob"}, &ast.Value{Val: 30}},
		},
	}

	v := New(dialect.NewPostgres(), nil)
	defer v.Release()
	sql, args, err := v.Build(stmt)
	require.NoError(t, err)
	assert.Equal(t,
		`INSERT INTO "users" ("name", "age") VALUES ($1, DEFAULT), ($2, $3)`,
		sql)
	assert.Equal(t, []any{"alice", "bob", 30}, args)
}

func TestBuildUpdateDelete(t *testing.T) {
	up := &ast.UpdateStmt{
		Table: &ast.Table{Name: "users"},
		Set: []ast.Assignment{
			{Column: "name", Value: &ast.Value{Val: "x"}},
		},
		Where: &ast.WhereClause{Condition: &ast.BinaryExpr{
			Left:     &ast.Column{Name: "id"},
			Operator: ast.OpEqual,
			Right:    &ast.Value{Val: 1},
		}},
		Returning: []ast.Node{&ast.Column{Name: "id"}},
	}

	v := New(dialect.NewPostgres(), nil)
	sql, args, err := v.Build(up)
	v.Release()
	require.NoError(t, err)
	assert.Equal(t,
		`UPDATE "users" SET "name" = $1 WHERE "id" = $2 RETURNING "id"`,
		sql)
	assert.Equal(t, []any{"x", 1}, args)

	del := &ast.DeleteStmt{
		Table: &ast.Table{Name: "users"},
		Where: &ast.WhereClause{Condition: &ast.UnaryExpr{
			Operator: ast.OpIsNull,
			Operand:  &ast.Column{Name: "email"},
			Postfix:  true,
		}},
	}

	v = New(dialect.NewPostgres(), nil)
	sql, _, err = v.Build(del)
	v.Release()
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users" WHERE "email" IS NULL`, sql)
}

func TestReturningOnUnsupportedDialect(t *testing.T) {
	stmt := &ast.DeleteStmt{
		Table:     &ast.Table{Name: "users"},
		Returning: []ast.Node{&ast.Column{Name: "id"}},
	}

	v := New(dialect.NewMySQL(), nil)
	defer v.Release()
	_, _, err := v.Build(stmt)
	require.Error(t, err)
	assert.True(t, sqlerr.IsKind(err, sqlerr.KindUnsupported))
}

func TestUnaryAndGroupedRendering(t *testing.T) {
	expr := &ast.UnaryExpr{
		Operator: ast.OpNot,
		Operand: &ast.GroupedExpr{Expr: &ast.BinaryExpr{
			Left:     &ast.Column{Table: "t0", Name: "active"},
			Operator: ast.OpEqual,
			Right:    &ast.Value{Val: true},
		}},
	}
	stmt := &ast.SelectStmt{
		Columns: []ast.Node{&ast.Column{Table: "t0", Name: "id"}},
		From:    &ast.Table{Name: "users", Alias: "t0"},
		Where:   &ast.WhereClause{Condition: expr},
	}

	v := New(dialect.NewPostgres(), nil)
	defer v.Release()
	sql, _, err := v.Build(stmt)
	require.NoError(t, err)
	assert.Contains(t, sql, `WHERE NOT ("t0"."active" = $1)`)
}

func TestInlineRendering(t *testing.T) {
	v := NewInline(dialect.NewPostgres())
	defer v.Release()

	sql, args, err := v.Build(selectUsersOver(21))
	require.NoError(t, err)
	assert.Contains(t, sql, `WHERE "t0"."age" > 21`)
	assert.Empty(t, args)
}

func TestBuildUsesCache(t *testing.T) {
	qc := cache.New(8)

	v := New(dialect.NewPostgres(), qc)
	first, args1, err := v.Build(selectUsersOver(21))
	v.Release()
	require.NoError(t, err)
	assert.Equal(t, 1, qc.Len())

	v = New(dialect.NewPostgres(), qc)
	second, args2, err := v.Build(selectUsersOver(21))
	v.Release()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, args1, args2)
	assert.Equal(t, 1, qc.Len())

	// The cached arg slice must not alias the caller's.
	args2[0] = 99
	v = New(dialect.NewPostgres(), qc)
	_, args3, err := v.Build(selectUsersOver(21))
	v.Release()
	require.NoError(t, err)
	assert.Equal(t, []any{21}, args3)
}

func TestColumnAlias(t *testing.T) {
	stmt := &ast.SelectStmt{
		Columns: []ast.Node{
			&ast.Column{Table: "t0", Name: "name", Alias: "label"},
			&ast.Column{Table: "t0", Name: "city", Alias: "city"},
		},
		From: &ast.Table{Name: "parts", Alias: "t0"},
	}

	v := New(dialect.NewPostgres(), nil)
	defer v.Release()
	sql, _, err := v.Build(stmt)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "t0"."name" AS "label", "t0"."city" FROM "parts" AS "t0"`,
		sql)
}
