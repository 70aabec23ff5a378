package dialect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPostgres(t *testing.T) {
	d := NewPostgres()
	assert.Equal(t, "postgres", d.Name())
	assert.Equal(t, `"users"`, d.QuoteIdentifier("users"))
	assert.Equal(t, "$1", d.Placeholder(1))
	assert.Equal(t, "$12", d.Placeholder(12))
	assert.Equal(t, "DEFAULT", d.DefaultKeyword())
	assert.True(t, d.SupportsDefaultValues())
	assert.True(t, d.SupportsReturning())
}

func TestSQLite(t *testing.T) {
	d := NewSQLite()
	assert.Equal(t, "sqlite", d.Name())
	assert.Equal(t, `"users"`, d.QuoteIdentifier("users"))
	assert.Equal(t, "?", d.Placeholder(1))
	assert.Equal(t, "?", d.Placeholder(7))
	assert.False(t, d.SupportsDefaultValues())
	assert.True(t, d.SupportsReturning())
}

func TestMySQL(t *testing.T) {
	d := NewMySQL()
	assert.Equal(t, "mysql", d.Name())
	assert.Equal(t, "`users`", d.QuoteIdentifier("users"))
	assert.Equal(t, "?", d.Placeholder(3))
	assert.True(t, d.SupportsDefaultValues())
	assert.False(t, d.SupportsReturning())
}

func TestRenderValue(t *testing.T) {
	d := NewPostgres()
	assert.Equal(t, "NULL", d.RenderValue(nil))
	assert.Equal(t, "'London'", d.RenderValue("London"))
	assert.Equal(t, "'O''Brien'", d.RenderValue("O'Brien"))
	assert.Equal(t, "TRUE", d.RenderValue(true))
	assert.Equal(t, "FALSE", d.RenderValue(false))
	assert.Equal(t, "42", d.RenderValue(42))
	assert.Equal(t, "3.5", d.RenderValue(3.5))
	assert.Equal(t, "X'0aff'", d.RenderValue([]byte{0x0a, 0xff}))

	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "'2024-05-01 12:30:00.000000'", d.RenderValue(ts))
}
