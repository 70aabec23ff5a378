// Package dialect isolates the per-database SQL surface: identifier
// quoting, placeholder style and the default-value marker. The compiler
// never emits dialect-specific text outside this package.
package dialect

// Dialect is the single substitution point for target-specific syntax.
type Dialect interface {
	// Name identifies the dialect ("postgres", "sqlite", "mysql").
	Name() string
	// QuoteIdentifier quotes a table, column or alias name.
	QuoteIdentifier(name string) string
	// Placeholder returns the positional bind marker for parameter n (1-based).
	Placeholder(n int) string
	// DefaultKeyword is the marker emitted for an omitted defaultable
	// column in an INSERT values row.
	DefaultKeyword() string
	// SupportsDefaultValues reports whether the default marker is legal
	// inside a VALUES row. When false, statements needing one fail to
	// compile rather than bind a wrong value.
	SupportsDefaultValues() bool
	// SupportsReturning reports whether DML statements may carry a
	// RETURNING projection.
	SupportsReturning() bool
	// RenderValue renders v as an inline SQL literal. Used only for
	// debug rendering, never for executable statements.
	RenderValue(v any) string
}
