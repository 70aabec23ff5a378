package dialect

type SQLite struct{}

func NewSQLite() Dialect { return SQLite{} }

func (SQLite) Name() string { return "sqlite" }

func (SQLite) QuoteIdentifier(name string) string {
	return `"` + name + `"`
}

func (SQLite) Placeholder(n int) string { return "?" }

func (SQLite) DefaultKeyword() string { return "DEFAULT" }

// SQLite rejects the DEFAULT keyword inside a VALUES row; an insert
// that needs one cannot be expressed, only one whose defaulted columns
// drop out of the column list entirely.
func (SQLite) SupportsDefaultValues() bool { return false }

func (SQLite) SupportsReturning() bool { return true }

func (SQLite) RenderValue(v any) string { return renderValue(v) }
