package dialect

type MySQL struct{}

func NewMySQL() Dialect { return MySQL{} }

func (MySQL) Name() string { return "mysql" }

func (MySQL) QuoteIdentifier(name string) string {
	return "`" + name + "`"
}

func (MySQL) Placeholder(n int) string { return "?" }

func (MySQL) DefaultKeyword() string { return "DEFAULT" }

func (MySQL) SupportsDefaultValues() bool { return true }

func (MySQL) SupportsReturning() bool { return false }

func (MySQL) RenderValue(v any) string { return renderValue(v) }
