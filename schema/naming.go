package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is a singleton for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// NamingStrategy converts entity and field names into database names.
type NamingStrategy interface {
	TableName(entity string) string
	ColumnName(field string) string
}

type ColumnNamingType int

const (
	ColumnSnakeCase ColumnNamingType = iota
	ColumnCamelCase
	ColumnPascalCase
)

type defaultNaming struct {
	columns   ColumnNamingType
	pluralize bool
}

// DefaultNaming pluralizes table names and snake_cases columns:
// "PartSupplier" -> "part_suppliers", "CreatedAt" -> "created_at".
func DefaultNaming() NamingStrategy {
	return &defaultNaming{columns: ColumnSnakeCase, pluralize: true}
}

// NewNaming builds a strategy with an explicit column convention and
// table cardinality.
func NewNaming(columns ColumnNamingType, pluralizeTables bool) NamingStrategy {
	return &defaultNaming{columns: columns, pluralize: pluralizeTables}
}

func (n *defaultNaming) TableName(entity string) string {
	name := toSnakeCase(entity)
	if n.pluralize {
		name = pluralizeClient.Plural(name)
	}
	return name
}

func (n *defaultNaming) ColumnName(field string) string {
	switch n.columns {
	case ColumnCamelCase:
		return toCamelCase(field)
	case ColumnPascalCase:
		return toPascalCase(field)
	default:
		return toSnakeCase(field)
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Break before an upper rune that starts a new word:
			// after a lower rune, or before an upper-lower boundary
			// inside an acronym (HTTPServer -> http_server).
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toPascalCase(s string) string {
	parts := strings.Split(toSnakeCase(s), "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func toCamelCase(s string) string {
	p := toPascalCase(s)
	if p == "" {
		return p
	}
	return strings.ToLower(p[:1]) + p[1:]
}
