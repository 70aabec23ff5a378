package query

import (
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/relkit/relkit/dialect"
)

var aliasPattern = regexp.MustCompile(`AS "(t\d+)"`)

// Compiling the same tree repeatedly must yield byte-identical text and
// the same argument order, whatever the filter stack looks like.
func TestProperty_CompileDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	c := NewCompiler(dialect.NewPostgres())

	properties.Property("repeated compiles are byte-identical", prop.ForAll(
		func(cities []string, minPid int) bool {
			parts := Scan(partsTable)
			p := parts.Out()
			q := parts.Where(p.Col("pid").Gt(Lit(minPid)))
			for _, city := range cities {
				q = q.Where(p.Col("city").Eq(Lit(city)))
			}

			first, err := c.Compile(q)
			if err != nil {
				return false
			}
			for i := 0; i < 5; i++ {
				again, err := c.Compile(q)
				if err != nil || again.SQL != first.SQL {
					return false
				}
				if len(again.Args) != len(first.Args) {
					return false
				}
				for j := range again.Args {
					if again.Args[j] != first.Args[j] {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

// A self-join of depth N must produce N distinct aliases, however deep
// the chain gets.
func TestProperty_SelfJoinAliasUniqueness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	c := NewCompiler(dialect.NewPostgres())

	properties.Property("N scans of one table get N distinct aliases", prop.ForAll(
		func(depth int) bool {
			base := Scan(partsTable)
			q := base
			prev := base.Out()
			for i := 1; i < depth; i++ {
				next := Scan(partsTable)
				q = q.Join(next, prev.Col("pid").Eq(next.Out().Col("pid")))
				prev = next.Out()
			}

			got, err := c.Compile(q)
			if err != nil {
				return false
			}

			seen := map[string]bool{}
			for _, m := range aliasPattern.FindAllStringSubmatch(got.SQL, -1) {
				if seen[m[1]] {
					return false
				}
				seen[m[1]] = true
			}
			return len(seen) == depth
		},
		gen.IntRange(1, 12),
	))

	properties.TestingRun(t)
}
