package when_test

import (
	"regexp"
	"testing"

	"github.com/aretw0/contrib/pkg/when"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// truthContext answers every predicate from a fixed table of atom texts.
type truthContext map[string]bool

func (tc truthContext) Get(key string) when.Comparator {
	return truthComparator{table: tc, key: key}
}

type truthComparator struct {
	table truthContext
	key   string
}

func (c truthComparator) Equals(value any) bool {
	return c.table[when.EqualsText(c.key, value)]
}

func (c truthComparator) Matches(pattern string) bool {
	return c.table[when.MatchesText(c.key, pattern)]
}

func (c truthComparator) MatchesRegexp(re *regexp.Regexp) bool {
	return c.table[when.RegexpText(c.key, re)]
}

func (c truthComparator) Truthy() bool {
	return c.table[when.TruthyText(c.key)]
}

func TestCompile_RoundTrip(t *testing.T) {
	funcs := map[string]when.Func{
		"xor": func(c when.Context) bool {
			return c.Get("a").Truthy() != c.Get("b").Truthy()
		},
		"majority": func(c when.Context) bool {
			n := 0
			for _, k := range []string{"a", "b", "c"} {
				if c.Get(k).Truthy() {
					n++
				}
			}
			return n >= 2
		},
		"guarded": func(c when.Context) bool {
			if !c.Get("editorFocus").Truthy() {
				return false
			}
			if c.Get("lang").Equals("go") {
				return !c.Get("readonly").Truthy()
			}
			return c.Get("scheme").Matches("^(file|untitled)$")
		},
		"short circuit mix": func(c when.Context) bool {
			return (c.Get("a").Truthy() && c.Get("b").Equals(1)) || (!c.Get("c").Truthy() && c.Get("a").Equals(2))
		},
		"operators inside operands": func(c when.Context) bool {
			return c.Get("title").Matches("a == b") && !c.Get("lang").Equals("x ~= y")
		},
		"tautology branch": func(c when.Context) bool {
			return c.Get("a").Truthy() || !c.Get("a").Equals(3) || c.Get("b").Truthy()
		},
	}

	for name, fn := range funcs {
		t.Run(name, func(t *testing.T) {
			compiled, err := when.Compile(fn)
			require.NoError(t, err)

			dnf, err := when.Parse(compiled)
			require.NoError(t, err)

			// Every atom the exploration discovered, plus anything the clause names.
			atoms := collectAtoms(t, fn)
			for _, a := range dnf.Atoms() {
				if !contains(atoms, a) {
					atoms = append(atoms, a)
				}
			}
			require.LessOrEqual(t, len(atoms), 10)

			for mask := 0; mask < 1<<len(atoms); mask++ {
				table := truthContext{}
				for i, a := range atoms {
					table[a] = mask&(1<<i) != 0
				}
				expected := fn(table)
				got := dnf.Eval(func(atom string) bool { return table[atom] })
				assert.Equal(t, expected, got, "clause %q under %v", compiled, table)
			}
		})
	}
}

func collectAtoms(t *testing.T, fn when.Func) []string {
	t.Helper()
	var atoms []string
	_, err := when.NewCompiler(when.WithHooks(when.Hooks{
		OnPass: func(_ when.Assignment, _ bool, discovered []when.Atom) {
			for _, a := range discovered {
				if !contains(atoms, a.Text) {
					atoms = append(atoms, a.Text)
				}
			}
		},
	})).Compile(fn)
	require.NoError(t, err)
	return atoms
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		clauses  int
	}{
		{"", "", 0},
		{"a", "a", 1},
		{"!a && b == 1", "!a && b == 1", 1},
		{"a&&b||  !c ~= ^x$", "a && b || !c ~= ^x$", 2},
		{"!!a", "a", 1},
		{"true", "true", 1},
		{"title ~= a == b", "title ~= a == b", 1},
		{"lang == x ~= y && b", "lang == x ~= y && b", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dnf, err := when.Parse(tt.input)
			require.NoError(t, err)
			assert.Len(t, dnf, tt.clauses)
			assert.Equal(t, tt.expected, dnf.String())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{
		"a &&",
		"|| b",
		"!",
		"a ~= (unclosed",
		" == 3",
		"bad key",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := when.Parse(input)
			assert.Error(t, err)
		})
	}
}

func TestDNF_EvalValues(t *testing.T) {
	values := map[string]any{
		"view":        "explorer",
		"count":       3,
		"listFocus":   true,
		"emptyString": "",
		"resource":    "/tmp/main.go",
	}

	tests := []struct {
		clause   string
		expected bool
	}{
		{"view == explorer", true},
		{"view == terminal", false},
		{"count == 3", true},
		{"listFocus && count == 3", true},
		{"emptyString", false},
		{"!missing", true},
		{"missing == <nil>", false},
		{"resource ~= \\.go$", true},
		{"resource ~= \\.rs$ || view == explorer", true},
		{"", false},
		{"true", true},
		{"!true", false},
	}

	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			dnf, err := when.Parse(tt.clause)
			require.NoError(t, err)
			got, err := dnf.EvalValues(values)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, when.Truthy(nil))
	assert.False(t, when.Truthy(false))
	assert.False(t, when.Truthy(0))
	assert.False(t, when.Truthy(0.0))
	assert.False(t, when.Truthy(""))
	assert.False(t, when.Truthy([]string{}))
	assert.True(t, when.Truthy("x"))
	assert.True(t, when.Truthy(uint8(1)))
	assert.True(t, when.Truthy(struct{}{}))
}

func TestParseTest_FirstOperatorWins(t *testing.T) {
	test, err := when.ParseTest("title ~= a == b")
	require.NoError(t, err)
	assert.Equal(t, when.Test{Key: "title", Op: when.OpMatches, Operand: "a == b"}, test)

	test, err = when.ParseTest("lang == x ~= y")
	require.NoError(t, err)
	assert.Equal(t, when.Test{Key: "lang", Op: when.OpEquals, Operand: "x ~= y"}, test)
}
