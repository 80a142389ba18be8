package when

import (
	"fmt"
	"regexp"
)

// Atom is one indivisible predicate test as it appears in a compiled clause.
// Depth is the position at which the atom was first discovered along an
// execution path; the synthetic root sits at depth 0.
type Atom struct {
	Text  string
	Depth int
}

func (a Atom) String() string {
	return a.Text
}

// literal renders the atom or its negation.
func (a Atom) literal(value bool) string {
	if value {
		return a.Text
	}
	return "!" + a.Text
}

// EqualsText renders the canonical "key == value" atom.
// Values are printed with their default format and never quoted. There is no
// rendering for nil; the compiler rejects Equals(nil) before calling this.
func EqualsText(key string, value any) string {
	return fmt.Sprintf("%s == %v", key, value)
}

// MatchesText renders the canonical "key ~= pattern" atom.
func MatchesText(key, pattern string) string {
	return key + " ~= " + pattern
}

// RegexpText renders a "key ~= pattern" atom using the source of re.
func RegexpText(key string, re *regexp.Regexp) string {
	return MatchesText(key, re.String())
}

// TruthyText renders the bare-key truthiness atom.
func TruthyText(key string) string {
	return key
}
