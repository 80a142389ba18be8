package when

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Op is the comparison performed by a Test.
type Op uint8

const (
	OpTruthy Op = iota
	OpEquals
	OpMatches
)

// Test is a parsed atom.
type Test struct {
	Key     string
	Op      Op
	Operand string
}

// ParseTest parses a single atom in the compiled grammar.
func ParseTest(text string) (Test, error) {
	text = strings.TrimSpace(text)
	// Keys never contain spaces, so the first operator in the text is the real one
	// and anything after it belongs to the operand.
	eq := strings.Index(text, " == ")
	match := strings.Index(text, " ~= ")
	if eq >= 0 && (match < 0 || eq < match) {
		return newTest(text[:eq], OpEquals, text[eq+len(" == "):])
	}
	if match >= 0 {
		key, operand := text[:match], text[match+len(" ~= "):]
		if _, err := regexp.Compile(operand); err != nil {
			return Test{}, fmt.Errorf("atom %q: invalid pattern: %w", text, err)
		}
		return newTest(key, OpMatches, operand)
	}
	return newTest(text, OpTruthy, "")
}

func newTest(key string, op Op, operand string) (Test, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Test{}, fmt.Errorf("atom has an empty key")
	}
	if strings.ContainsAny(key, " \t!&|") {
		return Test{}, fmt.Errorf("atom key %q contains reserved characters", key)
	}
	return Test{Key: key, Op: op, Operand: strings.TrimSpace(operand)}, nil
}

func (t Test) String() string {
	switch t.Op {
	case OpEquals:
		return t.Key + " == " + t.Operand
	case OpMatches:
		return MatchesText(t.Key, t.Operand)
	default:
		return t.Key
	}
}

// Eval evaluates the test against context values. Missing keys are falsy and
// never equal or match anything.
func (t Test) Eval(values map[string]any) (bool, error) {
	v, ok := values[t.Key]
	switch t.Op {
	case OpEquals:
		return ok && v != nil && fmt.Sprint(v) == t.Operand, nil
	case OpMatches:
		re, err := regexp.Compile(t.Operand)
		if err != nil {
			return false, fmt.Errorf("atom %q: invalid pattern: %w", t.String(), err)
		}
		return ok && v != nil && re.MatchString(fmt.Sprint(v)), nil
	default:
		return ok && Truthy(v), nil
	}
}

// Truthy reports whether a context value counts as set: nil, false, zero
// numbers, and empty strings, slices and maps do not.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	default:
		return true
	}
}

// Literal is an atom or its negation inside a conjunction.
type Literal struct {
	Text    string
	Negated bool
}

func (l Literal) String() string {
	if l.Negated {
		return "!" + l.Text
	}
	return l.Text
}

func (l Literal) constant() (value, ok bool) {
	switch l.Text {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// Conjunction is a run of literals joined by "&&".
type Conjunction []Literal

// DNF is a parsed when-clause: conjunctions joined by "||". The empty DNF is
// false, matching what the compiler emits for an unsatisfiable function.
type DNF []Conjunction

// Parse parses a clause in the compiled grammar. "&&" binds tighter than "||"
// and parentheses are not part of the grammar.
func Parse(s string) (DNF, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DNF{}, nil
	}

	var dnf DNF
	for _, part := range strings.Split(s, "||") {
		var conj Conjunction
		for _, raw := range strings.Split(part, "&&") {
			lit, err := parseLiteral(raw)
			if err != nil {
				return nil, fmt.Errorf("parse %q: %w", s, err)
			}
			conj = append(conj, lit)
		}
		dnf = append(dnf, conj)
	}
	return dnf, nil
}

func parseLiteral(raw string) (Literal, error) {
	text := strings.TrimSpace(raw)
	var lit Literal
	for strings.HasPrefix(text, "!") {
		lit.Negated = !lit.Negated
		text = strings.TrimSpace(text[1:])
	}
	if text == "" {
		return Literal{}, fmt.Errorf("empty operand")
	}
	lit.Text = text
	if _, ok := lit.constant(); ok {
		return lit, nil
	}
	test, err := ParseTest(text)
	if err != nil {
		return Literal{}, err
	}
	lit.Text = test.String()
	return lit, nil
}

// Eval evaluates the clause given the truth value of every atom text.
func (d DNF) Eval(truth func(atom string) bool) bool {
	for _, conj := range d {
		holds := true
		for _, lit := range conj {
			v, ok := lit.constant()
			if !ok {
				v = truth(lit.Text)
			}
			if v == lit.Negated {
				holds = false
				break
			}
		}
		if holds {
			return true
		}
	}
	return false
}

// EvalValues evaluates the clause against context values.
func (d DNF) EvalValues(values map[string]any) (bool, error) {
	var evalErr error
	result := d.Eval(func(atom string) bool {
		test, err := ParseTest(atom)
		if err != nil {
			evalErr = err
			return false
		}
		ok, err := test.Eval(values)
		if err != nil {
			evalErr = err
		}
		return ok
	})
	if evalErr != nil {
		return false, evalErr
	}
	return result, nil
}

// Atoms returns the distinct atom texts of the clause in order of appearance.
func (d DNF) Atoms() []string {
	seen := make(map[string]bool)
	var atoms []string
	for _, conj := range d {
		for _, lit := range conj {
			if _, ok := lit.constant(); ok || seen[lit.Text] {
				continue
			}
			seen[lit.Text] = true
			atoms = append(atoms, lit.Text)
		}
	}
	return atoms
}

func (d DNF) String() string {
	clauses := make([]string, len(d))
	for i, conj := range d {
		lits := make([]string, len(conj))
		for j, lit := range conj {
			lits[j] = lit.String()
		}
		clauses[i] = strings.Join(lits, " && ")
	}
	return strings.Join(clauses, " || ")
}
