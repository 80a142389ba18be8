package when

import "regexp"

// Context is handed to a predicate function on every exploration pass.
// It is only valid while the pass that received it is running.
type Context interface {
	// Get returns the comparator for a named context key.
	Get(key string) Comparator
}

// Comparator builds the atoms available for a single context key. Every call
// records an atom and returns the truth value forced by the current pass.
type Comparator interface {
	// Equals records "key == value". A nil value is an accessor misuse.
	Equals(value any) bool
	Matches(pattern string) bool
	MatchesRegexp(re *regexp.Regexp) bool
	Truthy() bool
}

// oracle intercepts predicate reads for one execution of the function and maps
// them onto positions of the shared decision tree.
type oracle struct {
	assignment Assignment
	cursor     *node
	last       bool
	active     bool
	discovered []Atom
}

func newOracle(root *node, assignment Assignment) *oracle {
	return &oracle{
		assignment: assignment,
		cursor:     root,
		last:       true,
		active:     true,
	}
}

func (o *oracle) Get(key string) Comparator {
	if !o.active {
		panic(misuse(key, "context used outside of an active compile"))
	}
	if key == "" {
		panic(misuse(key, "context keys must be non-empty strings"))
	}
	return comparator{oracle: o, key: key}
}

// evaluate moves the cursor onto the branch selected by the previous result,
// creating the node on first visit, and returns the forced value for it.
func (o *oracle) evaluate(key, text string) bool {
	if !o.active {
		panic(misuse(key, "context used outside of an active compile"))
	}

	b := o.cursor.side(o.last)
	switch b.kind {
	case unresolved:
		depth := o.cursor.atom.Depth + 1
		if depth > MaxDepth {
			panic(&Error{
				Kind:   ErrDepthExceeded,
				Key:    key,
				Text:   text,
				Depth:  depth,
				Reason: "at most 31 predicates may be read along one path",
			})
		}
		next := &node{atom: Atom{Text: text, Depth: depth}}
		*b = branch{kind: nested, node: next}
		o.discovered = append(o.discovered, next.atom)
	case terminal:
		panic(nonDeterministic(text, o.cursor.atom.Depth+1, "an earlier pass returned at this position"))
	case nested:
		if b.node.atom.Text != text {
			panic(nonDeterministic(text, b.node.atom.Depth, "an earlier pass read "+b.node.atom.Text+" here"))
		}
	}

	o.cursor = b.node
	o.last = o.assignment.Has(o.cursor.atom.Depth)
	return o.last
}

// store records the function result on the branch the pass ended on.
func (o *oracle) store(result bool) error {
	b := o.cursor.side(o.last)
	if b.kind != unresolved {
		return nonDeterministic(o.cursor.atom.Text, o.cursor.atom.Depth, "the same path was resolved by an earlier pass")
	}
	*b = branch{kind: terminal, value: result}
	return nil
}

type comparator struct {
	oracle *oracle
	key    string
}

func (c comparator) Equals(value any) bool {
	if value == nil {
		panic(misuse(c.key, "cannot compare against nil, use Truthy"))
	}
	return c.oracle.evaluate(c.key, EqualsText(c.key, value))
}

func (c comparator) Matches(pattern string) bool {
	return c.oracle.evaluate(c.key, MatchesText(c.key, pattern))
}

func (c comparator) MatchesRegexp(re *regexp.Regexp) bool {
	return c.oracle.evaluate(c.key, RegexpText(c.key, re))
}

func (c comparator) Truthy() bool {
	return c.oracle.evaluate(c.key, TruthyText(c.key))
}
