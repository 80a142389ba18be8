package when

import (
	"iter"
	"strings"
)

// True is the clause emitted for a function that holds for every assignment.
const True = "true"

type frame struct {
	node   *node
	prefix string
}

// Clauses yields one conjunction per satisfying path of the tree. An empty
// clause means the path holds unconditionally. The sequence may be ranged over
// any number of times.
func (t *Tree) Clauses() iter.Seq[string] {
	return func(yield func(string) bool) {
		top := t.root.t
		switch top.kind {
		case unresolved:
			return
		case terminal:
			if top.value {
				yield("")
			}
			return
		}

		stack := []frame{{node: top.node}}
		for len(stack) > 0 {
			fr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := fr.node

			tTrue, fTrue := n.t.is(true), n.f.is(true)
			if tTrue && fTrue {
				if !yield(fr.prefix) {
					return
				}
				continue
			}
			if tTrue && !yield(conjoin(fr.prefix, n.atom.literal(true))) {
				return
			}
			if fTrue && !yield(conjoin(fr.prefix, n.atom.literal(false))) {
				return
			}

			// A terminal true on one side already covers the complement, so the
			// nested side does not need this node's literal.
			self := !tTrue && !fTrue

			// f is pushed first so the true side is emitted first.
			if n.f.kind == nested {
				prefix := fr.prefix
				if self {
					prefix = conjoin(prefix, n.atom.literal(false))
				}
				stack = append(stack, frame{node: n.f.node, prefix: prefix})
			}
			if n.t.kind == nested {
				prefix := fr.prefix
				if self {
					prefix = conjoin(prefix, n.atom.literal(true))
				}
				stack = append(stack, frame{node: n.t.node, prefix: prefix})
			}
		}
	}
}

// String joins the clauses into the final when-clause.
func (t *Tree) String() string {
	var clauses []string
	for clause := range t.Clauses() {
		if clause == "" {
			return True
		}
		clauses = append(clauses, clause)
	}
	return strings.Join(clauses, " || ")
}

func conjoin(prefix, literal string) string {
	if prefix == "" {
		return literal
	}
	if literal == "" {
		return prefix
	}
	return prefix + " && " + literal
}
