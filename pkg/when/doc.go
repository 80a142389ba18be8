/*
Package when compiles ordinary Go boolean functions into flat when-clause strings.

A host rule evaluator can only parse simple expressions made of atoms combined with
"&&", "||" and "!". Instead of analysing Go source, the compiler executes the function
repeatedly, each time handing it a Context whose predicate reads return values driven
by a bit assignment. Every distinct predicate read is recorded as an Atom in a decision
tree, and the tree is finally serialized into a disjunction of conjunctions.

	expr, err := when.Compile(func(c when.Context) bool {
		if c.Get("editorFocus").Truthy() {
			return c.Get("resourceLangId").Equals("go")
		}
		return c.Get("view").Equals("explorer")
	})
	// expr == "editorFocus && resourceLangId == go || !editorFocus && view == explorer"

The function must be a pure function of the predicates it reads. Reading a different
predicate at a position that an earlier pass already explored fails with
ErrNonDeterministic, and more than MaxDepth predicates along one path fail with
ErrDepthExceeded.

Compiled strings can be parsed back with Parse and evaluated, which is how the
command line tool and the host bridges check clauses against live context values.
*/
package when
