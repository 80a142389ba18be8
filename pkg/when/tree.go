package when

type branchKind uint8

const (
	unresolved branchKind = iota
	terminal
	nested
)

// branch is one side of a decision node: unresolved, a terminal result, or a
// further node.
type branch struct {
	kind  branchKind
	value bool
	node  *node
}

func (b branch) is(value bool) bool {
	return b.kind == terminal && b.value == value
}

type node struct {
	atom Atom
	t    branch
	f    branch
}

func (n *node) side(result bool) *branch {
	if result {
		return &n.t
	}
	return &n.f
}

// Assignment forces the truth value of the atom discovered at depth i to bit i.
type Assignment uint32

// Has reports whether the atom at depth evaluates to true.
func (a Assignment) Has(depth int) bool {
	return a&(1<<uint(depth)) != 0
}

// With returns a copy of a with the bit for depth set.
func (a Assignment) With(depth int) Assignment {
	return a | 1<<uint(depth)
}

// Tree is the decision tree discovered by exploring a predicate function.
// It is immutable once returned by Compiler.Explore.
type Tree struct {
	root   *node
	atoms  int
	passes int
}

// Atoms returns how many distinct tree positions were discovered.
func (t *Tree) Atoms() int {
	return t.atoms
}

// Passes returns how many times the predicate function was executed.
func (t *Tree) Passes() int {
	return t.passes
}
