package when

import (
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// MaxDepth is the number of distinct predicates that may be read along a single
// execution path. Assignments are 32-bit patterns and bit 0 belongs to the root.
const MaxDepth = 31

// Func is a predicate function written against named context keys.
// It must be synchronous and deterministic given the predicates it reads.
type Func func(c Context) bool

// Stats describes one finished compile.
type Stats struct {
	Passes   int
	Atoms    int
	Duration time.Duration
}

// Hooks are optional callbacks for observing a Compiler.
type Hooks struct {
	OnPass    func(assignment Assignment, result bool, discovered []Atom)
	OnCompile func(stats Stats, err error)
}

// Compiler explores predicate functions. A Compiler runs one compile at a time;
// separate Compilers share nothing.
type Compiler struct {
	logger *slog.Logger
	hooks  Hooks
	active atomic.Bool
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for pass-level debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHooks registers observability callbacks.
func WithHooks(hooks Hooks) Option {
	return func(c *Compiler) {
		c.hooks = hooks
	}
}

// NewCompiler creates a Compiler.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile is a shorthand for NewCompiler().Compile(fn).
func Compile(fn Func) (string, error) {
	return NewCompiler().Compile(fn)
}

// Compile explores fn and serializes the result into a when-clause.
func (c *Compiler) Compile(fn Func) (string, error) {
	tree, err := c.Explore(fn)
	if err != nil {
		return "", err
	}
	return tree.String(), nil
}

// Explore executes fn under every reachable assignment and returns the
// resulting decision tree.
func (c *Compiler) Explore(fn Func) (*Tree, error) {
	if !c.active.CompareAndSwap(false, true) {
		return nil, misuse("", "compiler already has an active compile")
	}
	defer c.active.Store(false)

	start := time.Now()
	tree, err := c.explore(fn)

	stats := Stats{Duration: time.Since(start)}
	if tree != nil {
		stats.Passes = tree.passes
		stats.Atoms = tree.atoms
	}
	if c.hooks.OnCompile != nil {
		c.hooks.OnCompile(stats, err)
	}
	if err != nil {
		c.logger.Debug("when compile failed", "err", err)
		return nil, err
	}

	c.logger.Debug("when compile finished", "passes", stats.Passes, "atoms", stats.Atoms, "duration", stats.Duration)
	return tree, nil
}

func (c *Compiler) explore(fn Func) (*Tree, error) {
	tree := &Tree{root: &node{}}
	queue := []Assignment{0}

	for len(queue) > 0 {
		assignment := queue[0]
		queue = queue[1:]

		o := newOracle(tree.root, assignment)
		result, err := run(fn, o)
		o.active = false
		if err != nil {
			return tree, err
		}
		if err := o.store(result); err != nil {
			return tree, err
		}

		for _, atom := range o.discovered {
			queue = append(queue, assignment.With(atom.Depth))
		}
		tree.passes++
		tree.atoms += len(o.discovered)

		c.logger.Debug("when pass", "assignment", uint32(assignment), "result", result, "discovered", len(o.discovered))
		if c.hooks.OnPass != nil {
			c.hooks.OnPass(assignment, result, o.discovered)
		}
	}

	return tree, nil
}

// run invokes fn, turning an oracle panic back into an error. Panics that did
// not originate from the oracle are re-raised.
func run(fn Func, o *oracle) (result bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	return fn(o), nil
}
