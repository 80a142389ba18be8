package when

// Clause is anything that can be turned into a when-clause string.
type Clause interface {
	Compile() (string, error)
}

// Raw is a when-clause written by hand. It is passed through unchanged.
type Raw string

// Compile returns the clause text.
func (r Raw) Compile() (string, error) {
	return string(r), nil
}

// Expression is a predicate function waiting to be compiled.
type Expression struct {
	fn   Func
	opts []Option
}

// New wraps fn so it can be used wherever a Clause is expected.
// Every Compile call uses a fresh Compiler, so expressions may be compiled
// concurrently and from inside other predicate functions.
func New(fn Func, opts ...Option) *Expression {
	return &Expression{fn: fn, opts: opts}
}

// Compile explores the wrapped function.
func (e *Expression) Compile() (string, error) {
	return NewCompiler(e.opts...).Compile(e.fn)
}
