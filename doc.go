/*
Package contrib lets an extension declare what it contributes to its host in Go.

Commands, menus and context keys are declared once, in code, next to the handlers
that implement them. The same declarations produce the manifest (the activation
events and contributes section of package.json) and, at runtime, proxy calls to
the host API.

Menu visibility rules are written as ordinary Go functions and compiled into
when-clauses by package when:

	c := contrib.New()
	hello := c.Command(domain.CommandDescriptor{ID: "ext.hello", Title: "Say Hello"})
	lang := contrib.NewContextKey[string](c, "ext.lang")

	err := c.Menu("editor/title").Group("navigation", contrib.MenuItem{
		Command: hello,
		When: c.When(func(wc when.Context) bool {
			return lang.Equals(wc, "go") || wc.Get("editorReadonly").Truthy()
		}),
	})

	// At build time: write the manifest.
	data, _ := json.MarshalIndent(c, "", "  ")

	// At runtime: attach the host and register handlers.
	c.Attach(host)
	_, err = hello.Register(ctx, func(ctx context.Context, args ...any) (any, error) {
		return "hello", nil
	})
	_ = lang.Set(ctx, "go")

AssertRegistered reports commands that were declared but never registered.
*/
package contrib
