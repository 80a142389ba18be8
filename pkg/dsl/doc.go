/*
Package dsl provides a fluent builder for extension manifests.

It produces the same domain.Manifest as the contrib package, but without a host:
nothing is registered and no context keys are pushed. This is useful for
generating package.json fragments at build time and for tests.

Example usage:

	b := dsl.New()

	b.Command("ext.format").
		Title("Format Document").
		Category("Ext")

	b.Menu("editor/context").
		Item("ext.format").
		Group("1_modification").
		WhenFunc(func(wc when.Context) bool {
			return wc.Get("editorLangId").Equals("go")
		})

	manifest, err := b.Build()
*/
package dsl
