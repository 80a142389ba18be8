// Package schema loads declarative contribution files and validates context values.
//
// A contributions file is YAML or JSON:
//
//	commands:
//	  - id: ext.format
//	    title: Format Document
//	    icon: $(symbol-color)
//	menus:
//	  editor/context:
//	    - command: ext.format
//	      group: 1_modification
//	      when: editorLangId == go && !editorReadonly
//	context:
//	  ext.lang: string
//	  ext.count: int
//	  ext.tags: "[string]"
//
// Load decodes it, Validate reports every problem at once as an *AggregateError,
// and Manifest turns it into a domain.Manifest.
//
// The context section declares the type of the extension's own context keys.
// Values pushed for those keys can be checked with Validate:
//
//	s, err := file.Schema()
//	if err := schema.Validate(s, map[string]any{"ext.count": 3}); err != nil {
//	    // Handle validation errors
//	}
package schema
