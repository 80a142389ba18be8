package contrib

import _ "embed"

// Version is the release of the contrib module.
//
//go:embed VERSION
var Version string
