/*
Package ports defines the driven ports (interfaces) contrib talks to.

These interfaces decouple contributions from the concrete extension host and from
the place where context key values are mirrored, so the same declarations work
against an in-process host, an HTTP bridge or an MCP agent.

# Key Interfaces

  - Host: Executes and registers commands and shows messages (the extension host API).
  - ContextStore: Mirrors the context key values pushed to the host with setContext.
*/
package ports
