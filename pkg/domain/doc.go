/*
Package domain contains the manifest model shared by every part of contrib.

It describes what an extension contributes to its host: commands, menu items
guarded by when-clauses, and the activation events that wake the extension up.
The package is kept free of I/O; loading, building and serving manifests happen
in the packages that depend on it.

# Key Entities

  - CommandDescriptor: What an author declares for a command (id, title, icon, ...).
  - CommandContribution: The serialized form of a command in the manifest.
  - MenuItem: One entry of a menu, with an optional when-clause and group.
  - Manifest: Activation events plus the contributes section of package.json.
*/
package domain
