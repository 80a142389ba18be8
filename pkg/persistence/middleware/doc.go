// Package middleware wraps a ports.ContextStore with at-rest protections for
// context values: AES-GCM envelope encryption with key rotation, and masking of
// values stored under sensitive keys.
package middleware
