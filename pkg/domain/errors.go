package domain

import "errors"

// ErrNotAttached is returned when the host API is used before Attach was called.
var ErrNotAttached = errors.New("host API used before contributions were attached")

// ErrCommandNotFound is returned when a command id has no registered handler.
var ErrCommandNotFound = errors.New("command not found")

// ErrContextKeyNotFound is returned when a context store has no value for a key.
var ErrContextKeyNotFound = errors.New("context key not found")

// ErrInvalidManifest is returned when a manifest fails validation.
var ErrInvalidManifest = errors.New("invalid manifest")
