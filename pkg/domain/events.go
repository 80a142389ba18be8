package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCommandRegister EventType = "command_register"
	EventCommandExecute  EventType = "command_execute"
	EventContextSet      EventType = "context_set"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// CommandEvent reports a command being registered or executed.
type CommandEvent struct {
	EventBase
	CommandID string        `json:"command_id"`
	Duration  time.Duration `json:"duration,omitempty"`
	IsError   bool          `json:"is_error,omitempty"`
}

// ContextEvent reports a context key value pushed to the host.
type ContextEvent struct {
	EventBase
	Key   string `json:"key"`
	Value any    `json:"value,omitempty"`
}

// LifecycleHooks defines callbacks for observing contributions at runtime.
type LifecycleHooks struct {
	OnCommandRegister func(context.Context, *CommandEvent)
	OnCommandExecute  func(context.Context, *CommandEvent)
	OnContextSet      func(context.Context, *ContextEvent)
}
