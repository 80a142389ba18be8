package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/when"
)

// LogHooks reports lifecycle events through logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommandRegister: func(ctx context.Context, e *domain.CommandEvent) {
			logger.InfoContext(ctx, "command_register", "command", e.CommandID)
		},
		OnCommandExecute: func(ctx context.Context, e *domain.CommandEvent) {
			logger.InfoContext(ctx, "command_execute",
				"command", e.CommandID,
				"duration", e.Duration,
				"is_error", e.IsError,
			)
		},
		OnContextSet: func(ctx context.Context, e *domain.ContextEvent) {
			logger.DebugContext(ctx, "context_set", "key", e.Key, "value", e.Value)
		},
	}
}

// Chain calls every set of hooks in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		if h.OnCommandRegister != nil {
			prev, next := out.OnCommandRegister, h.OnCommandRegister
			out.OnCommandRegister = func(ctx context.Context, e *domain.CommandEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnCommandExecute != nil {
			prev, next := out.OnCommandExecute, h.OnCommandExecute
			out.OnCommandExecute = func(ctx context.Context, e *domain.CommandEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnContextSet != nil {
			prev, next := out.OnContextSet, h.OnContextSet
			out.OnContextSet = func(ctx context.Context, e *domain.ContextEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
	}
	return out
}

// ChainCompiler calls every set of compiler hooks in order.
func ChainCompiler(hooks ...when.Hooks) when.Hooks {
	var out when.Hooks
	for _, h := range hooks {
		if h.OnPass != nil {
			prev, next := out.OnPass, h.OnPass
			out.OnPass = func(a when.Assignment, result bool, discovered []when.Atom) {
				if prev != nil {
					prev(a, result, discovered)
				}
				next(a, result, discovered)
			}
		}
		if h.OnCompile != nil {
			prev, next := out.OnCompile, h.OnCompile
			out.OnCompile = func(stats when.Stats, err error) {
				if prev != nil {
					prev(stats, err)
				}
				next(stats, err)
			}
		}
	}
	return out
}
