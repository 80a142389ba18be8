package contrib

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/ports"
	"github.com/aretw0/contrib/pkg/registry"
)

// ExternalCommand is a callable reference to a host command.
//
//	open := c.ExternalCommand("vscode.open")
//	_, err := open.Call(ctx, fileURI)
type ExternalCommand struct {
	c  *Contributions
	id string
}

// ID returns the command id.
func (e *ExternalCommand) ID() string {
	return e.id
}

// Call executes the command on the attached host.
func (e *ExternalCommand) Call(ctx context.Context, args ...any) (any, error) {
	host, err := e.c.getHost()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := host.ExecuteCommand(ctx, e.id, args...)
	if e.c.hooks.OnCommandExecute != nil {
		e.c.hooks.OnCommandExecute(ctx, &domain.CommandEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventCommandExecute},
			CommandID: e.id,
			Duration:  time.Since(start),
			IsError:   err != nil,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("command %s: %w", e.id, err)
	}
	return out, nil
}

// Command is a command contributed by this extension.
type Command struct {
	ExternalCommand
	descriptor   domain.CommandDescriptor
	isRegistered atomic.Bool
}

// Descriptor returns the declaration of the command.
func (cmd *Command) Descriptor() domain.CommandDescriptor {
	return cmd.descriptor
}

// Register binds handler to the command on the host.
//
//	d, err := greet.Register(ctx, func(ctx context.Context, args ...any) (any, error) {
//		return fmt.Sprintf("hello %v", args[0]), nil
//	})
//	defer d.Dispose()
func (cmd *Command) Register(ctx context.Context, handler registry.Handler) (ports.Disposable, error) {
	host, err := cmd.c.getHost()
	if err != nil {
		return nil, err
	}

	d, err := host.RegisterCommand(ctx, cmd.id, handler)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", cmd.id, err)
	}
	cmd.isRegistered.Store(true)
	cmd.c.logger.Debug("command registered", "command", cmd.id)

	if cmd.c.hooks.OnCommandRegister != nil {
		cmd.c.hooks.OnCommandRegister(ctx, &domain.CommandEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCommandRegister},
			CommandID: cmd.id,
		})
	}
	return d, nil
}

// Registered reports whether Register succeeded at least once.
func (cmd *Command) Registered() bool {
	return cmd.isRegistered.Load()
}

func (cmd *Command) String() string {
	return "Command(" + cmd.id + ")"
}

func (cmd *Command) registered() bool {
	return cmd.Registered()
}

func (cmd *Command) contribute(m *domain.Manifest) {
	m.AddCommand(cmd.descriptor)
}
