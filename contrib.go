package contrib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/ports"
	"github.com/aretw0/contrib/pkg/when"
)

// contribution is anything that writes itself into the manifest.
type contribution interface {
	fmt.Stringer
	registered() bool
	contribute(m *domain.Manifest)
}

// Contributions is the high-level entry point of the library. It collects the
// declared commands and menus and holds the host they proxy to.
type Contributions struct {
	mu            sync.Mutex
	host          ports.Host
	contributions []contribution

	store        ports.ContextStore
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	compilerOpts []when.Option
}

// Option defines a functional option for configuring Contributions.
type Option func(*Contributions)

// WithHost attaches the host at construction time.
func WithHost(host ports.Host) Option {
	return func(c *Contributions) {
		c.host = host
	}
}

// WithContextStore mirrors every context key update into store.
func WithContextStore(store ports.ContextStore) Option {
	return func(c *Contributions) {
		c.store = store
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Contributions) {
		c.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Contributions) {
		c.logger = logger
	}
}

// WithCompilerOptions sets the options used by When to compile clauses.
func WithCompilerOptions(opts ...when.Option) Option {
	return func(c *Contributions) {
		c.compilerOpts = append(c.compilerOpts, opts...)
	}
}

// New creates an empty set of contributions.
func New(opts ...Option) *Contributions {
	c := &Contributions{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Attach sets the host API. Until it is called, every call that reaches the
// host fails with domain.ErrNotAttached.
func (c *Contributions) Attach(host ports.Host) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.host = host
}

func (c *Contributions) getHost() (ports.Host, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.host == nil {
		return nil, fmt.Errorf("%w: call Attach before using the host API", domain.ErrNotAttached)
	}
	return c.host, nil
}

func (c *Contributions) add(item contribution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contributions = append(c.contributions, item)
}

// Command declares a command that this extension contributes and must register.
func (c *Contributions) Command(descriptor domain.CommandDescriptor) *Command {
	cmd := &Command{
		ExternalCommand: ExternalCommand{c: c, id: descriptor.ID},
		descriptor:      descriptor,
	}
	c.add(cmd)
	return cmd
}

// ExternalCommand returns a callable reference to a command owned by someone
// else. It is never contributed and cannot be registered.
func (c *Contributions) ExternalCommand(id string) *ExternalCommand {
	return &ExternalCommand{c: c, id: id}
}

// Menu declares a menu reference.
func (c *Contributions) Menu(id string) *Menu {
	m := &Menu{c: c, id: id}
	c.add(m)
	return m
}

// When wraps fn as a clause compiled with the configured compiler options.
func (c *Contributions) When(fn when.Func) *when.Expression {
	return when.New(fn, c.compilerOpts...)
}

// UnregisteredError lists contributions that were declared but never registered.
type UnregisteredError struct {
	Contributions []string
}

func (e *UnregisteredError) Error() string {
	return "one or more contributions were not registered: " + strings.Join(e.Contributions, ", ")
}

// AssertRegistered checks that every declared command was registered. When a
// host is attached the problem is shown to the user through it; otherwise an
// *UnregisteredError is returned.
func (c *Contributions) AssertRegistered(ctx context.Context) error {
	c.mu.Lock()
	var missing []string
	for _, item := range c.contributions {
		if !item.registered() {
			missing = append(missing, item.String())
		}
	}
	host := c.host
	c.mu.Unlock()

	if len(missing) == 0 {
		return nil
	}

	err := &UnregisteredError{Contributions: missing}
	if host != nil {
		c.logger.Warn("unregistered contributions", "contributions", missing)
		return host.ShowErrorMessage(ctx, err.Error())
	}
	return err
}

// Manifest serializes every declared contribution, in declaration order.
func (c *Contributions) Manifest() *domain.Manifest {
	c.mu.Lock()
	items := append([]contribution(nil), c.contributions...)
	c.mu.Unlock()

	m := domain.NewManifest()
	for _, item := range items {
		item.contribute(m)
	}
	return m
}

// MarshalJSON renders the manifest.
func (c *Contributions) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Manifest())
}
