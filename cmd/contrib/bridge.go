package main

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/contrib"
	"github.com/aretw0/contrib/pkg/adapters/memory"
	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/observability"
	"github.com/aretw0/contrib/pkg/ports"
	"github.com/aretw0/contrib/pkg/registry"
	"github.com/aretw0/contrib/pkg/schema"
	"github.com/aretw0/contrib/pkg/when"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// bridge is the in-process host shared by serve and mcp.
type bridge struct {
	host     ports.Host
	store    ports.ContextStore
	manifest func() *domain.Manifest
	schema   schema.Schema
	metrics  *observability.Metrics
	closer   io.Closer
}

// callingHost routes command executions through the contributions so that
// lifecycle hooks observe them.
type callingHost struct {
	ports.Host
	c *contrib.Contributions
}

func (h callingHost) ExecuteCommand(ctx context.Context, id string, args ...any) (any, error) {
	return h.c.ExternalCommand(id).Call(ctx, args...)
}

func newBridge(ctx context.Context) (*bridge, error) {
	f, m, err := loadContributions()
	if err != nil {
		return nil, err
	}
	sc, err := f.Schema()
	if err != nil {
		return nil, err
	}

	store, closer, err := newContextStore()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	host := memory.NewHost(memory.WithContextStore(store))
	c := contrib.New(
		contrib.WithHost(host),
		contrib.WithLogger(app.logger),
		contrib.WithLifecycleHooks(observability.Chain(metrics.LifecycleHooks(), observability.LogHooks(app.logger))),
		contrib.WithCompilerOptions(when.WithLogger(app.logger), when.WithHooks(metrics.CompilerHooks())),
	)

	if err := registerBuiltins(ctx, c, m, store); err != nil {
		closer.Close()
		return nil, err
	}

	return &bridge{
		host:     callingHost{Host: host, c: c},
		store:    store,
		manifest: func() *domain.Manifest { return m },
		schema:   sc,
		metrics:  metrics,
		closer:   closer,
	}, nil
}

// registerBuiltins registers the commands every bridge answers to.
func registerBuiltins(ctx context.Context, c *contrib.Contributions, m *domain.Manifest, store ports.ContextStore) error {
	handlers := map[string]registry.Handler{
		"contrib.manifest": func(ctx context.Context, args ...any) (any, error) {
			return m, nil
		},
		"contrib.evaluate": func(ctx context.Context, args ...any) (any, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("expected a clause, got %d arguments", len(args))
			}
			clause, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("clause must be a string, got %T", args[0])
			}
			dnf, err := when.Parse(clause)
			if err != nil {
				return nil, err
			}
			values, err := store.All(ctx)
			if err != nil {
				return nil, err
			}
			return dnf.EvalValues(values)
		},
	}

	for _, id := range []string{"contrib.manifest", "contrib.evaluate"} {
		cmd := c.Command(domain.CommandDescriptor{ID: id})
		if _, err := cmd.Register(ctx, handlers[id]); err != nil {
			return err
		}
	}
	return c.AssertRegistered(ctx)
}
