/*
Package observability provides tools for monitoring contrib at runtime.

Metrics turns compiler and lifecycle hooks into Prometheus collectors, and
LogHooks reports the same events through a structured logger. Hooks of both
kinds can be combined with Chain.

	m := observability.NewMetrics(prometheus.NewRegistry())
	c := contrib.New(
		contrib.WithLifecycleHooks(observability.Chain(m.LifecycleHooks(), observability.LogHooks(logger))),
		contrib.WithCompilerOptions(when.WithHooks(m.CompilerHooks())),
	)
	http.Handle("/metrics", m.Handler())
*/
package observability
