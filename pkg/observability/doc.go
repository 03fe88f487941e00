/*
Package observability provides tools for monitoring a form.

It turns the engine's lifecycle hooks into Prometheus metrics and structured log
records. Both are plain domain.LifecycleHooks values and can be combined with
LifecycleHooks.Merge.

	reg := prometheus.NewRegistry()
	metrics := observability.MustNewMetrics(reg)

	form, err := sform.New(cfg,
		sform.WithLifecycleHooks(metrics.Hooks()),
		sform.WithLifecycleHooks(observability.LogHooks(logger)),
	)
*/
package observability
