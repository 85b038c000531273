/*
Package observability exports simulation metrics to Prometheus.

Metrics plugs into the task runner through domain.LifecycleHooks, so the
runner itself stays unaware of the metrics backend:

	m := observability.NewMetrics(prometheus.NewRegistry())
	r := taskrunner.New(users, history, dispatcher, taskrunner.WithHooks(m.Hooks()))
	mux.Handle("/metrics", m.Handler())
*/
package observability
