/*
Package observability turns expansion lifecycle events into Prometheus metrics.

Metrics registers its collectors on a caller-supplied registry and exposes a
domain.LifecycleHooks value that the resolver and expander call into. Combine
chains several hook sets so logging and metrics can observe the same run.
*/
package observability
