// Package metric provides Prometheus metrics for Tea Taster.
//
// A Registry owns its own prometheus.Registry, so tests and multiple stores
// in one process do not collide on the global default registry.
//
// Metrics:
//
//   - teataster_store_actions_total{type}
//   - teataster_store_effect_failures_total{effect}
//   - teataster_http_requests_total{method,route,status}
//   - teataster_http_request_duration_seconds{method,route}
//   - teataster_vault_unlock_attempts_total{result}
//
// The dev server exposes them at /metrics.
package metric
