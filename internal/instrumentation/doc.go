// Package instrumentation provides OpenTelemetry instrumentation for the
// clocked-in backend.
//
// # Metrics
//
// Server/HTTP:
//   - http_requests_total: Counter of HTTP requests by method, path, status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - active_principals: Gauge of principals holding live credentials
//
// Upstream calendar:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// OAuth:
//   - oauth_auth_total: Counter of OAuth authentication attempts by result
//
// Domain:
//   - meeting_classifications_total: Counter of classified events by verdict
//   - stats_cache_access_total: Counter of stats cache reads by result
//   - token_sweep_removals_total: Counter of credentials removed by the expiry sweep
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: clockedin)
package instrumentation
