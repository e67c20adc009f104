package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrVerdict   = "verdict"
)

// Result values recorded on counters.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultHit     = "hit"
	ResultMiss    = "miss"
)

// Metrics provides methods for recording observability metrics. The zero
// value is a usable no-op recorder, so instrumentation can be disabled
// without nil checks at every call site.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activePrincipals    metric.Int64UpDownCounter

	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// OAuth metrics
	oauthAuthTotal metric.Int64Counter

	// Domain metrics
	classificationsTotal  metric.Int64Counter
	statsCacheAccessTotal metric.Int64Counter
	tokenSweepRemovals    metric.Int64Counter
}

// NewMetrics creates a Metrics instance with all instruments registered
// on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.activePrincipals, err = meter.Int64UpDownCounter(
		"active_principals",
		metric.WithDescription("Number of principals with live credentials"),
		metric.WithUnit("{principal}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_principals gauge: %w", err)
	}

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	m.oauthAuthTotal, err = meter.Int64Counter(
		"oauth_auth_total",
		metric.WithDescription("Total number of OAuth authentication attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_auth_total counter: %w", err)
	}

	m.classificationsTotal, err = meter.Int64Counter(
		"meeting_classifications_total",
		metric.WithDescription("Total number of classified calendar events"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create meeting_classifications_total counter: %w", err)
	}

	m.statsCacheAccessTotal, err = meter.Int64Counter(
		"stats_cache_access_total",
		metric.WithDescription("Total number of stats cache reads"),
		metric.WithUnit("{read}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats_cache_access_total counter: %w", err)
	}

	m.tokenSweepRemovals, err = meter.Int64Counter(
		"token_sweep_removals_total",
		metric.WithDescription("Total number of credentials removed by the expiry sweep"),
		metric.WithUnit("{credential}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token_sweep_removals_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status
// code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordGoogleAPIOperation records a Google API operation with service,
// operation, status, and duration.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordOAuthAuth records an OAuth authentication attempt.
// Result should be ResultSuccess or ResultFailure.
func (m *Metrics) RecordOAuthAuth(ctx context.Context, result string) {
	if m.oauthAuthTotal == nil {
		return
	}
	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

// RecordClassification records one classified event by verdict.
func (m *Metrics) RecordClassification(ctx context.Context, included bool) {
	if m.classificationsTotal == nil {
		return
	}
	verdict := "excluded"
	if included {
		verdict = "included"
	}
	m.classificationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrVerdict, verdict),
	))
}

// RecordCacheAccess records one stats cache read by result.
func (m *Metrics) RecordCacheAccess(ctx context.Context, hit bool) {
	if m.statsCacheAccessTotal == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	m.statsCacheAccessTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

// RecordTokenSweep records the number of credentials removed by one
// sweep pass.
func (m *Metrics) RecordTokenSweep(ctx context.Context, removed int) {
	if m.tokenSweepRemovals == nil || removed <= 0 {
		return
	}
	m.tokenSweepRemovals.Add(ctx, int64(removed))
}

// IncrementActivePrincipals increments the active principals gauge.
func (m *Metrics) IncrementActivePrincipals(ctx context.Context) {
	if m.activePrincipals == nil {
		return
	}
	m.activePrincipals.Add(ctx, 1)
}

// DecrementActivePrincipals decrements the active principals gauge.
func (m *Metrics) DecrementActivePrincipals(ctx context.Context) {
	if m.activePrincipals == nil {
		return
	}
	m.activePrincipals.Add(ctx, -1)
}
