package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})

	m, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return m
}

func TestNewMetricsRegistersInstruments(t *testing.T) {
	m := newTestMetrics(t)

	assert.NotNil(t, m.httpRequestsTotal)
	assert.NotNil(t, m.httpRequestDuration)
	assert.NotNil(t, m.activePrincipals)
	assert.NotNil(t, m.googleAPIOperationsTotal)
	assert.NotNil(t, m.googleAPIOperationDuration)
	assert.NotNil(t, m.oauthAuthTotal)
	assert.NotNil(t, m.classificationsTotal)
	assert.NotNil(t, m.statsCacheAccessTotal)
	assert.NotNil(t, m.tokenSweepRemovals)
}

func TestRecordMethods(t *testing.T) {
	m := newTestMetrics(t)
	ctx := context.Background()

	// None of these should panic with fully initialized instruments.
	m.RecordHTTPRequest(ctx, "GET", "/api/meetings", 200, 42*time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, "calendar", "events.list", "success", 120*time.Millisecond)
	m.RecordOAuthAuth(ctx, ResultSuccess)
	m.RecordOAuthAuth(ctx, ResultFailure)
	m.RecordClassification(ctx, true)
	m.RecordClassification(ctx, false)
	m.RecordCacheAccess(ctx, true)
	m.RecordCacheAccess(ctx, false)
	m.RecordTokenSweep(ctx, 3)
	m.IncrementActivePrincipals(ctx)
	m.DecrementActivePrincipals(ctx)
}

func TestZeroValueMetricsIsNoOp(t *testing.T) {
	m := &Metrics{}
	ctx := context.Background()

	// A zero-value recorder must be safe everywhere instrumentation is
	// disabled.
	m.RecordHTTPRequest(ctx, "GET", "/", 200, time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, "calendar", "events.list", "error", time.Second)
	m.RecordOAuthAuth(ctx, ResultSuccess)
	m.RecordClassification(ctx, true)
	m.RecordCacheAccess(ctx, false)
	m.RecordTokenSweep(ctx, 1)
	m.IncrementActivePrincipals(ctx)
	m.DecrementActivePrincipals(ctx)
}

func TestRecordTokenSweepIgnoresNonPositive(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordTokenSweep(context.Background(), 0)
	m.RecordTokenSweep(context.Background(), -2)
}
