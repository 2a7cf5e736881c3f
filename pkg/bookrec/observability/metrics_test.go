package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest installs a test meter provider and returns its reader.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}

	return reader, cleanup
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)
}

func TestRecordLineScanned(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("records per-kind counts", func(t *testing.T) {
		m.RecordLineScanned(ctx, "request")
		m.RecordLineScanned(ctx, "request")
		m.RecordLineScanned(ctx, "other")

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "bookrec.lines.scanned")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")
		require.NotEmpty(t, sum.DataPoints)

		found := false
		for _, dp := range sum.DataPoints {
			for _, attr := range dp.Attributes.ToSlice() {
				if attr.Key == "kind" && attr.Value.AsString() == "request" {
					found = true
					assert.GreaterOrEqual(t, dp.Value, int64(2))
				}
			}
		}
		assert.True(t, found, "Expected to find datapoint for kind=request")
	})
}

func TestRecordRecordEmitted(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("records per-outcome counts", func(t *testing.T) {
		m.RecordRecordEmitted(ctx, "SOLD")
		m.RecordRecordEmitted(ctx, "DENIED")

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "bookrec.records.emitted")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")
		assert.Len(t, sum.DataPoints, 2)
	})
}

func TestRecordRecordDropped(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("records the drop reason", func(t *testing.T) {
		m.RecordRecordDropped(ctx, "replaced")

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "bookrec.records.dropped")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")
		require.NotEmpty(t, sum.DataPoints)

		found := false
		for _, dp := range sum.DataPoints {
			for _, attr := range dp.Attributes.ToSlice() {
				if attr.Key == "reason" && attr.Value.AsString() == "replaced" {
					found = true
					assert.GreaterOrEqual(t, dp.Value, int64(1))
				}
			}
		}
		assert.True(t, found, "Expected to find datapoint for reason=replaced")
	})
}

func TestRecordCorrelation(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordCorrelation(context.Background(), 4)

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "bookrec.correlation.matches")
	require.NotNil(t, metric)

	hist, ok := metric.Data.(metricdata.Histogram[int64])
	require.True(t, ok, "Expected Histogram[int64] type")
	require.NotEmpty(t, hist.DataPoints)
}

func TestRecordScan(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("records latency with the success attribute", func(t *testing.T) {
		m.RecordScan(ctx, true, 500*time.Millisecond)
		m.RecordScan(ctx, false, 100*time.Millisecond)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "bookrec.scan.latency_ms")
		require.NotNil(t, metric)

		hist, ok := metric.Data.(metricdata.Histogram[float64])
		require.True(t, ok, "Expected Histogram type")
		assert.Len(t, hist.DataPoints, 2)
	})
}

func TestOtelMetrics_AllMethods(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	require.NotNil(t, m)

	ctx := context.Background()

	m.RecordLineScanned(ctx, "request")
	m.RecordLineIgnored(ctx, "choice")
	m.RecordRecordEmitted(ctx, "SOLD")
	m.RecordRecordDropped(ctx, "unresolved")
	m.RecordCorrelation(ctx, 3)
	m.RecordScan(ctx, true, 100*time.Millisecond)

	rm := collectMetrics(t, reader)

	assert.NotNil(t, findMetric(rm, "bookrec.lines.scanned"))
	assert.NotNil(t, findMetric(rm, "bookrec.lines.ignored"))
	assert.NotNil(t, findMetric(rm, "bookrec.records.emitted"))
	assert.NotNil(t, findMetric(rm, "bookrec.records.dropped"))
	assert.NotNil(t, findMetric(rm, "bookrec.correlation.matches"))
	assert.NotNil(t, findMetric(rm, "bookrec.scan.latency_ms"))
}

func TestNewOtelMetrics_Creation(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.NotNil(t, m.linesScanned)
	assert.NotNil(t, m.linesIgnored)
	assert.NotNil(t, m.recordsEmitted)
	assert.NotNil(t, m.recordsDropped)
	assert.NotNil(t, m.correlationMatches)
	assert.NotNil(t, m.scanLatency)
}
