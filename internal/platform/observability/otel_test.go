package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"pickingpacking/internal/platform/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestInit(t *testing.T) {
	var out bytes.Buffer
	instruments, shutdown, err := observability.Init(t.Context(), observability.Options{
		ServiceName: "pickingpacking-test",
		LogLevel:    "debug",
		Output:      &out,
	})
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	instruments.Logger.Debug("pass finished", "orders", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &line))
	assert.Equal(t, "pass finished", line["msg"])
	assert.InDelta(t, 3, line["orders"], 0)

	counter, err := instruments.Meter("test").Int64Counter("fulfillment.events.applied")
	require.NoError(t, err)
	counter.Add(t.Context(), 2)

	var rm metricdata.ResourceMetrics
	require.NoError(t, instruments.MetricReader.Collect(t.Context(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)

	_, span := instruments.Tracer("test").Start(t.Context(), "RunPass")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, observability.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, observability.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, observability.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, observability.ParseLevel(""))
}

func TestInstruments_NilFallsBackToNoop(t *testing.T) {
	var instruments *observability.Instruments

	assert.NotNil(t, instruments.Tracer("x"))
	assert.NotNil(t, instruments.Meter("x"))
}
