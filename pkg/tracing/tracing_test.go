package tracing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
)

func rootDecision(t *testing.T, s sdktrace.Sampler) sdktrace.SamplingDecision {
	t.Helper()
	return s.ShouldSample(sdktrace.SamplingParameters{
		TraceID: trace.TraceID{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		Name:    "POST /api/screens",
	}).Decision
}

func TestSamplerClampsRatio(t *testing.T) {
	assert.Equal(t, sdktrace.RecordAndSample, rootDecision(t, Sampler(1)))
	assert.Equal(t, sdktrace.RecordAndSample, rootDecision(t, Sampler(7)))
	assert.Equal(t, sdktrace.Drop, rootDecision(t, Sampler(0)))
	assert.Equal(t, sdktrace.Drop, rootDecision(t, Sampler(-1)))
	assert.Contains(t, Sampler(0.5).Description(), "TraceIDRatioBased")
}

func TestResourceNamesService(t *testing.T) {
	res, err := Resource("webbuddy-api", "staging")
	require.NoError(t, err)

	name, ok := res.Set().Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "webbuddy-api", name.AsString())

	env, ok := res.Set().Value(semconv.DeploymentEnvironmentNameKey)
	require.True(t, ok)
	assert.Equal(t, "staging", env.AsString())
}
