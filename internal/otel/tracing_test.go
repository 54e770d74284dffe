package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func clearOTLPEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OTEL_SDK_DISABLED",
		"OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
		"OTEL_EXPORTER_OTLP_PROTOCOL",
		"OTEL_TRACES_SAMPLER",
		"OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(key, "")
	}
}

func TestInit_DisabledWithoutEndpoint(t *testing.T) {
	clearOTLPEnv(t)
	core, logs := observer.New(zapcore.InfoLevel)

	shutdown, err := Init(context.Background(), "catshell", zap.New(core))

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	entries := logs.FilterMessage("tracing_configured").All()
	require.Len(t, entries, 1)
	assert.Equal(t, false, entries[0].ContextMap()["tracing_enabled"])
}

func TestInit_SDKDisabled(t *testing.T) {
	clearOTLPEnv(t)
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")
	t.Setenv("OTEL_SDK_DISABLED", "true")
	core, logs := observer.New(zapcore.InfoLevel)

	shutdown, err := Init(context.Background(), "seed", zap.New(core))

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, false, logs.FilterMessage("tracing_configured").All()[0].ContextMap()["tracing_enabled"])
}

func TestInit_UnsupportedProtocolDegrades(t *testing.T) {
	clearOTLPEnv(t)
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "http/json")
	core, logs := observer.New(zapcore.InfoLevel)

	shutdown, err := Init(context.Background(), "seed", zap.New(core))

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("tracing_init_failed").Len())
}

func TestSampler(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want trace.Sampler
	}{
		{name: "always_on", want: trace.AlwaysSample()},
		{name: "always_off", want: trace.NeverSample()},
		{name: "traceidratio", arg: "0.25", want: trace.TraceIDRatioBased(0.25)},
		{name: "parentbased_always_on", want: trace.ParentBased(trace.AlwaysSample())},
		{name: "parentbased_always_off", want: trace.ParentBased(trace.NeverSample())},
		{name: "parentbased_traceidratio", arg: "0.5", want: trace.ParentBased(trace.TraceIDRatioBased(0.5))},
		{name: "parentbased_traceidratio", arg: "bogus", want: trace.ParentBased(trace.TraceIDRatioBased(1))},
		{name: "unknown", want: trace.ParentBased(trace.AlwaysSample())},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.arg, func(t *testing.T) {
			assert.Equal(t, tt.want.Description(), sampler(tt.name, tt.arg).Description())
		})
	}
}
