package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestComponent_CamposFijos(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "debug", Service: "materias-primas", Version: "1.2.0", Out: &buf})

	zl := l.Component("posting_engine")
	zl.Info().Str("document_id", "D1").Msg("documento confirmado")

	m := decodeLine(t, &buf)
	assert.Equal(t, "posting_engine", m["component"])
	assert.Equal(t, "materias-primas", m["service"])
	assert.Equal(t, "1.2.0", m["version"])
	assert.Equal(t, "D1", m["document_id"])
	assert.Equal(t, "info", m["level"])
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "ruidoso", Out: &buf})

	l.Debug().Msg("oculto")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("visible")
	assert.Equal(t, "warn", decodeLine(t, &buf)["level"])
}

func TestWithTrace(t *testing.T) {
	var buf bytes.Buffer
	zl := New(Config{Env: "production", Out: &buf}).Component("documents")

	sinTraza := WithTrace(context.Background(), zl)
	sinTraza.Info().Msg("sin traza")
	assert.NotContains(t, decodeLine(t, &buf), "trace_id")
	buf.Reset()

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	conTraza := WithTrace(ctx, zl)
	conTraza.Info().Msg("con traza")
	m := decodeLine(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", m["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", m["span_id"])
	assert.Equal(t, "documents", m["component"])
}
