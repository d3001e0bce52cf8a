package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestJSONLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf}).WithComponent(ComponentForm)
	l.Info("hello", FieldRows, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, ComponentForm, entry[FieldComponent])
	assert.EqualValues(t, 2, entry[FieldRows])
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Format: "json", Output: &buf})
	sl := NewStructuredLogger(l)

	sl.LogCalculated(context.Background(), "page-1", 2, "350", "T10/2026")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Fees calculated", entry["msg"])
	assert.Equal(t, "350", entry[FieldTotal])
	assert.Equal(t, "T10/2026", entry[FieldPeriod])
	assert.Equal(t, OpSubmit, entry[FieldOperation])

	buf.Reset()
	sl.LogError(context.Background(), "boom", errors.New("bad"), ComponentHTTP, OpRender, nil)
	entry = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "bad", entry[FieldError])
	assert.Equal(t, "ERROR", entry["level"])
}

func TestMiddlewareStoresLogger(t *testing.T) {
	l := New(DefaultConfig()).WithComponent(ComponentHTTP)
	var got *Logger
	h := Middleware(l)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
		})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, got)
	assert.Equal(t, ComponentHTTP, got.Component())

	assert.Equal(t, "unknown", FromContext(context.Background()).Component())
}
