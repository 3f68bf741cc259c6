package slogx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_TagsServiceIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Service: "storefront",
		Version: "v-test",
		Env:     "test",
		Level:   "info",
		Format:  "json",
		Output:  &buf,
	})

	logger.Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "storefront", line["service"])
	require.Equal(t, "v-test", line["version"])
	require.Equal(t, "test", line["env"])
	require.Equal(t, "hello", line["msg"])
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Output: &buf})

	logger.Info("dropped")
	require.Zero(t, buf.Len())

	logger.Warn("kept")
	require.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))

	var buf bytes.Buffer
	attached := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithContext(context.Background(), attached)
	require.Same(t, attached, FromContext(ctx))
}

func TestHTTPMiddleware_LogsRequestWithID(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Service: "storefront", Format: "json", Output: &buf})

	handler := HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The contextual logger carries the request tags downstream.
		FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	for _, raw := range lines {
		var line map[string]any
		require.NoError(t, json.Unmarshal(raw, &line))
		require.Equal(t, "req-42", line["req_id"])
		require.Equal(t, "/v1/products", line["path"])
	}

	var final map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &final))
	require.Equal(t, "http_request", final["msg"])
	require.Equal(t, float64(http.StatusTeapot), final["status"])
}
