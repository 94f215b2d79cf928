package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingHandler records slog records for assertions.
type capturingHandler struct {
	records []slog.Record
}

func (h *capturingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}

func (h *capturingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *capturingHandler) WithGroup(string) slog.Handler      { return h }

func TestLoggingMiddleware(t *testing.T) {
	captured := &capturingHandler{}
	logger := slog.New(captured)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":null,"error":null}`))
	})

	handler := LoggingMiddleware(logger, next)

	r := httptest.NewRequest("POST", "/fishery/ponds", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Len(t, captured.records, 1)
	rec := captured.records[0]
	assert.Equal(t, "request", rec.Message)

	attrs := map[string]slog.Value{}
	rec.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})
	assert.Equal(t, "POST", attrs["method"].String())
	assert.Equal(t, "/fishery/ponds", attrs["path"].String())
	assert.Equal(t, int64(http.StatusCreated), attrs["status"].Int64())
	assert.Equal(t, int64(26), attrs["bytes"].Int64())
	assert.Contains(t, attrs, "duration_ms")
}

func TestLoggingMiddleware_DefaultStatus(t *testing.T) {
	captured := &capturingHandler{}
	logger := slog.New(captured)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	handler := LoggingMiddleware(logger, next)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	require.Len(t, captured.records, 1)
	var status int64
	captured.records[0].Attrs(func(a slog.Attr) bool {
		if a.Key == "status" {
			status = a.Value.Int64()
		}
		return true
	})
	assert.Equal(t, int64(http.StatusOK), status)
}
